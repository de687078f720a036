/*
Package localnet provides an ephemeral local Neo network for contract tests.

It's a thin layer over neotest that mirrors the way tests talk to a real node:
a Network is launched with a set of funded wallets, contract artifacts
(compiled NEF with its manifest) are deployed together with their initial
storage slots and every Wallet implements the same Call, Make, Send and
Wait methods an RPC actor provides, so generated contract bindings can be
used with it directly.

Usually it's used like this:
  - a Network with funded wallets is created using Launch
  - contract artifact is obtained from CompileArtifact or artifact.Load
  - initial storage is read with artifact.ReadStorageSlots
  - the contract is deployed with Deploy by one of the wallets
  - bindings are created for each wallet and the contract hash

Transactions sent via a Wallet are put into a new block immediately, so Wait
never blocks. Once the Network is closed every Wallet operation fails with
ErrClosed.
*/
package localnet
