/*
Package nfttest provides helpers for tests driving the NFT contract: a local
network setup with the contract deployed and a set of call wrappers, one per
contract method, that fail the test on any error.
*/
package nfttest

import (
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/nft-harness/pkg/localnet"
	"github.com/nspcc-dev/nft-harness/pkg/rpcclient/nft"
)

// Actor is an NFT contract actor that can also await transactions it sends.
// Both *localnet.Wallet and *actor.Actor implement it.
type Actor interface {
	nft.Actor

	Wait(h util.Uint256, vub uint32, err error) (*state.AppExecResult, error)
}

// Contract is a handle of the deployed NFT contract bound to the actor
// signing its calls.
type Contract struct {
	*nft.Contract

	hash  util.Uint160
	actor Actor
}

// Metadata keeps the contract handle and the wallet signing its calls
// together.
type Metadata struct {
	Contract *Contract
	Wallet   *localnet.Wallet
}

// NewContract creates a contract handle for the given hash and actor.
func NewContract(hash util.Uint160, act Actor) *Contract {
	return &Contract{
		Contract: nft.New(act, hash),
		hash:     hash,
		actor:    act,
	}
}

// Hash returns contract script hash.
func (c *Contract) Hash() util.Uint160 {
	return c.hash
}

// Wait awaits the transaction sent via the contract handle.
func (c *Contract) Wait(h util.Uint256, vub uint32, err error) (*state.AppExecResult, error) {
	return c.actor.Wait(h, vub, err)
}
