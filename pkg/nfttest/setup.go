package nfttest

import (
	"testing"

	"github.com/nspcc-dev/nft-harness/pkg/artifact"
	"github.com/nspcc-dev/nft-harness/pkg/localnet"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// NFT contract artifacts, paths are relative to this package directory.
const (
	NFTContractSourcePath       = "../../contracts/nft"
	NFTContractConfigPath       = "../../contracts/nft/nft.yml"
	NFTContractStorageSlotsPath = "../../contracts/nft/storage_slots.json"
)

const (
	numWallets     = 3
	coinsPerWallet = 1
	// 1000 GAS.
	amountPerCoin = 1000_0000_0000
)

// Setup launches a local network, deploys the NFT contract with its storage
// slots on behalf of the first wallet and returns handles of three wallets
// bound to the deployed contract.
func Setup(t testing.TB) (deployer, owner1, owner2 *Metadata) {
	_, deployer, owner1, owner2 = setup(t)
	return
}

func setup(t testing.TB) (*localnet.Network, *Metadata, *Metadata, *Metadata) {
	net, wallets := localnet.Launch(t, localnet.WalletsConfig{
		NumWallets:     numWallets,
		CoinsPerWallet: coinsPerWallet,
		AmountPerCoin:  amountPerCoin,
	}, localnet.WithLogger(zaptest.NewLogger(t)))
	wallet1, wallet2, wallet3 := wallets[0], wallets[1], wallets[2]

	a := localnet.CompileArtifact(t, wallet1.Address(), NFTContractSourcePath, NFTContractConfigPath)
	slots, err := artifact.ReadStorageSlots(NFTContractStorageSlotsPath)
	require.NoError(t, err)
	h, err := net.Deploy(wallet1, a, slots)
	require.NoError(t, err)

	deployer := &Metadata{Contract: NewContract(h, wallet1), Wallet: wallet1}
	owner1 := &Metadata{Contract: NewContract(h, wallet2), Wallet: wallet2}
	owner2 := &Metadata{Contract: NewContract(h, wallet3), Wallet: wallet3}
	return net, deployer, owner1, owner2
}
