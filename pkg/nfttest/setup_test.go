package nfttest

import (
	"math/big"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/stretchr/testify/require"
)

func TestSetup(t *testing.T) {
	deployer, owner1, owner2 := Setup(t)

	handles := []*Metadata{deployer, owner1, owner2}
	for i := range handles {
		require.Equal(t, deployer.Contract.Hash(), handles[i].Contract.Hash())
		for j := range handles[:i] {
			require.NotEqual(t, handles[i].Wallet.Address(), handles[j].Wallet.Address())
		}
	}
	require.NotEqual(t, util.Uint160{}, deployer.Contract.Hash())

	// Deployed, but not initialized.
	require.Zero(t, MaxSupply(t, owner2.Contract))
	require.Zero(t, TotalSupply(t, owner1.Contract))
}

func TestSetup_Balances(t *testing.T) {
	net, deployer, owner1, owner2 := setup(t)

	funded := big.NewInt(coinsPerWallet * amountPerCoin)
	require.Equal(t, funded, net.GASBalance(owner1.Wallet.Address()))
	require.Equal(t, funded, net.GASBalance(owner2.Wallet.Address()))
	// Deployment fees are paid by the deployer.
	require.Equal(t, -1, net.GASBalance(deployer.Wallet.Address()).Cmp(funded))
}

func TestWrappersIssueSingleCall(t *testing.T) {
	deployer, owner1, owner2 := Setup(t)
	da := &countingActor{Actor: deployer.Wallet}
	oa := &countingActor{Actor: owner1.Wallet}
	dc := NewContract(deployer.Contract.Hash(), da)
	oc := NewContract(owner1.Contract.Hash(), oa)
	acc1, acc2 := owner1.Wallet.Address(), owner2.Wallet.Address()

	steps := []struct {
		name string
		act  *countingActor
		call func()
	}{
		{"constructor", da, func() { Constructor(t, dc, true, deployer.Wallet.Address(), 10) }},
		{"mint", da, func() { Mint(t, dc, 3, acc1) }},
		{"admin", da, func() { Admin(t, dc) }},
		{"maxSupply", da, func() { MaxSupply(t, dc) }},
		{"totalSupply", da, func() { TotalSupply(t, dc) }},
		{"balanceOf", da, func() { BalanceOf(t, dc, acc1) }},
		{"ownerOf", da, func() { OwnerOf(t, dc, 0) }},
		{"metaData", da, func() { MetaData(t, dc, 0) }},
		{"approve", oa, func() { Approve(t, oc, acc2, 0) }},
		{"approved", oa, func() { Approved(t, oc, 0) }},
		{"setApprovalForAll", oa, func() { SetApprovalForAll(t, oc, true, acc2) }},
		{"isApprovedForAll", oa, func() { IsApprovedForAll(t, oc, acc2, acc1) }},
		{"transferFrom", oa, func() { TransferFrom(t, oc, acc1, acc2, 1) }},
		{"burn", oa, func() { Burn(t, oc, 0) }},
		{"setAdmin", da, func() { SetAdmin(t, dc, acc1) }},
	}
	for _, s := range steps {
		before := s.act.calls
		s.call()
		require.Equal(t, before+1, s.act.calls, s.name)
	}
}

func TestWrappersAbortOnClosedNetwork(t *testing.T) {
	net, deployer, owner1, _ := setup(t)
	c := deployer.Contract
	acc := owner1.Wallet.Address()
	Constructor(t, c, false, acc, 5)
	Mint(t, c, 1, acc)

	net.Close()
	for name, call := range map[string]func(t require.TestingT){
		"admin":             func(t require.TestingT) { Admin(t, c) },
		"approve":           func(t require.TestingT) { Approve(t, c, acc, 0) },
		"approved":          func(t require.TestingT) { Approved(t, c, 0) },
		"balanceOf":         func(t require.TestingT) { BalanceOf(t, c, acc) },
		"burn":              func(t require.TestingT) { Burn(t, c, 0) },
		"constructor":       func(t require.TestingT) { Constructor(t, c, false, acc, 5) },
		"isApprovedForAll":  func(t require.TestingT) { IsApprovedForAll(t, c, acc, acc) },
		"maxSupply":         func(t require.TestingT) { MaxSupply(t, c) },
		"mint":              func(t require.TestingT) { Mint(t, c, 1, acc) },
		"metaData":          func(t require.TestingT) { MetaData(t, c, 0) },
		"ownerOf":           func(t require.TestingT) { OwnerOf(t, c, 0) },
		"setApprovalForAll": func(t require.TestingT) { SetApprovalForAll(t, c, true, acc) },
		"setAdmin":          func(t require.TestingT) { SetAdmin(t, c, acc) },
		"totalSupply":       func(t require.TestingT) { TotalSupply(t, c) },
		"transferFrom":      func(t require.TestingT) { TransferFrom(t, c, acc, acc, 0) },
	} {
		t.Run(name, func(t *testing.T) {
			requireAborts(t, call)
		})
	}
}

func TestWrappersAbortOnFault(t *testing.T) {
	deployer, owner1, _ := Setup(t)

	requireAborts(t, func(ft require.TestingT) { Admin(ft, deployer.Contract) })
	requireAborts(t, func(ft require.TestingT) { Mint(ft, deployer.Contract, 1, owner1.Wallet.Address()) })
	requireAborts(t, func(ft require.TestingT) { OwnerOf(ft, owner1.Contract, 0) })
}
