package nfttest

import (
	"math/big"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/nspcc-dev/nft-harness/pkg/rpcclient/nft"
	"github.com/stretchr/testify/require"
)

// Admin returns the contract admin.
func Admin(t require.TestingT, c *Contract) util.Uint160 {
	admin, err := c.Admin()
	require.NoError(t, err)
	return admin
}

// Approve approves the identity to transfer the token.
func Approve(t require.TestingT, c *Contract, approved util.Uint160, tokenID uint64) *state.AppExecResult {
	return checkHalt(t)(c.Wait(c.Approve(approved, bigID(tokenID))))
}

// Approved returns the identity approved for the token, zero hash if there
// is none.
func Approved(t require.TestingT, c *Contract, tokenID uint64) util.Uint160 {
	approved, err := c.Approved(bigID(tokenID))
	require.NoError(t, err)
	return approved
}

// BalanceOf returns the number of tokens owned by the identity.
func BalanceOf(t require.TestingT, c *Contract, owner util.Uint160) uint64 {
	return toUint64(t)(c.BalanceOf(owner))
}

// Burn burns the token.
func Burn(t require.TestingT, c *Contract, tokenID uint64) *state.AppExecResult {
	return checkHalt(t)(c.Wait(c.Burn(bigID(tokenID))))
}

// Constructor initializes the contract.
func Constructor(t require.TestingT, c *Contract, accessControl bool, owner util.Uint160, tokenSupply uint64) *state.AppExecResult {
	return checkHalt(t)(c.Wait(c.Constructor(accessControl, owner, bigID(tokenSupply))))
}

// IsApprovedForAll checks whether operator is allowed to transfer all tokens
// of owner.
func IsApprovedForAll(t require.TestingT, c *Contract, operator, owner util.Uint160) bool {
	ok, err := c.IsApprovedForAll(operator, owner)
	require.NoError(t, err)
	return ok
}

// MaxSupply returns the maximum number of tokens.
func MaxSupply(t require.TestingT, c *Contract) uint64 {
	return toUint64(t)(c.MaxSupply())
}

// Mint mints amount tokens to owner.
func Mint(t require.TestingT, c *Contract, amount uint64, owner util.Uint160) *state.AppExecResult {
	return checkHalt(t)(c.Wait(c.Mint(bigID(amount), owner)))
}

// MetaData returns metadata of the token.
func MetaData(t require.TestingT, c *Contract, tokenID uint64) *nft.TokenMetaData {
	m, err := c.MetaData(bigID(tokenID))
	require.NoError(t, err)
	return m
}

// OwnerOf returns the token owner.
func OwnerOf(t require.TestingT, c *Contract, tokenID uint64) util.Uint160 {
	owner, err := c.OwnerOf(bigID(tokenID))
	require.NoError(t, err)
	return owner
}

// SetApprovalForAll allows or disallows operator to transfer all tokens of
// the handle's wallet.
func SetApprovalForAll(t require.TestingT, c *Contract, approve bool, operator util.Uint160) *state.AppExecResult {
	return checkHalt(t)(c.Wait(c.SetApprovalForAll(approve, operator)))
}

// SetAdmin changes the contract admin.
func SetAdmin(t require.TestingT, c *Contract, admin util.Uint160) *state.AppExecResult {
	return checkHalt(t)(c.Wait(c.SetAdmin(admin)))
}

// TotalSupply returns the number of existing tokens.
func TotalSupply(t require.TestingT, c *Contract) uint64 {
	return toUint64(t)(c.TotalSupply())
}

// TransferFrom transfers the token.
func TransferFrom(t require.TestingT, c *Contract, from, to util.Uint160, tokenID uint64) *state.AppExecResult {
	return checkHalt(t)(c.Wait(c.TransferFrom(from, to, bigID(tokenID))))
}

func bigID(id uint64) *big.Int {
	return new(big.Int).SetUint64(id)
}

func toUint64(t require.TestingT) func(*big.Int, error) uint64 {
	return func(v *big.Int, err error) uint64 {
		require.NoError(t, err)
		require.True(t, v.IsUint64(), "%s doesn't fit into uint64", v)
		return v.Uint64()
	}
}

func checkHalt(t require.TestingT) func(*state.AppExecResult, error) *state.AppExecResult {
	return func(res *state.AppExecResult, err error) *state.AppExecResult {
		require.NoError(t, err)
		require.Equal(t, vmstate.Halt, res.VMState, "transaction failed: %s", res.FaultException)
		return res
	}
}
