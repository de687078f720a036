/*
Package nft contains a non-fungible token contract with a supply ceiling,
optional minting access control, per-token approvals and operator approvals.
Every token is identified by a sequential integer ID and is owned by exactly
one identity (account or contract script hash) at a time.

Initial storage can be provided as deployment data: an array of [key, value]
pairs that are stored as is when the contract is deployed (the harness uses it
to load the storage slots descriptor).
*/
package nft

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// Prefixes and keys used for contract data storage.
const (
	ownerPrefix    = "o"
	approvedPrefix = "p"
	balancePrefix  = "b"
	operatorPrefix = "r"
	metaDataPrefix = "m"

	adminKey         = "admin"
	accessControlKey = "access"
	maxSupplyKey     = "max"
	totalSupplyKey   = "supply"
	tokensMintedKey  = "minted"

	// metaDataNameKey is the storage slot holding the name given
	// to every minted token.
	metaDataNameKey = "metadataName"
)

// TokenMetaData is the metadata attached to every minted token.
type TokenMetaData struct {
	Name string
}

// _deploy stores initial storage slots passed as deployment data.
func _deploy(data any, isUpdate bool) {
	if isUpdate || data == nil {
		return
	}
	ctx := storage.GetContext()
	slots := data.([]any)
	for i := range slots {
		slot := slots[i].([]any)
		if len(slot) != 2 {
			panic("invalid storage slot")
		}
		storage.Put(ctx, slot[0].([]byte), slot[1])
	}
}

// Constructor initializes the contract: it sets the admin, enables or disables
// minting access control and sets the maximum number of tokens that can ever
// be minted. It can only be called once.
func Constructor(accessControl bool, admin interop.Hash160, tokenSupply int) {
	if len(admin) != interop.Hash160Len {
		panic("invalid admin")
	}
	ctx := storage.GetContext()
	if getInt(ctx, maxSupplyKey) != 0 {
		panic("cannot reinitialize")
	}
	if tokenSupply <= 0 {
		panic("token supply cannot be zero")
	}
	storage.Put(ctx, adminKey, admin)
	if accessControl {
		storage.Put(ctx, accessControlKey, 1)
	}
	storage.Put(ctx, maxSupplyKey, tokenSupply)
}

// Admin returns the identity allowed to mint tokens when access control is on.
func Admin() interop.Hash160 {
	admin := storage.Get(storage.GetReadOnlyContext(), adminKey)
	if admin == nil {
		panic("admin does not exist")
	}
	return admin.(interop.Hash160)
}

// SetAdmin changes the admin, only the current admin can do that.
func SetAdmin(admin interop.Hash160) {
	if len(admin) != interop.Hash160Len {
		panic("invalid admin")
	}
	ctx := storage.GetContext()
	if !isIdentity(storage.Get(ctx, adminKey), sender()) {
		panic("sender cannot set admin")
	}
	storage.Put(ctx, adminKey, admin)
	runtime.Notify("AdminChanged", admin)
}

// Mint creates amount new tokens with sequential IDs and gives them to owner.
func Mint(amount int, owner interop.Hash160) {
	if len(owner) != interop.Hash160Len {
		panic("invalid owner")
	}
	if amount <= 0 {
		panic("invalid amount")
	}
	ctx := storage.GetContext()
	minted := getInt(ctx, tokensMintedKey)
	total := minted + amount
	if total > getInt(ctx, maxSupplyKey) {
		panic("not enough tokens to mint")
	}
	if storage.Get(ctx, accessControlKey) != nil && !isIdentity(storage.Get(ctx, adminKey), sender()) {
		panic("sender is not admin")
	}

	var name string
	if val := storage.Get(ctx, metaDataNameKey); val != nil {
		name = val.(string)
	}
	meta := std.Serialize(TokenMetaData{Name: name})
	for i := minted; i < total; i++ {
		id := std.Itoa10(i)
		storage.Put(ctx, ownerPrefix+id, owner)
		storage.Put(ctx, metaDataPrefix+id, meta)
	}
	addToBalance(ctx, owner, amount)
	storage.Put(ctx, tokensMintedKey, total)
	storage.Put(ctx, totalSupplyKey, getInt(ctx, totalSupplyKey)+amount)
	runtime.Notify("Mint", owner, minted, amount)
}

// Burn destroys the token, only its owner can do that.
func Burn(tokenID int) {
	ctx := storage.GetContext()
	id := std.Itoa10(tokenID)
	owner := getOwner(ctx, id)
	if !owner.Equals(sender()) {
		panic("sender is not owner")
	}
	storage.Delete(ctx, ownerPrefix+id)
	storage.Delete(ctx, approvedPrefix+id)
	addToBalance(ctx, owner, -1)
	storage.Put(ctx, totalSupplyKey, getInt(ctx, totalSupplyKey)-1)
	runtime.Notify("Burn", owner, tokenID)
}

// Approve allows approved identity to transfer the token, only the token
// owner can do that.
func Approve(approved interop.Hash160, tokenID int) {
	if len(approved) != interop.Hash160Len {
		panic("invalid approved")
	}
	ctx := storage.GetContext()
	id := std.Itoa10(tokenID)
	owner := getOwner(ctx, id)
	if !owner.Equals(sender()) {
		panic("sender is not owner")
	}
	storage.Put(ctx, approvedPrefix+id, approved)
	runtime.Notify("Approval", owner, approved, tokenID)
}

// Approved returns the identity approved for the token or zero hash if there
// is none.
func Approved(tokenID int) interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	id := std.Itoa10(tokenID)
	if storage.Get(ctx, ownerPrefix+id) == nil {
		panic("token does not exist")
	}
	approved := storage.Get(ctx, approvedPrefix+id)
	if approved == nil {
		return interop.Hash160{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	}
	return approved.(interop.Hash160)
}

// SetApprovalForAll allows or disallows operator to transfer all tokens of
// the sender.
func SetApprovalForAll(approve bool, operator interop.Hash160) {
	if len(operator) != interop.Hash160Len {
		panic("invalid operator")
	}
	ctx := storage.GetContext()
	owner := sender()
	key := mkOperatorKey(owner, operator)
	if approve {
		storage.Put(ctx, key, 1)
	} else {
		storage.Delete(ctx, key)
	}
	runtime.Notify("OperatorApproval", owner, operator, approve)
}

// IsApprovedForAll checks whether operator can transfer all tokens of owner.
func IsApprovedForAll(operator interop.Hash160, owner interop.Hash160) bool {
	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, mkOperatorKey(owner, operator)) != nil
}

// BalanceOf returns the number of tokens owned by the specified identity.
func BalanceOf(owner interop.Hash160) int {
	if len(owner) != interop.Hash160Len {
		panic("invalid owner")
	}
	return getInt(storage.GetReadOnlyContext(), mkBalanceKey(owner))
}

// OwnerOf returns the owner of the specified token.
func OwnerOf(tokenID int) interop.Hash160 {
	owner := storage.Get(storage.GetReadOnlyContext(), ownerPrefix+std.Itoa10(tokenID))
	if owner == nil {
		panic("owner does not exist")
	}
	return owner.(interop.Hash160)
}

// MetaData returns metadata of the token. It's kept for burned tokens too.
func MetaData(tokenID int) TokenMetaData {
	ctx := storage.GetReadOnlyContext()
	if tokenID < 0 || tokenID >= getInt(ctx, tokensMintedKey) {
		panic("token does not exist")
	}
	data := storage.Get(ctx, metaDataPrefix+std.Itoa10(tokenID))
	return std.Deserialize(data.([]byte)).(TokenMetaData)
}

// MaxSupply returns the maximum number of tokens that can be minted.
func MaxSupply() int {
	return getInt(storage.GetReadOnlyContext(), maxSupplyKey)
}

// TotalSupply returns the number of tokens in existence.
func TotalSupply() int {
	return getInt(storage.GetReadOnlyContext(), totalSupplyKey)
}

// TransferFrom moves the token from one identity to another. The sender must
// be the token owner, the identity approved for it or an operator of the owner.
func TransferFrom(from interop.Hash160, to interop.Hash160, tokenID int) {
	if len(to) != interop.Hash160Len {
		panic("invalid 'to' identity")
	}
	ctx := storage.GetContext()
	id := std.Itoa10(tokenID)
	owner := getOwner(ctx, id)
	if !owner.Equals(from) {
		panic("'from' is not owner")
	}
	caller := sender()
	approved := storage.Get(ctx, approvedPrefix+id)
	if !owner.Equals(caller) && !isIdentity(approved, caller) &&
		storage.Get(ctx, mkOperatorKey(owner, caller)) == nil {
		panic("sender is not owner or approved")
	}
	if approved != nil {
		storage.Delete(ctx, approvedPrefix+id)
	}
	storage.Put(ctx, ownerPrefix+id, to)
	addToBalance(ctx, from, -1)
	addToBalance(ctx, to, 1)
	runtime.Notify("Transfer", from, caller, to, tokenID)
}

// sender returns the transaction sender, it must be witnessed.
func sender() interop.Hash160 {
	tx := runtime.GetScriptContainer()
	if !runtime.CheckWitness(tx.Sender) {
		panic("sender is not witnessed")
	}
	return tx.Sender
}

// isIdentity checks that val is a stored identity equal to id.
func isIdentity(val any, id interop.Hash160) bool {
	if val == nil {
		return false
	}
	stored := val.(interop.Hash160)
	return stored.Equals(id)
}

func getOwner(ctx storage.Context, id string) interop.Hash160 {
	owner := storage.Get(ctx, ownerPrefix+id)
	if owner == nil {
		panic("token does not exist")
	}
	return owner.(interop.Hash160)
}

func getInt(ctx storage.Context, key any) int {
	val := storage.Get(ctx, key)
	if val == nil {
		return 0
	}
	return val.(int)
}

func addToBalance(ctx storage.Context, owner interop.Hash160, amount int) {
	key := mkBalanceKey(owner)
	balance := getInt(ctx, key) + amount
	if balance > 0 {
		storage.Put(ctx, key, balance)
	} else {
		storage.Delete(ctx, key)
	}
}

func mkBalanceKey(owner interop.Hash160) []byte {
	return append([]byte(balancePrefix), owner...)
}

func mkOperatorKey(owner, operator interop.Hash160) []byte {
	key := append([]byte(operatorPrefix), owner...)
	return append(key, operator...)
}
