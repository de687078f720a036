// Package nft contains RPC wrappers for NFT contract.
//
// It's laid out the way neo-go contract generate-rpcwrapper does, but
// maintained manually, TestBindingMatchesManifest keeps it in sync with the
// contract manifest.
package nft

import (
	"errors"
	"fmt"
	"math/big"
	"unicode/utf8"

	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// TokenMetaData is a contract-specific nft.TokenMetaData type used by its methods.
type TokenMetaData struct {
	Name string
}

// AdminChangedEvent represents "AdminChanged" event emitted by the contract.
type AdminChangedEvent struct {
	Admin util.Uint160
}

// MintEvent represents "Mint" event emitted by the contract.
type MintEvent struct {
	Owner        util.Uint160
	TokenIdStart *big.Int
	TotalTokens  *big.Int
}

// BurnEvent represents "Burn" event emitted by the contract.
type BurnEvent struct {
	Owner   util.Uint160
	TokenId *big.Int
}

// ApprovalEvent represents "Approval" event emitted by the contract.
type ApprovalEvent struct {
	Owner    util.Uint160
	Approved util.Uint160
	TokenId  *big.Int
}

// OperatorApprovalEvent represents "OperatorApproval" event emitted by the contract.
type OperatorApprovalEvent struct {
	Owner    util.Uint160
	Operator util.Uint160
	Approve  bool
}

// TransferEvent represents "Transfer" event emitted by the contract.
type TransferEvent struct {
	From    util.Uint160
	Sender  util.Uint160
	To      util.Uint160
	TokenId *big.Int
}

// Invoker is used by ContractReader to call various safe methods.
type Invoker interface {
	Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error)
}

// Actor is used by Contract to call state-changing methods.
type Actor interface {
	Invoker

	MakeCall(contract util.Uint160, method string, params ...any) (*transaction.Transaction, error)
	MakeRun(script []byte) (*transaction.Transaction, error)
	MakeUnsignedCall(contract util.Uint160, method string, attrs []transaction.Attribute, params ...any) (*transaction.Transaction, error)
	MakeUnsignedRun(script []byte, attrs []transaction.Attribute) (*transaction.Transaction, error)
	SendCall(contract util.Uint160, method string, params ...any) (util.Uint256, uint32, error)
	SendRun(script []byte) (util.Uint256, uint32, error)
}

// ContractReader implements safe contract methods.
type ContractReader struct {
	invoker Invoker
	hash    util.Uint160
}

// Contract implements all contract methods.
type Contract struct {
	ContractReader
	actor Actor
	hash  util.Uint160
}

// NewReader creates an instance of ContractReader using provided contract hash and the given Invoker.
func NewReader(invoker Invoker, hash util.Uint160) *ContractReader {
	return &ContractReader{invoker, hash}
}

// New creates an instance of Contract using provided contract hash and the given Actor.
func New(actor Actor, hash util.Uint160) *Contract {
	return &Contract{ContractReader{actor, hash}, actor, hash}
}

// Admin invokes `admin` method of contract.
func (c *ContractReader) Admin() (util.Uint160, error) {
	return unwrap.Uint160(c.invoker.Call(c.hash, "admin"))
}

// Approved invokes `approved` method of contract.
func (c *ContractReader) Approved(tokenID *big.Int) (util.Uint160, error) {
	return unwrap.Uint160(c.invoker.Call(c.hash, "approved", tokenID))
}

// BalanceOf invokes `balanceOf` method of contract.
func (c *ContractReader) BalanceOf(owner util.Uint160) (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "balanceOf", owner))
}

// IsApprovedForAll invokes `isApprovedForAll` method of contract.
func (c *ContractReader) IsApprovedForAll(operator util.Uint160, owner util.Uint160) (bool, error) {
	return unwrap.Bool(c.invoker.Call(c.hash, "isApprovedForAll", operator, owner))
}

// MaxSupply invokes `maxSupply` method of contract.
func (c *ContractReader) MaxSupply() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "maxSupply"))
}

// MetaData invokes `metaData` method of contract.
func (c *ContractReader) MetaData(tokenID *big.Int) (*TokenMetaData, error) {
	return itemToTokenMetaData(unwrap.Item(c.invoker.Call(c.hash, "metaData", tokenID)))
}

// OwnerOf invokes `ownerOf` method of contract.
func (c *ContractReader) OwnerOf(tokenID *big.Int) (util.Uint160, error) {
	return unwrap.Uint160(c.invoker.Call(c.hash, "ownerOf", tokenID))
}

// TotalSupply invokes `totalSupply` method of contract.
func (c *ContractReader) TotalSupply() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "totalSupply"))
}

// Constructor creates a transaction invoking `constructor` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Constructor(accessControl bool, admin util.Uint160, tokenSupply *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "constructor", accessControl, admin, tokenSupply)
}

// ConstructorTransaction creates a transaction invoking `constructor` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) ConstructorTransaction(accessControl bool, admin util.Uint160, tokenSupply *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "constructor", accessControl, admin, tokenSupply)
}

// ConstructorUnsigned creates a transaction invoking `constructor` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) ConstructorUnsigned(accessControl bool, admin util.Uint160, tokenSupply *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "constructor", nil, accessControl, admin, tokenSupply)
}

// SetAdmin creates a transaction invoking `setAdmin` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SetAdmin(admin util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "setAdmin", admin)
}

// SetAdminTransaction creates a transaction invoking `setAdmin` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SetAdminTransaction(admin util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "setAdmin", admin)
}

// SetAdminUnsigned creates a transaction invoking `setAdmin` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) SetAdminUnsigned(admin util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "setAdmin", nil, admin)
}

// Mint creates a transaction invoking `mint` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Mint(amount *big.Int, owner util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "mint", amount, owner)
}

// MintTransaction creates a transaction invoking `mint` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) MintTransaction(amount *big.Int, owner util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "mint", amount, owner)
}

// MintUnsigned creates a transaction invoking `mint` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) MintUnsigned(amount *big.Int, owner util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "mint", nil, amount, owner)
}

// Burn creates a transaction invoking `burn` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Burn(tokenID *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "burn", tokenID)
}

// BurnTransaction creates a transaction invoking `burn` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) BurnTransaction(tokenID *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "burn", tokenID)
}

// BurnUnsigned creates a transaction invoking `burn` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) BurnUnsigned(tokenID *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "burn", nil, tokenID)
}

// Approve creates a transaction invoking `approve` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Approve(approved util.Uint160, tokenID *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "approve", approved, tokenID)
}

// ApproveTransaction creates a transaction invoking `approve` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) ApproveTransaction(approved util.Uint160, tokenID *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "approve", approved, tokenID)
}

// ApproveUnsigned creates a transaction invoking `approve` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) ApproveUnsigned(approved util.Uint160, tokenID *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "approve", nil, approved, tokenID)
}

// SetApprovalForAll creates a transaction invoking `setApprovalForAll` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SetApprovalForAll(approve bool, operator util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "setApprovalForAll", approve, operator)
}

// SetApprovalForAllTransaction creates a transaction invoking `setApprovalForAll` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SetApprovalForAllTransaction(approve bool, operator util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "setApprovalForAll", approve, operator)
}

// SetApprovalForAllUnsigned creates a transaction invoking `setApprovalForAll` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) SetApprovalForAllUnsigned(approve bool, operator util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "setApprovalForAll", nil, approve, operator)
}

// TransferFrom creates a transaction invoking `transferFrom` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) TransferFrom(from util.Uint160, to util.Uint160, tokenID *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "transferFrom", from, to, tokenID)
}

// TransferFromTransaction creates a transaction invoking `transferFrom` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) TransferFromTransaction(from util.Uint160, to util.Uint160, tokenID *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "transferFrom", from, to, tokenID)
}

// TransferFromUnsigned creates a transaction invoking `transferFrom` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) TransferFromUnsigned(from util.Uint160, to util.Uint160, tokenID *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "transferFrom", nil, from, to, tokenID)
}

// itemToTokenMetaData converts stack item into *TokenMetaData.
func itemToTokenMetaData(item stackitem.Item, err error) (*TokenMetaData, error) {
	if err != nil {
		return nil, err
	}
	var res = new(TokenMetaData)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of TokenMetaData from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *TokenMetaData) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 1 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	res.Name, err = func(item stackitem.Item) (string, error) {
		b, err := item.TryBytes()
		if err != nil {
			return "", err
		}
		if !utf8.Valid(b) {
			return "", errors.New("not a UTF-8 string")
		}
		return string(b), nil
	}(arr[index])
	if err != nil {
		return fmt.Errorf("field Name: %w", err)
	}

	return nil
}

// AdminChangedEventsFromApplicationLog retrieves a set of all emitted events
// with "AdminChanged" name from the provided [result.ApplicationLog].
func AdminChangedEventsFromApplicationLog(log *result.ApplicationLog) ([]*AdminChangedEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*AdminChangedEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "AdminChanged" {
				continue
			}
			event := new(AdminChangedEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize AdminChangedEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to AdminChangedEvent or
// returns an error if it's not possible to do to so.
func (e *AdminChangedEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 1 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	e.Admin, err = itemToUint160(arr[index])
	if err != nil {
		return fmt.Errorf("field Admin: %w", err)
	}

	return nil
}

// MintEventsFromApplicationLog retrieves a set of all emitted events
// with "Mint" name from the provided [result.ApplicationLog].
func MintEventsFromApplicationLog(log *result.ApplicationLog) ([]*MintEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*MintEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "Mint" {
				continue
			}
			event := new(MintEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize MintEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to MintEvent or
// returns an error if it's not possible to do to so.
func (e *MintEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 3 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	e.Owner, err = itemToUint160(arr[index])
	if err != nil {
		return fmt.Errorf("field Owner: %w", err)
	}

	index++
	e.TokenIdStart, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field TokenIdStart: %w", err)
	}

	index++
	e.TotalTokens, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field TotalTokens: %w", err)
	}

	return nil
}

// BurnEventsFromApplicationLog retrieves a set of all emitted events
// with "Burn" name from the provided [result.ApplicationLog].
func BurnEventsFromApplicationLog(log *result.ApplicationLog) ([]*BurnEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*BurnEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "Burn" {
				continue
			}
			event := new(BurnEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize BurnEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to BurnEvent or
// returns an error if it's not possible to do to so.
func (e *BurnEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 2 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	e.Owner, err = itemToUint160(arr[index])
	if err != nil {
		return fmt.Errorf("field Owner: %w", err)
	}

	index++
	e.TokenId, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field TokenId: %w", err)
	}

	return nil
}

// ApprovalEventsFromApplicationLog retrieves a set of all emitted events
// with "Approval" name from the provided [result.ApplicationLog].
func ApprovalEventsFromApplicationLog(log *result.ApplicationLog) ([]*ApprovalEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*ApprovalEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "Approval" {
				continue
			}
			event := new(ApprovalEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize ApprovalEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to ApprovalEvent or
// returns an error if it's not possible to do to so.
func (e *ApprovalEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 3 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	e.Owner, err = itemToUint160(arr[index])
	if err != nil {
		return fmt.Errorf("field Owner: %w", err)
	}

	index++
	e.Approved, err = itemToUint160(arr[index])
	if err != nil {
		return fmt.Errorf("field Approved: %w", err)
	}

	index++
	e.TokenId, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field TokenId: %w", err)
	}

	return nil
}

// OperatorApprovalEventsFromApplicationLog retrieves a set of all emitted events
// with "OperatorApproval" name from the provided [result.ApplicationLog].
func OperatorApprovalEventsFromApplicationLog(log *result.ApplicationLog) ([]*OperatorApprovalEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*OperatorApprovalEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "OperatorApproval" {
				continue
			}
			event := new(OperatorApprovalEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize OperatorApprovalEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to OperatorApprovalEvent or
// returns an error if it's not possible to do to so.
func (e *OperatorApprovalEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 3 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	e.Owner, err = itemToUint160(arr[index])
	if err != nil {
		return fmt.Errorf("field Owner: %w", err)
	}

	index++
	e.Operator, err = itemToUint160(arr[index])
	if err != nil {
		return fmt.Errorf("field Operator: %w", err)
	}

	index++
	e.Approve, err = arr[index].TryBool()
	if err != nil {
		return fmt.Errorf("field Approve: %w", err)
	}

	return nil
}

// TransferEventsFromApplicationLog retrieves a set of all emitted events
// with "Transfer" name from the provided [result.ApplicationLog].
func TransferEventsFromApplicationLog(log *result.ApplicationLog) ([]*TransferEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*TransferEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "Transfer" {
				continue
			}
			event := new(TransferEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize TransferEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to TransferEvent or
// returns an error if it's not possible to do to so.
func (e *TransferEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 4 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	e.From, err = itemToUint160(arr[index])
	if err != nil {
		return fmt.Errorf("field From: %w", err)
	}

	index++
	e.Sender, err = itemToUint160(arr[index])
	if err != nil {
		return fmt.Errorf("field Sender: %w", err)
	}

	index++
	e.To, err = itemToUint160(arr[index])
	if err != nil {
		return fmt.Errorf("field To: %w", err)
	}

	index++
	e.TokenId, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field TokenId: %w", err)
	}

	return nil
}

// itemToUint160 converts stack item into util.Uint160.
func itemToUint160(item stackitem.Item) (util.Uint160, error) {
	b, err := item.TryBytes()
	if err != nil {
		return util.Uint160{}, err
	}
	u, err := util.Uint160DecodeBytesBE(b)
	if err != nil {
		return util.Uint160{}, err
	}
	return u, nil
}
