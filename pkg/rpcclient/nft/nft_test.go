package nft

import (
	"errors"
	"math/big"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

type testAct struct {
	err error
	res *result.Invoke
	tx  *transaction.Transaction
	txh util.Uint256
	vub uint32

	method string
	params []any
}

func (t *testAct) Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error) {
	t.method, t.params = operation, params
	return t.res, t.err
}
func (t *testAct) MakeCall(contract util.Uint160, method string, params ...any) (*transaction.Transaction, error) {
	t.method, t.params = method, params
	return t.tx, t.err
}
func (t *testAct) MakeRun(script []byte) (*transaction.Transaction, error) {
	return t.tx, t.err
}
func (t *testAct) MakeUnsignedCall(contract util.Uint160, method string, attrs []transaction.Attribute, params ...any) (*transaction.Transaction, error) {
	t.method, t.params = method, params
	return t.tx, t.err
}
func (t *testAct) MakeUnsignedRun(script []byte, attrs []transaction.Attribute) (*transaction.Transaction, error) {
	return t.tx, t.err
}
func (t *testAct) SendCall(contract util.Uint160, method string, params ...any) (util.Uint256, uint32, error) {
	t.method, t.params = method, params
	return t.txh, t.vub, t.err
}
func (t *testAct) SendRun(script []byte) (util.Uint256, uint32, error) {
	return t.txh, t.vub, t.err
}

func halt(items ...stackitem.Item) *result.Invoke {
	return &result.Invoke{State: "HALT", Stack: items}
}

func TestReaderUint160Methods(t *testing.T) {
	ta := new(testAct)
	r := NewReader(ta, util.Uint160{1, 2, 3})
	id := util.Uint160{3, 2, 1}

	for name, fun := range map[string]func() (util.Uint160, error){
		"admin":    r.Admin,
		"approved": func() (util.Uint160, error) { return r.Approved(big.NewInt(5)) },
		"ownerOf":  func() (util.Uint160, error) { return r.OwnerOf(big.NewInt(5)) },
	} {
		t.Run(name, func(t *testing.T) {
			ta.err = errors.New("")
			_, err := fun()
			require.Error(t, err)

			ta.err = nil
			ta.res = halt(stackitem.Make(id.BytesBE()))
			h, err := fun()
			require.NoError(t, err)
			require.Equal(t, id, h)
			require.Equal(t, name, ta.method)

			ta.res = halt(stackitem.Make([]byte{1, 2, 3}))
			_, err = fun()
			require.Error(t, err)

			ta.res = &result.Invoke{State: "FAULT", FaultException: "token does not exist"}
			_, err = fun()
			require.ErrorContains(t, err, "token does not exist")
		})
	}
}

func TestReaderIntMethods(t *testing.T) {
	ta := new(testAct)
	r := NewReader(ta, util.Uint160{1, 2, 3})

	for name, fun := range map[string]func() (*big.Int, error){
		"balanceOf":   func() (*big.Int, error) { return r.BalanceOf(util.Uint160{3, 2, 1}) },
		"maxSupply":   r.MaxSupply,
		"totalSupply": r.TotalSupply,
	} {
		t.Run(name, func(t *testing.T) {
			ta.err = errors.New("")
			_, err := fun()
			require.Error(t, err)

			ta.err = nil
			ta.res = halt(stackitem.Make(100500))
			v, err := fun()
			require.NoError(t, err)
			require.Equal(t, big.NewInt(100500), v)
			require.Equal(t, name, ta.method)

			ta.res = halt(stackitem.Make([]stackitem.Item{}))
			_, err = fun()
			require.Error(t, err)
		})
	}
}

func TestReaderIsApprovedForAll(t *testing.T) {
	ta := new(testAct)
	r := NewReader(ta, util.Uint160{1, 2, 3})
	operator, owner := util.Uint160{4}, util.Uint160{5}

	ta.err = errors.New("")
	_, err := r.IsApprovedForAll(operator, owner)
	require.Error(t, err)

	ta.err = nil
	ta.res = halt(stackitem.Make(true))
	ok, err := r.IsApprovedForAll(operator, owner)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []any{operator, owner}, ta.params)
}

func TestReaderMetaData(t *testing.T) {
	ta := new(testAct)
	r := NewReader(ta, util.Uint160{1, 2, 3})

	ta.err = errors.New("")
	_, err := r.MetaData(big.NewInt(0))
	require.Error(t, err)

	ta.err = nil
	ta.res = halt(stackitem.NewStruct([]stackitem.Item{stackitem.Make("Example")}))
	m, err := r.MetaData(big.NewInt(0))
	require.NoError(t, err)
	require.Equal(t, &TokenMetaData{Name: "Example"}, m)

	for name, item := range map[string]stackitem.Item{
		"not a struct":    stackitem.Make(1),
		"wrong length":    stackitem.NewStruct([]stackitem.Item{}),
		"bad name":        stackitem.NewStruct([]stackitem.Item{stackitem.NewMap()}),
		"non-UTF-8 name":  stackitem.NewStruct([]stackitem.Item{stackitem.Make([]byte{0xff, 0xfe})}),
		"too many fields": stackitem.NewStruct([]stackitem.Item{stackitem.Make("a"), stackitem.Make("b")}),
	} {
		t.Run(name, func(t *testing.T) {
			ta.res = halt(item)
			_, err := r.MetaData(big.NewInt(0))
			require.Error(t, err)
		})
	}
}

func TestContractMethods(t *testing.T) {
	ta := new(testAct)
	c := New(ta, util.Uint160{1, 2, 3})
	id := big.NewInt(7)
	acc := util.Uint160{3, 2, 1}

	type send func() (util.Uint256, uint32, error)
	type makeTx func() (*transaction.Transaction, error)
	testCases := []struct {
		method   string
		params   []any
		send     send
		signed   makeTx
		unsigned makeTx
	}{
		{"constructor", []any{true, acc, id},
			func() (util.Uint256, uint32, error) { return c.Constructor(true, acc, id) },
			func() (*transaction.Transaction, error) { return c.ConstructorTransaction(true, acc, id) },
			func() (*transaction.Transaction, error) { return c.ConstructorUnsigned(true, acc, id) }},
		{"setAdmin", []any{acc},
			func() (util.Uint256, uint32, error) { return c.SetAdmin(acc) },
			func() (*transaction.Transaction, error) { return c.SetAdminTransaction(acc) },
			func() (*transaction.Transaction, error) { return c.SetAdminUnsigned(acc) }},
		{"mint", []any{id, acc},
			func() (util.Uint256, uint32, error) { return c.Mint(id, acc) },
			func() (*transaction.Transaction, error) { return c.MintTransaction(id, acc) },
			func() (*transaction.Transaction, error) { return c.MintUnsigned(id, acc) }},
		{"burn", []any{id},
			func() (util.Uint256, uint32, error) { return c.Burn(id) },
			func() (*transaction.Transaction, error) { return c.BurnTransaction(id) },
			func() (*transaction.Transaction, error) { return c.BurnUnsigned(id) }},
		{"approve", []any{acc, id},
			func() (util.Uint256, uint32, error) { return c.Approve(acc, id) },
			func() (*transaction.Transaction, error) { return c.ApproveTransaction(acc, id) },
			func() (*transaction.Transaction, error) { return c.ApproveUnsigned(acc, id) }},
		{"setApprovalForAll", []any{false, acc},
			func() (util.Uint256, uint32, error) { return c.SetApprovalForAll(false, acc) },
			func() (*transaction.Transaction, error) { return c.SetApprovalForAllTransaction(false, acc) },
			func() (*transaction.Transaction, error) { return c.SetApprovalForAllUnsigned(false, acc) }},
		{"transferFrom", []any{acc, util.Uint160{9}, id},
			func() (util.Uint256, uint32, error) { return c.TransferFrom(acc, util.Uint160{9}, id) },
			func() (*transaction.Transaction, error) { return c.TransferFromTransaction(acc, util.Uint160{9}, id) },
			func() (*transaction.Transaction, error) { return c.TransferFromUnsigned(acc, util.Uint160{9}, id) }},
	}
	for _, tc := range testCases {
		t.Run(tc.method, func(t *testing.T) {
			ta.err = errors.New("")
			_, _, err := tc.send()
			require.Error(t, err)
			_, err = tc.signed()
			require.Error(t, err)
			_, err = tc.unsigned()
			require.Error(t, err)

			ta.err = nil
			ta.txh = util.Uint256{1, 2, 3}
			ta.vub = 42
			h, vub, err := tc.send()
			require.NoError(t, err)
			require.Equal(t, ta.txh, h)
			require.Equal(t, ta.vub, vub)
			require.Equal(t, tc.method, ta.method)
			require.Equal(t, tc.params, ta.params)

			ta.tx = &transaction.Transaction{Nonce: 100500, ValidUntilBlock: 42}
			for _, fun := range []makeTx{tc.signed, tc.unsigned} {
				ta.method, ta.params = "", nil
				tx, err := fun()
				require.NoError(t, err)
				require.Equal(t, ta.tx, tx)
				require.Equal(t, tc.method, ta.method)
				require.Equal(t, tc.params, ta.params)
			}
		})
	}
}

func newLog(events ...state.NotificationEvent) *result.ApplicationLog {
	return &result.ApplicationLog{
		Executions: []state.Execution{{Events: events}},
	}
}

func TestEventsFromApplicationLog(t *testing.T) {
	from, sender, to := util.Uint160{1}, util.Uint160{2}, util.Uint160{3}
	log := newLog(
		state.NotificationEvent{Name: "Mint", Item: stackitem.NewArray([]stackitem.Item{
			stackitem.Make(to.BytesBE()), stackitem.Make(0), stackitem.Make(3),
		})},
		state.NotificationEvent{Name: "Transfer", Item: stackitem.NewArray([]stackitem.Item{
			stackitem.Make(from.BytesBE()), stackitem.Make(sender.BytesBE()), stackitem.Make(to.BytesBE()), stackitem.Make(1),
		})},
		state.NotificationEvent{Name: "OperatorApproval", Item: stackitem.NewArray([]stackitem.Item{
			stackitem.Make(from.BytesBE()), stackitem.Make(sender.BytesBE()), stackitem.Make(true),
		})},
		state.NotificationEvent{Name: "Approval", Item: stackitem.NewArray([]stackitem.Item{
			stackitem.Make(from.BytesBE()), stackitem.Make(to.BytesBE()), stackitem.Make(2),
		})},
		state.NotificationEvent{Name: "Burn", Item: stackitem.NewArray([]stackitem.Item{
			stackitem.Make(from.BytesBE()), stackitem.Make(2),
		})},
		state.NotificationEvent{Name: "AdminChanged", Item: stackitem.NewArray([]stackitem.Item{
			stackitem.Make(to.BytesBE()),
		})},
	)

	mints, err := MintEventsFromApplicationLog(log)
	require.NoError(t, err)
	require.Equal(t, []*MintEvent{{Owner: to, TokenIdStart: big.NewInt(0), TotalTokens: big.NewInt(3)}}, mints)

	transfers, err := TransferEventsFromApplicationLog(log)
	require.NoError(t, err)
	require.Equal(t, []*TransferEvent{{From: from, Sender: sender, To: to, TokenId: big.NewInt(1)}}, transfers)

	ops, err := OperatorApprovalEventsFromApplicationLog(log)
	require.NoError(t, err)
	require.Equal(t, []*OperatorApprovalEvent{{Owner: from, Operator: sender, Approve: true}}, ops)

	approvals, err := ApprovalEventsFromApplicationLog(log)
	require.NoError(t, err)
	require.Equal(t, []*ApprovalEvent{{Owner: from, Approved: to, TokenId: big.NewInt(2)}}, approvals)

	burns, err := BurnEventsFromApplicationLog(log)
	require.NoError(t, err)
	require.Equal(t, []*BurnEvent{{Owner: from, TokenId: big.NewInt(2)}}, burns)

	admins, err := AdminChangedEventsFromApplicationLog(log)
	require.NoError(t, err)
	require.Equal(t, []*AdminChangedEvent{{Admin: to}}, admins)

	t.Run("nil log", func(t *testing.T) {
		_, err := TransferEventsFromApplicationLog(nil)
		require.Error(t, err)
	})
	t.Run("malformed event", func(t *testing.T) {
		_, err := TransferEventsFromApplicationLog(newLog(state.NotificationEvent{
			Name: "Transfer",
			Item: stackitem.NewArray([]stackitem.Item{stackitem.Make(1)}),
		}))
		require.Error(t, err)

		_, err = BurnEventsFromApplicationLog(newLog(state.NotificationEvent{
			Name: "Burn",
			Item: stackitem.NewArray([]stackitem.Item{stackitem.Make([]byte{1}), stackitem.Make(1)}),
		}))
		require.Error(t, err)
	})
	t.Run("no events", func(t *testing.T) {
		evs, err := MintEventsFromApplicationLog(newLog())
		require.NoError(t, err)
		require.Empty(t, evs)
	})
}
