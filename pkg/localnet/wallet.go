package localnet

import (
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/trigger"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
)

// Wallet is a funded account on the local network. It implements the same
// set of methods actor.Actor has for contract calls, so it can be used with
// generated contract bindings. Transactions are signed with Global scope.
type Wallet struct {
	net    *Network
	signer neotest.SingleSigner
}

// Address returns wallet account script hash.
func (w *Wallet) Address() util.Uint160 {
	return w.signer.ScriptHash()
}

// Account returns the underlying wallet account.
func (w *Wallet) Account() *wallet.Account {
	return w.signer.Account()
}

// Signer returns neotest signer of the wallet.
func (w *Wallet) Signer() neotest.Signer {
	return w.signer
}

// Call test-invokes the contract method. VM faults are reported via the
// State and FaultException of the result, not as an error.
func (w *Wallet) Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error) {
	if err := w.net.check(); err != nil {
		return nil, err
	}
	inv := w.net.executor.NewInvoker(contract, w.signer)
	stack, err := inv.TestInvoke(w.net.t, operation, params...)
	if err != nil {
		return &result.Invoke{
			State:          vmstate.Fault.String(),
			FaultException: err.Error(),
		}, nil
	}
	return &result.Invoke{
		State: vmstate.Halt.String(),
		Stack: stack.ToArray(),
	}, nil
}

// MakeCall creates a signed transaction calling the contract method.
func (w *Wallet) MakeCall(contract util.Uint160, method string, params ...any) (*transaction.Transaction, error) {
	if err := w.net.check(); err != nil {
		return nil, err
	}
	return w.net.executor.NewInvoker(contract, w.signer).PrepareInvoke(w.net.t, method, params...), nil
}

// MakeRun creates a signed transaction with the given script.
func (w *Wallet) MakeRun(script []byte) (*transaction.Transaction, error) {
	if err := w.net.check(); err != nil {
		return nil, err
	}
	return w.net.executor.PrepareInvocation(w.net.t, script, []neotest.Signer{w.signer}), nil
}

// MakeUnsignedCall creates an unsigned transaction calling the contract
// method, fees are set.
func (w *Wallet) MakeUnsignedCall(contract util.Uint160, method string, attrs []transaction.Attribute, params ...any) (*transaction.Transaction, error) {
	script, err := smartcontract.CreateCallScript(contract, method, params...)
	if err != nil {
		return nil, fmt.Errorf("failed to create script: %w", err)
	}
	return w.MakeUnsignedRun(script, attrs)
}

// MakeUnsignedRun creates an unsigned transaction with the given script, fees
// are set.
func (w *Wallet) MakeUnsignedRun(script []byte, attrs []transaction.Attribute) (*transaction.Transaction, error) {
	if err := w.net.check(); err != nil {
		return nil, err
	}
	bc := w.net.executor.Chain
	tx := transaction.New(script, 0)
	tx.Nonce = neotest.Nonce()
	tx.ValidUntilBlock = bc.BlockHeight() + 1
	tx.Signers = []transaction.Signer{{
		Account: w.Address(),
		Scopes:  transaction.Global,
	}}
	tx.Attributes = attrs
	neotest.AddNetworkFee(w.net.t, bc, tx, w.signer)
	w.net.executor.AddSystemFee(tx, -1)
	return tx, nil
}

// SendCall creates a transaction calling the contract method and puts it
// into a new block.
func (w *Wallet) SendCall(contract util.Uint160, method string, params ...any) (util.Uint256, uint32, error) {
	tx, err := w.MakeCall(contract, method, params...)
	if err != nil {
		return util.Uint256{}, 0, err
	}
	return w.send(tx)
}

// SendRun creates a transaction with the given script and puts it into a
// new block.
func (w *Wallet) SendRun(script []byte) (util.Uint256, uint32, error) {
	tx, err := w.MakeRun(script)
	if err != nil {
		return util.Uint256{}, 0, err
	}
	return w.send(tx)
}

func (w *Wallet) send(tx *transaction.Transaction) (util.Uint256, uint32, error) {
	if err := w.net.check(); err != nil {
		return util.Uint256{}, 0, err
	}
	w.net.executor.AddNewBlock(w.net.t, tx)
	return tx.Hash(), tx.ValidUntilBlock, nil
}

// Wait returns the execution result of a transaction sent by SendCall or
// SendRun, it accepts their results directly. Transactions are persisted
// synchronously, so it never blocks.
func (w *Wallet) Wait(h util.Uint256, vub uint32, err error) (*state.AppExecResult, error) {
	if err != nil {
		return nil, err
	}
	if err := w.net.check(); err != nil {
		return nil, err
	}
	aers, err := w.net.executor.Chain.GetAppExecResults(h, trigger.Application)
	if err != nil {
		return nil, fmt.Errorf("transaction %s is not accepted (valid until %d): %w", h.StringLE(), vub, err)
	}
	return &aers[0], nil
}
