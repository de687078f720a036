package nfttest

import (
	"errors"
	"fmt"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/stretchr/testify/require"
)

// initialized returns contract handles after the constructor call made by
// the deployer.
func initialized(t *testing.T, accessControl bool, supply uint64) (deployer, owner1, owner2 *Metadata) {
	deployer, owner1, owner2 = Setup(t)
	Constructor(t, deployer.Contract, accessControl, deployer.Wallet.Address(), supply)
	return
}

func checkFault(t *testing.T, msg string) func(*state.AppExecResult, error) {
	return func(res *state.AppExecResult, err error) {
		require.NoError(t, err)
		require.Equal(t, vmstate.Fault, res.VMState)
		require.Contains(t, res.FaultException, msg)
	}
}

func appLog(res *state.AppExecResult) *result.ApplicationLog {
	return &result.ApplicationLog{
		Container:  res.Container,
		Executions: []state.Execution{res.Execution},
	}
}

var errAborted = errors.New("aborted")

// abortT is a require.TestingT that panics on FailNow instead of stopping
// the goroutine, so that aborts can be detected.
type abortT struct {
	errs []string
}

func (a *abortT) Errorf(format string, args ...any) {
	a.errs = append(a.errs, fmt.Sprintf(format, args...))
}

func (a *abortT) FailNow() {
	panic(errAborted)
}

// requireAborts runs call on the test goroutine and checks that it fails via
// FailNow with some error reported. Other panics are propagated.
func requireAborts(t *testing.T, call func(t require.TestingT)) {
	ft := new(abortT)
	defer func() {
		r := recover()
		if r != nil && r != errAborted {
			panic(r)
		}
		require.Equal(t, errAborted, r, "call didn't abort")
		require.NotEmpty(t, ft.errs)
	}()
	call(ft)
}

type countingActor struct {
	Actor

	calls int
}

func (c *countingActor) Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error) {
	c.calls++
	return c.Actor.Call(contract, operation, params...)
}

func (c *countingActor) SendCall(contract util.Uint160, method string, params ...any) (util.Uint256, uint32, error) {
	c.calls++
	return c.Actor.SendCall(contract, method, params...)
}
