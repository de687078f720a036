package localnet

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"sync/atomic"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/native/nativenames"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/neotest/chain"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"github.com/nspcc-dev/nft-harness/pkg/artifact"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Default wallet configuration values, used for zero WalletsConfig fields.
const (
	DefaultNumWallets     = 10
	DefaultCoinsPerWallet = 1
	// DefaultAmountPerCoin is 1000 GAS.
	DefaultAmountPerCoin = 1000_0000_0000
)

// ErrClosed is returned from any operation performed on a closed Network.
var ErrClosed = errors.New("network is closed")

// WalletsConfig describes wallets created at network launch. Every wallet
// receives CoinsPerWallet GAS transfers of AmountPerCoin each (in GAS
// fractions, 1 GAS is 1_0000_0000).
type WalletsConfig struct {
	NumWallets     int
	CoinsPerWallet int
	AmountPerCoin  int64
}

// Network is an ephemeral single-node chain owned by a test.
type Network struct {
	t        testing.TB
	executor *neotest.Executor
	log      *zap.Logger
	closed   atomic.Bool
}

// Option customizes Network.
type Option func(*Network)

// WithLogger sets the logger used by Network, it's zap.NewNop() by default.
func WithLogger(log *zap.Logger) Option {
	return func(n *Network) {
		n.log = log
	}
}

// New creates a Network without any wallets except for the validator. The
// chain is released on test cleanup.
func New(t testing.TB, opts ...Option) *Network {
	bc, validator := chain.NewSingle(t)
	n := &Network{
		t:        t,
		executor: neotest.NewExecutor(t, bc, validator, validator),
		log:      zap.NewNop(),
	}
	for _, o := range opts {
		o(n)
	}
	t.Cleanup(n.Close)
	return n
}

// Launch creates a Network and the set of funded wallets described by cfg.
func Launch(t testing.TB, cfg WalletsConfig, opts ...Option) (*Network, []*Wallet) {
	n := New(t, opts...)
	cfg = cfg.withDefaults()

	wallets := make([]*Wallet, cfg.NumWallets)
	for i := range wallets {
		wallets[i] = n.newWallet()
	}
	n.fund(wallets, cfg.CoinsPerWallet, cfg.AmountPerCoin)
	n.log.Info("local network launched",
		zap.Int("wallets", cfg.NumWallets),
		zap.Int("coins per wallet", cfg.CoinsPerWallet),
		zap.Int64("amount per coin", cfg.AmountPerCoin),
		zap.Uint32("height", n.Height()))
	return n, wallets
}

func (cfg WalletsConfig) withDefaults() WalletsConfig {
	if cfg.NumWallets <= 0 {
		cfg.NumWallets = DefaultNumWallets
	}
	if cfg.CoinsPerWallet <= 0 {
		cfg.CoinsPerWallet = DefaultCoinsPerWallet
	}
	if cfg.AmountPerCoin <= 0 {
		cfg.AmountPerCoin = DefaultAmountPerCoin
	}
	return cfg
}

// NewWallet creates a new wallet and funds it with the specified number of
// GAS transfers of the specified amount.
func (n *Network) NewWallet(coins int, amount int64) (*Wallet, error) {
	if err := n.check(); err != nil {
		return nil, err
	}
	w := n.newWallet()
	n.fund([]*Wallet{w}, coins, amount)
	return w, nil
}

func (n *Network) newWallet() *Wallet {
	acc, err := wallet.NewAccount()
	require.NoError(n.t, err)
	return &Wallet{
		net:    n,
		signer: neotest.NewSingleSigner(acc).(neotest.SingleSigner),
	}
}

// fund transfers GAS from the validator to every wallet, all transfers are
// packed into a single block.
func (n *Network) fund(wallets []*Wallet, coins int, amount int64) {
	if coins <= 0 || len(wallets) == 0 {
		return
	}
	gas := n.executor.ValidatorInvoker(n.executor.NativeHash(n.t, nativenames.Gas))
	txs := make([]*transaction.Transaction, 0, len(wallets)*coins)
	for _, w := range wallets {
		for i := 0; i < coins; i++ {
			txs = append(txs, gas.PrepareInvoke(n.t, "transfer",
				n.executor.Validator.ScriptHash(), w.Address(), amount, nil))
		}
	}
	n.executor.AddNewBlock(n.t, txs...)
	for _, tx := range txs {
		n.executor.CheckHalt(n.t, tx.Hash(), stackitem.Make(true))
	}
	for _, w := range wallets {
		n.log.Debug("wallet funded",
			zap.String("address", address.Uint160ToString(w.Address())),
			zap.Stringer("balance", n.GASBalance(w.Address())))
	}
}

// Deploy deploys the artifact on behalf of the given wallet and loads slots
// into the contract storage. It returns the deployed contract hash.
func (n *Network) Deploy(by *Wallet, a *artifact.Artifact, slots []artifact.StorageSlot) (util.Uint160, error) {
	if err := n.check(); err != nil {
		return util.Uint160{}, err
	}
	rawNef, err := a.NEF.Bytes()
	if err != nil {
		return util.Uint160{}, fmt.Errorf("failed to serialize NEF: %w", err)
	}
	rawManifest, err := json.Marshal(a.Manifest)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("failed to serialize manifest: %w", err)
	}

	mgmt := n.executor.NewInvoker(n.executor.NativeHash(n.t, nativenames.Management), by.signer)
	tx := mgmt.PrepareInvoke(n.t, "deploy", rawNef, rawManifest, artifact.SlotsToDeployData(slots))
	n.executor.AddNewBlock(n.t, tx)
	res := n.executor.GetTxExecResult(n.t, tx.Hash())
	if res.VMState != vmstate.Halt {
		return util.Uint160{}, fmt.Errorf("deployment of %s failed: %s", a.Manifest.Name, res.FaultException)
	}

	h := state.CreateContractHash(by.Address(), a.NEF.Checksum, a.Manifest.Name)
	n.log.Info("contract deployed",
		zap.String("name", a.Manifest.Name),
		zap.String("hash", h.StringLE()),
		zap.String("sender", address.Uint160ToString(by.Address())),
		zap.Int("storage slots", len(slots)),
		zap.Int64("system fee", tx.SystemFee))
	return h, nil
}

// Height returns the current chain height.
func (n *Network) Height() uint32 {
	return n.executor.Chain.BlockHeight()
}

// GASBalance returns GAS balance of the given account.
func (n *Network) GASBalance(acc util.Uint160) *big.Int {
	return n.executor.Chain.GetUtilityTokenBalance(acc)
}

// Close tears the network down, any subsequent operation fails with
// ErrClosed. It's safe to call Close multiple times.
func (n *Network) Close() {
	if n.closed.CompareAndSwap(false, true) {
		n.log.Debug("local network closed", zap.Uint32("height", n.Height()))
	}
}

func (n *Network) check() error {
	if n.closed.Load() {
		return ErrClosed
	}
	return nil
}
