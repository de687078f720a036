/*
Package options contains a set of common CLI options and helper functions to use them.
*/
package options

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/invoker"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultTimeout is the default timeout used for RPC requests.
	DefaultTimeout = 10 * time.Second
	// DefaultAwaitableTimeout is the default timeout used for RPC requests that
	// require transaction awaiting. It is set to the approximate time of three
	// Neo N3 mainnet blocks accepting.
	DefaultAwaitableTimeout = 3 * 15 * time.Second
)

// RPCEndpointFlag is a long flag name for an RPC endpoint. It can be used to
// check for flag presence in the context.
const RPCEndpointFlag = "rpc-endpoint"

// RPC is a set of flags used for RPC connections (endpoint and timeout).
var RPC = []cli.Flag{
	&cli.StringFlag{
		Name:    RPCEndpointFlag,
		Aliases: []string{"r"},
		Usage:   "RPC node address",
	},
	&cli.DurationFlag{
		Name:    "timeout",
		Aliases: []string{"s"},
		Usage:   "Timeout for the operation",
	},
}

// Wallet is a set of flags used for wallet operations.
var Wallet = []cli.Flag{
	&cli.StringFlag{
		Name:    "wallet",
		Aliases: []string{"w"},
		Usage:   "wallet to use to get the key for transaction signing; conflicts with --wallet-config flag",
	},
	&cli.StringFlag{
		Name:  "wallet-config",
		Usage: "path to wallet config to use to get the key for transaction signing; conflicts with --wallet flag",
	},
	&cli.StringFlag{
		Name:    "address",
		Aliases: []string{"a"},
		Usage:   "address to use as transaction signee (and gas source), wallet's default one if not specified",
	},
}

// Config is a flag pointing to the YAML configuration file.
var Config = &cli.StringFlag{
	Name:    "config",
	Aliases: []string{"c"},
	Usage:   "path to the YAML configuration file, flags override its values",
}

// Contract is a flag specifying NFT contract hash.
var Contract = &cli.StringFlag{
	Name:  "hash",
	Usage: "NFT contract hash (LE)",
}

// Debug is a flag enabling debug logging.
var Debug = &cli.BoolFlag{
	Name:    "debug",
	Aliases: []string{"d"},
	Usage:   "enable debug logging (overrides configuration)",
}

var (
	errNoEndpoint             = errors.New("no RPC endpoint specified, use option '--" + RPCEndpointFlag + "' or '-r'")
	errNoWallet               = errors.New("no wallet parameter found, specify it with the '--wallet' or '-w' flag or specify wallet config file with the '--wallet-config' flag")
	errConflictingWalletFlags = errors.New("--wallet flag conflicts with --wallet-config flag, please, provide one of them to specify wallet location")
	errNoContract             = errors.New("no contract hash specified, use option '--hash'")
)

// WalletConfig is a wallet location with its password.
type WalletConfig struct {
	Path     string `yaml:"Path"`
	Password string `yaml:"Password"`
}

// Cfg is the CLI configuration, it's read from the configuration file and
// flags. Zero Timeout means the default one.
type Cfg struct {
	RPCEndpoint string        `yaml:"RPCEndpoint"`
	Timeout     time.Duration `yaml:"Timeout"`
	Wallet      WalletConfig  `yaml:"Wallet"`
	Address     string        `yaml:"Address"`
	Contract    string        `yaml:"Contract"`
	LogLevel    string        `yaml:"LogLevel"`
}

// GetConfig reads the configuration file (if given) and applies flags set in
// the context on top of it.
func GetConfig(ctx *cli.Context) (*Cfg, error) {
	cfg := new(Cfg)
	if path := ctx.String(Config.Name); path != "" {
		var err error
		cfg, err = ReadConfig(path)
		if err != nil {
			return nil, err
		}
	}
	if ctx.IsSet(RPCEndpointFlag) {
		cfg.RPCEndpoint = ctx.String(RPCEndpointFlag)
	}
	if ctx.IsSet("timeout") {
		cfg.Timeout = ctx.Duration("timeout")
	}

	wPath, wConfigPath := ctx.String("wallet"), ctx.String("wallet-config")
	if len(wPath) != 0 && len(wConfigPath) != 0 {
		return nil, errConflictingWalletFlags
	}
	if len(wPath) != 0 {
		cfg.Wallet = WalletConfig{Path: wPath}
	}
	if len(wConfigPath) != 0 {
		wCfg, err := ReadWalletConfig(wConfigPath)
		if err != nil {
			return nil, err
		}
		cfg.Wallet = *wCfg
	}

	if ctx.IsSet("address") {
		cfg.Address = ctx.String("address")
	}
	if ctx.IsSet(Contract.Name) {
		cfg.Contract = ctx.String(Contract.Name)
	}
	if ctx.Bool(Debug.Name) {
		cfg.LogLevel = zapcore.DebugLevel.String()
	}
	return cfg, nil
}

// ReadConfig reads configuration from the given YAML file.
func ReadConfig(configPath string) (*Cfg, error) {
	configData, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read config: %w", err)
	}
	cfg := new(Cfg)
	if err := yaml.Unmarshal(configData, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config YAML: %w", err)
	}
	return cfg, nil
}

// ReadWalletConfig reads wallet config from the given path.
func ReadWalletConfig(configPath string) (*WalletConfig, error) {
	configData, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read wallet config: %w", err)
	}
	cfg := new(WalletConfig)
	if err := yaml.Unmarshal(configData, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal wallet config YAML: %w", err)
	}
	return cfg, nil
}

// ContractHash returns the configured contract hash.
func (c *Cfg) ContractHash() (util.Uint160, error) {
	if c.Contract == "" {
		return util.Uint160{}, errNoContract
	}
	h, err := ParseAddress(c.Contract)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("invalid contract hash: %w", err)
	}
	return h, nil
}

// ParseAddress parses a Uint160 from either an LE string or an address.
func ParseAddress(s string) (util.Uint160, error) {
	const uint160size = 2 * util.Uint160Size
	switch len(s) {
	case uint160size, uint160size + 2:
		return util.Uint160DecodeStringLE(strings.TrimPrefix(s, "0x"))
	default:
		return address.StringToUint160(s)
	}
}

// GetTimeoutContext returns a context.Context with the default or a
// user-set timeout. Operations awaiting transactions have a longer default.
func GetTimeoutContext(cfg *Cfg, await bool) (context.Context, func()) {
	dur := cfg.Timeout
	if dur == 0 {
		dur = DefaultTimeout
		if await {
			dur = DefaultAwaitableTimeout
		}
	}
	return context.WithTimeout(context.Background(), dur)
}

// GetRPCClient returns an initialized RPC client for the configured endpoint.
func GetRPCClient(gctx context.Context, cfg *Cfg) (*rpcclient.Client, error) {
	if len(cfg.RPCEndpoint) == 0 {
		return nil, errNoEndpoint
	}
	c, err := rpcclient.New(gctx, cfg.RPCEndpoint, rpcclient.Options{})
	if err != nil {
		return nil, err
	}
	err = c.Init()
	if err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

// GetRPCWithInvoker returns an RPC client and an invoker without signers.
func GetRPCWithInvoker(gctx context.Context, cfg *Cfg) (*rpcclient.Client, *invoker.Invoker, error) {
	c, err := GetRPCClient(gctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return c, invoker.New(c, nil), nil
}

// GetRPCWithActor returns an RPC client and an Actor signing transactions
// with the given account. The account must stay unlocked while the Actor is
// used, so its wallet can only be closed after that.
func GetRPCWithActor(gctx context.Context, cfg *Cfg, acc *wallet.Account) (*rpcclient.Client, *actor.Actor, error) {
	c, err := GetRPCClient(gctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	a, err := actor.NewSimple(c, acc)
	if err != nil {
		c.Close()
		return nil, nil, fmt.Errorf("failed to create Actor: %w", err)
	}
	return c, a, nil
}

// GetAccount returns the configured account and its wallet. If address is
// not set, the default wallet address is used.
func GetAccount(cfg *Cfg, w io.Writer) (*wallet.Account, *wallet.Wallet, error) {
	if len(cfg.Wallet.Path) == 0 {
		return nil, nil, errNoWallet
	}
	wall, err := wallet.NewWalletFromFile(cfg.Wallet.Path)
	if err != nil {
		return nil, nil, err
	}

	var addr util.Uint160
	if cfg.Address != "" {
		addr, err = ParseAddress(cfg.Address)
		if err != nil {
			wall.Close()
			return nil, nil, fmt.Errorf("invalid address: %w", err)
		}
	} else {
		addr = wall.GetChangeAddress()
		if addr.Equals(util.Uint160{}) {
			wall.Close()
			return nil, nil, errors.New("can't get default address")
		}
	}

	var pass *string
	if cfg.Wallet.Password != "" {
		pass = &cfg.Wallet.Password
	}
	acc, err := GetUnlockedAccount(w, wall, addr, pass)
	if err != nil {
		wall.Close()
		return nil, nil, err
	}
	return acc, wall, nil
}

// GetUnlockedAccount returns account from wallet, address and uses pass to unlock specified account if given.
// If the password is not given, then it is requested from user.
func GetUnlockedAccount(w io.Writer, wall *wallet.Wallet, addr util.Uint160, pass *string) (*wallet.Account, error) {
	acc := wall.GetAccount(addr)
	if acc == nil {
		return nil, fmt.Errorf("wallet contains no account for '%s'", address.Uint160ToString(addr))
	}

	if acc.CanSign() || acc.EncryptedWIF == "" {
		return acc, nil
	}

	if pass == nil {
		fmt.Fprintf(w, "Enter account %s password > ", address.Uint160ToString(addr))
		rawPass, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(w)
		if err != nil {
			return nil, fmt.Errorf("error reading password: %w", err)
		}
		trimmed := strings.TrimRight(string(rawPass), "\n")
		pass = &trimmed
	}
	err := acc.Decrypt(*pass, wall.Scrypt)
	if err != nil {
		return nil, err
	}
	return acc, nil
}

// HandleLoggingParams creates a console logger with the given level, info
// level is used if it's empty.
func HandleLoggingParams(logLevel string) (*zap.Logger, error) {
	var (
		level = zapcore.InfoLevel
		err   error
	)
	if len(logLevel) > 0 {
		level, err = zapcore.ParseLevel(logLevel)
		if err != nil {
			return nil, fmt.Errorf("log setting: %w", err)
		}
	}

	cc := zap.NewProductionConfig()
	cc.DisableCaller = true
	cc.DisableStacktrace = true
	cc.EncoderConfig.EncodeDuration = zapcore.StringDurationEncoder
	cc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cc.Encoding = "console"
	cc.Level = zap.NewAtomicLevelAt(level)
	cc.Sampling = nil

	return cc.Build()
}
