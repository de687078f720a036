package nft

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/config"
	"github.com/nspcc-dev/neo-go/pkg/consensus"
	"github.com/nspcc-dev/neo-go/pkg/core"
	"github.com/nspcc-dev/neo-go/pkg/core/storage"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/network"
	"github.com/nspcc-dev/neo-go/pkg/services/rpcsrv"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

const (
	// validatorAddr is a 1-of-1 multisig address of the single validator
	// holding all the initial GAS.
	validatorAddr = "NfgHwwTi3wHAS8aFAN243C5vGbkYDpqLHP"

	validatorWalletConfig = "testdata/wallet_config.yml"
	protocolConfig        = "testdata/protocol.single.yml"
)

var validatorHash, _ = address.StringToUint160(validatorAddr)

// executor runs nftctl commands against an in-process single-node chain
// with RPC server. It's not safe for parallel use.
type executor struct {
	Chain    *core.Blockchain
	RPC      *rpcsrv.Server
	NetSrv   *network.Server
	Endpoint string
	Out      *bytes.Buffer
}

func newExecutor(t *testing.T) *executor {
	cfg, err := config.LoadFile(protocolConfig)
	require.NoError(t, err, "could not load config")

	logger := zaptest.NewLogger(t)
	chain, err := core.NewBlockchain(storage.NewMemoryStore(), cfg.Blockchain(), logger)
	require.NoError(t, err, "could not create chain")
	go chain.Run()

	serverConfig, err := network.NewServerConfig(cfg)
	require.NoError(t, err)
	serverConfig.UserAgent = fmt.Sprintf(config.UserAgentFormat, "nftctl-test")
	netSrv, err := network.NewServer(serverConfig, chain, chain.GetStateSyncModule(), zap.NewNop())
	require.NoError(t, err)
	cons, err := consensus.NewService(consensus.Config{
		Logger:                zap.NewNop(),
		Broadcast:             netSrv.BroadcastExtensible,
		Chain:                 chain,
		BlockQueue:            netSrv.GetBlockQueue(),
		ProtocolConfiguration: cfg.ProtocolConfiguration,
		RequestTx:             netSrv.RequestTx,
		StopTxFlow:            netSrv.StopTxFlow,
		Wallet:                cfg.ApplicationConfiguration.Consensus.UnlockWallet,
		TimePerBlock:          serverConfig.TimePerBlock,
	})
	require.NoError(t, err)
	netSrv.AddConsensusService(cons, cons.OnPayload, cons.OnTransaction)
	netSrv.Start()

	errCh := make(chan error, 2)
	rpcServer := rpcsrv.New(chain, cfg.ApplicationConfiguration.RPC, netSrv, nil, logger, errCh)
	rpcServer.Start()

	e := &executor{
		Chain:    chain,
		RPC:      &rpcServer,
		NetSrv:   netSrv,
		Endpoint: "http://" + rpcServer.Addresses()[0],
		Out:      new(bytes.Buffer),
	}
	t.Cleanup(e.Close)
	return e
}

func (e *executor) Close() {
	e.RPC.Shutdown()
	e.NetSrv.Shutdown()
	e.Chain.Close()
}

func (e *executor) run(args ...string) error {
	e.Out.Reset()
	app, buf := newTestApp()
	err := app.Run(append([]string{"nftctl", "nft"}, args...))
	e.Out.Write(buf.Bytes())
	return err
}

// Run runs the command with RPC endpoint and validator wallet flags and
// checks that it succeeds.
func (e *executor) Run(t *testing.T, args ...string) {
	require.NoError(t, e.run(e.withFlags(args)...), e.Out.String())
}

// RunWithError runs the command the same way Run does and checks that it
// fails.
func (e *executor) RunWithError(t *testing.T, args ...string) error {
	err := e.run(e.withFlags(args)...)
	require.Error(t, err)
	return err
}

func (e *executor) withFlags(args []string) []string {
	res := append([]string{}, args...)
	res = append(res, "-r", e.Endpoint)
	if isWriteCommand(args[0]) {
		res = append(res, "--wallet-config", validatorWalletConfig, "-a", validatorAddr)
	}
	return res
}

func isWriteCommand(name string) bool {
	switch name {
	case "deploy", "init", "mint", "transfer", "burn", "approve", "approve-all", "set-admin":
		return true
	}
	return false
}

// lines returns non-empty output lines of the last command.
func (e *executor) lines() []string {
	var res []string
	for _, l := range strings.Split(e.Out.String(), "\n") {
		if l != "" {
			res = append(res, l)
		}
	}
	return res
}
