package nft

import (
	"fmt"
	"math/big"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/management"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/nspcc-dev/nft-harness/cli/options"
	"github.com/nspcc-dev/nft-harness/pkg/artifact"
	nftrpc "github.com/nspcc-dev/nft-harness/pkg/rpcclient/nft"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

// sendFunc sends a transaction using the given actor.
type sendFunc func(act *actor.Actor) (util.Uint256, uint32, error)

// sendTx sends a transaction created by f, awaits it and reports its result.
// Transactions not ending up in HALT state are errors.
func sendTx(ctx *cli.Context, f sendFunc) error {
	cfg, log, err := prepare(ctx)
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer func() { _ = log.Sync() }()

	acc, wall, err := options.GetAccount(cfg, ctx.App.Writer)
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer wall.Close()

	gctx, cancel := options.GetTimeoutContext(cfg, true)
	defer cancel()

	c, act, err := options.GetRPCWithActor(gctx, cfg, acc)
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer c.Close()

	aer, err := act.Wait(f(act))
	if err != nil {
		return cli.Exit(fmt.Errorf("failed to send transaction: %w", err), 1)
	}
	log.Debug("transaction accepted",
		zap.String("hash", aer.Container.StringLE()),
		zap.Stringer("state", aer.VMState),
		zap.Int64("gas", aer.GasConsumed))

	fmt.Fprintln(ctx.App.Writer, "Transaction:", aer.Container.StringLE())
	if aer.VMState != vmstate.Halt {
		return cli.Exit(fmt.Errorf("transaction failed: %s", aer.FaultException), 1)
	}
	return nil
}

// sendContractTx is sendTx for NFT contract methods.
func sendContractTx(ctx *cli.Context, f func(c *nftrpc.Contract, sender util.Uint160) (util.Uint256, uint32, error)) error {
	cfg, err := options.GetConfig(ctx)
	if err != nil {
		return cli.Exit(err, 1)
	}
	h, err := cfg.ContractHash()
	if err != nil {
		return cli.Exit(err, 1)
	}
	return sendTx(ctx, func(act *actor.Actor) (util.Uint256, uint32, error) {
		return f(nftrpc.New(act, h), act.Sender())
	})
}

// orSender returns sender for a nil (not specified) address.
func orSender(u *util.Uint160, sender util.Uint160) util.Uint160 {
	if u == nil {
		return sender
	}
	return *u
}

func deploy(ctx *cli.Context) error {
	a, err := artifact.Load(ctx.String("in"), ctx.String("manifest"))
	if err != nil {
		return cli.Exit(err, 1)
	}
	var slots []artifact.StorageSlot
	if p := ctx.String("slots"); p != "" {
		slots, err = artifact.ReadStorageSlots(p)
		if err != nil {
			return cli.Exit(err, 1)
		}
	}

	var h util.Uint160
	err = sendTx(ctx, func(act *actor.Actor) (util.Uint256, uint32, error) {
		h = state.CreateContractHash(act.Sender(), a.NEF.Checksum, a.Manifest.Name)
		return management.New(act).Deploy(a.NEF, a.Manifest, artifact.SlotsToDeployData(slots))
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(ctx.App.Writer, "Contract:", h.StringLE())
	return nil
}

func initContract(ctx *cli.Context) error {
	supply := new(big.Int).SetUint64(ctx.Uint64("supply"))
	accessControl := ctx.Bool("access-control")
	admin, err := optionalAddress(ctx, "admin")
	if err != nil {
		return cli.Exit(err, 1)
	}
	return sendContractTx(ctx, func(c *nftrpc.Contract, sender util.Uint160) (util.Uint256, uint32, error) {
		return c.Constructor(accessControl, orSender(admin, sender), supply)
	})
}

func mint(ctx *cli.Context) error {
	amount := ctx.Uint64("amount")
	if amount == 0 {
		return cli.Exit(errZeroAmount, 1)
	}
	owner, err := optionalAddress(ctx, "owner")
	if err != nil {
		return cli.Exit(err, 1)
	}
	return sendContractTx(ctx, func(c *nftrpc.Contract, sender util.Uint160) (util.Uint256, uint32, error) {
		return c.Mint(new(big.Int).SetUint64(amount), orSender(owner, sender))
	})
}

func transfer(ctx *cli.Context) error {
	to, err := requireAddress(ctx, "to")
	if err != nil {
		return cli.Exit(err, 1)
	}
	from, err := optionalAddress(ctx, "from")
	if err != nil {
		return cli.Exit(err, 1)
	}
	id := tokenID(ctx)
	return sendContractTx(ctx, func(c *nftrpc.Contract, sender util.Uint160) (util.Uint256, uint32, error) {
		return c.TransferFrom(orSender(from, sender), to, id)
	})
}

func burn(ctx *cli.Context) error {
	id := tokenID(ctx)
	return sendContractTx(ctx, func(c *nftrpc.Contract, _ util.Uint160) (util.Uint256, uint32, error) {
		return c.Burn(id)
	})
}

func approve(ctx *cli.Context) error {
	to, err := getAddress(ctx, "to", util.Uint160{})
	if err != nil {
		return cli.Exit(err, 1)
	}
	id := tokenID(ctx)
	return sendContractTx(ctx, func(c *nftrpc.Contract, _ util.Uint160) (util.Uint256, uint32, error) {
		return c.Approve(to, id)
	})
}

func approveAll(ctx *cli.Context) error {
	operator, err := requireAddress(ctx, "operator")
	if err != nil {
		return cli.Exit(err, 1)
	}
	allow := !ctx.Bool("revoke")
	return sendContractTx(ctx, func(c *nftrpc.Contract, _ util.Uint160) (util.Uint256, uint32, error) {
		return c.SetApprovalForAll(allow, operator)
	})
}

func setAdmin(ctx *cli.Context) error {
	admin, err := requireAddress(ctx, "admin")
	if err != nil {
		return cli.Exit(err, 1)
	}
	return sendContractTx(ctx, func(c *nftrpc.Contract, _ util.Uint160) (util.Uint256, uint32, error) {
		return c.SetAdmin(admin)
	})
}
