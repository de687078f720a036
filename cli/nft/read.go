package nft

import (
	"fmt"
	"io"

	"github.com/nspcc-dev/nft-harness/cli/options"
	nftrpc "github.com/nspcc-dev/nft-harness/pkg/rpcclient/nft"
	"github.com/urfave/cli/v2"
)

// readCall invokes f against the configured contract and prints its output
// to the app writer.
func readCall(ctx *cli.Context, f func(r *nftrpc.ContractReader, w io.Writer) error) error {
	cfg, log, err := prepare(ctx)
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer func() { _ = log.Sync() }()

	h, err := cfg.ContractHash()
	if err != nil {
		return cli.Exit(err, 1)
	}
	gctx, cancel := options.GetTimeoutContext(cfg, false)
	defer cancel()

	c, inv, err := options.GetRPCWithInvoker(gctx, cfg)
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer c.Close()

	log.Debug("invoking contract")
	err = f(nftrpc.NewReader(inv, h), ctx.App.Writer)
	if err != nil {
		return cli.Exit(err, 1)
	}
	return nil
}

func info(ctx *cli.Context) error {
	return readCall(ctx, func(r *nftrpc.ContractReader, w io.Writer) error {
		admin, err := r.Admin()
		if err != nil {
			return fmt.Errorf("failed to get admin: %w", err)
		}
		maxSupply, err := r.MaxSupply()
		if err != nil {
			return fmt.Errorf("failed to get max supply: %w", err)
		}
		total, err := r.TotalSupply()
		if err != nil {
			return fmt.Errorf("failed to get total supply: %w", err)
		}
		fmt.Fprintf(w, "Admin:\t%s\nMax supply:\t%s\nTotal supply:\t%s\n", addressString(admin), maxSupply, total)
		return nil
	})
}

func ownerOf(ctx *cli.Context) error {
	id := tokenID(ctx)
	return readCall(ctx, func(r *nftrpc.ContractReader, w io.Writer) error {
		owner, err := r.OwnerOf(id)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, addressString(owner))
		return nil
	})
}

func approved(ctx *cli.Context) error {
	id := tokenID(ctx)
	return readCall(ctx, func(r *nftrpc.ContractReader, w io.Writer) error {
		a, err := r.Approved(id)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, addressString(a))
		return nil
	})
}

func isApprovedForAll(ctx *cli.Context) error {
	operator, err := requireAddress(ctx, "operator")
	if err != nil {
		return cli.Exit(err, 1)
	}
	owner, err := requireAddress(ctx, "owner")
	if err != nil {
		return cli.Exit(err, 1)
	}
	return readCall(ctx, func(r *nftrpc.ContractReader, w io.Writer) error {
		ok, err := r.IsApprovedForAll(operator, owner)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, ok)
		return nil
	})
}

func balanceOf(ctx *cli.Context) error {
	owner, err := requireAddress(ctx, "owner")
	if err != nil {
		return cli.Exit(err, 1)
	}
	return readCall(ctx, func(r *nftrpc.ContractReader, w io.Writer) error {
		b, err := r.BalanceOf(owner)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, b)
		return nil
	})
}

func metaData(ctx *cli.Context) error {
	id := tokenID(ctx)
	return readCall(ctx, func(r *nftrpc.ContractReader, w io.Writer) error {
		md, err := r.MetaData(id)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Token %s:\t%s\n", id, md.Name)
		return nil
	})
}
