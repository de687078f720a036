/*
Package nft contains CLI commands operating on a deployed NFT contract.
*/
package nft

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/nft-harness/cli/options"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

var tokenIDFlag = &cli.Uint64Flag{
	Name:     "id",
	Usage:    "token ID",
	Required: true,
}

var errZeroAmount = errors.New("amount must be positive")

// NewCommands returns 'nft' command.
func NewCommands() []*cli.Command {
	return []*cli.Command{{
		Name:  "nft",
		Usage: "deploy and operate an NFT contract",
		Subcommands: []*cli.Command{
			{
				Name:      "deploy",
				Usage:     "deploy NFT contract with its initial storage",
				UsageText: "nftctl nft deploy -r endpoint -w wallet [-a address] --in contract.nef --manifest contract.manifest.json [--slots storage_slots.json]",
				Action:    deploy,
				Flags: writeFlags(
					&cli.StringFlag{
						Name:     "in",
						Aliases:  []string{"i"},
						Usage:    "input file for the smart contract (*.nef)",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "manifest",
						Aliases:  []string{"m"},
						Usage:    "manifest of the smart contract (*.manifest.json)",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "slots",
						Usage: "JSON file with storage slots to put into the contract storage on deploy",
					},
				),
			},
			{
				Name:   "init",
				Usage:  "initialize contract, admin and supply limit",
				Action: initContract,
				Flags: writeFlags(
					&cli.BoolFlag{
						Name:  "access-control",
						Usage: "allow only admin to mint tokens",
					},
					&cli.StringFlag{
						Name:  "admin",
						Usage: "admin address, sender if not specified",
					},
					&cli.Uint64Flag{
						Name:     "supply",
						Usage:    "maximum number of tokens",
						Required: true,
					},
				),
			},
			{
				Name:   "mint",
				Usage:  "mint new tokens",
				Action: mint,
				Flags: writeFlags(
					&cli.Uint64Flag{
						Name:  "amount",
						Usage: "number of tokens to mint",
						Value: 1,
					},
					&cli.StringFlag{
						Name:  "owner",
						Usage: "owner of the new tokens, sender if not specified",
					},
				),
			},
			{
				Name:   "transfer",
				Usage:  "transfer a token",
				Action: transfer,
				Flags: writeFlags(
					&cli.StringFlag{
						Name:  "from",
						Usage: "current token owner, sender if not specified",
					},
					&cli.StringFlag{
						Name:     "to",
						Usage:    "new token owner",
						Required: true,
					},
					tokenIDFlag,
				),
			},
			{
				Name:   "burn",
				Usage:  "burn a token",
				Action: burn,
				Flags:  writeFlags(tokenIDFlag),
			},
			{
				Name:   "approve",
				Usage:  "approve an address to transfer a token",
				Action: approve,
				Flags: writeFlags(
					&cli.StringFlag{
						Name:  "to",
						Usage: "approved address, zero one revokes approval if not specified",
					},
					tokenIDFlag,
				),
			},
			{
				Name:   "approve-all",
				Usage:  "allow or disallow an operator to transfer all sender tokens",
				Action: approveAll,
				Flags: writeFlags(
					&cli.StringFlag{
						Name:     "operator",
						Usage:    "operator address",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "revoke",
						Usage: "revoke operator approval",
					},
				),
			},
			{
				Name:   "set-admin",
				Usage:  "change contract admin",
				Action: setAdmin,
				Flags: writeFlags(
					&cli.StringFlag{
						Name:     "admin",
						Usage:    "new admin address",
						Required: true,
					},
				),
			},
			{
				Name:   "info",
				Usage:  "print contract admin and token supply",
				Action: info,
				Flags:  readFlags(),
			},
			{
				Name:   "owner-of",
				Usage:  "print token owner",
				Action: ownerOf,
				Flags:  readFlags(tokenIDFlag),
			},
			{
				Name:   "approved",
				Usage:  "print address approved for a token",
				Action: approved,
				Flags:  readFlags(tokenIDFlag),
			},
			{
				Name:   "is-approved-for-all",
				Usage:  "check whether operator is allowed to transfer all owner tokens",
				Action: isApprovedForAll,
				Flags: readFlags(
					&cli.StringFlag{
						Name:     "operator",
						Usage:    "operator address",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "owner",
						Usage:    "owner address",
						Required: true,
					},
				),
			},
			{
				Name:   "balance-of",
				Usage:  "print number of tokens owned by an address",
				Action: balanceOf,
				Flags: readFlags(
					&cli.StringFlag{
						Name:     "owner",
						Usage:    "owner address",
						Required: true,
					},
				),
			},
			{
				Name:   "metadata",
				Usage:  "print token metadata",
				Action: metaData,
				Flags:  readFlags(tokenIDFlag),
			},
		},
	}}
}

func readFlags(extra ...cli.Flag) []cli.Flag {
	flags := []cli.Flag{options.Config, options.Contract, options.Debug}
	flags = append(flags, options.RPC...)
	return append(flags, extra...)
}

func writeFlags(extra ...cli.Flag) []cli.Flag {
	return append(readFlags(options.Wallet...), extra...)
}

// getAddress parses the address flag, def is returned if it's not set.
func getAddress(ctx *cli.Context, name string, def util.Uint160) (util.Uint160, error) {
	s := ctx.String(name)
	if s == "" {
		return def, nil
	}
	u, err := options.ParseAddress(s)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("invalid '%s' address: %w", name, err)
	}
	return u, nil
}

// optionalAddress parses the address flag, nil is returned if it's not set.
func optionalAddress(ctx *cli.Context, name string) (*util.Uint160, error) {
	if ctx.String(name) == "" {
		return nil, nil
	}
	u, err := getAddress(ctx, name, util.Uint160{})
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// requireAddress parses the required address flag.
func requireAddress(ctx *cli.Context, name string) (util.Uint160, error) {
	if ctx.String(name) == "" {
		return util.Uint160{}, fmt.Errorf("'%s' address is empty", name)
	}
	return getAddress(ctx, name, util.Uint160{})
}

func tokenID(ctx *cli.Context) *big.Int {
	return new(big.Int).SetUint64(ctx.Uint64(tokenIDFlag.Name))
}

func prepare(ctx *cli.Context) (*options.Cfg, *zap.Logger, error) {
	cfg, err := options.GetConfig(ctx)
	if err != nil {
		return nil, nil, err
	}
	log, err := options.HandleLoggingParams(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

func addressString(u util.Uint160) string {
	if u.Equals(util.Uint160{}) {
		return "none"
	}
	return address.Uint160ToString(u)
}
