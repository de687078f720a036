package app

import (
	"fmt"
	"os"
	"runtime"

	"github.com/nspcc-dev/nft-harness/cli/nft"
	"github.com/urfave/cli/v2"
)

// Version is the nftctl version, set at build time.
var Version = "dev"

func versionPrinter(c *cli.Context) {
	_, _ = fmt.Fprintf(c.App.Writer, "nftctl\nVersion: %s\nGoVersion: %s\n",
		Version,
		runtime.Version(),
	)
}

// New creates an nftctl instance of [cli.App] with all commands included.
func New() *cli.App {
	cli.VersionPrinter = versionPrinter
	ctl := cli.NewApp()
	ctl.Name = "nftctl"
	ctl.Version = Version
	ctl.Usage = "NFT contract deployment and management tool"
	ctl.ErrWriter = os.Stdout

	ctl.Commands = append(ctl.Commands, nft.NewCommands()...)
	return ctl
}
