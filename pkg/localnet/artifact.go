package localnet

import (
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/nft-harness/pkg/artifact"
)

// CompileArtifact compiles contract from the source directory (or file)
// using the given configuration file (contract .yml).
func CompileArtifact(t testing.TB, sender util.Uint160, srcPath, configPath string) *artifact.Artifact {
	c := neotest.CompileFile(t, sender, srcPath, configPath)
	return &artifact.Artifact{NEF: c.NEF, Manifest: c.Manifest}
}
