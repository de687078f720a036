/*
Package artifact provides compiled contract artifacts (NEF and manifest) and
initial contract storage descriptors used for deployment.
*/
package artifact

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
)

// Artifact is a compiled contract ready to be deployed.
type Artifact struct {
	NEF      *nef.File
	Manifest *manifest.Manifest
}

// Load reads compiled NEF and manifest files.
func Load(nefPath, manifestPath string) (*Artifact, error) {
	rawNef, err := os.ReadFile(nefPath)
	if err != nil {
		return nil, fmt.Errorf("can't read NEF file: %w", err)
	}
	nefFile, err := nef.FileFromBytes(rawNef)
	if err != nil {
		return nil, fmt.Errorf("can't parse NEF file: %w", err)
	}
	rawManifest, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("can't read manifest file: %w", err)
	}
	m := new(manifest.Manifest)
	if err := json.Unmarshal(rawManifest, m); err != nil {
		return nil, fmt.Errorf("can't parse manifest file: %w", err)
	}
	return &Artifact{NEF: &nefFile, Manifest: m}, nil
}

// Save writes NEF and manifest into the given files.
func (a *Artifact) Save(nefPath, manifestPath string) error {
	rawNef, err := a.NEF.Bytes()
	if err != nil {
		return fmt.Errorf("failed to serialize NEF: %w", err)
	}
	if err := os.WriteFile(nefPath, rawNef, 0o644); err != nil {
		return fmt.Errorf("can't write NEF file: %w", err)
	}
	rawManifest, err := json.Marshal(a.Manifest)
	if err != nil {
		return fmt.Errorf("failed to serialize manifest: %w", err)
	}
	if err := os.WriteFile(manifestPath, rawManifest, 0o644); err != nil {
		return fmt.Errorf("can't write manifest file: %w", err)
	}
	return nil
}
