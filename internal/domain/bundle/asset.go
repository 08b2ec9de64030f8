package bundle

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

// AssetKind tells the collector how to copy an asset.
type AssetKind string

const (
	// AssetTree is a directory merged recursively into the bundle.
	AssetTree AssetKind = "tree"
	// AssetFile is a single file; missing parent directories are created.
	AssetFile AssetKind = "file"
)

var (
	errAssetNameRequired = errors.New("asset name is required")
	errAssetPathRequired = errors.New("asset source and destination are required")
	errAssetPathAbsolute = errors.New("asset paths must be relative")
	errAssetPathEscapes  = errors.New("asset path escapes its root")
	errAssetUnknownKind  = errors.New("unknown asset kind")
	errAssetEnsureFile   = errors.New("ensure is only supported for tree assets")
)

// Asset is one entry of the runtime asset manifest.
type Asset struct {
	// Name is a human-readable label used in logs.
	Name string `yaml:"name"`
	// Source is relative to the toolchain prefix, slash-separated.
	Source string `yaml:"source"`
	// Destination is relative to the bundle root, slash-separated.
	Destination string `yaml:"destination"`
	// Kind selects tree or file copy semantics.
	Kind AssetKind `yaml:"kind"`
	// Ensure creates the destination directory even when the source is absent.
	Ensure bool `yaml:"ensure,omitempty"`
}

// Validate checks that the entry is well formed.
func (a Asset) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return errAssetNameRequired
	}

	if a.Source == "" || a.Destination == "" {
		return fmt.Errorf("%s: %w", a.Name, errAssetPathRequired)
	}

	for _, p := range []string{a.Source, a.Destination} {
		if path.IsAbs(p) || strings.Contains(p, ":") || strings.HasPrefix(p, `\`) {
			return fmt.Errorf("%s: %q: %w", a.Name, p, errAssetPathAbsolute)
		}

		if cleaned := path.Clean(p); cleaned == ".." || strings.HasPrefix(cleaned, "../") {
			return fmt.Errorf("%s: %q: %w", a.Name, p, errAssetPathEscapes)
		}
	}

	switch a.Kind {
	case AssetTree:
	case AssetFile:
		if a.Ensure {
			return fmt.Errorf("%s: %w", a.Name, errAssetEnsureFile)
		}
	default:
		return fmt.Errorf("%s: %q: %w", a.Name, a.Kind, errAssetUnknownKind)
	}

	return nil
}
