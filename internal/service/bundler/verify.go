package bundler

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/oshokin/f1sh-bundler/internal/logger"
	"github.com/oshokin/f1sh-bundler/internal/manifest"
)

// VerifyOptions contains inputs for Verify.
type VerifyOptions struct {
	// Destination is the bundle directory holding bundle-manifest.yaml.
	Destination string
}

// Verify re-hashes a bundle and compares it with its manifest.
// Every difference is logged; the returned error wraps manifest.ErrMismatch.
func Verify(ctx context.Context, opts *VerifyOptions) (*manifest.Difference, error) {
	ctx = logger.WithName(ctx, "verify")

	destination, err := filepath.Abs(opts.Destination)
	if err != nil {
		return nil, fmt.Errorf("resolve destination: %w", err)
	}

	desc, err := manifest.Load(destination)
	if err != nil {
		return nil, err
	}

	diff, err := desc.Verify(destination)
	if diff != nil {
		for _, path := range diff.Missing {
			logger.WarnKV(ctx, "File missing", "path", path)
		}

		for _, path := range diff.Changed {
			logger.WarnKV(ctx, "File changed", "path", path)
		}

		for _, path := range diff.Extra {
			logger.WarnKV(ctx, "Unexpected file", "path", path)
		}
	}

	if err != nil {
		return diff, err
	}

	logger.InfoKV(ctx, "Bundle matches manifest", "files", len(desc.Files), "version", desc.Version)

	return diff, nil
}
