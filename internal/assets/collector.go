package assets

import (
	"context"
	"fmt"
	"os"

	"github.com/oshokin/f1sh-bundler/internal/console"
	"github.com/oshokin/f1sh-bundler/internal/domain/bundle"
	"github.com/oshokin/f1sh-bundler/internal/fsutil"
	"github.com/oshokin/f1sh-bundler/internal/logger"
	"github.com/oshokin/f1sh-bundler/internal/toolchain"
)

// Options are the inputs of Collect.
type Options struct {
	// Root is the toolchain the sources are read from.
	Root toolchain.Root
	// Layout is the bundle the assets are written to.
	Layout bundle.Layout
	// Assets is the manifest to apply.
	Assets []bundle.Asset
	// Printer shows progress; nil disables it.
	Printer *console.Printer
}

// Collect copies every manifest entry whose source exists and returns the names of the copied entries.
// Absent sources are skipped without error.
func Collect(ctx context.Context, opts *Options) ([]string, error) {
	ctx = logger.WithName(ctx, "assets")

	var collected []string

	bar := opts.Printer.Progress(len(opts.Assets), "assets")

	for _, asset := range opts.Assets {
		_ = bar.Add(1)

		copied, err := collectOne(ctx, opts.Root, opts.Layout, asset)
		if err != nil {
			return collected, fmt.Errorf("%s: %w", asset.Name, err)
		}

		if copied {
			collected = append(collected, asset.Name)
		}
	}

	_ = bar.Finish()

	return collected, nil
}

func collectOne(ctx context.Context, root toolchain.Root, layout bundle.Layout, asset bundle.Asset) (bool, error) {
	src := root.Join(asset.Source)
	dst := layout.Path(asset.Destination)

	if asset.Ensure {
		if err := os.MkdirAll(dst, bundle.DirPermissions); err != nil {
			return false, fmt.Errorf("create %s: %w", dst, err)
		}
	}

	switch asset.Kind {
	case bundle.AssetTree:
		if !fsutil.IsDir(src) {
			logger.DebugKV(ctx, "Asset not present in toolchain", "asset", asset.Name, "path", src)
			return false, nil
		}

		if err := fsutil.MergeTree(src, dst); err != nil {
			return false, err
		}
	case bundle.AssetFile:
		if !fsutil.IsFile(src) {
			logger.DebugKV(ctx, "Asset not present in toolchain", "asset", asset.Name, "path", src)
			return false, nil
		}

		if err := fsutil.CopyFile(src, dst); err != nil {
			return false, err
		}
	default:
		return false, fmt.Errorf("unsupported asset kind %q", asset.Kind)
	}

	logger.InfoKV(ctx, "Copied asset", "asset", asset.Name)

	return true, nil
}
