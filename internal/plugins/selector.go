package plugins

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/oshokin/f1sh-bundler/internal/console"
	"github.com/oshokin/f1sh-bundler/internal/fsutil"
	"github.com/oshokin/f1sh-bundler/internal/logger"
)

// ErrSourceMissing is returned when the toolchain has no plugin directory at all.
var ErrSourceMissing = errors.New("GStreamer plugin directory not found")

// DependencyCopier pulls the DLL closure of a binary into the bundle.
type DependencyCopier interface {
	Copy(ctx context.Context, binary string) ([]string, error)
}

// Options are the inputs of Select.
type Options struct {
	// SourceDir is the toolchain's GStreamer plugin directory.
	SourceDir string
	// DestDir is the bundle's plugin directory.
	DestDir string
	// Plugins is the allow-list of plugin file names.
	Plugins []string
	// Deps receives every copied plugin.
	Deps DependencyCopier
	// Printer shows progress; nil disables it.
	Printer *console.Printer
}

// Result summarizes a selection.
type Result struct {
	// Copied lists plugins placed in the bundle, in allow-list order.
	Copied []string
	// Missing lists allow-listed plugins absent from the toolchain.
	Missing []string
	// Total is the length of the allow-list.
	Total int
}

// Select copies every allow-listed plugin that the toolchain provides.
// Missing plugins are warnings; a missing source directory is fatal.
func Select(ctx context.Context, opts *Options) (*Result, error) {
	ctx = logger.WithName(ctx, "plugins")

	if !fsutil.IsDir(opts.SourceDir) {
		return nil, fmt.Errorf("%w: %s", ErrSourceMissing, opts.SourceDir)
	}

	result := &Result{Total: len(opts.Plugins)}
	bar := opts.Printer.Progress(result.Total, "plugins")

	for _, name := range opts.Plugins {
		_ = bar.Add(1)

		src := filepath.Join(opts.SourceDir, name)
		if !fsutil.IsFile(src) {
			logger.WarnKV(ctx, "Plugin not found", "plugin", name)

			result.Missing = append(result.Missing, name)

			continue
		}

		if err := fsutil.CopyFile(src, filepath.Join(opts.DestDir, name)); err != nil {
			return result, err
		}

		logger.InfoKV(ctx, "Copied plugin", "plugin", name)

		if _, err := opts.Deps.Copy(ctx, src); err != nil {
			return result, fmt.Errorf("copy dependencies of %s: %w", name, err)
		}

		result.Copied = append(result.Copied, name)
	}

	_ = bar.Finish()

	logger.Infof(ctx, "Copied %d/%d plugins", len(result.Copied), result.Total)

	return result, nil
}
