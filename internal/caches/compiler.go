package caches

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/oshokin/f1sh-bundler/internal/config"
	"github.com/oshokin/f1sh-bundler/internal/domain/bundle"
	"github.com/oshokin/f1sh-bundler/internal/executil"
	"github.com/oshokin/f1sh-bundler/internal/fsutil"
	"github.com/oshokin/f1sh-bundler/internal/logger"
	"github.com/oshokin/f1sh-bundler/internal/toolchain"
)

const (
	schemaCompilerTool = "glib-compile-schemas.exe"
	gioQueryTool       = "gio-querymodules.exe"
	pixbufQueryTool    = "gdk-pixbuf-query-loaders.exe"

	schemaDir        = "share/glib-2.0/schemas"
	gioModulesDir    = "lib/gio/modules"
	pixbufLoaderDir  = "lib/gdk-pixbuf-2.0/2.10.0/loaders"
	pixbufCacheFile  = "lib/gdk-pixbuf-2.0/2.10.0/loaders.cache"
	pixbufModuleEnv  = "GDK_PIXBUF_MODULEDIR"
	schemaSourceGlob = "*.gschema.xml"
)

// Options are the inputs of Compile.
type Options struct {
	// Root provides the cache tools.
	Root toolchain.Root
	// Layout is the bundle whose caches are regenerated.
	Layout bundle.Layout
	// Executor runs the tools.
	Executor *executil.Executor
}

// Report tells which caches were regenerated.
type Report struct {
	Schemas bool
	Modules bool
	Loaders bool
}

// Compile regenerates the three caches in order.
func Compile(ctx context.Context, opts *Options) (*Report, error) {
	ctx = logger.WithName(ctx, "caches")

	var (
		report = new(Report)
		err    error
	)

	if report.Schemas, err = compileSchemas(ctx, opts); err != nil {
		return report, fmt.Errorf("compile schemas: %w", err)
	}

	if report.Modules, err = queryModules(ctx, opts); err != nil {
		return report, fmt.Errorf("query GIO modules: %w", err)
	}

	if report.Loaders, err = queryLoaders(ctx, opts); err != nil {
		return report, fmt.Errorf("query pixbuf loaders: %w", err)
	}

	return report, nil
}

func compileSchemas(ctx context.Context, opts *Options) (bool, error) {
	tool := opts.Root.Tool(schemaCompilerTool)
	dir := opts.Layout.Path(schemaDir)

	if !fsutil.IsFile(tool) || !fsutil.IsDir(dir) {
		logger.DebugKV(ctx, "Schema compilation not applicable", "tool", tool, "dir", dir)
		return false, nil
	}

	sources, err := filepath.Glob(filepath.Join(dir, schemaSourceGlob))
	if err != nil {
		return false, err
	}

	if len(sources) == 0 {
		logger.WarnKV(ctx, "No schema sources in bundle, skipping compilation", "dir", dir)
		return false, nil
	}

	if err = opts.Executor.Run(ctx, nil, tool, dir); err != nil {
		return false, err
	}

	logger.Info(ctx, "Compiled GLib schemas")

	return true, nil
}

func queryModules(ctx context.Context, opts *Options) (bool, error) {
	tool := opts.Root.Tool(gioQueryTool)
	dir := opts.Layout.Path(gioModulesDir)

	if !fsutil.IsFile(tool) || !fsutil.IsDir(dir) {
		logger.DebugKV(ctx, "GIO module query not applicable", "tool", tool, "dir", dir)
		return false, nil
	}

	if err := opts.Executor.Run(ctx, io.Discard, tool, dir); err != nil {
		return false, err
	}

	logger.Info(ctx, "Queried GIO modules")

	return true, nil
}

func queryLoaders(ctx context.Context, opts *Options) (bool, error) {
	tool := opts.Root.Tool(pixbufQueryTool)
	dir := opts.Layout.Path(pixbufLoaderDir)

	if !fsutil.IsFile(tool) || !fsutil.IsDir(dir) {
		logger.DebugKV(ctx, "Pixbuf loader query not applicable", "tool", tool, "dir", dir)
		return false, nil
	}

	output, err := opts.Executor.Output(ctx, map[string]string{pixbufModuleEnv: dir}, tool)
	if err != nil {
		return false, err
	}

	cacheFile := opts.Layout.Path(pixbufCacheFile)
	if err = os.WriteFile(cacheFile, output, config.DefaultFilePermissions); err != nil {
		return false, fmt.Errorf("write %s: %w", cacheFile, err)
	}

	logger.InfoKV(ctx, "Generated Pixbuf loader cache", "path", cacheFile)

	return true, nil
}
