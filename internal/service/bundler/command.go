package bundler

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/oshokin/f1sh-bundler/internal/archive"
	"github.com/oshokin/f1sh-bundler/internal/assets"
	"github.com/oshokin/f1sh-bundler/internal/caches"
	"github.com/oshokin/f1sh-bundler/internal/config"
	"github.com/oshokin/f1sh-bundler/internal/console"
	"github.com/oshokin/f1sh-bundler/internal/deps"
	"github.com/oshokin/f1sh-bundler/internal/domain/bundle"
	"github.com/oshokin/f1sh-bundler/internal/executil"
	"github.com/oshokin/f1sh-bundler/internal/fsutil"
	"github.com/oshokin/f1sh-bundler/internal/logger"
	"github.com/oshokin/f1sh-bundler/internal/manifest"
	"github.com/oshokin/f1sh-bundler/internal/plugins"
	"github.com/oshokin/f1sh-bundler/internal/toolchain"
)

// Options contains inputs for the bundler entry point.
type Options struct {
	// Destination is the install directory that becomes the bundle.
	Destination string
	// ConfigPath is an optional YAML file overriding the packaging tables.
	ConfigPath string
	// Toolchain is an explicit MSYS2 root probed before every other candidate.
	Toolchain string
	// Manifest enables writing bundle-manifest.yaml.
	Manifest bool
	// Archive is an optional .tar.zst, .tar.gz or .tar.xz file to pack the bundle into.
	Archive string
	// Printer prints step banners and progress; nil keeps the console quiet.
	Printer *console.Printer
	// Executor runs the toolchain binaries. Defaults to an executor discarding tool output.
	Executor *executil.Executor
	// Getenv reads the environment. Defaults to os.Getenv.
	Getenv func(string) string
	// Registry lists MSYS2 installations recorded by the OS. Defaults to the platform lookup.
	Registry func() []string
}

const (
	// scannerPath is the plugin scanner helper relative to the subsystem prefix.
	scannerPath = "libexec/gstreamer-1.0/gst-plugin-scanner.exe"
	// pluginSourceDir is the plugin directory relative to the subsystem prefix.
	pluginSourceDir = "lib/gstreamer-1.0"
	// ntlddPackage is the pacman package providing the dependency walker.
	ntlddPackage = "mingw-w64-ucrt-x86_64-ntldd"
)

var (
	// ErrListerMissing is returned when the toolchain has no dependency walker.
	ErrListerMissing = errors.New("dependency walker not found")
	// ErrExecutableMissing is returned when the install directory lacks the main executable.
	ErrExecutableMissing = errors.New("executable not found")
)

// Summary describes a finished run.
type Summary struct {
	// Destination is the absolute bundle directory.
	Destination string
	// Toolchain is the toolchain the bundle was built from.
	Toolchain toolchain.Root
	// Libraries lists every DLL copied into bin.
	Libraries []string
	// Plugins is the plugin selection result.
	Plugins *plugins.Result
	// Assets lists the asset entries that were copied.
	Assets []string
	// Scanner reports whether the plugin scanner was installed.
	Scanner bool
	// Caches tells which caches were regenerated.
	Caches *caches.Report
	// Manifest is the written manifest path, if any.
	Manifest string
	// Archive is the written archive path, if any.
	Archive string
}

// bundler holds the state of one run.
// It is unexported; callers use Run.
type bundler struct {
	opts     *Options
	cfg      *config.Config
	root     toolchain.Root
	layout   bundle.Layout
	executor *executil.Executor
	session  *deps.Session
	summary  *Summary
}

// Run executes the packaging workflow.
func Run(ctx context.Context, opts *Options) (*Summary, error) {
	ctx = logger.WithName(ctx, "f1sh-bundler")

	b, err := newBundler(ctx, opts)
	if err != nil {
		return nil, err
	}

	if err = b.Run(ctx); err != nil {
		return b.summary, err
	}

	opts.Printer.Done("Packaging complete!")
	logger.Infof(ctx, "Portable bundle ready at: %s", b.layout.Root)

	return b.summary, nil
}

// newBundler resolves the destination, configuration and toolchain.
func newBundler(ctx context.Context, opts *Options) (*bundler, error) {
	destination, err := filepath.Abs(opts.Destination)
	if err != nil {
		return nil, fmt.Errorf("resolve destination: %w", err)
	}

	opts.Printer.Step("Starting Windows packaging for: %s", destination)

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	root, err := toolchain.Locate(ctx, toolchain.LocatorOptions{
		Override:   opts.Toolchain,
		EnvVar:     cfg.ToolchainEnv,
		Candidates: cfg.ToolchainCandidates,
		Subsystem:  cfg.Subsystem,
		Getenv:     opts.Getenv,
		Registry:   opts.Registry,
	})
	if err != nil {
		return nil, err
	}

	logger.InfoKV(ctx, "Using MSYS2 toolchain", "prefix", root.Prefix())

	lister := root.Tool(deps.ListerTool)
	if !fsutil.IsFile(lister) {
		return nil, fmt.Errorf("%w: %s (install it with: pacman -S %s)", ErrListerMissing, lister, ntlddPackage)
	}

	executor := opts.Executor
	if executor == nil {
		executor = new(executil.Executor)
	}

	layout := bundle.NewLayout(destination)

	return &bundler{
		opts:     opts,
		cfg:      cfg,
		root:     root,
		layout:   layout,
		executor: executor,
		session:  deps.NewSession(&deps.Ntldd{Path: lister, Executor: executor}, root, layout.Bin, nil),
		summary:  &Summary{Destination: destination, Toolchain: root},
	}, nil
}

// Run performs the packaging steps in order.
func (b *bundler) Run(ctx context.Context) error {
	if err := b.layout.Create(); err != nil {
		return fmt.Errorf("create bundle layout: %w", err)
	}

	executable := filepath.Join(b.layout.Bin, b.cfg.MainExecutable)
	if !fsutil.IsFile(executable) {
		return fmt.Errorf("%w: %s", ErrExecutableMissing, executable)
	}

	warnIfRunning(ctx, b.cfg.MainExecutable)

	b.opts.Printer.Step("Copying main executable dependencies")

	if _, err := b.session.Copy(ctx, executable); err != nil {
		return fmt.Errorf("copy executable dependencies: %w", err)
	}

	if err := b.selectPlugins(ctx); err != nil {
		return err
	}

	if err := b.collectAssets(ctx); err != nil {
		return err
	}

	if err := b.installScanner(ctx); err != nil {
		return err
	}

	if err := b.compileCaches(ctx); err != nil {
		return err
	}

	b.summary.Libraries = b.session.Copied().Names()

	if err := b.writeManifest(ctx); err != nil {
		return err
	}

	return b.writeArchive(ctx)
}

func (b *bundler) selectPlugins(ctx context.Context) error {
	b.opts.Printer.Step("Copying GStreamer plugins")

	result, err := plugins.Select(ctx, &plugins.Options{
		SourceDir: b.root.Join(pluginSourceDir),
		DestDir:   b.layout.Plugins,
		Plugins:   b.cfg.Plugins,
		Deps:      b.session,
		Printer:   b.opts.Printer,
	})
	b.summary.Plugins = result

	if err != nil {
		return fmt.Errorf("select plugins: %w", err)
	}

	return nil
}

func (b *bundler) collectAssets(ctx context.Context) error {
	b.opts.Printer.Step("Copying GTK assets")

	collected, err := assets.Collect(ctx, &assets.Options{
		Root:    b.root,
		Layout:  b.layout,
		Assets:  b.cfg.Assets,
		Printer: b.opts.Printer,
	})
	b.summary.Assets = collected

	if err != nil {
		return fmt.Errorf("collect assets: %w", err)
	}

	return nil
}

// installScanner copies the out-of-process plugin scanner when the toolchain ships it.
func (b *bundler) installScanner(ctx context.Context) error {
	src := b.root.Join(scannerPath)
	if !fsutil.IsFile(src) {
		logger.DebugKV(ctx, "Plugin scanner not found, skipping", "path", src)
		return nil
	}

	dst := filepath.Join(b.layout.Libexec, filepath.Base(src))
	if err := fsutil.InstallExecutable(src, dst); err != nil {
		return fmt.Errorf("install plugin scanner: %w", err)
	}

	b.summary.Scanner = true

	b.opts.Printer.Step("Copied GStreamer plugin scanner")

	return nil
}

func (b *bundler) compileCaches(ctx context.Context) error {
	b.opts.Printer.Step("Compiling schemas and caches")

	report, err := caches.Compile(ctx, &caches.Options{
		Root:     b.root,
		Layout:   b.layout,
		Executor: b.executor,
	})
	b.summary.Caches = report

	return err
}

func (b *bundler) writeManifest(ctx context.Context) error {
	if !b.opts.Manifest {
		return nil
	}

	desc := manifest.NewDescription(b.cfg.MainExecutable)
	desc.Libraries = b.summary.Libraries

	if b.summary.Plugins != nil {
		desc.Plugins = append([]string(nil), b.summary.Plugins.Copied...)
	}

	if err := desc.Fill(b.layout.Root); err != nil {
		return fmt.Errorf("fill manifest: %w", err)
	}

	if err := desc.Save(b.layout.Root); err != nil {
		return fmt.Errorf("save manifest: %w", err)
	}

	b.summary.Manifest = filepath.Join(b.layout.Root, manifest.Filename)

	logger.InfoKV(ctx, "Bundle manifest written", "path", b.summary.Manifest, "files", len(desc.Files))

	return nil
}

func (b *bundler) writeArchive(ctx context.Context) error {
	if b.opts.Archive == "" {
		return nil
	}

	path, err := filepath.Abs(b.opts.Archive)
	if err != nil {
		return fmt.Errorf("resolve archive path: %w", err)
	}

	b.opts.Printer.Step("Writing archive %s", path)

	if err = archive.Write(ctx, &archive.Options{
		Root:    b.layout.Root,
		Path:    path,
		Printer: b.opts.Printer,
	}); err != nil {
		return fmt.Errorf("write archive: %w", err)
	}

	b.summary.Archive = path

	return nil
}
