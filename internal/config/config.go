package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/f1sh-bundler/internal/domain/bundle"
)

// Config holds the packaging tables and names consumed by the bundler.
// Every field has a built-in default; a YAML file only needs to list overrides.
type Config struct {
	// MainExecutable is the file name expected in the bundle's bin directory.
	MainExecutable string `yaml:"main_executable"`
	// ToolchainEnv is the environment variable that points at the MSYS2 root.
	ToolchainEnv string `yaml:"toolchain_env"`
	// ToolchainCandidates are conventional MSYS2 roots probed after the environment variable.
	ToolchainCandidates []string `yaml:"toolchain_candidates"`
	// Subsystem is the MSYS2 environment directory that must exist under the root.
	Subsystem string `yaml:"subsystem"`
	// Plugins is the GStreamer plugin allow-list.
	Plugins []string `yaml:"plugins"`
	// Assets is the runtime asset manifest.
	Assets []bundle.Asset `yaml:"assets"`
}

const (
	// DefaultConfigFilename is the configuration file looked up when no path is given.
	DefaultConfigFilename = "f1sh-bundler.yaml"

	// DefaultFilePermissions is the permission used for files written by the bundler.
	DefaultFilePermissions = 0o644
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errMainExecutableRequired is returned when the executable name is empty or a path.
	errMainExecutableRequired = errors.New("main executable must be a plain file name")
	// errToolchainEnvRequired is returned when the environment variable name is empty.
	errToolchainEnvRequired = errors.New("toolchain environment variable must be provided")
	// errSubsystemRequired is returned when the MSYS2 subsystem is empty.
	errSubsystemRequired = errors.New("toolchain subsystem must be provided")
	// errInvalidPlugin is returned for empty, duplicated or path-like plugin names.
	errInvalidPlugin = errors.New("invalid plugin name")
)

// Default returns the built-in configuration used for the camera receiver bundle.
func Default() *Config {
	return &Config{
		MainExecutable:      "f1sh-camera-rx.exe",
		ToolchainEnv:        "MSYS2_ROOT",
		ToolchainCandidates: []string{`C:\msys64`, `D:\msys64`},
		Subsystem:           "ucrt64",
		Plugins:             DefaultPlugins(),
		Assets:              DefaultAssets(),
	}
}

// DefaultPlugins returns the GStreamer plugins needed by the receive pipeline.
func DefaultPlugins() []string {
	return []string{
		"libgstcoreelements.dll",      // queue, capsfilter
		"libgstudp.dll",               // udpsrc
		"libgstrtp.dll",               // rtph264depay
		"libgstrtpmanager.dll",        // rtpbin, jitter buffer
		"libgstvideoparsersbad.dll",   // h264parse
		"libgstd3d11.dll",             // d3d11h264dec, d3d11videosink, d3d11convert
		"libgstvideoconvertscale.dll", // videoconvert, videoscale
		"libgstvideofilter.dll",       // videoflip
		"libgstautodetect.dll",        // autovideosink
		"libgstplayback.dll",          // playbin
		"libgsttypefindfunctions.dll", // typefind
		"libgstlibav.dll",             // avdec_h264 software fallback
	}
}

// DefaultAssets returns the GTK, GLib and GStreamer runtime asset manifest.
func DefaultAssets() []bundle.Asset {
	return []bundle.Asset{
		{Name: "GLib schemas", Source: "share/glib-2.0/schemas", Destination: "share/glib-2.0/schemas", Kind: bundle.AssetTree, Ensure: true},
		{Name: "Adwaita icons", Source: "share/icons/Adwaita", Destination: "share/icons/Adwaita", Kind: bundle.AssetTree},
		{Name: "Adwaita theme", Source: "share/themes/Adwaita", Destination: "share/themes/Adwaita", Kind: bundle.AssetTree},
		{Name: "GStreamer presets", Source: "share/gstreamer-1.0", Destination: "share/gstreamer-1.0", Kind: bundle.AssetTree},
		{Name: "GTK 3.0 modules", Source: "lib/gtk-3.0", Destination: "lib/gtk-3.0", Kind: bundle.AssetTree},
		{Name: "GIO modules", Source: "lib/gio/modules", Destination: "lib/gio/modules", Kind: bundle.AssetTree, Ensure: true},
		{Name: "GDK Pixbuf loaders", Source: "lib/gdk-pixbuf-2.0/2.10.0/loaders", Destination: "lib/gdk-pixbuf-2.0/2.10.0/loaders", Kind: bundle.AssetTree, Ensure: true},
		{Name: "gtk-3.0 config", Source: "etc/gtk-3.0", Destination: "etc/gtk-3.0", Kind: bundle.AssetTree},
		{Name: "fonts config", Source: "etc/fonts", Destination: "etc/fonts", Kind: bundle.AssetTree},
		{Name: "pango config", Source: "etc/pango", Destination: "etc/pango", Kind: bundle.AssetTree},
		{Name: "SSL certificates", Source: "ssl/certs/ca-bundle.crt", Destination: "etc/ssl/certs/ca-bundle.crt", Kind: bundle.AssetFile},
	}
}

// Load reads configuration overrides from path on top of Default.
// An empty path, or the default file name when that file does not exist, yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}

		return nil, fmt.Errorf("read settings: %w", err)
	}

	if err = yaml.Unmarshal(contents, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err = Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes cfg to path in YAML format.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err = os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the tables for required fields and well-formed entries.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if !isPlainFileName(cfg.MainExecutable) {
		return fmt.Errorf("%q: %w", cfg.MainExecutable, errMainExecutableRequired)
	}

	if strings.TrimSpace(cfg.ToolchainEnv) == "" {
		return errToolchainEnvRequired
	}

	if !isPlainFileName(cfg.Subsystem) {
		return fmt.Errorf("%q: %w", cfg.Subsystem, errSubsystemRequired)
	}

	seen := make(map[string]struct{}, len(cfg.Plugins))
	for _, plugin := range cfg.Plugins {
		if !isPlainFileName(plugin) {
			return fmt.Errorf("%q: %w", plugin, errInvalidPlugin)
		}

		key := strings.ToLower(plugin)
		if _, ok := seen[key]; ok {
			return fmt.Errorf("%q is listed twice: %w", plugin, errInvalidPlugin)
		}

		seen[key] = struct{}{}
	}

	for _, asset := range cfg.Assets {
		if err := asset.Validate(); err != nil {
			return fmt.Errorf("invalid asset: %w", err)
		}
	}

	return nil
}

// isPlainFileName reports whether name is a non-empty name without path separators.
func isPlainFileName(name string) bool {
	name = strings.TrimSpace(name)

	return name != "" && name != "." && name != ".." && !strings.ContainsAny(name, `/\:`)
}
