package toolchain

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/oshokin/f1sh-bundler/internal/logger"
)

// ErrToolchainNotFound is returned when no candidate holds a usable MSYS2 installation.
var ErrToolchainNotFound = errors.New("MSYS2 not found")

// LocatorOptions controls where Locate looks for the toolchain.
type LocatorOptions struct {
	// Override is an explicit root, typically from a command-line flag. It is probed first.
	Override string
	// EnvVar names the environment variable probed after Override.
	EnvVar string
	// Candidates are fixed conventional roots probed after the environment variable.
	Candidates []string
	// Subsystem is the directory that must exist below a candidate.
	Subsystem string
	// Getenv reads the environment. Defaults to os.Getenv.
	Getenv func(string) string
	// Registry returns installation directories recorded by the OS. Defaults to the platform lookup.
	Registry func() []string
}

// Locate returns the first candidate directory that contains the subsystem directory.
func Locate(ctx context.Context, opts LocatorOptions) (Root, error) {
	getenv := opts.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	registry := opts.Registry
	if registry == nil {
		registry = registryInstallLocations
	}

	candidates := make([]string, 0, len(opts.Candidates)+2)
	candidates = append(candidates, opts.Override, getenv(opts.EnvVar))
	candidates = append(candidates, opts.Candidates...)
	candidates = append(candidates, registry()...)

	for _, candidate := range candidates {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			continue
		}

		if !isDir(candidate) {
			logger.DebugKV(ctx, "Toolchain candidate is not a directory", "path", candidate)
			continue
		}

		if !isDir(filepath.Join(candidate, opts.Subsystem)) {
			logger.DebugKV(ctx, "Toolchain candidate lacks subsystem", "path", candidate, "subsystem", opts.Subsystem)
			continue
		}

		return Root{Path: candidate, Subsystem: opts.Subsystem}, nil
	}

	defaultPath := ""
	if len(opts.Candidates) > 0 {
		defaultPath = opts.Candidates[0]
	}

	return Root{}, fmt.Errorf("%w: set the %s environment variable or install MSYS2 to %s",
		ErrToolchainNotFound, opts.EnvVar, defaultPath)
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
