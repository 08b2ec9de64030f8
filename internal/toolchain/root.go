package toolchain

import (
	"path/filepath"
	"strings"
)

// Root is a validated MSYS2 installation.
type Root struct {
	// Path is the MSYS2 installation directory, e.g. C:\msys64.
	Path string
	// Subsystem is the environment directory below Path, e.g. ucrt64.
	Subsystem string
}

// Prefix returns the subsystem directory that holds bin, lib, share and etc.
func (r Root) Prefix() string {
	return filepath.Join(r.Path, r.Subsystem)
}

// Bin returns the subsystem bin directory.
func (r Root) Bin() string {
	return filepath.Join(r.Prefix(), "bin")
}

// Tool returns the path of an executable in the subsystem bin directory.
func (r Root) Tool(name string) string {
	return filepath.Join(r.Bin(), name)
}

// Join joins a slash-separated path relative to the prefix.
func (r Root) Join(rel string) string {
	return filepath.Join(r.Prefix(), filepath.FromSlash(rel))
}

// Contains reports whether path lies below the subsystem prefix.
// The comparison ignores case, matching Windows path semantics.
func (r Root) Contains(path string) bool {
	return strings.HasPrefix(strings.ToLower(path), strings.ToLower(r.Prefix()))
}
