// Package executil runs the external MSYS2 tools the bundler depends on.
//
// Tools are opaque collaborators: the package only wires arguments,
// environment overrides and output streams, and reports non-zero exits as
// *ExitError values that keep the tool's output for diagnostics.
package executil
