// Package version exposes build metadata for f1sh-bundler.
//
// Version, Commit and BuildTime are injected with -ldflags at release time.
// The bundle manifest records Short so a bundle can be traced back to the
// packager that produced it.
package version
