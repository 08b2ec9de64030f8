// Package archive packs a finished bundle into a single compressed tarball.
// The compression is chosen by the file extension.
package archive
