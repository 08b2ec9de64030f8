// Package bundler assembles a portable Windows bundle from an install directory.
//
// Run locates the MSYS2 toolchain, copies the DLL closure of the main
// executable, selects the GStreamer plugins, copies the GTK runtime assets,
// installs the plugin scanner and regenerates the loader caches. It can
// finish by writing a bundle manifest and an archive. Verify checks a
// finished bundle against its manifest.
package bundler
