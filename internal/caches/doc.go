// Package caches regenerates the binary caches a GTK/GStreamer bundle reads
// at startup: the compiled GSettings schemas, the GIO module cache and the
// GDK Pixbuf loader cache.
//
// A step is skipped when its tool or its bundle directory is absent and
// fails the run when the tool exits with an error.
package caches
