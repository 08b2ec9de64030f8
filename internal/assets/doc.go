// Package assets copies GTK, GLib and GStreamer runtime assets (schemas,
// icons, themes, loadable modules, configuration and certificates) from the
// toolchain into the bundle according to the asset manifest.
package assets
