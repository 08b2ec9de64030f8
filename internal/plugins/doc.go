// Package plugins copies the allow-listed GStreamer plugins into the bundle
// and pulls in the DLL closure of every plugin it copies.
package plugins
