// Package fsutil holds the copy primitives used to populate the bundle.
//
// Copies keep the source's permission bits and modification time, so running
// the bundler twice over unchanged inputs leaves an identical tree.
package fsutil
