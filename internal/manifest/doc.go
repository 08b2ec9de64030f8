// Package manifest records what a bundle contains.
//
// The manifest lists every bundle file with its BLAKE3 digest together with
// the plugin selection and the bundler version. It is written as YAML at the
// bundle root and can later be used to verify that a bundle was not altered.
package manifest
