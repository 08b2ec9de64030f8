// Package config defines the packaging tables used by the bundler and
// provides helpers to load, validate and save them in YAML format.
//
// The plugin allow-list and the runtime asset manifest are plain data with
// built-in defaults; a YAML file can override any of them.
package config
