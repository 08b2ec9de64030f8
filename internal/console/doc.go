// Package console prints the human-facing step banners and progress bars of
// a packaging run. Structured diagnostics go through package logger instead.
package console
