// Package logger provides a small wrapper around zap to offer:
//   - a global sugared logger with a console encoder that sends warnings and
//     errors to stderr and everything else to stdout,
//   - context helpers (ToContext/FromContext/WithName/WithKV),
//   - level parsing utilities,
//   - convenience functions (Infof, WarnKV, etc.).
//
// Every packaging step accepts a context and extracts the logger from it, so
// tests can inject an observer and assert on the emitted warnings.
package logger
