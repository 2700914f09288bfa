// Package logger wraps zap with a shared console logger and context helpers.
//
// Services store a named logger in their context (WithName, WithKV) and log
// through the package-level helpers (Info, InfoKV, ErrorKV, ...), so every
// status line of a reconciliation pass carries the same scope.
package logger
