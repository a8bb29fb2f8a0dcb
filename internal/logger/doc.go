// Package logger wraps zap to provide the debug transport used across the
// CLI:
//   - a sugared console logger writing to stderr,
//   - namespace selection through the DEBUG variable (e.g. DEBUG=sf,sf:*),
//   - context helpers (ToContext/FromContext) so commands can pick up the
//     logger created during bootstrap.
package logger
