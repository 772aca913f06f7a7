// Package logging provides structured logging built on log/slog.
//
// The Logger wraps slog with level and format parsing from configuration
// plus context-aware variants that pick up the request ID, record control
// number and rule table origin from a context.Context.
package logging
