// Package logging provides structured logging for surveygen.
//
// This package wraps a global zap logger with convenience functions for the
// logging patterns used by the HTTP adapter and the request store.
//
// # Silent by Default
//
// The logger is a no-op until Initialize is called with a level, or the
// SURVEYGEN_LOG_LEVEL environment variable is set. This keeps CLI output
// clean and makes the library quiet when embedded.
//
//	if err := logging.Initialize("debug"); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// # Structured Logging
//
//	logging.Info("Survey generated",
//	    zap.String("request_id", id),
//	    zap.Duration("elapsed", elapsed),
//	)
//
// Logs are written to stderr in console format so that stdout stays usable
// for JSON output.
package logging
