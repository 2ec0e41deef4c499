// Package log provides secure logging functionality with automatic
// sanitization of sensitive information, built on top of the standard
// slog package.
//
// This package extends slog to provide:
//   - Automatic sanitization of credentials (cookies, tokens, API keys)
//   - Masking of personal data harvested during lookups (email-shaped
//     values) so logs can be shared without leaking subjects' data
//   - Configurable log levels with verbose mode support
//
// # Usage
//
//	// Create a secure logger
//	logger := log.NewSecureLogger(os.Stderr, true) // verbose=true
//
//	logger.Info("fetch complete",
//	    "cookie", "session=abc123",  // sanitized
//	    "source", "whitepages",
//	)
//
//	// Set as default logger
//	slog.SetDefault(logger)
package log
