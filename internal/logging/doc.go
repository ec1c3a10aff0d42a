// Package logging provides structured logging for the config portal.
//
// This package wraps a global zap logger with convenience functions for the
// logging patterns used by the portal, the persistence engine and the CLI.
//
// # Log Levels
//
//   - Debug: parameter dumps, raw storage bytes, rendering details
//   - Info: requests, load/save results, validation outcomes
//   - Warn: non-fatal issues (mDNS registration failures, storage fallbacks)
//   - Error: I/O failures while loading or saving configuration
//
// A rejected form submission is expected user input friction, so it is
// logged at Info and never at Error.
//
// # Configuration
//
// Initialize logging at startup:
//
//	if err := logging.Initialize("debug"); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// Passing an empty level reads IOTWEBCONF_LOG_LEVEL. When both are empty the
// logger is a no-op, which keeps CLI output clean.
//
// # Secrets
//
// LogParameters masks password values. Set IOTWEBCONF_LOG_SECRETS to any
// non-empty value to print them in clear text while debugging on a bench.
package logging
