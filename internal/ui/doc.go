// Package ui renders terminal output for the iotwebconf CLI.
//
// It is built on Lipgloss and follows a "print once and exit" pattern:
//
//   - Header: command banner with the operation name and its parameters
//   - Result: success, failure or warning box with details and hints
//   - Tables: storage layout and parameter values
//   - Prompts: hidden password entry and yes/no confirmation
//
// Widths are clamped between MinTerminalWidth and MaxContentWidth based on
// the size reported by golang.org/x/term.
//
// # Logging Integration
//
// Zap logging is silent unless IOTWEBCONF_LOG_LEVEL is set, so the styled
// output is not interleaved with log lines.
package ui
