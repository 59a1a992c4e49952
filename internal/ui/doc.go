// Package ui formats human-readable console output for hubkit commands.
//
// ConsoleCommandEventLogger turns shell command lifecycle events into short
// log lines, and Styles renders the one-line summaries commands print when
// they finish.
package ui
