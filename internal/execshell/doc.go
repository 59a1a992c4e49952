// Package execshell provides structured helpers for invoking external tools.
//
// ShellExecutor wraps a CommandRunner with logging and typed failures,
// OSCommandRunner provides the os/exec backed default, and the
// CommandEventObserver hook lets console output replace structured logs.
// Every git and gh invocation made by hubkit flows through this package.
package execshell
