// Package util provides common utility functions used across the codebase.
package util

import "strings"

// ShellQuote wraps a string in single quotes, escaping any existing single quotes.
// The result is a single literal word for any POSIX shell.
func ShellQuote(s string) string {
	// Replace ' with '\'' (end quote, escaped quote, start quote)
	escaped := strings.ReplaceAll(s, "'", "'\\''")
	return "'" + escaped + "'"
}

// ShellQuotePreserveTilde quotes a remote path while leaving a leading ~/
// unquoted so the remote shell expands it to the login user's home.
func ShellQuotePreserveTilde(path string) string {
	if strings.HasPrefix(path, "~/") {
		return "~/" + ShellQuote(path[2:])
	}
	if path == "~" {
		return "~"
	}
	return ShellQuote(path)
}

// ShellWrap returns cmd as a `sh -c '<cmd>'` invocation so the far side runs
// it through a non-interactive POSIX shell regardless of the login shell.
func ShellWrap(cmd string) string {
	return "sh -c " + ShellQuote(cmd)
}
