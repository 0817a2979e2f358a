package exec

import (
	"strings"

	"github.com/rileyhilliard/sup/internal/util"
)

// sudoWrapper keeps the caller's environment across the privilege boundary
// and runs the rest of the command through bash.
const sudoWrapper = "sudo -E bash -c "

// PrepareCommand rewrites a remote command that starts with sudo so its
// remainder runs as one quoted argument under `sudo -E bash -c`. Quoting,
// variable assignments and pipelines in the remainder survive intact.
// Anything else, including a bare "sudo", is returned unchanged.
func PrepareCommand(cmd string) string {
	trimmed := strings.TrimSpace(cmd)

	fields := strings.Fields(trimmed)
	if len(fields) < 2 || fields[0] != "sudo" {
		return cmd
	}

	rest := strings.TrimSpace(trimmed[len("sudo"):])
	return sudoWrapper + util.ShellQuote(rest)
}

// IsElevated reports whether cmd was produced by PrepareCommand's sudo rewrite.
func IsElevated(cmd string) bool {
	return strings.HasPrefix(cmd, sudoWrapper)
}
