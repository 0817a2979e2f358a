package exec

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rileyhilliard/sup/internal/errors"
)

// sshConnectionFailure is the status the ssh client exits with when it
// cannot reach or authenticate to the host.
const sshConnectionFailure = 255

// notFoundPatterns match "command not found" messages from common shells.
// They only apply together with exit status 127.
var notFoundPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)bash: (\S+): command not found`),
	regexp.MustCompile(`(?i)zsh: command not found: (\S+)`),
	regexp.MustCompile(`(?i)sh: \d+: (\S+): not found`),
	regexp.MustCompile(`(?i)-bash: (\S+): No such file or directory`),
	regexp.MustCompile(`(?i)(\S+): not found`),
	regexp.MustCompile(`(?i)(\S+): command not found`),
}

// IsCommandNotFound checks whether stderr and exit status describe a missing
// executable. It returns the executable's name when it can be extracted.
func IsCommandNotFound(stderr string, exitCode int) (string, bool) {
	if exitCode != 127 {
		return "", false
	}

	for _, pattern := range notFoundPatterns {
		if matches := pattern.FindStringSubmatch(stderr); len(matches) > 1 {
			return matches[1], true
		}
	}

	return "", true
}

// DiagnoseExit turns a remote non-zero exit into a structured error with a
// hint. stderr is whatever the session printed on its error stream. The
// exit code is kept as an *errors.ExitError cause.
func DiagnoseExit(target, cmd, stderr string, exitCode int) error {
	status := errors.NewExitError(exitCode)

	if exitCode == sshConnectionFailure {
		return errors.WrapWithCode(status, errors.ErrSSH,
			fmt.Sprintf("Remote shell client failed for %s", target),
			fmt.Sprintf("Check that the host is reachable with: ssh %s true", target))
	}

	if name, notFound := IsCommandNotFound(stderr, exitCode); notFound {
		if name == "" {
			if parts := strings.Fields(cmd); len(parts) > 0 {
				name = parts[0]
			} else {
				name = "command"
			}
		}
		return errors.WrapWithCode(status, errors.ErrExec,
			fmt.Sprintf("'%s' not found in PATH on %s", name, target),
			fmt.Sprintf("Install '%s' on the host, or check its PATH with: ssh %s 'command -v %s'", name, target, name))
	}

	return errors.WrapWithCode(status, errors.ErrExec,
		fmt.Sprintf("Remote command failed on %s", target),
		"")
}
