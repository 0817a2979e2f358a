package ui

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/rileyhilliard/sup/internal/errors"
	"github.com/rileyhilliard/sup/internal/util"
)

// HostFailure renders the one-line report of a contained host failure:
//
//	✗ Error on host deploy@web2: Remote command failed on deploy@web2 (exit code 3)
func HostFailure(host string, err error) string {
	return fmt.Sprintf("%s Error on host %s: %s",
		ErrorStyle().Render(SymbolFail),
		HostStyle().Render(host),
		Oneline(err))
}

// FailureSummary renders the end-of-stage line listing failed hosts.
// It returns "" when nothing failed.
func FailureSummary(failed []string, total int) string {
	if len(failed) == 0 {
		return ""
	}
	noun := util.Pluralize(total, "host", "hosts")
	return fmt.Sprintf("%s %d of %d %s failed: %s",
		ErrorStyle().Render(SymbolFail),
		len(failed), total, noun,
		strings.Join(failed, ", "))
}

// Oneline flattens an error onto a single line. Structured errors show
// their message followed by the cause in parentheses.
func Oneline(err error) string {
	if err == nil {
		return ""
	}

	var supErr *errors.Error
	if stderrors.As(err, &supErr) {
		msg := supErr.Message
		if supErr.Cause != nil {
			msg += " (" + flatten(supErr.Cause.Error()) + ")"
		}
		return msg
	}
	return flatten(err.Error())
}

func flatten(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
