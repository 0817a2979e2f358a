package host

import (
	"fmt"
	"regexp"

	"github.com/rileyhilliard/sup/internal/errors"
)

// Filter keeps hosts matching Only and drops hosts matching Except.
// A nil pattern is not applied.
type Filter struct {
	Only   *regexp.Regexp
	Except *regexp.Regexp
}

// NewFilter compiles the include and exclude patterns. Empty strings mean
// no pattern.
func NewFilter(only, except string) (Filter, error) {
	var f Filter

	if only != "" {
		re, err := regexp.Compile(only)
		if err != nil {
			return Filter{}, errors.WrapWithCode(err, errors.ErrConfig,
				fmt.Sprintf("Invalid --only pattern '%s'", only),
				"Patterns use Go regexp syntax, e.g. --only 'web[0-9]+'")
		}
		f.Only = re
	}

	if except != "" {
		re, err := regexp.Compile(except)
		if err != nil {
			return Filter{}, errors.WrapWithCode(err, errors.ErrConfig,
				fmt.Sprintf("Invalid --except pattern '%s'", except),
				"Patterns use Go regexp syntax, e.g. --except 'db'")
		}
		f.Except = re
	}

	return f, nil
}

// Match reports whether a single host literal passes the filter.
func (f Filter) Match(host string) bool {
	if f.Only != nil && !f.Only.MatchString(host) {
		return false
	}
	if f.Except != nil && f.Except.MatchString(host) {
		return false
	}
	return true
}

// Apply returns the hosts that pass the filter, in their original order.
func (f Filter) Apply(hosts []string) []string {
	out := make([]string, 0, len(hosts))
	for _, h := range hosts {
		if f.Match(h) {
			out = append(out, h)
		}
	}
	return out
}

// Active reports whether any pattern is set.
func (f Filter) Active() bool {
	return f.Only != nil || f.Except != nil
}
