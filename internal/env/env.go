// Package env assembles the variables handed to local commands, scripts and
// inventory commands.
//
// Layers are applied lowest to highest precedence:
//
//  1. the inherited process environment
//  2. injected identity variables (SUP_TIME, SUP_USER, SUP_NETWORK)
//  3. Supfile global env
//  4. network env
//  5. --env KEY=VALUE overrides
//
// The result is immutable and safe to share between goroutines.
package env

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rileyhilliard/sup/internal/errors"
)

// Injected variable names.
const (
	VarTime    = "SUP_TIME"
	VarUser    = "SUP_USER"
	VarNetwork = "SUP_NETWORK"
)

// Layers holds the inputs of Build.
type Layers struct {
	// Process is the inherited environment in os.Environ() form.
	Process []string

	Time    time.Time
	User    string
	Network string

	Global     map[string]string
	NetworkEnv map[string]string
	Overrides  map[string]string
}

// Environment is a read-only set of variables.
type Environment struct {
	vars map[string]string
}

// Build merges the layers. Later layers overwrite same-named keys.
func Build(l Layers) Environment {
	vars := make(map[string]string, len(l.Process)+8)

	for _, kv := range l.Process {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			continue
		}
		vars[key] = value
	}

	ts := l.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	vars[VarTime] = ts.Format(time.RFC3339)
	vars[VarUser] = l.User
	vars[VarNetwork] = l.Network

	for _, layer := range []map[string]string{l.Global, l.NetworkEnv, l.Overrides} {
		for k, v := range layer {
			vars[k] = v
		}
	}

	return Environment{vars: vars}
}

// FromMap builds an Environment holding exactly the given variables.
func FromMap(m map[string]string) Environment {
	vars := make(map[string]string, len(m))
	for k, v := range m {
		vars[k] = v
	}
	return Environment{vars: vars}
}

// Get returns the value of key and whether it is set.
func (e Environment) Get(key string) (string, bool) {
	v, ok := e.vars[key]
	return v, ok
}

// Len returns the number of variables.
func (e Environment) Len() int {
	return len(e.vars)
}

// Map returns a copy of the variables.
func (e Environment) Map() map[string]string {
	out := make(map[string]string, len(e.vars))
	for k, v := range e.vars {
		out[k] = v
	}
	return out
}

// Slice returns KEY=VALUE pairs sorted by key, ready for exec.Cmd.Env.
// Each call returns a fresh slice.
func (e Environment) Slice() []string {
	keys := make([]string, 0, len(e.vars))
	for k := range e.vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+e.vars[k])
	}
	return out
}

// ParseOverrides parses repeated KEY=VALUE flags. The value may itself
// contain '=' and may be empty.
func ParseOverrides(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, errors.New(errors.ErrConfig,
				fmt.Sprintf("Invalid --env value '%s'", pair),
				"Use KEY=VALUE, e.g. --env IMAGE=api:latest")
		}
		out[key] = value
	}
	return out, nil
}
