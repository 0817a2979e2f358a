package config

import (
	"fmt"
	"strings"

	"github.com/rileyhilliard/sup/internal/errors"
	"github.com/rileyhilliard/sup/internal/util"
)

// GetNetwork looks up a network by name.
func (s *Supfile) GetNetwork(name string) (Network, error) {
	network, ok := s.Networks[name]
	if !ok {
		return Network{}, errors.New(errors.ErrConfig,
			fmt.Sprintf("Network '%s' not found in Supfile", name),
			suggestion(name, s.NetworkNames(), "networks"))
	}
	return network, nil
}

// ResolveCommands expands command and target names into the ordered list of
// commands to run. Targets win over commands with the same name. Every name
// is checked before anything is returned, so a bad reference fails the whole
// invocation up front.
func (s *Supfile) ResolveCommands(names []string) ([]Command, error) {
	var out []Command

	for _, name := range names {
		if refs, ok := s.Targets[name]; ok {
			for _, ref := range refs {
				cmd, ok := s.Commands[ref]
				if !ok {
					return nil, errors.New(errors.ErrConfig,
						fmt.Sprintf("Target '%s' references unknown command '%s'", name, ref),
						suggestion(ref, s.CommandNames(), "commands"))
				}
				out = append(out, cmd)
			}
			continue
		}

		cmd, ok := s.Commands[name]
		if !ok {
			candidates := append(s.CommandNames(), s.TargetNames()...)
			return nil, errors.New(errors.ErrConfig,
				fmt.Sprintf("Command or target '%s' not found in Supfile", name),
				suggestion(name, candidates, "commands and targets"))
		}
		out = append(out, cmd)
	}

	return out, nil
}

// suggestion builds a "did you mean" hint, falling back to listing what exists.
func suggestion(name string, candidates []string, kind string) string {
	if similar := util.SuggestSimilar(name, candidates, 3); len(similar) > 0 {
		return "Did you mean: " + strings.Join(similar, ", ") + "?"
	}
	return fmt.Sprintf("Available %s: %s", kind, util.JoinOrNone(candidates))
}
