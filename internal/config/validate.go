package config

import (
	"fmt"
	"strings"

	"github.com/rileyhilliard/sup/internal/errors"
)

// Validate checks the Supfile for errors that must stop the run before any
// stage executes.
func Validate(cfg *Supfile) error {
	if strings.TrimSpace(cfg.Version) == "" {
		return errors.New(errors.ErrConfig,
			"Supfile is missing 'version'",
			"Add a version line at the top, e.g. version: 0.4")
	}

	for _, name := range cfg.CommandNames() {
		if err := validateCommand(name, cfg.Commands[name]); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig, err.Error(),
				"Check the 'commands' section of your Supfile.")
		}
	}

	for _, name := range cfg.TargetNames() {
		for _, ref := range cfg.Targets[name] {
			if _, ok := cfg.Commands[ref]; !ok {
				return errors.New(errors.ErrConfig,
					fmt.Sprintf("Target '%s' references unknown command '%s'", name, ref),
					suggestion(ref, cfg.CommandNames(), "commands"))
			}
		}
	}

	return nil
}

func validateCommand(name string, cmd Command) error {
	if size, ok := cmd.BatchSize(); ok && size < 1 {
		return fmt.Errorf("command '%s': serial must be a positive number, got %d", name, size)
	}

	for i, u := range cmd.Upload {
		if strings.TrimSpace(u.Src) == "" {
			return fmt.Errorf("command '%s': upload #%d is missing 'src'", name, i+1)
		}
		if strings.TrimSpace(u.Dst) == "" {
			return fmt.Errorf("command '%s': upload #%d is missing 'dst'", name, i+1)
		}
	}

	return nil
}
