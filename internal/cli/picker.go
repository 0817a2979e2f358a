package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/rileyhilliard/sup/internal/config"
	"github.com/rileyhilliard/sup/internal/errors"
)

// isInteractive reports whether the user can answer prompts.
var isInteractive = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// promptSelect asks the user to pick one of options. Replaced in tests.
var promptSelect = func(title string, options []huh.Option[string]) (string, error) {
	var selected string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title(title).
				Options(options...).
				Value(&selected),
		),
	)
	if err := form.Run(); err != nil {
		return "", err
	}
	return selected, nil
}

// pickArgs fills in a missing network and command. On a terminal the user
// is prompted; otherwise the choices are printed and a usage error returned.
func pickArgs(cfg *config.Supfile, args []string, out io.Writer) ([]string, error) {
	network := ""
	if len(args) > 0 {
		network = args[0]
		if _, err := cfg.GetNetwork(network); err != nil {
			return nil, err
		}
	}

	if !isInteractive() {
		fmt.Fprint(out, renderListing(cfg, network))
		return nil, errors.New(errors.ErrConfig,
			"Usage: sup [flags] <network> <command|target>",
			"Pick a network and a command or target from the lists above")
	}

	if len(cfg.Networks) == 0 || len(cfg.Commands) == 0 {
		return nil, errors.New(errors.ErrConfig,
			"Supfile has nothing to run",
			"Define at least one network and one command")
	}

	if network == "" {
		picked, err := promptSelect("Network", networkOptions(cfg))
		if err != nil {
			return nil, cancelled(err)
		}
		network = picked
	}

	command, err := promptSelect("Command", commandOptions(cfg))
	if err != nil {
		return nil, cancelled(err)
	}

	return []string{network, command}, nil
}

func networkOptions(cfg *config.Supfile) []huh.Option[string] {
	var options []huh.Option[string]
	for _, name := range cfg.NetworkNames() {
		network := cfg.Networks[name]
		label := fmt.Sprintf("%s (%d hosts)", name, len(network.Hosts))
		if network.Inventory != "" {
			label = fmt.Sprintf("%s (%d hosts + inventory)", name, len(network.Hosts))
		}
		options = append(options, huh.NewOption(label, name))
	}
	return options
}

// commandOptions lists targets first, since a target shadows a command of
// the same name.
func commandOptions(cfg *config.Supfile) []huh.Option[string] {
	var options []huh.Option[string]
	for _, name := range cfg.TargetNames() {
		options = append(options, huh.NewOption(fmt.Sprintf("%s (target)", name), name))
	}
	for _, name := range cfg.CommandNames() {
		if _, shadowed := cfg.Targets[name]; shadowed {
			continue
		}
		label := name
		if desc := cfg.Commands[name].Desc; desc != "" {
			label = fmt.Sprintf("%s - %s", name, desc)
		}
		options = append(options, huh.NewOption(label, name))
	}
	return options
}

func cancelled(err error) error {
	return errors.WrapWithCode(err, errors.ErrConfig, "Selection cancelled", "")
}
