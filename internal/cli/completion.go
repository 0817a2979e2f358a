package cli

import (
	"github.com/spf13/cobra"

	"github.com/rileyhilliard/sup/internal/errors"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion scripts for sup.

Network, command and target names are completed from the Supfile in the
current directory, or the one given with --file.

Examples:
  # Bash
  sup completion bash > /etc/bash_completion.d/sup

  # Zsh
  sup completion zsh > "${fpath[1]}/_sup"

  # Fish
  sup completion fish > ~/.config/fish/completions/sup.fish`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(out)
		case "zsh":
			return rootCmd.GenZshCompletion(out)
		case "fish":
			return rootCmd.GenFishCompletion(out, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(out)
		default:
			return errors.New(errors.ErrConfig,
				"Unknown shell: "+args[0],
				"Supported shells: bash, zsh, fish, powershell")
		}
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}

// completeArgs completes network names first, then command and target
// names, from the Supfile in effect.
func completeArgs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	cfg, err := loadSupfile(settings.GetString(flagFile))
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	if len(args) == 0 {
		return cfg.NetworkNames(), cobra.ShellCompDirectiveNoFileComp
	}

	names := append(cfg.TargetNames(), cfg.CommandNames()...)
	return names, cobra.ShellCompDirectiveNoFileComp
}

// completeNetworks completes the single network argument of subcommands.
func completeNetworks(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	cfg, err := loadSupfile(settings.GetString(flagFile))
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return cfg.NetworkNames(), cobra.ShellCompDirectiveNoFileComp
}
