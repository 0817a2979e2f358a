package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/rileyhilliard/sup/internal/errors"
	"github.com/rileyhilliard/sup/internal/logger"
	"github.com/rileyhilliard/sup/internal/ui"
)

// settings holds the tool settings that can come from flags or SUP_*
// variables. Flags win over the environment.
var settings = viper.New()

var rootCmd = &cobra.Command{
	Use:   "sup [flags] <network> <command|target> [command|target...]",
	Short: "Run Supfile commands on groups of hosts",
	Long: `sup runs the commands described in a Supfile against a network of hosts.

Each command may run a local shell command, a local script, a remote
command on every host of the network, and uploads, in that order.

Examples:
  sup production deploy            # Run the deploy command on production
  sup staging build deploy         # Run two commands in order
  sup --only 'web[0-9]' prod uptime
  sup -e IMAGE=api:v2 prod deploy  # Override a Supfile variable
  sup                              # Pick a network and command interactively`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		applyOutputSettings()
	},
	ValidArgsFunction: completeArgs,
	RunE:              runRoot,
}

func init() {
	addGlobalFlags(rootCmd.PersistentFlags())

	settings.SetEnvPrefix("SUP")
	settings.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	settings.AutomaticEnv()
	for _, name := range boundFlags {
		_ = settings.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name))
	}
}

// Execute runs the root command and exits the process on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		os.Exit(reportError(os.Stderr, err))
	}
}

// reportError prints err and returns the process exit status for it.
func reportError(w io.Writer, err error) int {
	if code, ok := errors.GetExitCode(err); ok {
		// A bare ExitError was already reported by whoever returned it.
		var supErr *errors.Error
		if stderrors.As(err, &supErr) {
			fmt.Fprint(w, supErr.Error())
		}
		return code
	}

	var supErr *errors.Error
	if stderrors.As(err, &supErr) {
		fmt.Fprint(w, supErr.Error())
		return 1
	}

	fmt.Fprintf(w, "%s %s\n", ui.ErrorStyle().Render(ui.SymbolFail), err)
	if isUsageError(err) {
		fmt.Fprintln(w, "\n  Run 'sup --help' for usage.")
	}
	return 1
}

// isUsageError reports whether err came from cobra's argument parsing.
func isUsageError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, prefix := range []string{"unknown command", "unknown flag", "unknown shorthand flag", "flag needs an argument", "invalid argument"} {
		if strings.HasPrefix(msg, prefix) {
			return true
		}
	}
	return false
}

// applyOutputSettings turns on debug logging and drops colors when asked to
// or when stdout is not a terminal.
func applyOutputSettings() {
	logger.SetDebug(settings.GetBool(flagDebug))

	if settings.GetBool(flagNoColor) || os.Getenv("NO_COLOR") != "" || !term.IsTerminal(int(os.Stdout.Fd())) {
		ui.DisableColors()
	}
}

func runRoot(cmd *cobra.Command, args []string) error {
	opts, err := currentOptions()
	if err != nil {
		return err
	}

	cfg, err := loadSupfile(opts.ConfigPath)
	if err != nil {
		return err
	}

	if len(args) < 2 {
		args, err = pickArgs(cfg, args, cmd.OutOrStdout())
		if err != nil {
			return err
		}
	}

	return runWorkflow(cmd.Context(), opts, cfg, args[0], args[1:], workflowIO{
		Stdin:  cmd.InOrStdin(),
		Stdout: cmd.OutOrStdout(),
		Stderr: cmd.ErrOrStderr(),
	})
}
