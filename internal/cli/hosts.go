package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/sup/internal/host"
	"github.com/rileyhilliard/sup/internal/ui"
)

var hostsSSHConfig string

var hostsCmd = &cobra.Command{
	Use:   "hosts <network>",
	Short: "List the hosts a command would run on",
	Long: `List the hosts of a network after the inventory command has run and
--only/--except have been applied, in the order commands would use them.

Each host is annotated with the settings your ssh_config applies to it.

Examples:
  sup hosts production
  sup hosts production --only 'web[0-9]'`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeNetworks,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := currentOptions()
		if err != nil {
			return err
		}

		cfg, err := loadSupfile(opts.ConfigPath)
		if err != nil {
			return err
		}

		network, err := cfg.GetNetwork(args[0])
		if err != nil {
			return err
		}

		e, err := newEngine(opts, cfg, args[0], network)
		if err != nil {
			return err
		}

		hosts, err := e.Hosts(cmd.Context())
		if err != nil {
			return err
		}

		sshCfg, err := host.LoadSSHConfig(hostsSSHConfig)
		if err != nil {
			// The listing is still useful without ssh_config details.
			ui.PrintWarning(fmt.Sprintf("Couldn't read %s: %v", hostsSSHConfig, err))
			sshCfg = &host.SSHConfig{}
		}

		return printHosts(cmd.OutOrStdout(), hosts, sshCfg)
	},
}

func init() {
	rootCmd.AddCommand(hostsCmd)
	hostsCmd.Flags().StringVar(&hostsSSHConfig, "ssh-config", host.DefaultSSHConfigPath(), "ssh_config file to read host settings from")
}

func printHosts(w io.Writer, hosts []string, sshCfg *host.SSHConfig) error {
	if len(hosts) == 0 {
		ui.PrintWarning("No hosts matched the filters")
		return nil
	}

	rows := make([][]string, 0, len(hosts))
	for i, literal := range hosts {
		var details string
		id, err := host.ParseIdentity(literal)
		if err != nil {
			details = ui.ErrorStyle().Render("invalid: must be user@hostname")
		} else {
			details = sshCfg.Lookup(id).Summary()
		}
		rows = append(rows, []string{fmt.Sprintf("%d", i+1), literal, details})
	}

	fmt.Fprintln(w, ui.RenderSimpleTable([]ui.TableColumn{
		{Title: "#", Width: 2},
		{Title: "HOST", Width: 12},
		{Title: "SSH CONFIG", Width: 10},
	}, rows))
	return nil
}
