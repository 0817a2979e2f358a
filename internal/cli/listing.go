package cli

import (
	"fmt"
	"strings"

	"github.com/rileyhilliard/sup/internal/config"
	"github.com/rileyhilliard/sup/internal/ui"
)

// renderListing describes what can be run. The networks table is left out
// once a network has been chosen.
func renderListing(cfg *config.Supfile, network string) string {
	var b strings.Builder

	if network == "" {
		b.WriteString(sectionTitle("Networks"))
		b.WriteString(networkTable(cfg))
		b.WriteString("\n")
	}

	b.WriteString(sectionTitle("Commands"))
	b.WriteString(commandTable(cfg))
	b.WriteString("\n")

	if len(cfg.Targets) > 0 {
		b.WriteString(sectionTitle("Targets"))
		b.WriteString(targetTable(cfg))
		b.WriteString("\n")
	}

	return b.String()
}

func sectionTitle(title string) string {
	return ui.InfoStyle().Bold(true).Render(title) + "\n"
}

func networkTable(cfg *config.Supfile) string {
	names := cfg.NetworkNames()
	if len(names) == 0 {
		return ui.MutedStyle().Render("  (none)") + "\n"
	}

	rows := make([][]string, 0, len(names))
	for _, name := range names {
		network := cfg.Networks[name]
		inventory := ""
		if strings.TrimSpace(network.Inventory) != "" {
			inventory = "yes"
		}
		rows = append(rows, []string{name, fmt.Sprintf("%d", len(network.Hosts)), inventory})
	}

	return ui.RenderSimpleTable([]ui.TableColumn{
		{Title: "NETWORK", Width: 10},
		{Title: "HOSTS", Width: 5},
		{Title: "INVENTORY", Width: 9},
	}, rows) + "\n"
}

func commandTable(cfg *config.Supfile) string {
	names := cfg.CommandNames()
	if len(names) == 0 {
		return ui.MutedStyle().Render("  (none)") + "\n"
	}

	rows := make([][]string, 0, len(names))
	for _, name := range names {
		rows = append(rows, []string{name, cfg.Commands[name].Desc})
	}

	return ui.RenderSimpleTable([]ui.TableColumn{
		{Title: "COMMAND", Width: 10},
		{Title: "DESCRIPTION", Width: 20},
	}, rows) + "\n"
}

func targetTable(cfg *config.Supfile) string {
	names := cfg.TargetNames()
	rows := make([][]string, 0, len(names))
	for _, name := range names {
		rows = append(rows, []string{name, strings.Join(cfg.Targets[name], ", ")})
	}

	return ui.RenderSimpleTable([]ui.TableColumn{
		{Title: "TARGET", Width: 10},
		{Title: "COMMANDS", Width: 20},
	}, rows) + "\n"
}
