package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetRootCmd creates a fresh root command for testing.
func resetRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sup",
		Short: "Run Supfile commands on groups of hosts",
	}
}

func TestCompletionBashGeneration(t *testing.T) {
	cmd := resetRootCmd()

	var buf bytes.Buffer
	err := cmd.GenBashCompletion(&buf)

	require.NoError(t, err)
	output := buf.String()

	assert.Contains(t, output, "# bash completion for sup")
	assert.Contains(t, output, "__sup_debug")
	assert.Contains(t, output, "complete -o default -F __start_sup sup")
}

func TestCompletionZshGeneration(t *testing.T) {
	cmd := resetRootCmd()

	var buf bytes.Buffer
	err := cmd.GenZshCompletion(&buf)

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "#compdef sup")
	assert.Contains(t, buf.String(), "_sup()")
}

func TestCompletionFishGeneration(t *testing.T) {
	cmd := resetRootCmd()

	var buf bytes.Buffer
	err := cmd.GenFishCompletion(&buf, true)

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "fish completion for sup")
	assert.Contains(t, buf.String(), "complete -c sup")
}

func TestCompletionPowershellGeneration(t *testing.T) {
	cmd := resetRootCmd()

	var buf bytes.Buffer
	err := cmd.GenPowerShellCompletion(&buf)

	require.NoError(t, err)
	// Case insensitive check
	assert.Contains(t, strings.ToLower(buf.String()), "powershell completion")
	assert.Contains(t, buf.String(), "Register-ArgumentCompleter")
}

func TestCompletionCommandWritesToOutput(t *testing.T) {
	var buf bytes.Buffer
	completionCmd.SetOut(&buf)
	defer completionCmd.SetOut(nil)

	require.NoError(t, completionCmd.RunE(completionCmd, []string{"bash"}))

	assert.Contains(t, buf.String(), "__completeNoDesc", "should use dynamic completion")
	assert.Contains(t, buf.String(), "__start_sup")
}

func TestCompletionCommandValidArgs(t *testing.T) {
	assert.Contains(t, completionCmd.ValidArgs, "bash")
	assert.Contains(t, completionCmd.ValidArgs, "zsh")
	assert.Contains(t, completionCmd.ValidArgs, "fish")
	assert.Contains(t, completionCmd.ValidArgs, "powershell")
	assert.Len(t, completionCmd.ValidArgs, 4)
}

func TestCompleteArgs(t *testing.T) {
	path := writeSupfile(t, testSupfile)

	saved := settings.GetString(flagFile)
	settings.Set(flagFile, path)
	defer settings.Set(flagFile, saved)

	networks, directive := completeArgs(rootCmd, nil, "")
	assert.Equal(t, []string{"empty", "prod"}, networks)
	assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)

	names, _ := completeArgs(rootCmd, []string{"prod"}, "")
	assert.Equal(t, "deploy", names[0], "targets come first")
	assert.Contains(t, names, "greet")

	networks, _ = completeNetworks(hostsCmd, nil, "")
	assert.Equal(t, []string{"empty", "prod"}, networks)

	none, _ := completeNetworks(hostsCmd, []string{"prod"}, "")
	assert.Empty(t, none)
}

func TestCompleteArgs_NoSupfile(t *testing.T) {
	saved := settings.GetString(flagFile)
	settings.Set(flagFile, "/nonexistent/Supfile.yml")
	defer settings.Set(flagFile, saved)

	names, directive := completeArgs(rootCmd, nil, "")
	assert.Empty(t, names)
	assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)
}
