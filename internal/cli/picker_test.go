package cli

import (
	"bytes"
	stderrors "errors"
	"testing"

	"github.com/charmbracelet/huh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/sup/internal/config"
	"github.com/rileyhilliard/sup/internal/errors"
)

func stubTerminal(t *testing.T, interactive bool, answers ...string) *[]string {
	t.Helper()

	savedInteractive, savedPrompt := isInteractive, promptSelect
	t.Cleanup(func() {
		isInteractive, promptSelect = savedInteractive, savedPrompt
	})

	var titles []string
	isInteractive = func() bool { return interactive }
	promptSelect = func(title string, options []huh.Option[string]) (string, error) {
		titles = append(titles, title)
		if len(answers) == 0 {
			return "", stderrors.New("user aborted")
		}
		answer := answers[0]
		answers = answers[1:]
		return answer, nil
	}
	return &titles
}

func listingSupfile(t *testing.T) *config.Supfile {
	t.Helper()
	cfg, err := config.Parse([]byte(`version: 1
networks:
  dev:
    hosts: [deploy@dev1]
  prod:
    hosts: [deploy@web1, deploy@web2]
    inventory: echo deploy@web3
commands:
  build:
    desc: Build the image
    local: make
  deploy:
    desc: Shadowed by the target
    run: ./deploy
targets:
  deploy: [build]
`), "test")
	require.NoError(t, err)
	return cfg
}

func TestPickArgs_NonInteractivePrintsListing(t *testing.T) {
	titles := stubTerminal(t, false)
	cfg := listingSupfile(t)

	var out bytes.Buffer
	_, err := pickArgs(cfg, nil, &out)

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
	assert.Empty(t, *titles)

	listing := out.String()
	assert.Contains(t, listing, "Networks")
	assert.Contains(t, listing, "prod")
	assert.Contains(t, listing, "Build the image")
	assert.Contains(t, listing, "Targets")
}

func TestPickArgs_NonInteractiveWithNetworkSkipsNetworks(t *testing.T) {
	stubTerminal(t, false)
	cfg := listingSupfile(t)

	var out bytes.Buffer
	_, err := pickArgs(cfg, []string{"prod"}, &out)

	require.Error(t, err)
	assert.NotContains(t, out.String(), "Networks")
	assert.Contains(t, out.String(), "Commands")
}

func TestPickArgs_UnknownNetwork(t *testing.T) {
	titles := stubTerminal(t, true, "build")
	cfg := listingSupfile(t)

	_, err := pickArgs(cfg, []string{"staging"}, &bytes.Buffer{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Network 'staging' not found")
	assert.Empty(t, *titles, "no prompt for a bad network")
}

func TestPickArgs_Interactive(t *testing.T) {
	titles := stubTerminal(t, true, "prod", "build")
	cfg := listingSupfile(t)

	args, err := pickArgs(cfg, nil, &bytes.Buffer{})

	require.NoError(t, err)
	assert.Equal(t, []string{"prod", "build"}, args)
	assert.Equal(t, []string{"Network", "Command"}, *titles)
}

func TestPickArgs_InteractiveWithNetwork(t *testing.T) {
	titles := stubTerminal(t, true, "deploy")
	cfg := listingSupfile(t)

	args, err := pickArgs(cfg, []string{"dev"}, &bytes.Buffer{})

	require.NoError(t, err)
	assert.Equal(t, []string{"dev", "deploy"}, args)
	assert.Equal(t, []string{"Command"}, *titles)
}

func TestPickArgs_Cancelled(t *testing.T) {
	stubTerminal(t, true)
	cfg := listingSupfile(t)

	_, err := pickArgs(cfg, nil, &bytes.Buffer{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Selection cancelled")
}

func TestCommandOptions_TargetsShadowCommands(t *testing.T) {
	cfg := listingSupfile(t)

	var values []string
	for _, opt := range commandOptions(cfg) {
		values = append(values, opt.Value)
	}

	assert.Equal(t, []string{"deploy", "build"}, values)
	assert.Equal(t, "deploy (target)", commandOptions(cfg)[0].Key)
}

func TestNetworkOptions(t *testing.T) {
	cfg := listingSupfile(t)

	opts := networkOptions(cfg)
	require.Len(t, opts, 2)
	assert.Equal(t, "dev (1 hosts)", opts[0].Key)
	assert.Equal(t, "prod (2 hosts + inventory)", opts[1].Key)
}

func TestRenderListing_EmptySupfile(t *testing.T) {
	cfg, err := config.Parse([]byte("version: 1\n"), "test")
	require.NoError(t, err)

	listing := renderListing(cfg, "")

	assert.Contains(t, listing, "Networks")
	assert.Contains(t, listing, "(none)")
	assert.NotContains(t, listing, "Targets")
}
