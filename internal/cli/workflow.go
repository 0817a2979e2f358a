package cli

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rileyhilliard/sup/internal/config"
	"github.com/rileyhilliard/sup/internal/engine"
	"github.com/rileyhilliard/sup/internal/env"
	"github.com/rileyhilliard/sup/internal/errors"
	"github.com/rileyhilliard/sup/internal/exec"
	"github.com/rileyhilliard/sup/internal/logger"
)

// workflowIO carries the streams every stage writes to.
type workflowIO struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// loadSupfile finds, decodes and validates the Supfile.
func loadSupfile(explicit string) (*config.Supfile, error) {
	path, err := config.Find(explicit)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newEngine merges the environment layers for networkName and builds the
// engine that runs commands on it.
func newEngine(opts workflowOptions, cfg *config.Supfile, networkName string, network config.Network) (*engine.Engine, error) {
	merged := env.Build(env.Layers{
		Process:    os.Environ(),
		Time:       time.Now(),
		User:       config.CurrentUser(),
		Network:    networkName,
		Global:     cfg.Env,
		NetworkEnv: network.Env,
		Overrides:  opts.Overrides,
	})

	return engine.New(engine.Options{
		Network:       network,
		Env:           merged,
		Only:          opts.Only,
		Except:        opts.Except,
		DisablePrefix: opts.DisablePrefix,
		Client:        exec.ParseClient(opts.Client),
		Log:           logger.NewEnvLogger("[engine]"),
	})
}

// runWorkflow resolves the network and every named command or target up
// front, then runs the commands in order. The first fatal error stops the
// invocation. In strict mode any contained host failure makes the
// invocation fail once everything has run.
func runWorkflow(ctx context.Context, opts workflowOptions, cfg *config.Supfile, networkName string, names []string, streams workflowIO) error {
	network, err := cfg.GetNetwork(networkName)
	if err != nil {
		return err
	}

	commands, err := cfg.ResolveCommands(names)
	if err != nil {
		return err
	}

	e, err := newEngine(opts, cfg, networkName, network)
	if err != nil {
		return err
	}
	e.SetIO(streams.Stdin, streams.Stdout, streams.Stderr)

	log := logger.NewEnvLogger("[sup]")
	hostFailures := false

	for _, cmd := range commands {
		log.Debug("Running command %s on network %s", cmd.Name, networkName)

		result, err := e.Execute(ctx, cmd)
		if err != nil {
			return err
		}
		if result.Report.HasFailures() {
			hostFailures = true
		}
	}

	if opts.Strict && hostFailures {
		return errors.NewExitError(1)
	}
	return nil
}
