// Package engine runs Supfile commands against a network.
//
// An Engine is built once per invocation from the selected network, the
// merged environment and the host filters. Execute runs a command's
// stages in a fixed order, each to completion before the next:
//
//	local  -> LocalRunner
//	script -> LocalRunner
//	run    -> parallel.Scheduler (parallel, serial, once or interactive)
//	upload -> upload.Pipeline
package engine

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rileyhilliard/sup/internal/config"
	"github.com/rileyhilliard/sup/internal/env"
	"github.com/rileyhilliard/sup/internal/exec"
	"github.com/rileyhilliard/sup/internal/host"
	"github.com/rileyhilliard/sup/internal/logger"
	"github.com/rileyhilliard/sup/internal/parallel"
	"github.com/rileyhilliard/sup/internal/ui"
	"github.com/rileyhilliard/sup/internal/upload"
)

// Options configures an Engine.
type Options struct {
	Network config.Network
	Env     env.Environment

	// Only and Except are host regexps; empty means unset.
	Only   string
	Except string

	DisablePrefix bool

	// Client is the remote-shell client; the zero value means ssh.
	Client exec.Client

	Log logger.Logger
}

// Engine holds everything needed to run commands on one network.
type Engine struct {
	network config.Network
	filter  host.Filter

	resolver  *host.Resolver
	local     *exec.LocalRunner
	scheduler *parallel.Scheduler
	uploads   *upload.Pipeline

	stdout io.Writer
	log    logger.Logger
}

// New builds an Engine. Invalid filter patterns are configuration errors.
func New(opts Options) (*Engine, error) {
	filter, err := host.NewFilter(opts.Only, opts.Except)
	if err != nil {
		return nil, err
	}

	log := opts.Log
	if log == nil {
		log = logger.Noop()
	}

	client := opts.Client
	if client.Path == "" {
		client = exec.ParseClient("")
	}

	session := exec.NewSession(client, log)

	return &Engine{
		network:   opts.Network,
		filter:    filter,
		resolver:  host.NewResolver(opts.Env, log),
		local:     exec.NewLocalRunner(opts.Env, log),
		scheduler: parallel.NewScheduler(session, opts.DisablePrefix, log),
		uploads:   upload.NewPipeline(client, log),
		stdout:    os.Stdout,
		log:       log,
	}, nil
}

// SetIO redirects every stage's standard streams.
func (e *Engine) SetIO(stdin io.Reader, stdout, stderr io.Writer) {
	e.stdout = stdout

	e.local.Stdin = stdin
	e.local.Stdout = stdout
	e.local.Stderr = stderr

	e.scheduler.Stdin = stdin
	e.scheduler.Stdout = stdout
	e.scheduler.Stderr = stderr

	e.uploads.Stdout = stdout
}

// Hosts resolves the network's hosts and applies the filters.
func (e *Engine) Hosts(ctx context.Context) ([]string, error) {
	candidates, err := e.resolver.Resolve(ctx, e.network)
	if err != nil {
		return nil, err
	}

	hosts := e.filter.Apply(candidates)
	if e.filter.Active() {
		e.log.Debug("Filters kept %d of %d host(s)", len(hosts), len(candidates))
	}
	return hosts, nil
}

// Result describes what Execute did.
type Result struct {
	// Report is the run stage's per-host outcome; nil when there was no
	// run stage.
	Report *parallel.Report
}

// Execute runs the command's stages in order. Any fatal error stops the
// remaining stages. Contained host failures in the run stage are in the
// result's report.
func (e *Engine) Execute(ctx context.Context, cmd config.Command) (*Result, error) {
	result := &Result{}

	var plan parallel.Plan
	if cmd.Run != "" {
		p, err := parallel.PlanFor(cmd)
		if err != nil {
			return result, err
		}
		plan = p
	}

	if cmd.Local != "" {
		fmt.Fprintln(e.stdout, ui.StageHeader(ui.StageLocal, cmd.Local))
		if err := e.local.Run(ctx, cmd.Local); err != nil {
			return result, err
		}
	}

	if cmd.Script != "" {
		fmt.Fprintln(e.stdout, ui.StageHeader(ui.StageScript, cmd.Script))
		if err := e.local.RunScript(ctx, config.ExpandTilde(cmd.Script)); err != nil {
			return result, err
		}
	}

	// Hosts are resolved at most once per command, and only if a remote
	// stage needs them.
	var hosts []string
	resolved := false
	resolve := func() error {
		if resolved {
			return nil
		}
		h, err := e.Hosts(ctx)
		if err != nil {
			return err
		}
		hosts, resolved = h, true
		return nil
	}

	if cmd.Run != "" {
		if err := resolve(); err != nil {
			return result, err
		}
		e.log.Debug("Running %q in %s mode on %d host(s)", cmd.Name, plan.Mode, len(hosts))

		report, err := e.scheduler.Execute(ctx, plan, hosts, cmd.Run)
		result.Report = report
		if err != nil {
			return result, err
		}
	}

	if len(cmd.Upload) > 0 {
		if err := resolve(); err != nil {
			return result, err
		}
		if err := e.uploads.Run(ctx, hosts, cmd.Upload); err != nil {
			return result, err
		}
	}

	return result, nil
}
