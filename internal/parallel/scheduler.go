package parallel

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/rileyhilliard/sup/internal/errors"
	"github.com/rileyhilliard/sup/internal/exec"
	"github.com/rileyhilliard/sup/internal/host"
	"github.com/rileyhilliard/sup/internal/logger"
	"github.com/rileyhilliard/sup/internal/ui"
)

// Scheduler runs a remote command over a resolved, filtered host list.
type Scheduler struct {
	Session *exec.Session

	Stdin  io.Reader
	Stdout io.Writer
	// Stderr receives direct-mode error lines and contained host failures.
	Stderr io.Writer

	DisablePrefix bool
	Log           logger.Logger

	// diagMu serializes failure lines written from concurrent host tasks.
	diagMu sync.Mutex
}

// NewScheduler creates a Scheduler wired to the process's standard streams.
func NewScheduler(session *exec.Session, disablePrefix bool, log logger.Logger) *Scheduler {
	if log == nil {
		log = logger.Noop()
	}
	return &Scheduler{
		Session:       session,
		Stdin:         os.Stdin,
		Stdout:        os.Stdout,
		Stderr:        os.Stderr,
		DisablePrefix: disablePrefix,
		Log:           log,
	}
}

// Execute runs command according to plan. Fatal-policy modes return the
// first failure; contained modes return a nil error and record failures in
// the report.
func (s *Scheduler) Execute(ctx context.Context, plan Plan, hosts []string, command string) (*Report, error) {
	report := &Report{Mode: plan.Mode}

	switch plan.Mode {
	case ModeInteractive:
		return report, s.interactive(ctx, report, hosts, command)
	case ModeOnce:
		return report, s.once(ctx, report, hosts, command)
	}

	if len(hosts) == 0 {
		s.Log.Warn("No hosts matched the filters")
		return report, nil
	}

	for i, batch := range plan.Batches(hosts) {
		if plan.Mode == ModeSerial {
			s.Log.Debug("Serial batch %d: %d host(s)", i+1, len(batch))
		}
		report.Results = append(report.Results, s.fanOut(ctx, batch, command)...)
	}

	if report.HasFailures() {
		fmt.Fprintln(s.Stderr, ui.FailureSummary(report.FailedHosts(), report.Total()))
	}
	return report, nil
}

func (s *Scheduler) interactive(ctx context.Context, report *Report, hosts []string, command string) error {
	if len(hosts) != 1 {
		return errors.New(errors.ErrSSH,
			fmt.Sprintf("Interactive commands need exactly one host, but %d matched", len(hosts)),
			"Narrow the network down with --only or --except")
	}

	literal := hosts[0]
	if f, ok := s.Stdin.(*os.File); ok && !term.IsTerminal(int(f.Fd())) {
		s.Log.Warn("stdin is not a terminal, %s gets a forced TTY without keyboard input", literal)
	}
	return s.settle(ModeInteractive.Policy(), report, literal, func() error {
		id, err := host.ParseIdentity(literal)
		if err != nil {
			return err
		}
		s.Log.Info("Connecting to %s", id)
		return s.Session.RunInteractive(ctx, id, command, s.Stdin, s.Stdout, s.Stderr)
	})
}

func (s *Scheduler) once(ctx context.Context, report *Report, hosts []string, command string) error {
	if len(hosts) == 0 {
		s.Log.Warn("No hosts matched the filters")
		return nil
	}

	literal := hosts[0]
	return s.settle(ModeOnce.Policy(), report, literal, func() error {
		id, err := host.ParseIdentity(literal)
		if err != nil {
			return err
		}
		s.Log.Info("Connecting to %s", id)
		return s.Session.RunDirect(ctx, id, command, s.Stdout, s.Stderr)
	})
}

// fanOut runs one relayed session per host, all feeding a fresh channel
// that is drained here. It returns once every session has finished and
// every line has been printed.
func (s *Scheduler) fanOut(ctx context.Context, batch []string, command string) []HostResult {
	lines := NewChannel()
	mux := NewMultiplexer(s.Stdout, s.DisablePrefix)

	results := make([]HostResult, len(batch))

	var g errgroup.Group
	for i, literal := range batch {
		g.Go(func() error {
			var one Report
			_ = s.settle(Contained, &one, literal, func() error {
				id, err := host.ParseIdentity(literal)
				if err != nil {
					return err
				}
				s.Log.Info("Connecting to %s", id)
				return s.Session.RunRelayed(ctx, id, command, lines)
			})
			results[i] = one.Results[0]
			return nil
		})
	}

	go func() {
		_ = g.Wait()
		close(lines)
	}()

	mux.Drain(lines)
	_ = g.Wait()

	return results
}

// settle runs one host's work and applies the failure policy to its result.
// Contained failures are printed and swallowed; fatal ones are returned.
func (s *Scheduler) settle(policy FailurePolicy, report *Report, literal string, work func() error) error {
	err := work()
	report.Results = append(report.Results, HostResult{Host: literal, Err: err})
	if err == nil {
		return nil
	}

	if policy == Fatal {
		return err
	}

	s.diagMu.Lock()
	fmt.Fprintln(s.Stderr, ui.HostFailure(literal, err))
	s.diagMu.Unlock()
	return nil
}
