package parallel

import (
	"fmt"

	"github.com/rileyhilliard/sup/internal/config"
	"github.com/rileyhilliard/sup/internal/errors"
)

// Mode controls how a remote stage is spread over hosts.
type Mode int

const (
	// ModeParallel runs every host at once (default).
	ModeParallel Mode = iota
	// ModeSerial runs consecutive batches of BatchSize hosts.
	ModeSerial
	// ModeOnce runs on the first host only.
	ModeOnce
	// ModeInteractive runs on exactly one host with a TTY and inherited I/O.
	ModeInteractive
)

func (m Mode) String() string {
	switch m {
	case ModeSerial:
		return "serial"
	case ModeOnce:
		return "once"
	case ModeInteractive:
		return "interactive"
	default:
		return "parallel"
	}
}

// FailurePolicy decides what a host failure does to the stage.
type FailurePolicy int

const (
	// Contained failures are reported and recorded; other hosts carry on
	// and the stage still succeeds.
	Contained FailurePolicy = iota
	// Fatal failures end the stage and are returned to the caller.
	Fatal
)

func (p FailurePolicy) String() string {
	if p == Fatal {
		return "fatal"
	}
	return "contained"
}

// Policy returns the failure policy of the mode. Single-host modes are
// fatal, fan-out modes are contained.
func (m Mode) Policy() FailurePolicy {
	if m == ModeOnce || m == ModeInteractive {
		return Fatal
	}
	return Contained
}

// Plan is the dispatch decision for one remote stage.
type Plan struct {
	Mode      Mode
	BatchSize int
}

// PlanFor picks the mode from the command flags, in priority order:
// stdin, once, serial, parallel. A serial batch size below 1 is rejected.
func PlanFor(cmd config.Command) (Plan, error) {
	switch {
	case cmd.Stdin:
		return Plan{Mode: ModeInteractive}, nil
	case cmd.Once:
		return Plan{Mode: ModeOnce}, nil
	}

	if size, ok := cmd.BatchSize(); ok {
		if size < 1 {
			return Plan{}, errors.New(errors.ErrConfig,
				fmt.Sprintf("command '%s': serial must be a positive number, got %d", cmd.Name, size),
				"Set serial to the number of hosts to run at a time, or remove it to run everywhere at once")
		}
		return Plan{Mode: ModeSerial, BatchSize: size}, nil
	}

	return Plan{Mode: ModeParallel}, nil
}

// Batches splits hosts into consecutive chunks for the plan. Serial plans
// get chunks of BatchSize; every other mode gets a single chunk.
func (p Plan) Batches(hosts []string) [][]string {
	if len(hosts) == 0 {
		return nil
	}
	if p.Mode != ModeSerial || p.BatchSize < 1 || p.BatchSize >= len(hosts) {
		return [][]string{hosts}
	}

	batches := make([][]string, 0, (len(hosts)+p.BatchSize-1)/p.BatchSize)
	for start := 0; start < len(hosts); start += p.BatchSize {
		end := min(start+p.BatchSize, len(hosts))
		batches = append(batches, hosts[start:end])
	}
	return batches
}

// HostResult is the outcome of one host's session.
type HostResult struct {
	Host string
	Err  error
}

// Success returns true if the session finished with exit status 0.
func (r HostResult) Success() bool {
	return r.Err == nil
}

// Report collects per-host outcomes of a stage.
type Report struct {
	Mode    Mode
	Results []HostResult
}

// Total returns the number of hosts attempted.
func (r *Report) Total() int {
	if r == nil {
		return 0
	}
	return len(r.Results)
}

// Failed returns the results that did not succeed, in run order.
func (r *Report) Failed() []HostResult {
	if r == nil {
		return nil
	}
	var failed []HostResult
	for _, res := range r.Results {
		if !res.Success() {
			failed = append(failed, res)
		}
	}
	return failed
}

// FailedHosts returns the host literals of the failed results.
func (r *Report) FailedHosts() []string {
	var hosts []string
	for _, res := range r.Failed() {
		hosts = append(hosts, res.Host)
	}
	return hosts
}

// HasFailures returns true if any host failed.
func (r *Report) HasFailures() bool {
	return len(r.Failed()) > 0
}
