package exec

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/rileyhilliard/sup/internal/env"
	"github.com/rileyhilliard/sup/internal/errors"
	"github.com/rileyhilliard/sup/internal/logger"
)

// LocalRunner runs commands and scripts on this machine. Each subprocess
// gets Env as its whole environment.
type LocalRunner struct {
	Env    env.Environment
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Log    logger.Logger
}

// NewLocalRunner creates a LocalRunner wired to the process's standard streams.
func NewLocalRunner(e env.Environment, log logger.Logger) *LocalRunner {
	if log == nil {
		log = logger.Noop()
	}
	return &LocalRunner{
		Env:    e,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Log:    log,
	}
}

// Run executes command with `sh -c`.
func (r *LocalRunner) Run(ctx context.Context, command string) error {
	r.Log.Debug("Running local command: %s", command)
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	return r.run(cmd, "Local command failed")
}

// RunScript executes the script at path with sh. The path must exist.
func (r *LocalRunner) RunScript(ctx context.Context, path string) error {
	if _, err := os.Stat(path); err != nil {
		return errors.WrapWithCode(err, errors.ErrLocal,
			fmt.Sprintf("Script file does not exist: %s", path),
			"Check the 'script' path in your Supfile; relative paths resolve from the working directory")
	}

	r.Log.Debug("Running local script: %s", path)
	cmd := exec.CommandContext(ctx, "sh", path)
	return r.run(cmd, fmt.Sprintf("Script %s failed", path))
}

func (r *LocalRunner) run(cmd *exec.Cmd, failure string) error {
	cmd.Env = r.Env.Slice()
	cmd.Stdin = r.Stdin
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if stderrors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
			return errors.WrapWithCode(errors.NewExitError(exitErr.ExitCode()), errors.ErrLocal,
				failure, "")
		}
		return errors.WrapWithCode(err, errors.ErrLocal,
			failure,
			"Make sure the command exists and is executable.")
	}
	return nil
}
