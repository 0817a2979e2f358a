package exec

import (
	"bufio"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/rileyhilliard/sup/internal/errors"
	"github.com/rileyhilliard/sup/internal/host"
	"github.com/rileyhilliard/sup/internal/logger"
	"github.com/rileyhilliard/sup/internal/util"
)

// DefaultClient is the remote-shell client used when none is configured.
const DefaultClient = "ssh"

// stderrTailLines is how many trailing stderr lines are kept for diagnosis.
const stderrTailLines = 20

// Client is the remote-shell client program plus any fixed arguments,
// e.g. `ssh -o BatchMode=yes`. It is invoked as `<path> <args> user@host <cmd>`.
type Client struct {
	Path string
	Args []string
}

// ParseClient splits a client command line on whitespace.
// An empty string selects DefaultClient.
func ParseClient(s string) Client {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return Client{Path: DefaultClient}
	}
	return Client{Path: fields[0], Args: fields[1:]}
}

// Command builds the client invocation with extra arguments appended.
func (c Client) Command(ctx context.Context, extra ...string) *exec.Cmd {
	path := c.Path
	if path == "" {
		path = DefaultClient
	}
	args := make([]string, 0, len(c.Args)+len(extra))
	args = append(args, c.Args...)
	args = append(args, extra...)
	return exec.CommandContext(ctx, path, args...)
}

func (c Client) String() string {
	return strings.TrimSpace(c.Path + " " + strings.Join(c.Args, " "))
}

// Line is one line of session output attributed to a host.
type Line struct {
	Host   string
	Text   string
	Stderr bool
}

// String returns the text as printed, with stderr lines marked.
func (l Line) String() string {
	if l.Stderr {
		return "stderr: " + l.Text
	}
	return l.Text
}

// Session runs remote commands through the remote-shell client.
type Session struct {
	Client Client
	Log    logger.Logger
}

// NewSession creates a Session. A nil logger discards debug output.
func NewSession(client Client, log logger.Logger) *Session {
	if log == nil {
		log = logger.Noop()
	}
	return &Session{Client: client, Log: log}
}

// RunDirect runs command on id and prints its output as it arrives: every
// stdout line first, then every stderr line marked as such.
func (s *Session) RunDirect(ctx context.Context, id host.Identity, command string, stdout, stderr io.Writer) error {
	return s.run(ctx, id, command, func(l Line) error {
		w := stdout
		if l.Stderr {
			w = stderr
		}
		_, err := fmt.Fprintln(w, l.String())
		return err
	})
}

// RunRelayed runs command on id and sends each output line, tagged with the
// host, to out. Sends block while out is full.
func (s *Session) RunRelayed(ctx context.Context, id host.Identity, command string, out chan<- Line) error {
	return s.run(ctx, id, command, func(l Line) error {
		select {
		case out <- l:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
}

// run spawns `client user@host sh -c '<prepared>'` and delivers stdout lines
// in order, then stderr lines in order, before waiting for the exit status.
func (s *Session) run(ctx context.Context, id host.Identity, command string, emit func(Line) error) error {
	target := id.String()
	prepared := PrepareCommand(command)

	cmd := s.Client.Command(ctx, target, util.ShellWrap(prepared))
	s.log().Debug("Starting session: %s %s", s.Client, target)

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrSSH,
			"Couldn't create stdout pipe", "")
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrSSH,
			"Couldn't create stderr pipe", "")
	}

	if err := cmd.Start(); err != nil {
		return errors.WrapWithCode(err, errors.ErrSSH,
			fmt.Sprintf("Couldn't start remote shell client for %s", target),
			fmt.Sprintf("Make sure '%s' is installed, or choose another client with --ssh", s.Client.Path))
	}

	// stderr is buffered while stdout is read so a busy error stream cannot
	// fill its pipe and stall the remote side.
	stderrDone := make(chan []string, 1)
	go func() {
		var lines []string
		eachLine(stderrPipe, func(text string) { lines = append(lines, text) })
		stderrDone <- lines
	}()

	var emitErr error
	deliver := func(l Line) {
		if emitErr == nil {
			emitErr = emit(l)
		}
	}

	eachLine(stdoutPipe, func(text string) {
		deliver(Line{Host: target, Text: text})
	})

	errLines := <-stderrDone
	for _, text := range errLines {
		deliver(Line{Host: target, Text: text, Stderr: true})
	}

	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if stderrors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
			return DiagnoseExit(target, prepared, tail(errLines, stderrTailLines), exitErr.ExitCode())
		}
		return errors.WrapWithCode(err, errors.ErrSSH,
			fmt.Sprintf("Remote session to %s failed", target), "")
	}

	return emitErr
}

// RunInteractive runs command on id with a forced TTY and the given streams
// attached directly. The command is sent as-is after sudo preparation.
func (s *Session) RunInteractive(ctx context.Context, id host.Identity, command string, stdin io.Reader, stdout, stderr io.Writer) error {
	target := id.String()
	prepared := PrepareCommand(command)

	cmd := s.Client.Command(ctx, "-tt", target, prepared)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	s.log().Debug("Starting interactive session: %s -tt %s", s.Client, target)

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if stderrors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
			return DiagnoseExit(target, prepared, "", exitErr.ExitCode())
		}
		return errors.WrapWithCode(err, errors.ErrSSH,
			fmt.Sprintf("Interactive session to %s failed", target),
			fmt.Sprintf("Make sure '%s' is installed, or choose another client with --ssh", s.Client.Path))
	}
	return nil
}

func (s *Session) log() logger.Logger {
	if s.Log == nil {
		return logger.Noop()
	}
	return s.Log
}

// eachLine calls fn for every line in r without its line ending.
// Lines of any length are supported.
func eachLine(r io.Reader, fn func(string)) {
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			fn(strings.TrimRight(line, "\r\n"))
		}
		if err != nil {
			return
		}
	}
}

func tail(lines []string, n int) string {
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
