// Package exectest provides a fake remote-shell client for tests.
//
// The fake is a shell script that takes the same arguments as ssh
// (`[-tt] user@host command...`), runs the command locally inside a
// per-host directory, and records every call in a log file.
package exectest

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const script = `#!/bin/sh
log='{{LOG}}'
root='{{ROOT}}'
tty=no
if [ "$1" = "-tt" ]; then tty=yes; shift; fi
target="$1"
shift
host="${target#*@}"
printf 'call|%s|%s|%s\n' "$target" "$tty" "$(printf '%s' "$*" | tr '\n' ' ')" >> "$log"
case " {{DOWN}} " in
  *" $host "*)
    echo "ssh: connect to host $host port 22: Connection refused" >&2
    exit 255
    ;;
esac
mkdir -p "$root/$host" && cd "$root/$host" || exit 255
printf 'start|%s\n' "$host" >> "$log"
sh -c "$*"
rc=$?
printf 'end|%s\n' "$host" >> "$log"
exit $rc
`

// Call is one recorded client invocation.
type Call struct {
	Target  string
	TTY     bool
	Command string
}

// Event is a session start or end, in the order they were logged.
type Event struct {
	Kind string // "start" or "end"
	Host string
}

// Remote is a fake remote-shell client rooted in a temp directory.
type Remote struct {
	// Path is the client executable.
	Path string

	root string
	log  string
}

// NewRemote writes the fake client. Hosts listed in down fail like an
// unreachable ssh host, with exit status 255.
func NewRemote(t testing.TB, down ...string) *Remote {
	t.Helper()

	dir := t.TempDir()
	r := &Remote{
		Path: filepath.Join(dir, "fake-ssh"),
		root: filepath.Join(dir, "hosts"),
		log:  filepath.Join(dir, "calls.log"),
	}

	body := strings.NewReplacer(
		"{{LOG}}", r.log,
		"{{ROOT}}", r.root,
		"{{DOWN}}", strings.Join(down, " "),
	).Replace(script)

	if err := os.MkdirAll(r.root, 0755); err != nil {
		t.Fatalf("create fake remote root: %v", err)
	}
	if err := os.WriteFile(r.log, nil, 0644); err != nil {
		t.Fatalf("create fake remote log: %v", err)
	}
	if err := os.WriteFile(r.Path, []byte(body), 0755); err != nil {
		t.Fatalf("write fake remote client: %v", err)
	}
	return r
}

// HostDir is the directory a host's commands run in.
func (r *Remote) HostDir(hostname string) string {
	return filepath.Join(r.root, hostname)
}

// Calls returns every recorded invocation in order.
func (r *Remote) Calls(t testing.TB) []Call {
	t.Helper()
	var calls []Call
	for _, fields := range r.records(t) {
		if fields[0] != "call" || len(fields) < 4 {
			continue
		}
		calls = append(calls, Call{
			Target:  fields[1],
			TTY:     fields[2] == "yes",
			Command: fields[3],
		})
	}
	return calls
}

// Targets returns the user@host of every recorded invocation in order.
func (r *Remote) Targets(t testing.TB) []string {
	t.Helper()
	var out []string
	for _, c := range r.Calls(t) {
		out = append(out, c.Target)
	}
	return out
}

// Events returns session start and end markers in log order.
func (r *Remote) Events(t testing.TB) []Event {
	t.Helper()
	var events []Event
	for _, fields := range r.records(t) {
		if (fields[0] == "start" || fields[0] == "end") && len(fields) == 2 {
			events = append(events, Event{Kind: fields[0], Host: fields[1]})
		}
	}
	return events
}

func (r *Remote) records(t testing.TB) [][]string {
	t.Helper()

	f, err := os.Open(r.log)
	if err != nil {
		t.Fatalf("open fake remote log: %v", err)
	}
	defer f.Close()

	var out [][]string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		out = append(out, strings.SplitN(scanner.Text(), "|", 4))
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("read fake remote log: %v", err)
	}
	return out
}
