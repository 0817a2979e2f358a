package host

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/rileyhilliard/sup/internal/config"
	"github.com/rileyhilliard/sup/internal/env"
	"github.com/rileyhilliard/sup/internal/errors"
	"github.com/rileyhilliard/sup/internal/logger"
)

// Resolver produces the candidate host list for a network.
type Resolver struct {
	// Env replaces the inherited environment of the inventory command.
	Env env.Environment

	// Log receives debug output; nil means logger.Noop().
	Log logger.Logger
}

// NewResolver creates a Resolver that runs inventory commands with e.
func NewResolver(e env.Environment, log logger.Logger) *Resolver {
	if log == nil {
		log = logger.Noop()
	}
	return &Resolver{Env: e, Log: log}
}

// Resolve returns the network's static hosts followed by the trimmed,
// non-empty stdout lines of its inventory command, if any. Duplicates are
// kept.
func (r *Resolver) Resolve(ctx context.Context, network config.Network) ([]string, error) {
	hosts := make([]string, 0, len(network.Hosts))
	hosts = append(hosts, network.Hosts...)

	if strings.TrimSpace(network.Inventory) == "" {
		return hosts, nil
	}

	log := r.Log
	if log == nil {
		log = logger.Noop()
	}
	log.Debug("Running inventory: %s", network.Inventory)

	cmd := exec.CommandContext(ctx, "sh", "-c", network.Inventory)
	cmd.Env = r.Env.Slice()

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var cause error = err
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			cause = fmt.Errorf("%w: %s", err, msg)
		}
		return nil, errors.WrapWithCode(cause, errors.ErrExec,
			"Inventory command failed",
			"Run it by hand to check its output: "+network.Inventory)
	}

	found := ParseInventory(stdout.Bytes())
	log.Debug("Inventory returned %d host(s)", len(found))

	return append(hosts, found...), nil
}

// ParseInventory splits inventory output into trimmed, non-empty lines.
func ParseInventory(out []byte) []string {
	var hosts []string
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			hosts = append(hosts, line)
		}
	}
	return hosts
}
