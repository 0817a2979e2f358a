package host

import (
	"fmt"
	"strings"

	"github.com/rileyhilliard/sup/internal/errors"
)

// Identity is a parsed user@host literal.
type Identity struct {
	User     string
	Hostname string
}

// ParseIdentity splits a host literal at its first '@'.
// Everything after that '@' is the hostname, so "a@b@c" parses as user "a"
// and hostname "b@c"; the remote-shell client decides what to make of it.
func ParseIdentity(literal string) (Identity, error) {
	user, hostname, ok := strings.Cut(strings.TrimSpace(literal), "@")
	if !ok || user == "" || hostname == "" {
		return Identity{}, errors.New(errors.ErrSSH,
			fmt.Sprintf("Invalid host '%s'", literal),
			"Hosts must be written as user@hostname")
	}
	return Identity{User: user, Hostname: hostname}, nil
}

// String returns the user@host form passed to the remote-shell client.
func (id Identity) String() string {
	return id.User + "@" + id.Hostname
}
