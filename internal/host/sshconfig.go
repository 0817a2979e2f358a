package host

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/kevinburke/ssh_config"
)

// Settings are the ssh_config values that apply to one host.
type Settings struct {
	Alias        string
	HostName     string
	User         string
	Port         string
	IdentityFile string
}

// Summary renders the settings that differ from what the literal already says.
func (s Settings) Summary() string {
	var parts []string

	if s.HostName != "" && s.HostName != s.Alias {
		parts = append(parts, "hostname: "+s.HostName)
	}
	if s.User != "" {
		parts = append(parts, "user: "+s.User)
	}
	if s.Port != "" && s.Port != "22" {
		parts = append(parts, "port: "+s.Port)
	}
	if s.IdentityFile != "" {
		parts = append(parts, "key: "+s.IdentityFile)
	}

	return strings.Join(parts, ", ")
}

// SSHConfig looks up per-host settings in an OpenSSH client config file.
// A missing file yields empty settings for every host.
type SSHConfig struct {
	cfg *ssh_config.Config
}

// DefaultSSHConfigPath returns ~/.ssh/config.
func DefaultSSHConfigPath() string {
	return filepath.Join(homeDir(), ".ssh", "config")
}

// LoadSSHConfig parses the config at path. Everything from the first Match
// block on is ignored since the parser does not support it.
func LoadSSHConfig(path string) (*SSHConfig, error) {
	content, err := readUntilMatch(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &SSHConfig{}, nil
		}
		return nil, err
	}

	cfg, err := ssh_config.Decode(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	return &SSHConfig{cfg: cfg}, nil
}

// Lookup returns the settings for the hostname part of id.
func (c *SSHConfig) Lookup(id Identity) Settings {
	s := Settings{Alias: id.Hostname}
	if c == nil || c.cfg == nil {
		return s
	}

	s.HostName, _ = c.cfg.Get(id.Hostname, "HostName")
	s.User, _ = c.cfg.Get(id.Hostname, "User")
	s.Port, _ = c.cfg.Get(id.Hostname, "Port")
	if identity, _ := c.cfg.Get(id.Hostname, "IdentityFile"); identity != "" {
		s.IdentityFile = expandHome(identity)
	}
	return s
}

func readUntilMatch(path string) ([]byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	lines := strings.Split(string(content), "\n")
	for i, line := range lines {
		if strings.HasPrefix(strings.ToLower(strings.TrimSpace(line)), "match ") {
			lines = lines[:i]
			break
		}
	}
	return []byte(strings.Join(lines, "\n")), nil
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return os.Getenv("HOME")
	}
	return home
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir(), path[2:])
	}
	return path
}
