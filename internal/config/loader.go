package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/rileyhilliard/sup/internal/errors"
	"gopkg.in/yaml.v3"
)

// DefaultFileNames are tried in order when no --file is given.
var DefaultFileNames = []string{"Supfile.yml", "Supfile.yaml", "Supfile"}

// Load reads and decodes the Supfile at path. The result is not validated;
// call Validate before using it.
func Load(path string) (*Supfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Supfile not found: "+path,
				"Create a Supfile.yml or point at one with --file")
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read Supfile",
			"Check the file permissions of "+path)
	}

	return Parse(data, path)
}

// Parse decodes a Supfile document. source is only used in error messages.
func Parse(data []byte, source string) (*Supfile, error) {
	cfg := &Supfile{}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to parse Supfile",
			"Check the YAML syntax in "+source)
	}

	if cfg.Env == nil {
		cfg.Env = map[string]string{}
	}
	if cfg.Networks == nil {
		cfg.Networks = map[string]Network{}
	}
	if cfg.Commands == nil {
		cfg.Commands = map[string]Command{}
	}
	if cfg.Targets == nil {
		cfg.Targets = map[string][]string{}
	}

	for name, cmd := range cfg.Commands {
		cmd.Name = name
		cfg.Commands[name] = cmd
	}

	return cfg, nil
}

// Find locates the Supfile. An explicit path must exist; otherwise the
// default file names are tried in the working directory.
func Find(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Specified Supfile not found: "+explicit,
					"Check the path is correct")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access Supfile: "+explicit,
				"Check file permissions")
		}
		return explicit, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot determine current directory",
			"Check directory permissions")
	}

	for _, name := range DefaultFileNames {
		candidate := filepath.Join(cwd, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	return "", errors.New(errors.ErrConfig,
		"No Supfile found in "+cwd,
		"Create Supfile.yml or pass one with --file")
}

// NetworkNames returns network names sorted alphabetically.
func (s *Supfile) NetworkNames() []string {
	return sortedKeys(s.Networks)
}

// CommandNames returns command names sorted alphabetically.
func (s *Supfile) CommandNames() []string {
	return sortedKeys(s.Commands)
}

// TargetNames returns target names sorted alphabetically.
func (s *Supfile) TargetNames() []string {
	return sortedKeys(s.Targets)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
