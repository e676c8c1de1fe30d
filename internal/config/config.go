// Package config loads the optional user configuration file. Values in
// the file are defaults only: command-line flags always win, and a
// missing file is indistinguishable from an empty one.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds user defaults for container creation. All fields are
// optional.
type Config struct {
	// Image is the default image reference for new containers.
	Image string `yaml:"image,omitempty"`

	// Shell is the default interactive shell program.
	Shell string `yaml:"shell,omitempty"`

	// Network is the default network mode for new containers.
	Network string `yaml:"network,omitempty"`

	// Workspace is the default host directory to mount at /workspace.
	Workspace string `yaml:"workspace,omitempty"`
}

// Path returns the configuration file location,
// <user config dir>/nihil/config.yaml.
func Path() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine user config directory: %w", err)
	}
	return filepath.Join(dir, "nihil", "config.yaml"), nil
}

// Load reads the user configuration from the default location.
// A missing file yields a zero Config and no error.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads and parses a configuration file. A missing file is not
// an error; a malformed one is, since silently ignoring a typo'd config
// would leave the user debugging the wrong layer.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("cannot read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("malformed config file %s: %w", path, err)
	}
	return &cfg, nil
}
