package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths contains the filesystem paths used by broom.
type Paths struct {
	// Root is the base directory for broom data (default: ~/.broom)
	Root string

	// Config is the path to the global config file
	Config string
}

// DefaultPaths returns the default paths for broom.
// Paths can be overridden with environment variables:
// - BROOM_ROOT: Override the root directory
// - BROOM_CONFIG: Override the config file path directly
func DefaultPaths() (*Paths, error) {
	root := os.Getenv("BROOM_ROOT")
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		root = filepath.Join(home, ".broom")
	}

	configPath := os.Getenv("BROOM_CONFIG")
	if configPath == "" {
		configPath = filepath.Join(root, "config.yaml")
	}

	return &Paths{
		Root:   root,
		Config: configPath,
	}, nil
}
