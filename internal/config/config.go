// Package config loads named connection profiles for the sentinel client.
//
// Profiles live in a single YAML file. The default location follows
// platform conventions (XDG on Linux, %LOCALAPPDATA% on Windows), but any
// path can be supplied on the command line.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	appName    = "sentinel"
	configFile = "config.yaml"
)

// Profile describes one remote server connection.
type Profile struct {
	URL      string `yaml:"url"`
	Database string `yaml:"database"`
	Login    string `yaml:"login"`
	Password string `yaml:"password"`
	Insecure bool   `yaml:"insecure,omitempty"`
}

// File is the on-disk registry of named profiles.
type File struct {
	Version  int                 `yaml:"version"`
	Profiles map[string]*Profile `yaml:"profiles"`
}

// DefaultPath returns the OS-appropriate path of the profile registry.
func DefaultPath() (string, error) {
	var baseDir string

	switch runtime.GOOS {
	case "windows":
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			return "", fmt.Errorf("cannot determine config directory (LOCALAPPDATA not set)")
		}
		baseDir = filepath.Join(localAppData, appName)

	default:
		xdgConfigHome := os.Getenv("XDG_CONFIG_HOME")
		if xdgConfigHome != "" {
			baseDir = filepath.Join(xdgConfigHome, appName)
		} else {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("cannot determine home directory: %w", err)
			}
			baseDir = filepath.Join(homeDir, ".config", appName)
		}
	}

	return filepath.Join(baseDir, configFile), nil
}

// Load reads and parses the profile registry at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if f.Version != 0 && f.Version != 1 {
		return nil, fmt.Errorf("unsupported config version: %d (expected 1)", f.Version)
	}
	if f.Profiles == nil {
		f.Profiles = make(map[string]*Profile)
	}

	return &f, nil
}

// Profile returns the named profile or an error naming what is missing.
func (f *File) Profile(name string) (*Profile, error) {
	p, ok := f.Profiles[name]
	if !ok {
		return nil, fmt.Errorf("profile %q not found in configuration", name)
	}
	if p.URL == "" {
		return nil, fmt.Errorf("profile %q has no server url", name)
	}
	return p, nil
}

// ExpandPath resolves a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}
