// Package config loads the optional sprout.yaml project configuration and
// resolves defaults against the Go module the project lives in.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"
	"gopkg.in/yaml.v3"
)

// DefaultPort is the dev server port used when neither the config file nor
// the command line names one.
const DefaultPort = 8123

// Config represents the optional sprout.yaml configuration.
type Config struct {
	App AppConfig `yaml:"app"`
	Dev DevConfig `yaml:"dev"`
}

// AppConfig contains application metadata.
type AppConfig struct {
	Name string `yaml:"name,omitempty"`
}

// DevConfig contains dev server settings.
type DevConfig struct {
	// Entry is the default bundle entry point, relative to the project
	// root. The command line overrides it.
	Entry string `yaml:"entry,omitempty"`
	// Port is the dev server port. 0 means DefaultPort.
	Port int `yaml:"port,omitempty"`
	// Build is an optional shell command that produces the bundle on
	// stdout. When empty the entry file is pushed verbatim.
	Build string `yaml:"build,omitempty"`
}

// Resolved contains resolved configuration values.
type Resolved struct {
	Root       string
	ModulePath string
	AppName    string
	Dev        DevConfig
}

// LoadOptional reads sprout.yaml if present.
func LoadOptional(dir string) (*Config, error) {
	path := filepath.Join(dir, "sprout.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read sprout.yaml: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse sprout.yaml: %w", err)
	}

	return &cfg, nil
}

// Resolve loads sprout.yaml (if present) and resolves defaults.
func Resolve(dir string) (*Resolved, error) {
	modulePath, err := modulePath(dir)
	if err != nil {
		return nil, err
	}

	cfg, err := LoadOptional(dir)
	if err != nil {
		return nil, err
	}

	appName := strings.TrimSpace(cfg.App.Name)
	if appName == "" {
		appName = defaultAppName(modulePath, dir)
	}

	dev := cfg.Dev
	if dev.Port == 0 {
		dev.Port = DefaultPort
	}
	if dev.Port < 0 || dev.Port > 65535 {
		return nil, fmt.Errorf("dev.port %d is out of range", dev.Port)
	}

	return &Resolved{
		Root:       dir,
		ModulePath: modulePath,
		AppName:    appName,
		Dev:        dev,
	}, nil
}

// FindProjectRoot walks up from the current directory to find go.mod.
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not in a Go module (no go.mod found)")
		}
		dir = parent
	}
}

func modulePath(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, "go.mod"))
	if err != nil {
		return "", fmt.Errorf("failed to read go.mod: %w", err)
	}
	path := modfile.ModulePath(data)
	if path == "" {
		return "", fmt.Errorf("could not determine module path from go.mod")
	}
	return path, nil
}

func defaultAppName(modulePath, dir string) string {
	parts := strings.Split(modulePath, "/")
	if len(parts) > 0 && parts[len(parts)-1] != "" {
		return parts[len(parts)-1]
	}
	base := filepath.Base(dir)
	if base == "" || base == "." {
		return "sprout_app"
	}
	return base
}
