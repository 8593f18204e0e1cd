// Package config assembles the configuration of every bidon subsystem.
//
// Values are layered: defaults, then a JSON or YAML file, then BIDON_*
// environment variables (optionally sourced from a .env file), then
// command-line flags applied by the binary. Each layer only overrides the
// fields it sets.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/tailored-agentic-units/bidon/observability"
	"github.com/tailored-agentic-units/bidon/registry"
	"github.com/tailored-agentic-units/bidon/server"
	"github.com/tailored-agentic-units/bidon/snapshot"
)

// Environment variables read by ApplyEnv.
const (
	EnvAddr           = "BIDON_ADDR"
	EnvLogLevel       = "BIDON_LOG_LEVEL"
	EnvLogFormat      = "BIDON_LOG_FORMAT"
	EnvSnapshotDriver = "BIDON_SNAPSHOT_DRIVER"
	EnvSnapshotPath   = "BIDON_SNAPSHOT_PATH"
)

// Config holds initialization parameters for all subsystems.
type Config struct {
	Server   server.Config        `json:"server" yaml:"server"`
	Registry registry.Config      `json:"registry" yaml:"registry"`
	Snapshot snapshot.Config      `json:"snapshot" yaml:"snapshot"`
	Log      observability.Config `json:"log" yaml:"log"`
}

func DefaultConfig() Config {
	return Config{
		Server:   server.DefaultConfig(),
		Registry: registry.DefaultConfig(),
		Snapshot: snapshot.DefaultConfig(),
		Log:      observability.DefaultConfig(),
	}
}

// Merge applies non-zero values from source into c, delegating to each
// subsystem's Merge method.
func (c *Config) Merge(source *Config) {
	c.Server.Merge(&source.Server)
	c.Registry.Merge(&source.Registry)
	c.Snapshot.Merge(&source.Snapshot)
	c.Log.Merge(&source.Log)
}

// Load reads a config file, merges it with defaults, and returns the
// result. Files ending in .yaml or .yml are parsed as YAML, anything else
// as JSON.
func Load(filename string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var loaded Config
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &loaded)
	default:
		err = json.Unmarshal(data, &loaded)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.Merge(&loaded)
	return &cfg, nil
}

// LoadEnv sources .env style files into the process environment without
// overriding variables that are already set. Missing files are skipped.
func LoadEnv(filenames ...string) error {
	for _, name := range filenames {
		if err := godotenv.Load(name); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load env file %s: %w", name, err)
		}
	}
	return nil
}

// ApplyEnv overrides c with any BIDON_* variables that are set.
func (c *Config) ApplyEnv() {
	c.Merge(&Config{
		Server: server.Config{
			Addr: os.Getenv(EnvAddr),
		},
		Snapshot: snapshot.Config{
			Driver: os.Getenv(EnvSnapshotDriver),
			Path:   os.Getenv(EnvSnapshotPath),
		},
		Log: observability.Config{
			Level:  os.Getenv(EnvLogLevel),
			Format: os.Getenv(EnvLogFormat),
		},
	})
}
