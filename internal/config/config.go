// Package config loads the daemon configuration from YAML with environment
// variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/pivanov/relaywarden/internal/alert"
	"github.com/pivanov/relaywarden/internal/authority"
	"github.com/pivanov/relaywarden/internal/ident"
)

// RecoveryConfig configures the break-glass recovery path.
type RecoveryConfig struct {
	Address string `yaml:"address"`
	Delay   string `yaml:"delay"` // time.ParseDuration syntax, e.g. "48h"
}

// AuthorityConfig configures the authority instance.
type AuthorityConfig struct {
	ID               string          `yaml:"id"             env:"RELAYWARDEN_AUTHORITY_ID"`
	OriginDomain     uint64          `yaml:"origin_domain"  env:"RELAYWARDEN_ORIGIN_DOMAIN"`
	Owner            string          `yaml:"owner"          env:"RELAYWARDEN_OWNER"`
	TwoStepOwnership bool            `yaml:"two_step_ownership"`
	Recovery         *RecoveryConfig `yaml:"recovery,omitempty"`
}

// Paths locates the daemon's on-disk state.
type Paths struct {
	StateDB  string `yaml:"state_db"  env:"RELAYWARDEN_STATE_DB"`
	EventLog string `yaml:"event_log" env:"RELAYWARDEN_EVENT_LOG"`
}

// Config is the full daemon configuration.
type Config struct {
	Authority AuthorityConfig     `yaml:"authority"`
	Forwarder string              `yaml:"forwarder" env:"RELAYWARDEN_FORWARDER"`
	Targets   map[string]string   `yaml:"targets"` // target identity hex -> delivery URL
	Paths     Paths               `yaml:"paths"`
	Alerts    []alert.AlertConfig `yaml:"alerts"`
}

// DefaultDir returns ~/.relaywarden, falling back to the working directory
// when the home directory cannot be resolved.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".relaywarden"
	}
	return filepath.Join(home, ".relaywarden")
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(DefaultDir(), "config.yaml")
}

// Default returns the built-in configuration.
func Default() *Config {
	dir := DefaultDir()
	return &Config{
		Authority: AuthorityConfig{
			OriginDomain:     1,
			TwoStepOwnership: true,
		},
		Paths: Paths{
			StateDB:  filepath.Join(dir, "state.db"),
			EventLog: filepath.Join(dir, "events.jsonl"),
		},
	}
}

// Load reads configuration from a YAML file, then applies environment
// variable overrides. Empty path falls back to DefaultPath. Missing file
// returns defaults (still env-overridable). Invalid YAML returns an error.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	return cfg, nil
}

// AuthorityConfig converts the YAML authority section into the typed
// configuration the authority constructor takes.
func (c *Config) AuthorityConfig() (authority.Config, error) {
	out := authority.Config{
		ID:               c.Authority.ID,
		OriginDomain:     ident.DomainID(c.Authority.OriginDomain),
		TwoStepOwnership: c.Authority.TwoStepOwnership,
	}

	if c.Authority.Owner != "" {
		owner, err := ident.ParseIdentity(c.Authority.Owner)
		if err != nil {
			return authority.Config{}, fmt.Errorf("config: owner: %w", err)
		}
		out.Owner = owner
	}

	if r := c.Authority.Recovery; r != nil {
		addr, err := ident.ParseIdentity(r.Address)
		if err != nil {
			return authority.Config{}, fmt.Errorf("config: recovery address: %w", err)
		}
		delay, err := time.ParseDuration(r.Delay)
		if err != nil {
			return authority.Config{}, fmt.Errorf("config: recovery delay: %w", err)
		}
		out.Recovery = &authority.RecoveryConfig{Address: addr, Delay: delay}
	}

	return out, nil
}

// ForwarderIdentity parses the trusted forwarder identity. A missing
// forwarder is an error: without one no relayed instruction can ever pass
// the gate.
func (c *Config) ForwarderIdentity() (ident.Identity, error) {
	if c.Forwarder == "" {
		return ident.Null, fmt.Errorf("config: forwarder is required")
	}
	fwd, err := ident.ParseIdentity(c.Forwarder)
	if err != nil {
		return ident.Null, fmt.Errorf("config: forwarder: %w", err)
	}
	return fwd, nil
}

// TargetURLs parses the targets map into typed identities.
func (c *Config) TargetURLs() (map[ident.Identity]string, error) {
	out := make(map[ident.Identity]string, len(c.Targets))
	for k, v := range c.Targets {
		id, err := ident.ParseIdentity(k)
		if err != nil {
			return nil, fmt.Errorf("config: target %q: %w", k, err)
		}
		out[id] = v
	}
	return out, nil
}

// Write marshals the config to YAML and writes it to path, creating the
// parent directory if needed.
func (c *Config) Write(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
