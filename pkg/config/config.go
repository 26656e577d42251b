// Package config provides mailguard's configuration types, loading and
// validation. Invalid configuration is a startup-time fatal, never a
// per-request error.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from YAML strings like "30s".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Duration returns the wrapped time.Duration.
func (d Duration) Duration() time.Duration { return time.Duration(d) }

// Config is the full mailguard configuration.
type Config struct {
	Listen  string        `yaml:"listen"`
	AI      AIConfig      `yaml:"ai"`
	NER     NERConfig     `yaml:"ner"`
	Rules   RulesConfig   `yaml:"rules"`
	Secrets SecretsConfig `yaml:"secrets"`
	Limits  LimitsConfig  `yaml:"limits"`
}

// AIConfig configures the language-model extraction backend. The backend is
// OpenAI-compatible, which covers local inference servers as well as remote
// APIs.
type AIConfig struct {
	Enabled bool     `yaml:"enabled"`
	BaseURL string   `yaml:"base_url"`
	APIKey  string   `yaml:"api_key"`
	Model   string   `yaml:"model"`
	Timeout Duration `yaml:"timeout"`
}

// NERConfig configures the named-entity recognizer. With no sidecar URL the
// built-in heuristic recognizer is used.
type NERConfig struct {
	SidecarURL string   `yaml:"sidecar_url"`
	Timeout    Duration `yaml:"timeout"`
}

// RulesConfig configures extra rule packs appended after the built-in rules.
type RulesConfig struct {
	PackPath string `yaml:"pack_path"`
	PackURL  string `yaml:"pack_url"`
}

// SecretsConfig configures the supplementary TruffleHog detectors.
type SecretsConfig struct {
	Enabled bool `yaml:"enabled"`
	Verify  bool `yaml:"verify"`
}

// LimitsConfig bounds resource usage.
type LimitsConfig struct {
	MaxAttachmentSize string `yaml:"max_attachment_size"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Listen: "127.0.0.1:8383",
		AI: AIConfig{
			Enabled: false,
			BaseURL: "http://127.0.0.1:11434/v1",
			Model:   "mistral",
			Timeout: Duration(60 * time.Second),
		},
		NER: NERConfig{
			Timeout: Duration(10 * time.Second),
		},
		Secrets: SecretsConfig{
			Enabled: false,
			Verify:  false,
		},
		Limits: LimitsConfig{
			MaxAttachmentSize: "25MB",
		},
	}
}

// Load reads a YAML configuration file over the defaults. An empty path
// returns the defaults. The MAILGUARD_AI_API_KEY environment variable
// overrides the file value so the key never has to live on disk.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("unmarshalling config file %s: %w", path, err)
		}
	}

	if key := os.Getenv("MAILGUARD_AI_API_KEY"); key != "" {
		cfg.AI.APIKey = key
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks the configuration for startup.
func (c *Config) Validate() error {
	if c.Listen == "" {
		return fmt.Errorf("listen address cannot be empty")
	}

	if c.AI.Enabled {
		if err := ValidateURL(c.AI.BaseURL, "ai.base_url"); err != nil {
			return err
		}
		if err := ValidateTimeout(c.AI.Timeout.Duration(), "ai.timeout"); err != nil {
			return err
		}
	}

	if c.NER.SidecarURL != "" {
		if err := ValidateURL(c.NER.SidecarURL, "ner.sidecar_url"); err != nil {
			return err
		}
		if err := ValidateTimeout(c.NER.Timeout.Duration(), "ner.timeout"); err != nil {
			return err
		}
	}

	if c.Limits.MaxAttachmentSize != "" {
		if _, err := ParseMaxAttachmentSize(c.Limits.MaxAttachmentSize); err != nil {
			return err
		}
	}

	return nil
}

// MaxAttachmentBytes returns the configured attachment size limit in bytes.
func (c *Config) MaxAttachmentBytes() int64 {
	size, err := ParseMaxAttachmentSize(c.Limits.MaxAttachmentSize)
	if err != nil {
		// Validate catches this at startup; stay safe anyway.
		return 25 * 1024 * 1024
	}
	return size
}
