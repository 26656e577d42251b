package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mailguard.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8383", cfg.Listen)
	assert.False(t, cfg.AI.Enabled)
	assert.Equal(t, "mistral", cfg.AI.Model)
	assert.Equal(t, 60*time.Second, cfg.AI.Timeout.Duration())
	assert.Equal(t, int64(25*1000*1000), cfg.MaxAttachmentBytes())
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
listen: 0.0.0.0:9000
ai:
  enabled: true
  base_url: http://llm.internal:8080/v1
  model: llama3
  timeout: 30s
secrets:
  enabled: true
limits:
  max_attachment_size: 5MB
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9000", cfg.Listen)
	assert.True(t, cfg.AI.Enabled)
	assert.Equal(t, "http://llm.internal:8080/v1", cfg.AI.BaseURL)
	assert.Equal(t, "llama3", cfg.AI.Model)
	assert.Equal(t, 30*time.Second, cfg.AI.Timeout.Duration())
	assert.True(t, cfg.Secrets.Enabled)
	assert.Equal(t, int64(5*1000*1000), cfg.MaxAttachmentBytes())
}

func TestLoadEnvAPIKey(t *testing.T) {
	t.Setenv("MAILGUARD_AI_API_KEY", "sk-from-env")

	path := writeConfig(t, `
ai:
  api_key: sk-from-file
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-from-env", cfg.AI.APIKey)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}

func TestLoadBadDuration(t *testing.T) {
	path := writeConfig(t, `
ai:
  timeout: soon
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid duration")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "empty listen",
			mutate:  func(c *Config) { c.Listen = "" },
			wantErr: "listen address",
		},
		{
			name: "ai enabled without base url",
			mutate: func(c *Config) {
				c.AI.Enabled = true
				c.AI.BaseURL = ""
			},
			wantErr: "ai.base_url",
		},
		{
			name: "ai base url wrong scheme",
			mutate: func(c *Config) {
				c.AI.Enabled = true
				c.AI.BaseURL = "ftp://llm.internal"
			},
			wantErr: "http or https",
		},
		{
			name: "ai timeout too high",
			mutate: func(c *Config) {
				c.AI.Enabled = true
				c.AI.Timeout = Duration(time.Hour)
			},
			wantErr: "ai.timeout",
		},
		{
			name: "sidecar url without host",
			mutate: func(c *Config) {
				c.NER.SidecarURL = "http://"
			},
			wantErr: "ner.sidecar_url",
		},
		{
			name: "bad attachment size",
			mutate: func(c *Config) {
				c.Limits.MaxAttachmentSize = "lots"
			},
			wantErr: "max attachment size",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("default config is valid", func(t *testing.T) {
		cfg := Default()
		assert.NoError(t, cfg.Validate())
	})
}
