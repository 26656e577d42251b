package rules

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/veraxsec/mailguard/pkg/httpclient"
	"gopkg.in/yaml.v3"
)

// PackEntry is one rule in an extra rule pack file.
type PackEntry struct {
	Label string `yaml:"label"`
	Regex string `yaml:"regex"`
}

type pack struct {
	Rules []PackEntry `yaml:"rules"`
}

// LoadPack reads an extra rule pack from a YAML file and compiles it. Pack
// rules are appended after the built-ins, so built-in rules keep claim
// priority. Any malformed entry fails the whole load; rule configuration
// errors are construction-time fatal, not per-request.
func LoadPack(path string) ([]Rule, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rule pack: %w", err)
	}

	var p pack
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("unmarshalling rule pack %s: %w", path, err)
	}
	if len(p.Rules) == 0 {
		return nil, fmt.Errorf("rule pack %s contains no rules", path)
	}

	compiled := make([]Rule, 0, len(p.Rules))
	for _, entry := range p.Rules {
		rule, err := Compile(entry.Label, entry.Regex)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, rule)
	}

	log.Debug().Int("count", len(compiled)).Str("path", path).Msg("Loaded extra rule pack")
	return compiled, nil
}

// DownloadPack fetches a rule pack from a URL into path unless the file
// already exists.
func DownloadPack(url string, path string) error {
	if _, err := os.Stat(path); err == nil {
		log.Debug().Str("path", path).Msg("Rule pack already present, skipping download")
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()

	client := httpclient.GetMailguardHTTPClient(nil)
	resp, err := client.Get(url)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != 200 {
		return fmt.Errorf("rule pack download failed with status %d", resp.StatusCode)
	}

	_, err = io.Copy(out, resp.Body)
	return err
}
