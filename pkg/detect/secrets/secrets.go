// Package secrets runs the TruffleHog detector set as a supplementary source
// of positioned credential entities.
package secrets

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/trufflesecurity/trufflehog/v3/pkg/detectors"
	"github.com/trufflesecurity/trufflehog/v3/pkg/engine/defaults"
	"github.com/veraxsec/mailguard/pkg/detect/types"
)

// Engine wraps the TruffleHog default detectors. Detectors are loaded once;
// the engine is safe for concurrent use.
type Engine struct {
	verify bool

	loadOnce  sync.Once
	detectors []detectors.Detector
}

// NewEngine creates a TruffleHog-backed engine. When verify is true, detectors
// validate candidate credentials against their upstream services.
func NewEngine(verify bool) *Engine {
	return &Engine{verify: verify}
}

func (e *Engine) load() {
	e.loadOnce.Do(func() {
		e.detectors = defaults.DefaultDetectors()
		if len(e.detectors) < 1 {
			log.Fatal().Msg("No trufflehog detectors have been loaded, this is a bug")
		}
		log.Debug().Int("count", len(e.detectors)).Msg("Loaded TruffleHog detectors")
	})
}

// Scan runs every detector over the text and returns positioned entities for
// each raw secret that can be located in the input. Secrets whose raw value
// does not literally occur in the text (derived or re-encoded values) carry
// no usable span and are dropped; the pattern rules and the AI path cover
// those. Detector failures are logged and skipped, never propagated.
func (e *Engine) Scan(ctx context.Context, text string) []types.Entity {
	e.load()

	data := []byte(text)
	var found []types.Entity
	for _, detector := range e.detectors {
		results, err := detector.FromData(ctx, e.verify, data)
		if err != nil {
			log.Trace().Err(err).Msg("TruffleHog detector failed")
			continue
		}

		for _, result := range results {
			if e.verify && !result.Verified {
				continue
			}

			secret := string(result.Raw)
			if len(result.RawV2) > 0 {
				secret = string(result.RawV2)
			}

			start := strings.Index(text, secret)
			if secret == "" || start < 0 {
				continue
			}

			found = append(found, types.Entity{
				Text:     secret,
				Label:    types.LabelAPIKey,
				Start:    start,
				End:      start + len(secret),
				Severity: types.SeverityFor(types.LabelAPIKey),
				Source:   types.SourcePattern,
				Reason:   result.DetectorType.String(),
			})
		}
	}

	return found
}
