// Package scan orchestrates the full analysis pipeline: attachment
// flattening, span detection, AI analysis and fusion.
package scan

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/rxwycdh/rxhash"
	"github.com/veraxsec/mailguard/pkg/ai"
	"github.com/veraxsec/mailguard/pkg/detect"
	"github.com/veraxsec/mailguard/pkg/detect/types"
	"github.com/veraxsec/mailguard/pkg/fileparse"
	"github.com/veraxsec/mailguard/pkg/risk"
)

// FallbackSummary is the risk summary used when the AI path is disabled.
const FallbackSummary = "Rule-based analysis only (AI analysis disabled)"

// AIAnalyzer is the secondary extraction backend. Implementations never
// return errors; failures degrade inside the adapter.
type AIAnalyzer interface {
	Analyze(ctx context.Context, text string) ai.Result
}

// Attachment is an uploaded document to scan alongside the email body.
type Attachment struct {
	Filename string
	Content  []byte
}

// Pipeline wires the detector and the optional AI analyzer. Immutable after
// construction; concurrent calls are independent.
type Pipeline struct {
	detector *detect.Detector
	analyzer AIAnalyzer
}

// NewPipeline builds a pipeline. analyzer may be nil, in which case the
// severity-only risk assessment is used instead of AI fusion.
func NewPipeline(detector *detect.Detector, analyzer AIAnalyzer) *Pipeline {
	return &Pipeline{detector: detector, analyzer: analyzer}
}

// Flatten combines the email body with the extracted text of each
// attachment. Attachments that cannot be parsed contribute a user-visible
// note instead of aborting the analysis of the textual portion.
func Flatten(body string, attachments []Attachment) string {
	parts := []string{body}
	for _, attachment := range attachments {
		text, err := fileparse.Extract(attachment.Filename, attachment.Content)
		if err != nil {
			log.Debug().Err(err).Str("file", attachment.Filename).Msg("Attachment not parseable")
			parts = append(parts, "[attachment "+attachment.Filename+": "+err.Error()+"]")
			continue
		}
		if strings.TrimSpace(text) != "" {
			parts = append(parts, "[attachment: "+attachment.Filename+"]\n"+text)
		}
	}
	return strings.Join(parts, "\n\n")
}

// Detect runs only the span detector over the text.
func (p *Pipeline) Detect(ctx context.Context, text string) []types.Entity {
	return p.detector.Detect(ctx, text)
}

// Analyze runs the full pipeline over one text blob. With an AI analyzer the
// merged report carries the backend's verdict; without one the verdict is
// derived from detected severities alone.
func (p *Pipeline) Analyze(ctx context.Context, text string) ai.Report {
	positioned := p.detector.Detect(ctx, text)

	if p.analyzer == nil {
		return ai.Report{
			Entities:    positioned,
			Count:       len(positioned),
			RiskLevel:   risk.Assess(positioned),
			RiskSummary: FallbackSummary,
		}
	}

	return ai.Merge(positioned, p.analyzer.Analyze(ctx, text))
}

// Dedup removes repeated findings with the same label and text, keeping the
// first occurrence. Used when reporting scan results where the same secret
// appears in both the body and an attachment.
func Dedup(entities []types.Entity) []types.Entity {
	seen := make(map[string]struct{}, len(entities))
	deduped := make([]types.Entity, 0, len(entities))

	for _, entity := range entities {
		hash, err := rxhash.HashStruct(struct {
			Label string
			Text  string
		}{Label: entity.Label, Text: strings.TrimSpace(entity.Text)})
		if err != nil {
			deduped = append(deduped, entity)
			continue
		}
		if _, dup := seen[hash]; dup {
			continue
		}
		seen[hash] = struct{}{}
		deduped = append(deduped, entity)
	}

	return deduped
}
