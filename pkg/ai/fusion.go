package ai

import (
	"strings"

	"github.com/veraxsec/mailguard/pkg/detect/types"
)

// Report is the fused output of positioned detection and AI analysis, and the
// shape consumed by the presentation layer.
type Report struct {
	Entities    []types.Entity `json:"entities"`
	Count       int            `json:"count"`
	RiskLevel   string         `json:"risk_level"`
	RiskSummary string         `json:"risk_summary"`
}

// Merge fuses positioned detector entities with the extractor result.
// Positioned entities are kept verbatim; extractor entities are appended only
// when their normalized text was not already detected, with position unknown
// and defaulted label and severity. The extractor is authoritative for the
// risk level and summary when it supplied any.
func Merge(positioned []types.Entity, result Result) Report {
	merged := make([]types.Entity, len(positioned))
	copy(merged, positioned)

	seen := make(map[string]struct{}, len(positioned))
	for _, entity := range positioned {
		seen[normalize(entity.Text)] = struct{}{}
	}

	for _, entity := range result.Entities {
		key := normalize(entity.Text)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		entity.Start = -1
		entity.End = -1
		entity.Source = types.SourceLanguageModel
		if entity.Label == "" {
			entity.Label = types.LabelSensitive
		}
		if entity.Severity == "" {
			entity.Severity = types.SeverityMedium
		}
		merged = append(merged, entity)
	}

	riskLevel := result.RiskLevel
	if riskLevel == "" {
		riskLevel = "none"
	}

	return Report{
		Entities:    merged,
		Count:       len(merged),
		RiskLevel:   riskLevel,
		RiskSummary: result.RiskSummary,
	}
}

func normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}
