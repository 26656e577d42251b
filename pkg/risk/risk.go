// Package risk derives the overall risk verdict from detected entities.
package risk

import "github.com/veraxsec/mailguard/pkg/detect/types"

// Verdict values, ordered from worst to best. The AI backend is authoritative
// for its own verdict wording; these are used on the rule-only path.
const (
	VerdictCritical = "CRITICAL - DO NOT SEND"
	VerdictHigh     = "HIGH - SENDING DISCOURAGED"
	VerdictMedium   = "MEDIUM - REVIEW BEFORE SENDING"
	VerdictLow      = "LOW - CAUTION"
	VerdictNone     = "none"
)

// Assess derives a single verdict from the maximum severity present in the
// entity set. An empty set yields "none".
func Assess(entities []types.Entity) string {
	if len(entities) == 0 {
		return VerdictNone
	}

	max := types.Severity("")
	for _, entity := range entities {
		if entity.Severity.Rank() > max.Rank() {
			max = entity.Severity
		}
	}

	switch max {
	case types.SeverityCritical:
		return VerdictCritical
	case types.SeverityHigh:
		return VerdictHigh
	case types.SeverityMedium:
		return VerdictMedium
	default:
		return VerdictLow
	}
}
