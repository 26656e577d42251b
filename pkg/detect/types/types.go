// Package types defines the entity model shared by all detection sources.
package types

// Severity is the ordinal sensitivity level of a detected entity.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

var severityRanks = map[Severity]int{
	SeverityCritical: 4,
	SeverityHigh:     3,
	SeverityMedium:   2,
	SeverityLow:      1,
}

// Rank returns the ordinal position of the severity, higher is more severe.
// Unknown values rank below low.
func (s Severity) Rank() int {
	return severityRanks[s]
}

// ParseSeverity normalizes a free-form severity string to a known value,
// defaulting to low. The AI backend is not trusted to spell these correctly.
func ParseSeverity(s string) Severity {
	switch Severity(s) {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow:
		return Severity(s)
	}
	return SeverityLow
}

// Entity source provenance tags. Informational only.
const (
	SourcePattern       = "pattern"
	SourceRecognizer    = "recognizer"
	SourceLanguageModel = "language-model"
)

// Label vocabulary. The set is closed for the built-in rules but the AI
// backend may report labels outside of it; unknown labels default to low
// severity and a generated placeholder.
const (
	LabelPassword         = "PASSWORD"
	LabelLogin            = "LOGIN"
	LabelPinCode          = "PIN_CODE"
	LabelAPIKey           = "API_KEY"
	LabelAWSKey           = "AWS_KEY"
	LabelGenericKey       = "GENERIC_KEY"
	LabelJWTToken         = "JWT_TOKEN"
	LabelCreditCard       = "CREDIT_CARD"
	LabelCVV              = "CVV"
	LabelIBAN             = "IBAN"
	LabelSSN              = "SOCIAL_SECURITY_NUMBER"
	LabelEmail            = "EMAIL"
	LabelPhone            = "PHONE"
	LabelPrivateURL       = "PRIVATE_URL"
	LabelPrivateIP        = "PRIVATE_IP"
	LabelConnectionString = "CONNECTION_STRING"
	LabelSalary           = "SALARY"
	LabelName             = "NAME"
	LabelSensitive        = "SENSITIVE"
)

var labelSeverities = map[string]Severity{
	LabelPassword:         SeverityCritical,
	LabelLogin:            SeverityCritical,
	LabelPinCode:          SeverityCritical,
	LabelAPIKey:           SeverityCritical,
	LabelAWSKey:           SeverityCritical,
	LabelGenericKey:       SeverityCritical,
	LabelJWTToken:         SeverityCritical,
	LabelCreditCard:       SeverityCritical,
	LabelCVV:              SeverityCritical,
	LabelConnectionString: SeverityCritical,
	LabelIBAN:             SeverityHigh,
	LabelSSN:              SeverityHigh,
	LabelSalary:           SeverityHigh,
	LabelPrivateURL:       SeverityMedium,
	LabelPrivateIP:        SeverityMedium,
	LabelEmail:            SeverityLow,
	LabelPhone:            SeverityLow,
	LabelName:             SeverityLow,
}

// SeverityFor returns the fixed severity for a label, low for unknown labels.
func SeverityFor(label string) Severity {
	if sev, ok := labelSeverities[label]; ok {
		return sev
	}
	return SeverityLow
}

// Entity is one detected occurrence of sensitive data. Start and End are
// half-open rune-agnostic byte offsets into the scanned text. Entities coming
// from the AI backend carry no position and use -1 for both offsets.
type Entity struct {
	Text     string   `json:"text"`
	Label    string   `json:"label"`
	Start    int      `json:"start"`
	End      int      `json:"end"`
	Severity Severity `json:"severity"`
	Source   string   `json:"source,omitempty"`
	Reason   string   `json:"reason,omitempty"`
}

// Positioned reports whether the entity carries a usable span.
func (e Entity) Positioned() bool {
	return e.Start >= 0 && e.End > e.Start
}
