// Package report renders the pre-send security analysis as a PDF document.
package report

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/go-pdf/fpdf"
	"github.com/veraxsec/mailguard/pkg/detect/types"
	"github.com/veraxsec/mailguard/pkg/risk"
)

var recommendations = map[string]string{
	types.LabelPassword:         "CRITICAL: Never send passwords by email. Use a password manager or a secure link.",
	types.LabelLogin:            "CRITICAL: Credentials must not transit by email. Use a secure channel.",
	types.LabelPinCode:          "CRITICAL: PIN and secret codes must never be shared by email.",
	types.LabelAPIKey:           "CRITICAL: API keys belong in a secrets vault, never in an email.",
	types.LabelAWSKey:           "CRITICAL: AWS key detected. Revoke it immediately if it was exposed.",
	types.LabelGenericKey:       "CRITICAL: API key detected. Never share it by email.",
	types.LabelJWTToken:         "CRITICAL: Authentication token detected. It grants access to an account or service.",
	types.LabelConnectionString: "CRITICAL: Database connection string detected. Direct system access.",
	types.LabelCreditCard:       "CRITICAL: Credit card number detected. PCI-DSS violation.",
	types.LabelCVV:              "CRITICAL: Card security code detected. Never transmit it by email.",
	types.LabelIBAN:             "HIGH: Bank account details detected. Fraud risk.",
	types.LabelSSN:              "HIGH: Social security number detected. Highly sensitive data.",
	types.LabelSalary:           "HIGH: Salary information detected. Confidential data.",
	types.LabelPrivateURL:       "MEDIUM: Internal/private URL detected. May expose infrastructure.",
	types.LabelPrivateIP:        "MEDIUM: Private IP address detected. May expose network topology.",
	types.LabelEmail:            "LOW: Email address detected. Double-check the recipient.",
	types.LabelPhone:            "LOW: Phone number detected. Personal data.",
	types.LabelName:             "LOW: Person name detected. Check whether sharing it is necessary.",
}

// Generate renders the analysis report for the given entities as PDF bytes.
// The verdict line uses the severity-only assessment so the report stays
// consistent when the AI path was unavailable.
func Generate(text string, entities []types.Entity) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.AddPage()
	doc.SetAutoPageBreak(true, 15)

	doc.SetFont("Helvetica", "B", 18)
	doc.CellFormat(0, 12, "Security report - pre-send analysis", "", 1, "C", false, 0, "")
	doc.Ln(8)

	doc.SetFont("Helvetica", "B", 14)
	doc.CellFormat(0, 10, "VERDICT: "+risk.Assess(entities), "", 1, "L", false, 0, "")
	doc.Ln(4)

	doc.SetFont("Helvetica", "B", 13)
	doc.CellFormat(0, 8, "Summary", "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 11)

	severityCounts := make(map[types.Severity]int)
	labelCounts := make(map[string]int)
	for _, entity := range entities {
		severityCounts[entity.Severity]++
		labelCounts[entity.Label]++
	}

	doc.CellFormat(0, 7, fmt.Sprintf("Sensitive items detected: %d", len(entities)), "", 1, "L", false, 0, "")
	for _, severity := range []types.Severity{types.SeverityCritical, types.SeverityHigh, types.SeverityMedium, types.SeverityLow} {
		if count := severityCounts[severity]; count > 0 {
			doc.CellFormat(0, 7, fmt.Sprintf("  - %s: %d", severity, count), "", 1, "L", false, 0, "")
		}
	}
	doc.Ln(4)

	doc.SetFont("Helvetica", "B", 13)
	doc.CellFormat(0, 8, "Detected data by type", "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 11)

	for _, label := range sortedLabels(labelCounts) {
		doc.CellFormat(0, 7, fmt.Sprintf("  - %s: %d occurrence(s)", label, labelCounts[label]), "", 1, "L", false, 0, "")
	}
	doc.Ln(4)

	doc.SetFont("Helvetica", "B", 13)
	doc.CellFormat(0, 8, "Recommendations", "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 11)

	for _, label := range sortedLabels(labelCounts) {
		rec, ok := recommendations[label]
		if !ok {
			rec = "Evaluate whether this data needs to be included."
		}
		doc.MultiCell(0, 7, "  "+rec, "", "L", false)
		doc.Ln(2)
	}

	if len(entities) == 0 {
		doc.SetFont("Helvetica", "B", 12)
		doc.CellFormat(0, 7, "No sensitive data detected. Safe to send.", "", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering pdf report: %w", err)
	}
	return buf.Bytes(), nil
}

// sortedLabels orders labels by count descending, then name, for a stable
// report layout.
func sortedLabels(counts map[string]int) []string {
	labels := make([]string, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		if counts[labels[i]] != counts[labels[j]] {
			return counts[labels[i]] > counts[labels[j]]
		}
		return labels[i] < labels[j]
	})
	return labels
}
