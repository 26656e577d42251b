// Package rules holds the ordered pattern rule set used by the span detector.
// Declaration order is the claim priority: earlier rules win overlapping spans.
package rules

import (
	"fmt"
	"regexp"

	"github.com/veraxsec/mailguard/pkg/detect/types"
)

// Rule binds a compiled matcher to a label. Severity is resolved through the
// fixed label table so extra rule packs cannot contradict the built-ins.
type Rule struct {
	Label    string
	Pattern  *regexp.Regexp
	Severity types.Severity
}

// Builtin returns the built-in rule set in claim-priority order. The set is
// compiled once at package init; a malformed built-in pattern panics, which is
// the intended fail-fast behavior for broken rule configuration.
func Builtin() []Rule {
	return builtinRules
}

var builtinRules = compileBuiltin()

func compileBuiltin() []Rule {
	// Keyword synonym sets cover French and English, the deployment languages.
	specs := []struct {
		label string
		regex string
	}{
		{types.LabelPassword, `(?i)(?:mot\s*de\s*passe|password|mdp|pwd|pass)(?:\s+\w+)?\s*[:=]\s*\S+`},
		{types.LabelLogin, `(?i)(?:login|identifiant|username|user|utilisateur)(?:\s+\w+)?\s*[:=]\s*\S+`},
		{types.LabelPinCode, `(?i)(?:code\s*(?:pin|secret|acc[eè]s|confidentiel)|pin\s*code)\s*[:=]\s*\S+`},
		{types.LabelAPIKey, `(?i)(?:api[_\s-]?key|api[_\s-]?secret|token|secret[_\s-]?key|access[_\s-]?key)\s*[:=]\s*\S+`},
		{types.LabelAWSKey, `(?:AKIA|ASIA)[A-Z0-9]{16}`},
		{types.LabelGenericKey, `(?i)(?:sk|pk|rk)[_-](?:live|test|prod)[_-][a-zA-Z0-9]{20,}`},
		{types.LabelJWTToken, `eyJ[a-zA-Z0-9_-]{10,}\.eyJ[a-zA-Z0-9_-]{10,}\.[a-zA-Z0-9_-]+`},
		{types.LabelCreditCard, `\b(?:4\d{3}|5[1-5]\d{2}|3[47]\d{2}|6(?:011|5\d{2}))[\s.-]?\d{4}[\s.-]?\d{4}[\s.-]?\d{1,4}\b`},
		{types.LabelCVV, `(?i)(?:cvv|cvc|csv|code\s*s[eé]curit[eé])\s*[:=]\s*\d{3,4}`},
		{types.LabelIBAN, `\b[A-Z]{2}\d{2}[\s]?\d{4}[\s]?\d{4}[\s]?\d{4}[\s]?\d{4}[\s]?\d{0,4}\b`},
		{types.LabelSSN, `[12]\s?\d{2}\s?\d{2}\s?\d{2}\s?\d{3}\s?\d{3}\s?\d{2}`},
		{types.LabelEmail, `[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`},
		{types.LabelPhone, `(?:\+33[\s.-]?|0)[1-9](?:[\s.-]?\d{2}){4}|(?:\+\d{1,3}[\s.-]?)?\(?\d{2,4}\)?[\s.-]?\d{3,4}[\s.-]?\d{3,4}`},
		{types.LabelPrivateURL, `https?://(?:localhost|127\.0\.0\.1|10\.\d+\.\d+\.\d+|192\.168\.\d+\.\d+|172\.(?:1[6-9]|2\d|3[01])\.\d+\.\d+)\S*`},
		{types.LabelPrivateIP, `\b(?:127\.0\.0\.1|10\.\d{1,3}\.\d{1,3}\.\d{1,3}|192\.168\.\d{1,3}\.\d{1,3}|172\.(?:1[6-9]|2\d|3[01])\.\d{1,3}\.\d{1,3})\b`},
		{types.LabelConnectionString, `(?i)(?:mongodb(?:\+srv)?|postgres(?:ql)?|mysql|redis|amqp|jdbc)://\S+`},
		{types.LabelSalary, `(?i)(?:salaire|r[eé]mun[eé]ration|paie|salary|compensation)\s*[:=]?\s*\d[\d\s.,]*\s*(?:€|euros?|EUR|\$|USD)?`},
	}

	compiled := make([]Rule, 0, len(specs))
	for _, spec := range specs {
		compiled = append(compiled, Rule{
			Label:    spec.label,
			Pattern:  regexp.MustCompile(spec.regex),
			Severity: types.SeverityFor(spec.label),
		})
	}
	return compiled
}

// Compile builds a rule from a raw regex, validating it. Used for rule packs
// loaded at startup.
func Compile(label string, regex string) (Rule, error) {
	if label == "" {
		return Rule{}, fmt.Errorf("rule with regex %q has no label", regex)
	}
	pattern, err := regexp.Compile(regex)
	if err != nil {
		return Rule{}, fmt.Errorf("rule %s: invalid regex: %w", label, err)
	}
	return Rule{Label: label, Pattern: pattern, Severity: types.SeverityFor(label)}, nil
}
