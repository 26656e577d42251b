// Package mask rewrites detected spans into label-specific placeholders.
package mask

import (
	"sort"

	"github.com/veraxsec/mailguard/pkg/detect/types"
)

var placeholders = map[string]string{
	types.LabelPassword:         "[PASSWORD]",
	types.LabelLogin:            "[LOGIN]",
	types.LabelPinCode:          "[PIN_CODE]",
	types.LabelAPIKey:           "[API_KEY]",
	types.LabelAWSKey:           "[AWS_KEY]",
	types.LabelGenericKey:       "[API_KEY]",
	types.LabelJWTToken:         "[TOKEN]",
	types.LabelCreditCard:       "[CREDIT_CARD]",
	types.LabelCVV:              "[CVV]",
	types.LabelIBAN:             "[IBAN]",
	types.LabelSSN:              "[SSN]",
	types.LabelEmail:            "[EMAIL]",
	types.LabelPhone:            "[PHONE]",
	types.LabelPrivateURL:       "[PRIVATE_URL]",
	types.LabelPrivateIP:        "[PRIVATE_IP]",
	types.LabelConnectionString: "[CONNECTION_STRING]",
	types.LabelSalary:           "[SALARY]",
	types.LabelName:             "[NAME]",
}

// PlaceholderFor returns the placeholder token for a label. Unknown labels get
// a placeholder generated from the label itself.
func PlaceholderFor(label string) string {
	if token, ok := placeholders[label]; ok {
		return token
	}
	return "[" + label + "]"
}

// Mask replaces every positioned entity's span with its placeholder.
// Entities without a usable position (AI-sourced) are skipped: they cannot be
// located in the text. Replacements run right to left so earlier spans keep
// valid offsets while later ones are rewritten.
func Mask(text string, entities []types.Entity) string {
	positioned := make([]types.Entity, 0, len(entities))
	for _, entity := range entities {
		if entity.Positioned() && entity.End <= len(text) {
			positioned = append(positioned, entity)
		}
	}

	sort.Slice(positioned, func(i, j int) bool {
		return positioned[i].Start > positioned[j].Start
	})

	result := text
	for _, entity := range positioned {
		result = result[:entity.Start] + PlaceholderFor(entity.Label) + result[entity.End:]
	}

	return result
}
