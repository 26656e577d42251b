package mask

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/veraxsec/mailguard/pkg/detect/types"
)

func entityAt(text string, fragment string, label string) types.Entity {
	start := strings.Index(text, fragment)
	return types.Entity{Text: fragment, Label: label, Start: start, End: start + len(fragment)}
}

func TestMask(t *testing.T) {
	t.Run("single span", func(t *testing.T) {
		text := "Le mot de passe : Secret99 pour le serveur."
		masked := Mask(text, []types.Entity{entityAt(text, "mot de passe : Secret99", types.LabelPassword)})

		assert.Equal(t, "Le [PASSWORD] pour le serveur.", masked)
		assert.NotContains(t, masked, "Secret99")
	})

	t.Run("multiple spans keep surrounding text", func(t *testing.T) {
		text := "Mail alice@corp.example, IBAN FR7612345678901234567890123 attached."
		masked := Mask(text, []types.Entity{
			entityAt(text, "alice@corp.example", types.LabelEmail),
			entityAt(text, "FR7612345678901234567890123", types.LabelIBAN),
		})

		assert.Equal(t, "Mail [EMAIL], IBAN [IBAN] attached.", masked)
	})

	t.Run("replacement order independent of input order", func(t *testing.T) {
		text := "one two three"
		entities := []types.Entity{
			entityAt(text, "three", "B"),
			entityAt(text, "one", "A"),
		}

		assert.Equal(t, "[A] two [B]", Mask(text, entities))
	})

	t.Run("unpositioned entities skipped", func(t *testing.T) {
		text := "nothing to see here"
		entities := []types.Entity{{Text: "something", Label: types.LabelSensitive, Start: -1, End: -1}}

		assert.Equal(t, text, Mask(text, entities))
	})

	t.Run("span past end of text skipped", func(t *testing.T) {
		text := "short"
		entities := []types.Entity{{Text: "stale", Label: types.LabelPassword, Start: 2, End: 40}}

		assert.Equal(t, text, Mask(text, entities))
	})

	t.Run("no entities is identity", func(t *testing.T) {
		text := "clean business email body"
		assert.Equal(t, text, Mask(text, nil))
	})
}

func TestPlaceholderFor(t *testing.T) {
	assert.Equal(t, "[PASSWORD]", PlaceholderFor(types.LabelPassword))
	assert.Equal(t, "[API_KEY]", PlaceholderFor(types.LabelGenericKey))
	assert.Equal(t, "[CUSTOM_BADGE]", PlaceholderFor("CUSTOM_BADGE"))
}
