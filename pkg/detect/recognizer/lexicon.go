package recognizer

import (
	"context"
	"regexp"
)

// Lexicon is a dependency-free heuristic recognizer used when no NER sidecar
// is configured. It only recognizes person names introduced by an honorific,
// trading recall for zero false positives on ordinary capitalized words.
type Lexicon struct{}

// NewLexicon returns the heuristic recognizer.
func NewLexicon() *Lexicon {
	return &Lexicon{}
}

var honorificRes = map[string]*regexp.Regexp{
	"fr": regexp.MustCompile(`(?:M\.|Mme|Mlle|Monsieur|Madame|Dr)\s+(\p{Lu}[\p{L}'-]+(?:\s+\p{Lu}[\p{L}'-]+)?)`),
	"en": regexp.MustCompile(`(?:Mr\.?|Mrs\.?|Ms\.?|Miss|Dr\.?|Prof\.?)\s+(\p{Lu}[\p{L}'-]+(?:\s+\p{Lu}[\p{L}'-]+)?)`),
}

// Recognize returns PER spans for honorific-introduced names. The span covers
// only the name, not the honorific.
func (l *Lexicon) Recognize(ctx context.Context, text string, lang string) ([]Span, error) {
	re, ok := honorificRes[lang]
	if !ok {
		re = honorificRes["fr"]
	}

	var spans []Span
	for _, match := range re.FindAllStringSubmatchIndex(text, -1) {
		// match[2:4] is the first capture group: the bare name.
		start, end := match[2], match[3]
		if start < 0 || end <= start {
			continue
		}
		spans = append(spans, Span{
			Text:  text[start:end],
			Label: "PER",
			Start: start,
			End:   end,
		})
	}

	return spans, nil
}
