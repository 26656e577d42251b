// Package recognizer provides pluggable named-entity recognition backends for
// the span detector. The detector maps recognizer-native category labels
// (PER, PERSON, ...) onto the domain vocabulary itself; implementations
// report their categories verbatim.
package recognizer

import "context"

// Span is a recognizer hit with byte offsets into the analyzed text.
type Span struct {
	Text  string `json:"text"`
	Label string `json:"label"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// Recognizer extracts named entities from text. lang is "fr" or "en".
// Implementations must be safe for concurrent use.
type Recognizer interface {
	Recognize(ctx context.Context, text string, lang string) ([]Span, error)
}
