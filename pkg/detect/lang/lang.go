// Package lang classifies text as French or English for recognizer selection.
package lang

import (
	"github.com/pemistahl/lingua-go"
)

// French is the fallback language: detection failures and unsupported results
// never surface, they default here.
const French = "fr"

// English is the second supported language.
const English = "en"

// Detector is a two-class language classifier.
type Detector struct {
	detector lingua.LanguageDetector
}

// NewDetector builds the classifier. Models are loaded once; the detector is
// safe for concurrent use.
func NewDetector() *Detector {
	return &Detector{
		detector: lingua.NewLanguageDetectorBuilder().
			FromLanguages(lingua.French, lingua.English).
			Build(),
	}
}

// Detect returns "fr" or "en" for the given text. Any undecidable input
// yields "fr".
func (d *Detector) Detect(text string) string {
	language, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return French
	}
	if language == lingua.English {
		return English
	}
	return French
}
