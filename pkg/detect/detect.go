// Package detect implements the layered span detector: ordered pattern rules,
// an optional supplementary secrets engine, and a pluggable named-entity
// recognizer, resolved into one non-overlapping entity set.
package detect

import (
	"context"
	"sort"

	"github.com/rs/zerolog/log"
	"github.com/veraxsec/mailguard/pkg/detect/lang"
	"github.com/veraxsec/mailguard/pkg/detect/recognizer"
	"github.com/veraxsec/mailguard/pkg/detect/rules"
	"github.com/veraxsec/mailguard/pkg/detect/types"
)

// LanguageDetector classifies text as "fr" or "en". Failures never surface;
// implementations default to "fr".
type LanguageDetector interface {
	Detect(text string) string
}

// SecretScanner is an optional supplementary source of positioned credential
// entities, run after the pattern rules and before the recognizer.
type SecretScanner interface {
	Scan(ctx context.Context, text string) []types.Entity
}

// recognizerLabelMap is the configured subset of recognizer categories mapped
// into the domain vocabulary. Unmapped categories are ignored.
var recognizerLabelMap = map[string]string{
	"PER":    types.LabelName,
	"PERSON": types.LabelName,
}

// Detector applies the rule set and the recognizer over input text and emits
// ordered, non-overlapping entity spans. Immutable after construction and
// safe for concurrent use.
type Detector struct {
	rules      []rules.Rule
	language   LanguageDetector
	recognizer recognizer.Recognizer
	secrets    SecretScanner
}

// Option configures a Detector.
type Option func(*Detector)

// WithRules appends extra rules after the built-in set. Built-ins keep claim
// priority.
func WithRules(extra []rules.Rule) Option {
	return func(d *Detector) {
		d.rules = append(d.rules, extra...)
	}
}

// WithRecognizer replaces the default heuristic recognizer.
func WithRecognizer(r recognizer.Recognizer) Option {
	return func(d *Detector) {
		d.recognizer = r
	}
}

// WithLanguageDetector replaces the default lingua-based classifier.
func WithLanguageDetector(l LanguageDetector) Option {
	return func(d *Detector) {
		d.language = l
	}
}

// WithSecretScanner enables a supplementary secrets engine.
func WithSecretScanner(s SecretScanner) Option {
	return func(d *Detector) {
		d.secrets = s
	}
}

// New builds a Detector with the built-in rule set, the lingua language
// classifier, and the heuristic lexicon recognizer unless overridden.
func New(opts ...Option) *Detector {
	d := &Detector{
		rules:      rules.Builtin(),
		recognizer: recognizer.NewLexicon(),
	}

	for _, opt := range opts {
		opt(d)
	}

	if d.language == nil {
		d.language = lang.NewDetector()
	}

	return d
}

// Detect scans text and returns entities sorted by start offset ascending.
// No two returned entities overlap. Empty text yields an empty result.
// Detection itself never fails: recognizer errors are logged and dropped.
func (d *Detector) Detect(ctx context.Context, text string) []types.Entity {
	entities := []types.Entity{}
	if text == "" {
		return entities
	}

	claims := newClaimSet()

	// Pattern rules, in declaration order. An earlier rule's span can never
	// be displaced by a later match.
	for _, rule := range d.rules {
		for _, hit := range rule.Pattern.FindAllStringIndex(text, -1) {
			if !claims.Claim(hit[0], hit[1]) {
				continue
			}
			entities = append(entities, types.Entity{
				Text:     text[hit[0]:hit[1]],
				Label:    rule.Label,
				Start:    hit[0],
				End:      hit[1],
				Severity: rule.Severity,
				Source:   types.SourcePattern,
			})
		}
	}

	if d.secrets != nil {
		for _, entity := range d.secrets.Scan(ctx, text) {
			if !claims.Claim(entity.Start, entity.End) {
				continue
			}
			entities = append(entities, entity)
		}
	}

	language := d.language.Detect(text)

	spans, err := d.recognizer.Recognize(ctx, text, language)
	if err != nil {
		log.Debug().Err(err).Str("lang", language).Msg("Recognizer failed, continuing with pattern hits only")
	}
	for _, span := range spans {
		label, mapped := recognizerLabelMap[span.Label]
		if !mapped {
			continue
		}
		if !claims.Claim(span.Start, span.End) {
			continue
		}
		entities = append(entities, types.Entity{
			Text:     span.Text,
			Label:    label,
			Start:    span.Start,
			End:      span.End,
			Severity: types.SeverityFor(label),
			Source:   types.SourceRecognizer,
		})
	}

	sort.SliceStable(entities, func(i, j int) bool {
		return entities[i].Start < entities[j].Start
	})

	return entities
}
