package recognizer

import (
	"context"
	"fmt"
	"time"

	"resty.dev/v3"
)

// Sidecar calls an external NER service (a spaCy-style sidecar exposing
// POST /classify) for statistical entity recognition. The sidecar owns the
// per-language models; this process never loads them.
type Sidecar struct {
	client *resty.Client
}

// NewSidecar creates a recognizer backed by the NER service at baseURL.
func NewSidecar(baseURL string, timeout time.Duration) *Sidecar {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Sidecar{
		client: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout).
			SetHeader("Content-Type", "application/json"),
	}
}

type classifyRequest struct {
	Text string `json:"text"`
	Lang string `json:"lang"`
}

type classifyResponse struct {
	Spans []Span `json:"spans"`
}

// Recognize sends the text to the sidecar and returns its spans with the
// sidecar's native category labels.
func (s *Sidecar) Recognize(ctx context.Context, text string, lang string) ([]Span, error) {
	out := &classifyResponse{}
	res, err := s.client.R().
		SetContext(ctx).
		SetBody(classifyRequest{Text: text, Lang: lang}).
		SetResult(out).
		Post("/classify")
	if err != nil {
		return nil, fmt.Errorf("ner sidecar request: %w", err)
	}
	if res.StatusCode() != 200 {
		return nil, fmt.Errorf("ner sidecar returned status %d", res.StatusCode())
	}

	return out.Spans, nil
}
