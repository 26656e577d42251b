// Package ai wraps the language-model backend that performs free-form
// sensitive-data extraction, and fuses its output with positioned detections.
//
// The backend speaks the OpenAI-compatible chat completions protocol, which
// covers both locally hosted inference servers and remote APIs. The adapter
// never fails: every error degrades into a Result with risk level "error".
package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
	"github.com/veraxsec/mailguard/pkg/detect/types"
	"resty.dev/v3"
)

// RiskLevelError marks a degraded result from a failed backend call.
const RiskLevelError = "error"

const systemPrompt = `You are a data security and GDPR compliance expert.
Your role is to analyze the content of an email BEFORE it is sent and detect ANY sensitive data that could cause a data leak.

You must detect and report:
- Passwords, PIN codes, access codes
- API keys, tokens, secrets
- Credit card numbers, CVV codes
- IBAN and other bank account details
- Cryptocurrency addresses, private keys, seed phrases
- Large financial amounts, especially tied to assets
- Social security numbers
- Full physical addresses
- Person names
- Email addresses, phone numbers
- Internal URLs, private IP addresses
- Database connection strings
- Salary, medical or legal information
- Any other confidential or sensitive information

For each sensitive item found, return a JSON object with:
- "text": the exact text as it appears in the message
- "label": the data type (e.g. PASSWORD, CRYPTO_KEY, SENSITIVE_AMOUNT, PHYSICAL_ADDRESS, NAME, ...)
- "severity": "critical", "high", "medium" or "low"
- "reason": a short explanation of why it is sensitive

Also assess the overall risk of the email:
- "risk_level": "CRITICAL - DO NOT SEND", "HIGH - SENDING DISCOURAGED", "MEDIUM - REVIEW BEFORE SENDING", "LOW - CAUTION" or "none"
- "risk_summary": a 1-2 sentence summary of the main risk

Respond ONLY with valid JSON, without markdown, in this exact format:
{
  "entities": [...],
  "risk_level": "...",
  "risk_summary": "..."
}`

// Result is the extractor's structured verdict. Entities carry no position.
type Result struct {
	Entities    []types.Entity `json:"entities"`
	RiskLevel   string         `json:"risk_level"`
	RiskSummary string         `json:"risk_summary"`
}

// Config configures the backend client.
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Client talks to the extraction backend. Safe for concurrent use.
type Client struct {
	client *resty.Client
	model  string
}

// NewClient creates a backend client. The timeout bounds the whole round
// trip; there are no retries, a failed attempt degrades immediately.
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json")
	if cfg.APIKey != "" {
		client.SetAuthToken(cfg.APIKey)
	}

	return &Client{client: client, model: cfg.Model}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Analyze sends the text to the backend and parses its verdict. Never returns
// an error: network failures, timeouts, HTTP errors and malformed responses
// all degrade into an empty Result with risk level "error" and a summary
// embedding the cause.
func (c *Client) Analyze(ctx context.Context, text string) Result {
	req := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: "Analyze this email before sending:\n\n" + text},
		},
	}

	res, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		Post("/chat/completions")
	if err != nil {
		return degraded(fmt.Errorf("backend request: %w", err))
	}
	if res.StatusCode() != 200 {
		return degraded(fmt.Errorf("backend returned status %d", res.StatusCode()))
	}

	content := gjson.Get(res.String(), "choices.0.message.content").String()
	if content == "" {
		return degraded(fmt.Errorf("backend response contains no message content"))
	}

	return parseVerdict(content)
}

// parseVerdict extracts the structured verdict from the model's raw text.
// The model is instructed to answer with bare JSON but occasionally wraps it
// in markdown code fences; those are stripped first. Fields are all optional
// and defaulted, the upstream is not a trusted schema.
func parseVerdict(raw string) Result {
	payload := stripCodeFence(raw)
	if !gjson.Valid(payload) {
		return degraded(fmt.Errorf("backend response is not valid JSON"))
	}

	parsed := gjson.Parse(payload)

	result := Result{
		RiskLevel:   parsed.Get("risk_level").String(),
		RiskSummary: parsed.Get("risk_summary").String(),
	}

	parsed.Get("entities").ForEach(func(_, item gjson.Result) bool {
		// Unknown or missing severities stay empty here; the fusion step
		// applies the medium default.
		severity := types.Severity(item.Get("severity").String())
		if severity.Rank() == 0 {
			severity = ""
		}

		result.Entities = append(result.Entities, types.Entity{
			Text:     item.Get("text").String(),
			Label:    item.Get("label").String(),
			Start:    -1,
			End:      -1,
			Severity: severity,
			Source:   types.SourceLanguageModel,
			Reason:   item.Get("reason").String(),
		})
		return true
	})

	return result
}

// stripCodeFence removes a surrounding markdown code fence, with or without a
// language tag, leaving other content untouched.
func stripCodeFence(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	if idx := strings.Index(trimmed, "\n"); idx >= 0 {
		trimmed = trimmed[idx+1:]
	}
	if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[:idx]
	}

	return strings.TrimSpace(trimmed)
}

func degraded(err error) Result {
	log.Debug().Err(err).Msg("AI analysis degraded")
	return Result{
		Entities:    []types.Entity{},
		RiskLevel:   RiskLevelError,
		RiskSummary: "AI analysis failed: " + err.Error(),
	}
}
