package server

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"github.com/veraxsec/mailguard/pkg/config"
	"github.com/veraxsec/mailguard/pkg/detect"
	"github.com/veraxsec/mailguard/pkg/scan"
)

type fixedLanguage string

func (f fixedLanguage) Detect(string) string { return string(f) }

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	detector := detect.New(detect.WithLanguageDetector(fixedLanguage("en")))
	srv := New(config.Default(), scan.NewPipeline(detector, nil))
	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	return ts
}

func TestHandleAnalyze(t *testing.T) {
	ts := newTestServer(t)

	res, err := http.Post(ts.URL+"/api/analyze", "application/json",
		strings.NewReader(`{"text":"password: Hunter22 for staging"}`))
	require.NoError(t, err)
	defer func() { _ = res.Body.Close() }()

	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.NotEmpty(t, res.Header.Get("X-Request-ID"))

	var buf bytes.Buffer
	_, err = buf.ReadFrom(res.Body)
	require.NoError(t, err)
	body := buf.String()

	assert.Equal(t, int64(1), gjson.Get(body, "count").Int())
	assert.Equal(t, "PASSWORD", gjson.Get(body, "entities.0.label").String())
	assert.Equal(t, "CRITICAL - DO NOT SEND", gjson.Get(body, "risk_level").String())
	assert.Equal(t, scan.FallbackSummary, gjson.Get(body, "risk_summary").String())
}

func TestHandleAnalyzeMultipart(t *testing.T) {
	ts := newTestServer(t)

	var form bytes.Buffer
	writer := multipart.NewWriter(&form)
	require.NoError(t, writer.WriteField("text", "see attached"))
	part, err := writer.CreateFormFile("file", "creds.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("password: Attached9"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	res, err := http.Post(ts.URL+"/api/analyze", writer.FormDataContentType(), &form)
	require.NoError(t, err)
	defer func() { _ = res.Body.Close() }()

	require.Equal(t, http.StatusOK, res.StatusCode)

	var buf bytes.Buffer
	_, err = buf.ReadFrom(res.Body)
	require.NoError(t, err)
	body := buf.String()

	assert.Equal(t, int64(1), gjson.Get(body, "count").Int())
	assert.Contains(t, gjson.Get(body, "entities.0.text").String(), "Attached9")
}

func TestHandleAnalyzeBadBody(t *testing.T) {
	ts := newTestServer(t)

	res, err := http.Post(ts.URL+"/api/analyze", "application/json", strings.NewReader("not json"))
	require.NoError(t, err)
	defer func() { _ = res.Body.Close() }()

	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestHandleAnonymize(t *testing.T) {
	ts := newTestServer(t)

	res, err := http.Post(ts.URL+"/api/anonymize", "application/json",
		strings.NewReader(`{"text":"Mail alice@corp.example please"}`))
	require.NoError(t, err)
	defer func() { _ = res.Body.Close() }()

	require.Equal(t, http.StatusOK, res.StatusCode)

	var buf bytes.Buffer
	_, err = buf.ReadFrom(res.Body)
	require.NoError(t, err)
	body := buf.String()

	assert.Equal(t, "Mail alice@corp.example please", gjson.Get(body, "original").String())
	assert.Equal(t, "Mail [EMAIL] please", gjson.Get(body, "anonymized").String())
	assert.Equal(t, int64(1), gjson.Get(body, "count").Int())
}

func TestHandleReport(t *testing.T) {
	ts := newTestServer(t)

	res, err := http.Post(ts.URL+"/api/report", "application/json",
		strings.NewReader(`{"text":"password: Hunter22"}`))
	require.NoError(t, err)
	defer func() { _ = res.Body.Close() }()

	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "application/pdf", res.Header.Get("Content-Type"))
	assert.Contains(t, res.Header.Get("Content-Disposition"), "mailguard-report.pdf")

	var buf bytes.Buffer
	_, err = buf.ReadFrom(res.Body)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", buf.String()[:4])
}

func TestHandleHealth(t *testing.T) {
	ts := newTestServer(t)

	res, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer func() { _ = res.Body.Close() }()

	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t)

	res, err := http.Post(ts.URL+"/api/analyze", "application/json",
		strings.NewReader(`{"text":"password: Hunter22"}`))
	require.NoError(t, err)
	_ = res.Body.Close()

	res, err = http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer func() { _ = res.Body.Close() }()

	require.Equal(t, http.StatusOK, res.StatusCode)

	var buf bytes.Buffer
	_, err = buf.ReadFrom(res.Body)
	require.NoError(t, err)
	body := buf.String()

	assert.Contains(t, body, "mailguard_analyses_total")
	assert.Contains(t, body, "mailguard_entities_detected_total")
}

func TestMethodNotAllowed(t *testing.T) {
	ts := newTestServer(t)

	res, err := http.Get(ts.URL + "/api/analyze")
	require.NoError(t, err)
	defer func() { _ = res.Body.Close() }()

	assert.Equal(t, http.StatusMethodNotAllowed, res.StatusCode)
}
