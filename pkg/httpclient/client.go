// Package httpclient provides the shared retrying HTTP client used for
// fetching remote resources such as extra rule packs.
package httpclient

import (
	"context"
	"net/http"
	"net/url"
	"os"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog/log"
)

// HeaderRoundTripper is an http.RoundTripper that adds default headers to
// requests. Headers are only added if they're not already present.
type HeaderRoundTripper struct {
	Headers map[string]string
	Next    http.RoundTripper
}

func (hrt *HeaderRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if hrt.Next == nil {
		return nil, http.ErrNotSupported
	}

	for k, v := range hrt.Headers {
		if req.Header.Get(k) == "" {
			req.Header.Set(k, v)
		}
	}

	return hrt.Next.RoundTrip(req)
}

// GetMailguardHTTPClient creates a retryable HTTP client with optional default
// headers. Retries on 429 and 5xx (except 501). Honors HTTP_PROXY.
func GetMailguardHTTPClient(defaultHeaders map[string]string) *retryablehttp.Client {
	client := retryablehttp.NewClient()
	client.Logger = nil

	client.CheckRetry = func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if err != nil {
			log.Debug().Err(err).Msg("Retrying HTTP request, error occurred")
			return true, nil
		}

		if resp == nil {
			return false, nil
		}

		if resp.StatusCode == 429 || (resp.StatusCode >= 500 && resp.StatusCode != 501) {
			log.Trace().Int("statusCode", resp.StatusCode).Msg("Retrying HTTP request")
			return true, nil
		}

		return false, nil
	}

	tr := &http.Transport{}

	proxyServer, useHTTPProxy := os.LookupEnv("HTTP_PROXY")
	if useHTTPProxy {
		proxyURL, err := url.Parse(proxyServer)
		if err != nil {
			log.Fatal().Err(err).Str("HTTP_PROXY", proxyServer).Msg("Invalid Proxy URL in HTTP_PROXY environment variable")
		}
		log.Info().Str("proxy", proxyURL.String()).Msg("Using HTTP_PROXY")
		tr.Proxy = http.ProxyURL(proxyURL)
	}

	client.HTTPClient.Transport = &HeaderRoundTripper{Headers: defaultHeaders, Next: tr}
	return client
}
