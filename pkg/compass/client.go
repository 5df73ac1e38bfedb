package compass

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// DefaultBaseURL is the public Compass API endpoint.
const DefaultBaseURL = "https://api.compasslabs.ai"

// Client is a thin HTTP client for the Compass API. Endpoints take a JSON
// body and answer with a JSON payload that is handed to the model verbatim.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL overrides the API endpoint, mostly useful in tests.
func WithBaseURL(url string) ClientOption {
	return func(c *Client) { c.baseURL = strings.TrimRight(url, "/") }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) { c.http = client }
}

// NewClient creates a Compass API client. apiKey may be empty for the public
// rate-limited tier.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		http:    http.DefaultClient,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Post calls an API endpoint with a JSON body and returns the raw response
// body. Non-2xx responses surface as errors carrying the response text, which
// the tool layer reports as a tool-level failure.
func (c *Client) Post(ctx context.Context, path string, body json.RawMessage) (string, error) {
	if len(body) == 0 {
		body = json.RawMessage("{}")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrapf(err, "building request for %s", path)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	log.Debug().Str("path", path).Msg("compass api call")
	resp, err := c.http.Do(req)
	if err != nil {
		return "", errors.Wrapf(err, "calling %s", path)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrapf(err, "reading response from %s", path)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", errors.Errorf("%s returned HTTP %d: %s", path, resp.StatusCode, strings.TrimSpace(string(respBody)))
	}
	return string(respBody), nil
}
