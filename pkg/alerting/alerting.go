package alerting

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Alert status and severity values understood by the incident endpoint.
const (
	StatusOpen       = "Open"
	SeverityCritical = "Critical"
)

// Alert is the incident record posted to the alerting webhook. Field names
// follow the webhook's expected JSON casing.
type Alert struct {
	Status       string `json:"Status"`
	Severity     string `json:"Severity"`
	Title        string `json:"Title"`
	AgentID      string `json:"agent_id"`
	ThreadID     string `json:"thread_id"`
	UserInput    string `json:"user_input"`
	URL          string `json:"url"`
	ErrorMessage string `json:"error_message"`
}

// Notifier sends an alert to an external channel.
type Notifier interface {
	Notify(ctx context.Context, alert Alert) error
}

// WebhookNotifier posts alerts as JSON to a configured HTTP endpoint.
type WebhookNotifier struct {
	url    string
	client *http.Client
}

// Option configures a WebhookNotifier.
type Option func(*WebhookNotifier)

// WithHTTPClient overrides the HTTP client, mostly useful in tests.
func WithHTTPClient(client *http.Client) Option {
	return func(n *WebhookNotifier) { n.client = client }
}

// NewWebhookNotifier creates a notifier for the given webhook URL.
func NewWebhookNotifier(url string, opts ...Option) *WebhookNotifier {
	n := &WebhookNotifier{
		url:    url,
		client: http.DefaultClient,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(n)
		}
	}
	return n
}

// Notify posts the alert. The response body is logged but never validated;
// delivery is best-effort and the caller decides whether a failure matters.
func (n *WebhookNotifier) Notify(ctx context.Context, alert Alert) error {
	if n.url == "" {
		return errors.New("no webhook url configured")
	}

	body, err := json.Marshal(alert)
	if err != nil {
		return errors.Wrap(err, "marshaling alert")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "building alert request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "posting alert")
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, _ := io.ReadAll(resp.Body)
	log.Info().Int("status", resp.StatusCode).Str("response", string(respBody)).Msg("alert webhook response")
	return nil
}
