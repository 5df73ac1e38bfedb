package chat

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/compasslabs/compass-agent/pkg/alerting"
	"github.com/compasslabs/compass-agent/pkg/answers"
	"github.com/compasslabs/compass-agent/pkg/turns"
)

type capturedAlert struct {
	contentType string
	body        map[string]any
}

func newAlertServer(t *testing.T) (*httptest.Server, *[]capturedAlert) {
	t.Helper()
	var captured []capturedAlert
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var body map[string]any
		require.NoError(t, json.Unmarshal(raw, &body))
		captured = append(captured, capturedAlert{
			contentType: r.Header.Get("Content-Type"),
			body:        body,
		})
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	t.Cleanup(srv.Close)
	return srv, &captured
}

func TestSafeCompose_TransportFailureAlertsAndFallsBack(t *testing.T) {
	srv, captured := newAlertServer(t)
	reporter := NewReporter(alerting.NewWebhookNotifier(srv.URL))

	agent := &scriptedAgent{err: errors.New("connection reset by peer")}
	out := reporter.SafeCompose(context.Background(), agent, "What is my balance?", "thread-7")

	require.Len(t, out, 1)
	assert.Equal(t, answers.KindText, out[0].Kind)
	assert.Equal(t, FallbackMessage, out[0].Content)

	require.Len(t, *captured, 1, "exactly one alert per failure")
	alert := (*captured)[0]
	assert.Equal(t, "application/json", alert.contentType)
	assert.Equal(t, "Open", alert.body["Status"])
	assert.Equal(t, "Critical", alert.body["Severity"])
	assert.Equal(t, "Unexpected ERROR in AI answer.", alert.body["Title"])
	assert.Equal(t, "agent-test", alert.body["agent_id"])
	assert.Equal(t, "thread-7", alert.body["thread_id"])
	assert.Equal(t, "What is my balance?", alert.body["user_input"])
	assert.Equal(t, DefaultDiagnosticsURL, alert.body["url"])
	assert.Contains(t, alert.body["error_message"], "connection reset by peer")
}

func TestSafeCompose_ToolErrorDoesNotAlert(t *testing.T) {
	srv, captured := newAlertServer(t)
	reporter := NewReporter(alerting.NewWebhookNotifier(srv.URL))

	agent := &scriptedAgent{turns: []*turns.Turn{
		turnWith(
			turns.NewUserTextBlock("supply"),
			turns.NewToolErrorBlock("call-1", "compass_aave_supply", "insufficient funds"),
		),
	}}
	out := reporter.SafeCompose(context.Background(), agent, "supply", "thread-1")

	require.Len(t, out, 1)
	assert.Equal(t, "insufficient funds", out[0].Content)
	assert.Empty(t, *captured, "tool errors are expected outcomes, never alerted")
}

func TestSafeCompose_SuccessPassesThroughUnchanged(t *testing.T) {
	srv, captured := newAlertServer(t)
	reporter := NewReporter(alerting.NewWebhookNotifier(srv.URL))

	agent := &scriptedAgent{turns: []*turns.Turn{
		turnWith(turns.NewAssistantTextBlock("You have 5 USDC.")),
	}}
	out := reporter.SafeCompose(context.Background(), agent, "balance?", "thread-1")

	require.Len(t, out, 1)
	assert.Equal(t, "You have 5 USDC.", out[0].Content)
	assert.Empty(t, *captured)
}

func TestSafeCompose_AlertDeliveryFailureIsSwallowed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from now on
	reporter := NewReporter(alerting.NewWebhookNotifier(srv.URL))

	agent := &scriptedAgent{err: errors.New("boom")}
	out := reporter.SafeCompose(context.Background(), agent, "hello", "thread-1")

	require.Len(t, out, 1)
	assert.Equal(t, FallbackMessage, out[0].Content)
}

func TestSafeCompose_WithoutNotifier(t *testing.T) {
	reporter := NewReporter(nil, WithDiagnosticsURL("https://traces.example.com"))

	agent := &scriptedAgent{err: errors.New("boom")}
	out := reporter.SafeCompose(context.Background(), agent, "hello", "thread-1")

	require.Len(t, out, 1)
	assert.Equal(t, FallbackMessage, out[0].Content)
}
