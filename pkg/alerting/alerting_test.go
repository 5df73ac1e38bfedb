package alerting

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhookNotifier_PostsJSONAlert(t *testing.T) {
	var gotContentType string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		_, _ = w.Write([]byte(`{"result":"Success"}`))
	}))
	defer srv.Close()

	notifier := NewWebhookNotifier(srv.URL)
	err := notifier.Notify(context.Background(), Alert{
		Status:       StatusOpen,
		Severity:     SeverityCritical,
		Title:        "Unexpected ERROR in AI answer.",
		AgentID:      "agent-1",
		ThreadID:     "thread-1",
		UserInput:    "balance?",
		URL:          "https://smith.langchain.com",
		ErrorMessage: "boom",
	})
	require.NoError(t, err)

	assert.Equal(t, "application/json", gotContentType)
	var body map[string]any
	require.NoError(t, json.Unmarshal(gotBody, &body))
	assert.Equal(t, "Open", body["Status"])
	assert.Equal(t, "Critical", body["Severity"])
	assert.Equal(t, "agent-1", body["agent_id"])
	assert.Equal(t, "thread-1", body["thread_id"])
	assert.Equal(t, "balance?", body["user_input"])
	assert.Equal(t, "boom", body["error_message"])
}

func TestWebhookNotifier_NonJSONResponseIsFine(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("nope"))
	}))
	defer srv.Close()

	// Responses are logged, never validated.
	err := NewWebhookNotifier(srv.URL).Notify(context.Background(), Alert{})
	require.NoError(t, err)
}

func TestWebhookNotifier_DeliveryFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	err := NewWebhookNotifier(srv.URL).Notify(context.Background(), Alert{})
	require.Error(t, err)
}

func TestWebhookNotifier_RequiresURL(t *testing.T) {
	err := NewWebhookNotifier("").Notify(context.Background(), Alert{})
	require.Error(t, err)
}
