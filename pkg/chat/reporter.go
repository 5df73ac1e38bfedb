package chat

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/compasslabs/compass-agent/pkg/alerting"
	"github.com/compasslabs/compass-agent/pkg/answers"
)

// FallbackMessage is returned to the user whenever composition fails.
const FallbackMessage = "Something went wrong on Compass AI side. Please mail contact@compasslabs.ai to report this issue."

// alertTitle identifies composition failures on the incident channel.
const alertTitle = "Unexpected ERROR in AI answer."

// DefaultDiagnosticsURL points responders at the conversation traces.
const DefaultDiagnosticsURL = "https://smith.langchain.com"

// Reporter is the failure boundary around Compose: every error raised during
// one request's composition is caught here exactly once, converted into an
// alert, and replaced by a fixed user-facing text answer.
type Reporter struct {
	notifier       alerting.Notifier
	diagnosticsURL string
}

// ReporterOption configures a Reporter.
type ReporterOption func(*Reporter)

// WithDiagnosticsURL overrides the diagnostics link included in alerts.
func WithDiagnosticsURL(url string) ReporterOption {
	return func(r *Reporter) { r.diagnosticsURL = url }
}

// NewReporter creates a Reporter. notifier may be nil, in which case failures
// are only logged.
func NewReporter(notifier alerting.Notifier, opts ...ReporterOption) *Reporter {
	r := &Reporter{
		notifier:       notifier,
		diagnosticsURL: DefaultDiagnosticsURL,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// SafeCompose never fails: on any composition error it fires one best-effort
// alert carrying the thread id and user input, and returns the fallback text
// answer. Alert delivery failures are logged and not escalated further.
func (r *Reporter) SafeCompose(ctx context.Context, agent Agent, userInput string, threadID string) []answers.Answer {
	out, err := Compose(ctx, agent, userInput, threadID)
	if err == nil {
		return out
	}

	log.Error().Err(err).Str("thread_id", threadID).Msg("composition failed")

	if r.notifier != nil {
		alert := alerting.Alert{
			Status:       alerting.StatusOpen,
			Severity:     alerting.SeverityCritical,
			Title:        alertTitle,
			AgentID:      agent.ID(),
			ThreadID:     threadID,
			UserInput:    userInput,
			URL:          r.diagnosticsURL,
			ErrorMessage: err.Error(),
		}
		if nerr := r.notifier.Notify(ctx, alert); nerr != nil {
			log.Warn().Err(nerr).Msg("alert delivery failed")
		}
	}

	return []answers.Answer{answers.NewText(FallbackMessage)}
}
