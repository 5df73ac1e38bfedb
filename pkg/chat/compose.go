package chat

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/compasslabs/compass-agent/pkg/answers"
	"github.com/compasslabs/compass-agent/pkg/turns"
)

// Agent is the slice of the agent framework the composer depends on: one
// invocation per call, with memory continuity keyed by thread id, and a stable
// identity for alert correlation.
type Agent interface {
	Invoke(ctx context.Context, userInput string, threadID string) (*turns.Turn, error)
	ID() string
}

// completionPromptFormat is the synthetic second-pass prompt asking the agent
// to phrase a short lead-in before a structured payload is shown.
const completionPromptFormat = "Assume you give a correct answer to the following prompt: %s.\n" +
	"Phrase a short message to put on top of the answer. Something like 'Here is...'"

// toolResultPayload is the structured body of a successful tool result.
// Content may be an object or a plain string, depending on the endpoint.
type toolResultPayload struct {
	Type    string `json:"type"`
	Content any    `json:"content"`
	Image   string `json:"image"`
}

// Compose resolves one user request into an ordered list of answers. Text and
// tool-error results return a single envelope. Image and transaction results
// trigger the humanize second pass on the same thread, so the returned pair is
// a natural-language lead-in followed by the structured payload.
func Compose(ctx context.Context, agent Agent, userInput string, threadID string) ([]answers.Answer, error) {
	t, err := agent.Invoke(ctx, userInput, threadID)
	if err != nil {
		return nil, errors.Wrap(err, "agent invocation failed")
	}

	last, ok := turns.LastBlock(t)
	if !ok {
		return nil, errors.New("agent returned an empty turn")
	}

	kind, err := Classify(last)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("kind", string(kind)).Str("thread_id", threadID).Msg("classified agent answer")

	switch kind {
	case answers.KindText:
		return []answers.Answer{answers.NewText(turns.BlockText(last))}, nil

	case answers.KindError:
		// Tool-level failures are expected business outcomes; they are shown
		// to the user verbatim and never alerted.
		return []answers.Answer{answers.NewText(turns.ToolResultText(last))}, nil

	case answers.KindImage, answers.KindUnsignedTransaction:
		var payload toolResultPayload
		if err := json.Unmarshal([]byte(turns.ToolResultText(last)), &payload); err != nil {
			return nil, errors.Wrap(err, "parsing tool result payload")
		}
		if kind == answers.KindImage && payload.Image == "" {
			return nil, errors.New("tool result payload has no image")
		}
		if kind == answers.KindUnsignedTransaction && payload.Content == nil {
			return nil, errors.New("tool result payload has no content")
		}

		// Humanize pass: memory carries the prior turn, so the agent has the
		// context to phrase the lead-in.
		completion := fmt.Sprintf(completionPromptFormat, userInput)
		tt, err := agent.Invoke(ctx, completion, threadID)
		if err != nil {
			return nil, errors.Wrap(err, "humanize invocation failed")
		}
		leadIn, ok := turns.LastBlock(tt)
		if !ok {
			return nil, errors.New("humanize invocation returned an empty turn")
		}

		second := answers.NewUnsignedTransaction(payload.Content)
		if kind == answers.KindImage {
			second = answers.NewImage(payload.Image)
		}
		return []answers.Answer{
			answers.NewText(turns.BlockText(leadIn)),
			second,
		}, nil

	default:
		return nil, errors.Errorf("unexpected answer kind: %s", kind)
	}
}
