package engine

import (
	"context"

	"github.com/compasslabs/compass-agent/pkg/turns"
)

// Engine represents an AI inference engine that can process a Turn and return
// it extended with the model's response blocks. Engines handle provider-specific
// logic; the rest of the system only sees Turns.
type Engine interface {
	// RunInference processes a Turn and returns the updated Turn. The returned
	// Turn includes all original blocks plus the AI response block(s), which may
	// be llm_text or tool_call blocks.
	RunInference(ctx context.Context, t *turns.Turn) (*turns.Turn, error)
}
