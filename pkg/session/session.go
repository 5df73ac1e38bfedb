package session

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/compasslabs/compass-agent/pkg/inference/engine"
	"github.com/compasslabs/compass-agent/pkg/inference/tools"
	"github.com/compasslabs/compass-agent/pkg/inference/toolloop"
	"github.com/compasslabs/compass-agent/pkg/turns"
)

// SystemPrompt primes the agent for onchain work through the Compass API.
const SystemPrompt = "You are a helpful agent that can interact onchain using APIs that you've been told. Most importantly the Compass API. " +
	"Think step by step. " +
	"You will help users to make transactions on chain as well as return useful information and insights. " +
	"Always try to be concise. If you are missing information, always ask for it. " +
	"If there is a 5XX (internal) HTTP error code, ask the user to try again later. " +
	"If it's ambiguous which tool to use, always prefer Compass tools over Coinbase tools or Coingecko tools. " +
	"If someone asks you to do something you can't do with your currently available tools, " +
	"you must say so, and encourage them to implement it themselves using the Compass API. " +
	"They can contact Compass Labs at contact@compasslabs.ai."

// Session is the agent handle: a stable identity, an inference engine, the
// tool registry, and the per-thread conversation memory. It is constructed
// once and never mutated afterwards.
type Session struct {
	id           string
	loop         *toolloop.Loop
	memory       *MemoryStore
	systemPrompt string
}

// Option configures a Session.
type Option func(*Session)

// WithSystemPrompt overrides the default system prompt.
func WithSystemPrompt(prompt string) Option {
	return func(s *Session) { s.systemPrompt = prompt }
}

// WithMemoryStore overrides the conversation memory store.
func WithMemoryStore(store *MemoryStore) Option {
	return func(s *Session) { s.memory = store }
}

// New creates a Session around an engine and a tool registry.
func New(eng engine.Engine, registry tools.ToolRegistry, opts ...Option) (*Session, error) {
	if eng == nil {
		return nil, errors.New("session requires an engine")
	}

	s := &Session{
		id: uuid.NewString(),
		loop: toolloop.New(
			toolloop.WithEngine(eng),
			toolloop.WithRegistry(registry),
		),
		memory:       NewMemoryStore(),
		systemPrompt: SystemPrompt,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// ID returns the agent identity generated at construction.
func (s *Session) ID() string {
	return s.id
}

// Invoke runs one agent turn: it extends the thread's history with the user
// input, drives the inference/tool loop to completion, and checkpoints the
// resulting blocks under the thread id.
func (s *Session) Invoke(ctx context.Context, userInput string, threadID string) (*turns.Turn, error) {
	if threadID == "" {
		return nil, errors.New("thread id cannot be empty")
	}

	blocks := s.memory.Load(threadID)
	if len(blocks) == 0 && s.systemPrompt != "" {
		blocks = append(blocks, turns.NewSystemTextBlock(s.systemPrompt))
	}
	blocks = append(blocks, turns.NewUserTextBlock(userInput))

	t := &turns.Turn{ID: uuid.NewString(), Blocks: blocks}

	log.Debug().Str("thread_id", threadID).Str("turn_id", t.ID).Msg("session invoke")
	out, err := s.loop.RunLoop(ctx, t)
	if err != nil {
		return nil, err
	}

	s.memory.Save(threadID, out.Blocks)
	return out, nil
}

// Trajectory runs one agent turn and returns the final reply text together
// with the ordered names of the tools that executed during the turn.
func (s *Session) Trajectory(ctx context.Context, userInput string, threadID string) (string, []string, error) {
	out, err := s.Invoke(ctx, userInput, threadID)
	if err != nil {
		return "", nil, err
	}

	last, ok := turns.LastBlock(out)
	if !ok {
		return "", nil, errors.New("turn produced no blocks")
	}

	var names []string
	for _, b := range turns.FindBlocksByKind(out, turns.BlockKindToolUse) {
		if name, ok := b.Payload[turns.PayloadKeyName].(string); ok && name != "" {
			names = append(names, name)
		}
	}
	return turns.BlockText(last), names, nil
}
