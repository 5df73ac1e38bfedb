package toolloop

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/compasslabs/compass-agent/pkg/inference/engine"
	"github.com/compasslabs/compass-agent/pkg/inference/tools"
	"github.com/compasslabs/compass-agent/pkg/turns"
)

// DefaultMaxIterations caps the inference/tool-execution cycle per user turn.
const DefaultMaxIterations = 10

// Loop drives the inference and tool execution cycle: run inference, execute
// any pending tool calls, feed the results back, repeat until the model stops
// asking for tools.
type Loop struct {
	eng           engine.Engine
	registry      tools.ToolRegistry
	executor      tools.ToolExecutor
	maxIterations int
}

// Option configures a Loop.
type Option func(*Loop)

// New creates a Loop with the given options.
func New(opts ...Option) *Loop {
	l := &Loop{
		maxIterations: DefaultMaxIterations,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

func WithEngine(eng engine.Engine) Option {
	return func(l *Loop) { l.eng = eng }
}

func WithRegistry(reg tools.ToolRegistry) Option {
	return func(l *Loop) { l.registry = reg }
}

func WithExecutor(exec tools.ToolExecutor) Option {
	return func(l *Loop) { l.executor = exec }
}

func WithMaxIterations(n int) Option {
	return func(l *Loop) {
		if n > 0 {
			l.maxIterations = n
		}
	}
}

// RunLoop runs the tool calling workflow with iteration until no pending tools
// remain or the max iteration safety cap is hit.
func (l *Loop) RunLoop(ctx context.Context, initialTurn *turns.Turn) (*turns.Turn, error) {
	if l == nil {
		return nil, errors.New("tool loop is nil")
	}
	if l.eng == nil {
		return nil, errors.New("tool loop engine is nil")
	}

	t := initialTurn
	if t == nil {
		t = &turns.Turn{}
	}

	for i := 0; i < l.maxIterations; i++ {
		log.Debug().Int("iteration", i+1).Msg("toolloop: engine inference step")

		updated, err := l.eng.RunInference(ctx, t)
		if err != nil {
			return nil, err
		}

		calls := ExtractPendingToolCalls(updated)
		if len(calls) == 0 {
			return updated, nil
		}

		executor := l.executor
		if executor == nil {
			executor = tools.NewDefaultToolExecutor()
		}
		results, err := executor.ExecuteToolCalls(ctx, calls, l.registry)
		if err != nil {
			return nil, errors.Wrap(err, "tool execution failed")
		}

		callNames := map[string]string{}
		for _, c := range calls {
			callNames[c.ID] = c.Name
		}
		for _, r := range results {
			if r.Error != "" {
				turns.AppendBlock(updated, turns.NewToolErrorBlock(r.ID, callNames[r.ID], r.Error))
				continue
			}
			turns.AppendBlock(updated, turns.NewToolUseBlock(r.ID, callNames[r.ID], r.Result))
		}

		if name, ok := l.returnDirectCall(calls); ok {
			log.Debug().Str("tool", name).Msg("toolloop: return-direct tool executed, ending loop")
			return updated, nil
		}

		t = updated
	}

	log.Warn().Int("max_iterations", l.maxIterations).Msg("toolloop: maximum iterations reached")
	return t, errors.Errorf("max iterations (%d) reached", l.maxIterations)
}

// returnDirectCall reports whether any of the executed calls belongs to a
// return-direct tool, in which case the loop ends with that tool's result as
// the final block instead of running another inference pass.
func (l *Loop) returnDirectCall(calls []tools.ToolCall) (string, bool) {
	if l.registry == nil {
		return "", false
	}
	for _, c := range calls {
		def, err := l.registry.GetTool(c.Name)
		if err == nil && def.ReturnDirect {
			return c.Name, true
		}
	}
	return "", false
}

// ExtractPendingToolCalls returns tool_call blocks that have no corresponding
// tool_use block yet, in Turn order.
func ExtractPendingToolCalls(t *turns.Turn) []tools.ToolCall {
	if t == nil {
		return nil
	}

	answered := map[string]bool{}
	for _, b := range t.Blocks {
		if b.Kind != turns.BlockKindToolUse {
			continue
		}
		if id, ok := b.Payload[turns.PayloadKeyID].(string); ok {
			answered[id] = true
		}
	}

	var pending []tools.ToolCall
	for _, b := range t.Blocks {
		if b.Kind != turns.BlockKindToolCall {
			continue
		}
		id, _ := b.Payload[turns.PayloadKeyID].(string)
		if id == "" || answered[id] {
			continue
		}
		name, _ := b.Payload[turns.PayloadKeyName].(string)
		pending = append(pending, tools.ToolCall{
			ID:        id,
			Name:      name,
			Arguments: argumentsAsJSON(b.Payload[turns.PayloadKeyArgs]),
		})
	}
	return pending
}

func argumentsAsJSON(args any) json.RawMessage {
	switch v := args.(type) {
	case nil:
		return json.RawMessage("{}")
	case string:
		return json.RawMessage(v)
	case json.RawMessage:
		return v
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return json.RawMessage("{}")
		}
		return b
	}
}
