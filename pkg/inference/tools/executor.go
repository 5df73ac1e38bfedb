package tools

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// ToolExecutor resolves tool calls against a registry and runs them.
type ToolExecutor interface {
	ExecuteToolCalls(ctx context.Context, calls []ToolCall, registry ToolRegistry) ([]ToolResult, error)
}

// DefaultToolExecutor executes tool calls sequentially, in call order.
type DefaultToolExecutor struct{}

// NewDefaultToolExecutor creates a sequential executor.
func NewDefaultToolExecutor() *DefaultToolExecutor {
	return &DefaultToolExecutor{}
}

// ExecuteToolCalls runs each call through its registered function. A failing
// tool does not abort the batch; its failure is captured in the result's Error
// field so the model can observe it.
func (e *DefaultToolExecutor) ExecuteToolCalls(ctx context.Context, calls []ToolCall, registry ToolRegistry) ([]ToolResult, error) {
	if registry == nil {
		return nil, errors.New("tool executor requires a registry")
	}

	results := make([]ToolResult, 0, len(calls))
	for _, call := range calls {
		def, err := registry.GetTool(call.Name)
		if err != nil {
			results = append(results, ToolResult{ID: call.ID, Error: err.Error()})
			continue
		}
		if def.Function == nil {
			results = append(results, ToolResult{ID: call.ID, Error: errors.Errorf("tool %s has no function", call.Name).Error()})
			continue
		}

		log.Debug().Str("tool", call.Name).Str("call_id", call.ID).Msg("executing tool")
		body, err := def.Function(ctx, call.Arguments)
		if err != nil {
			results = append(results, ToolResult{ID: call.ID, Error: err.Error()})
			continue
		}
		results = append(results, ToolResult{ID: call.ID, Result: body})
	}
	return results, nil
}
