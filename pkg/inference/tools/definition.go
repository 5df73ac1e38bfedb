package tools

import (
	"context"
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// ToolFunc executes a tool against its raw JSON arguments and returns the raw
// result body. Implementations report business-level failures through the error
// return; the result string is passed to the model verbatim on success.
type ToolFunc func(ctx context.Context, arguments json.RawMessage) (string, error)

// ToolDefinition represents a tool that can be called by AI models.
type ToolDefinition struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Parameters  *jsonschema.Schema `json:"parameters"`
	Function    ToolFunc           `json:"-"`
	Tags        []string           `json:"tags,omitempty"`
	// ReturnDirect ends the tool loop once this tool's result block is
	// appended: the result goes back to the caller as the final block instead
	// of being fed into another model pass.
	ReturnDirect bool `json:"-"`
}

// ToolCall represents a request to execute a tool.
type ToolCall struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// ToolResult represents the result of a tool execution.
type ToolResult struct {
	ID     string `json:"id"`
	Result string `json:"result"`
	Error  string `json:"error,omitempty"`
}
