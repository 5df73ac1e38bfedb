package turns

import "github.com/google/uuid"

// Convenience constructors for commonly used Block shapes.

// Role string constants used for human roles in blocks.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
	RoleTool      = "tool"
)

// NewSystemTextBlock returns a Block representing a system directive.
func NewSystemTextBlock(text string) Block {
	return Block{
		ID:      uuid.NewString(),
		Kind:    BlockKindSystem,
		Role:    RoleSystem,
		Payload: map[string]any{PayloadKeyText: text},
	}
}

// NewUserTextBlock returns a Block representing a user text message.
func NewUserTextBlock(text string) Block {
	return Block{
		ID:      uuid.NewString(),
		Kind:    BlockKindUser,
		Role:    RoleUser,
		Payload: map[string]any{PayloadKeyText: text},
	}
}

// NewAssistantTextBlock returns a Block representing assistant LLM text output.
func NewAssistantTextBlock(text string) Block {
	return Block{
		ID:      uuid.NewString(),
		Kind:    BlockKindLLMText,
		Role:    RoleAssistant,
		Payload: map[string]any{PayloadKeyText: text},
	}
}

// NewToolCallBlock returns a Block requesting invocation of a tool.
// id is a provider-assigned identifier used to correlate tool_use results.
func NewToolCallBlock(id string, name string, args any) Block {
	return Block{
		ID:   id,
		Kind: BlockKindToolCall,
		Payload: map[string]any{
			PayloadKeyID:   id,
			PayloadKeyName: name,
			PayloadKeyArgs: args,
		},
	}
}

// NewToolUseBlock returns a Block capturing a successful tool execution.
// id must match the corresponding tool_call id. result holds the raw tool output.
func NewToolUseBlock(id string, name string, result string) Block {
	return Block{
		ID:   uuid.NewString(),
		Kind: BlockKindToolUse,
		Role: RoleTool,
		Payload: map[string]any{
			PayloadKeyID:     id,
			PayloadKeyName:   name,
			PayloadKeyStatus: ToolStatusSuccess,
			PayloadKeyResult: result,
		},
	}
}

// NewToolErrorBlock returns a Block capturing a failed tool execution.
func NewToolErrorBlock(id string, name string, errText string) Block {
	return Block{
		ID:   uuid.NewString(),
		Kind: BlockKindToolUse,
		Role: RoleTool,
		Payload: map[string]any{
			PayloadKeyID:     id,
			PayloadKeyName:   name,
			PayloadKeyStatus: ToolStatusError,
			PayloadKeyResult: errText,
		},
	}
}

// BlockText extracts the text payload of a block, or "" when absent.
func BlockText(b Block) string {
	if b.Payload == nil {
		return ""
	}
	if s, ok := b.Payload[PayloadKeyText].(string); ok {
		return s
	}
	return ""
}

// ToolResultText extracts the result payload of a tool_use block, or "" when absent.
func ToolResultText(b Block) string {
	if b.Payload == nil {
		return ""
	}
	if s, ok := b.Payload[PayloadKeyResult].(string); ok {
		return s
	}
	return ""
}
