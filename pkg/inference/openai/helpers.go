package openai

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	go_openai "github.com/sashabaranov/go-openai"

	"github.com/compasslabs/compass-agent/pkg/turns"
)

// makeCompletionRequestFromTurn builds an OpenAI ChatCompletionRequest directly
// from a Turn's blocks. Consecutive tool_call blocks collapse into a single
// assistant message so the tool result messages that follow satisfy the API's
// adjacency requirement.
func makeCompletionRequestFromTurn(model string, t *turns.Turn) (*go_openai.ChatCompletionRequest, error) {
	if model == "" {
		return nil, errors.New("no model specified")
	}

	var msgs []go_openai.ChatCompletionMessage
	pendingToolCalls := []go_openai.ToolCall{}

	flushToolCalls := func() {
		if len(pendingToolCalls) == 0 {
			return
		}
		msgs = append(msgs, go_openai.ChatCompletionMessage{
			Role:      go_openai.ChatMessageRoleAssistant,
			ToolCalls: pendingToolCalls,
		})
		pendingToolCalls = nil
	}

	for _, b := range t.Blocks {
		switch b.Kind {
		case turns.BlockKindSystem:
			flushToolCalls()
			msgs = append(msgs, go_openai.ChatCompletionMessage{
				Role:    go_openai.ChatMessageRoleSystem,
				Content: turns.BlockText(b),
			})
		case turns.BlockKindUser:
			flushToolCalls()
			msgs = append(msgs, go_openai.ChatCompletionMessage{
				Role:    go_openai.ChatMessageRoleUser,
				Content: turns.BlockText(b),
			})
		case turns.BlockKindLLMText:
			flushToolCalls()
			msgs = append(msgs, go_openai.ChatCompletionMessage{
				Role:    go_openai.ChatMessageRoleAssistant,
				Content: turns.BlockText(b),
			})
		case turns.BlockKindToolCall:
			id, _ := b.Payload[turns.PayloadKeyID].(string)
			name, _ := b.Payload[turns.PayloadKeyName].(string)
			pendingToolCalls = append(pendingToolCalls, go_openai.ToolCall{
				ID:   id,
				Type: go_openai.ToolTypeFunction,
				Function: go_openai.FunctionCall{
					Name:      name,
					Arguments: argumentsAsString(b.Payload[turns.PayloadKeyArgs]),
				},
			})
		case turns.BlockKindToolUse:
			flushToolCalls()
			id, _ := b.Payload[turns.PayloadKeyID].(string)
			msgs = append(msgs, go_openai.ChatCompletionMessage{
				Role:       go_openai.ChatMessageRoleTool,
				ToolCallID: id,
				Content:    turns.ToolResultText(b),
			})
		case turns.BlockKindOther:
			// ignored
		}
	}
	flushToolCalls()

	return &go_openai.ChatCompletionRequest{
		Model:    model,
		Messages: msgs,
	}, nil
}

// argumentsAsString normalizes tool call arguments into the JSON string form
// the API expects.
func argumentsAsString(args any) string {
	switch v := args.(type) {
	case nil:
		return "{}"
	case string:
		return v
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(b)
	}
}
