package openai

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	go_openai "github.com/sashabaranov/go-openai"

	"github.com/compasslabs/compass-agent/pkg/inference/tools"
	"github.com/compasslabs/compass-agent/pkg/turns"
)

// Engine implements the inference engine interface on top of the OpenAI
// chat completions API. Tool schemas come from the configured registry and are
// attached to every request.
type Engine struct {
	client   *go_openai.Client
	model    string
	registry tools.ToolRegistry
}

// SupportedModels lists the chat models the agent is allowed to run on.
var SupportedModels = []string{"gpt-4o", "o1-2024-12-17", "gpt-4o-mini"}

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-4o"

// IsSupportedModel reports whether model is in the allow-list.
func IsSupportedModel(model string) bool {
	for _, m := range SupportedModels {
		if m == model {
			return true
		}
	}
	return false
}

// Option configures an Engine.
type Option func(*Engine)

// WithRegistry attaches a tool registry whose schemas are advertised to the model.
func WithRegistry(reg tools.ToolRegistry) Option {
	return func(e *Engine) { e.registry = reg }
}

// WithClient overrides the API client, mostly useful in tests.
func WithClient(client *go_openai.Client) Option {
	return func(e *Engine) { e.client = client }
}

// NewEngine creates an OpenAI inference engine for the given model.
func NewEngine(apiKey string, model string, opts ...Option) (*Engine, error) {
	if !IsSupportedModel(model) {
		return nil, errors.Errorf("unsupported model: %s (supported: %v)", model, SupportedModels)
	}
	e := &Engine{
		client: go_openai.NewClient(apiKey),
		model:  model,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e, nil
}

// RunInference sends the Turn's blocks as a chat completion request and appends
// the response as llm_text or tool_call blocks.
func (e *Engine) RunInference(ctx context.Context, t *turns.Turn) (*turns.Turn, error) {
	if t == nil {
		t = &turns.Turn{}
	}
	log.Debug().Int("num_blocks", len(t.Blocks)).Str("model", e.model).Msg("OpenAI RunInference started")

	req, err := makeCompletionRequestFromTurn(e.model, t)
	if err != nil {
		return nil, err
	}

	if e.registry != nil {
		defs := e.registry.ListTools()
		if len(defs) > 0 {
			openaiTools := make([]go_openai.Tool, 0, len(defs))
			for _, def := range defs {
				openaiTools = append(openaiTools, go_openai.Tool{
					Type: go_openai.ToolTypeFunction,
					Function: &go_openai.FunctionDefinition{
						Name:        def.Name,
						Description: def.Description,
						Parameters:  def.Parameters,
					},
				})
			}
			req.Tools = openaiTools
			log.Debug().Int("tool_count", len(openaiTools)).Msg("tools added to OpenAI request")
		}
	}

	resp, err := e.client.CreateChatCompletion(ctx, *req)
	if err != nil {
		return nil, errors.Wrap(err, "chat completion request failed")
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("chat completion returned no choices")
	}

	updated := t.Clone()
	msg := resp.Choices[0].Message
	if len(msg.ToolCalls) > 0 {
		for _, tc := range msg.ToolCalls {
			turns.AppendBlock(updated, turns.NewToolCallBlock(tc.ID, tc.Function.Name, tc.Function.Arguments))
		}
		log.Debug().Int("tool_calls", len(msg.ToolCalls)).Msg("OpenAI response requested tool calls")
		return updated, nil
	}

	turns.AppendBlock(updated, turns.NewAssistantTextBlock(msg.Content))
	return updated, nil
}
