package chat

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/compasslabs/compass-agent/pkg/answers"
	"github.com/compasslabs/compass-agent/pkg/turns"
)

func TestClassify_NonToolBlocksAreText(t *testing.T) {
	blocks := []turns.Block{
		turns.NewAssistantTextBlock("You have 5 USDC."),
		turns.NewUserTextBlock("hello"),
		turns.NewSystemTextBlock("system"),
		turns.NewToolCallBlock("call-1", "compass_token_price", map[string]any{}),
	}
	for _, b := range blocks {
		kind, err := Classify(b)
		require.NoError(t, err)
		assert.Equal(t, answers.KindText, kind, "kind %s should classify as text", b.Kind)
	}
}

func TestClassify_ToolErrorIsError(t *testing.T) {
	b := turns.NewToolErrorBlock("call-1", "compass_aave_supply", "insufficient funds")
	kind, err := Classify(b)
	require.NoError(t, err)
	assert.Equal(t, answers.KindError, kind)
}

func TestClassify_SuccessByDeclaredType(t *testing.T) {
	tests := []struct {
		name   string
		result string
		want   answers.Kind
	}{
		{
			name:   "image payload",
			result: `{"type":"image","image":"data:image/png;base64,AAAA"}`,
			want:   answers.KindImage,
		},
		{
			name:   "transaction payload",
			result: `{"type":"transaction","content":{"to":"0xabc","value":"1000"}}`,
			want:   answers.KindUnsignedTransaction,
		},
		{
			name:   "unrecognized type falls back to transaction",
			result: `{"type":"balance","content":{"amount":"5"}}`,
			want:   answers.KindUnsignedTransaction,
		},
		{
			name:   "missing type falls back to transaction",
			result: `{"content":{}}`,
			want:   answers.KindUnsignedTransaction,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := turns.NewToolUseBlock("call-1", "some_tool", tt.result)
			kind, err := Classify(b)
			require.NoError(t, err)
			assert.Equal(t, tt.want, kind)
		})
	}
}

func TestClassify_ExplicitTypeTagWins(t *testing.T) {
	b := turns.NewToolUseBlock("call-1", "compass_visualize_portfolio", `{"content":"..."}`)
	b.Payload[turns.PayloadKeyType] = "image"
	kind, err := Classify(b)
	require.NoError(t, err)
	assert.Equal(t, answers.KindImage, kind)
}

func TestClassify_UnknownStatusFails(t *testing.T) {
	b := turns.NewToolUseBlock("call-1", "some_tool", "{}")
	b.Payload[turns.PayloadKeyStatus] = "pending"

	_, err := Classify(b)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownToolStatus))
}

func TestClassify_IsIdempotent(t *testing.T) {
	b := turns.NewToolUseBlock("call-1", "some_tool", `{"type":"image","image":"x"}`)
	first, err := Classify(b)
	require.NoError(t, err)
	second, err := Classify(b)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
