package turns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestBlockKind_YAMLRoundtrip(t *testing.T) {
	kinds := []BlockKind{BlockKindSystem, BlockKindUser, BlockKindLLMText, BlockKindToolCall, BlockKindToolUse}
	for _, k := range kinds {
		out, err := yaml.Marshal(k)
		require.NoError(t, err)

		var back BlockKind
		require.NoError(t, yaml.Unmarshal(out, &back))
		assert.Equal(t, k, back, "kind %s", k)
	}

	var unknown BlockKind
	require.NoError(t, yaml.Unmarshal([]byte("weird"), &unknown))
	assert.Equal(t, BlockKindOther, unknown)
}

func TestTurn_CloneIsIndependent(t *testing.T) {
	orig := &Turn{ID: "t1"}
	AppendBlock(orig, NewUserTextBlock("hello"))

	clone := orig.Clone()
	clone.Blocks[0].Payload[PayloadKeyText] = "mutated"
	AppendBlock(clone, NewAssistantTextBlock("reply"))

	assert.Equal(t, "hello", BlockText(orig.Blocks[0]))
	assert.Len(t, orig.Blocks, 1)
	assert.Len(t, clone.Blocks, 2)
}

func TestLastBlockAndFind(t *testing.T) {
	_, ok := LastBlock(&Turn{})
	assert.False(t, ok)

	tt := &Turn{}
	AppendBlocks(tt,
		NewUserTextBlock("q"),
		NewToolCallBlock("call-1", "echo", nil),
		NewToolUseBlock("call-1", "echo", "{}"),
		NewAssistantTextBlock("a"),
	)

	last, ok := LastBlock(tt)
	require.True(t, ok)
	assert.Equal(t, BlockKindLLMText, last.Kind)

	uses := FindBlocksByKind(tt, BlockKindToolUse)
	require.Len(t, uses, 1)
	assert.Equal(t, ToolStatusSuccess, uses[0].Payload[PayloadKeyStatus])
}

func TestToolBlockConstructors(t *testing.T) {
	use := NewToolUseBlock("call-1", "echo", `{"ok":true}`)
	assert.Equal(t, ToolStatusSuccess, use.Payload[PayloadKeyStatus])
	assert.Equal(t, "call-1", use.Payload[PayloadKeyID])
	assert.Equal(t, `{"ok":true}`, ToolResultText(use))

	fail := NewToolErrorBlock("call-2", "echo", "boom")
	assert.Equal(t, ToolStatusError, fail.Payload[PayloadKeyStatus])
	assert.Equal(t, "boom", ToolResultText(fail))
}
