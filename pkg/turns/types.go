package turns

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// BlockKind represents the kind of a block within a Turn.
type BlockKind int

const (
	BlockKindSystem BlockKind = iota
	BlockKindUser
	BlockKindLLMText
	BlockKindToolCall
	BlockKindToolUse
	BlockKindOther
)

// String returns a human-readable identifier for the BlockKind.
func (k BlockKind) String() string {
	switch k {
	case BlockKindSystem:
		return "system"
	case BlockKindUser:
		return "user"
	case BlockKindLLMText:
		return "llm_text"
	case BlockKindToolCall:
		return "tool_call"
	case BlockKindToolUse:
		return "tool_use"
	default:
		return "other"
	}
}

// MarshalYAML serializes BlockKind using stable string names.
func (k BlockKind) MarshalYAML() (interface{}, error) {
	return k.String(), nil
}

func (k *BlockKind) UnmarshalYAML(value *yaml.Node) error {
	if value == nil {
		*k = BlockKindOther
		return nil
	}
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "system":
		*k = BlockKindSystem
	case "user":
		*k = BlockKindUser
	case "llm_text":
		*k = BlockKindLLMText
	case "tool_call":
		*k = BlockKindToolCall
	case "tool_use":
		*k = BlockKindToolUse
	default:
		*k = BlockKindOther
	}
	return nil
}

// Block represents a single atomic unit within a Turn.
type Block struct {
	ID      string         `yaml:"id,omitempty"`
	Kind    BlockKind      `yaml:"kind"`
	Role    string         `yaml:"role,omitempty"`
	Payload map[string]any `yaml:"payload,omitempty"`
}

// Turn contains an ordered list of Blocks and associated metadata.
type Turn struct {
	ID     string  `yaml:"id,omitempty"`
	Blocks []Block `yaml:"blocks"`
}

// Clone returns a deep copy of the Turn suitable for mutation without affecting the original.
func (t *Turn) Clone() *Turn {
	if t == nil {
		return nil
	}
	out := &Turn{ID: t.ID}
	if len(t.Blocks) == 0 {
		return out
	}
	out.Blocks = make([]Block, len(t.Blocks))
	for i := range t.Blocks {
		b := t.Blocks[i]
		if b.Payload != nil {
			cp := make(map[string]any, len(b.Payload))
			for k, v := range b.Payload {
				cp[k] = v
			}
			b.Payload = cp
		}
		out.Blocks[i] = b
	}
	return out
}

// AppendBlock appends a Block to a Turn.
func AppendBlock(t *Turn, b Block) {
	t.Blocks = append(t.Blocks, b)
}

// AppendBlocks appends multiple Blocks preserving their order.
func AppendBlocks(t *Turn, blocks ...Block) {
	for _, b := range blocks {
		AppendBlock(t, b)
	}
}

// PrependBlock inserts a block at the beginning of the Turn's block slice.
func PrependBlock(t *Turn, b Block) {
	if t == nil {
		return
	}
	t.Blocks = append([]Block{b}, t.Blocks...)
}

// LastBlock returns the final block of the Turn, or false if the Turn is empty.
func LastBlock(t *Turn) (Block, bool) {
	if t == nil || len(t.Blocks) == 0 {
		return Block{}, false
	}
	return t.Blocks[len(t.Blocks)-1], true
}

// FindBlocksByKind returns blocks of the requested kinds in Turn order.
func FindBlocksByKind(t *Turn, kinds ...BlockKind) []Block {
	if t == nil {
		return nil
	}
	lookup := map[BlockKind]bool{}
	for _, k := range kinds {
		lookup[k] = true
	}
	ret := make([]Block, 0, len(t.Blocks))
	for _, b := range t.Blocks {
		if lookup[b.Kind] {
			ret = append(ret, b)
		}
	}
	return ret
}
