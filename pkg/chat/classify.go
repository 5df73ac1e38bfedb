package chat

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/compasslabs/compass-agent/pkg/answers"
	"github.com/compasslabs/compass-agent/pkg/turns"
)

// ErrUnknownToolStatus marks a tool result whose status is neither "success"
// nor "error". It is fatal to the current request and is only caught at the
// Reporter boundary.
var ErrUnknownToolStatus = errors.New("unknown tool status")

// Classify inspects the final block of an agent turn and decides which answer
// kind applies. Pure function: it never touches the network and calling it
// twice on the same block yields the same kind.
func Classify(last turns.Block) (answers.Kind, error) {
	if last.Kind != turns.BlockKindToolUse {
		return answers.KindText, nil
	}

	status, _ := last.Payload[turns.PayloadKeyStatus].(string)
	switch status {
	case turns.ToolStatusError:
		return answers.KindError, nil
	case turns.ToolStatusSuccess:
		if typeTag(last) == "image" {
			return answers.KindImage, nil
		}
		return answers.KindUnsignedTransaction, nil
	default:
		return "", errors.Wrapf(ErrUnknownToolStatus, "status %q", status)
	}
}

// typeTag returns the declared content type of a successful tool result: the
// explicit payload tag when the adapter set one, otherwise the "type" field of
// the result's JSON body.
func typeTag(b turns.Block) string {
	if s, ok := b.Payload[turns.PayloadKeyType].(string); ok {
		return s
	}
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal([]byte(turns.ToolResultText(b)), &probe); err != nil {
		return ""
	}
	return probe.Type
}
