package session

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/compasslabs/compass-agent/pkg/inference/tools"
)

func newEchoRegistry(t *testing.T) tools.ToolRegistry {
	t.Helper()
	reg := tools.NewInMemoryToolRegistry()
	err := reg.RegisterTool("compass_token_price", tools.ToolDefinition{
		Description: "Fetch the current price of a token",
		Function: func(_ context.Context, _ json.RawMessage) (string, error) {
			return `{"type":"balance","content":{"price":"1.00"}}`, nil
		},
	})
	require.NoError(t, err)
	return reg
}
