package turns

// Standard keys used in Block.Payload maps
const (
	PayloadKeyText   = "text"
	PayloadKeyID     = "id"
	PayloadKeyName   = "name"
	PayloadKeyArgs   = "args"
	PayloadKeyResult = "result"
	// PayloadKeyStatus carries the outcome of a tool execution ("success" or "error")
	PayloadKeyStatus = "status"
	// PayloadKeyType carries the declared content type of a successful tool result
	PayloadKeyType = "type"
)

// Tool execution status values stored under PayloadKeyStatus.
const (
	ToolStatusSuccess = "success"
	ToolStatusError   = "error"
)
