package relay

const (
	// DefaultSessionID correlates turns from callers that never established a
	// session of their own.
	DefaultSessionID = "A0005"

	// ChatType selects the upstream's chat processing mode for both the input
	// and output discriminators.
	ChatType = "chat"
)

// RunRequest is the canonical payload sent to the relay and forwarded to the
// upstream run endpoint. Tweaks is deliberately an open mapping: which keys it
// carries depends on the provider block wired into the upstream execution
// graph, and new provider blocks must pass through unchanged.
type RunRequest struct {
	InputValue string         `json:"input_value"`
	SessionID  string         `json:"session_id"`
	OutputType string         `json:"output_type"`
	InputType  string         `json:"input_type"`
	Tweaks     map[string]any `json:"tweaks"`
}

// Reply is the relay's success contract back to the client. Text is always
// present, possibly the no-text sentinel, never null.
type Reply struct {
	Text string `json:"text"`
}

// DefaultTweaks returns the committed provider configuration applied when a
// request carries none.
func DefaultTweaks() map[string]any {
	return map[string]any{
		"AmazonBedrockModel-2gBD9": map[string]any{
			"aws_access_key_id":        "aws_access_key_id",
			"aws_secret_access_key":    "aws_secret_access_key",
			"aws_session_token":        "aws_session_token",
			"credentials_profile_name": "",
			"endpoint_url":             "",
			"input_value":              "",
			"model_id":                 "us.meta.llama3-2-3b-instruct-v1:0",
			"model_kwargs":             map[string]any{},
			"region_name":              "us-east-2",
			"stream":                   false,
			"system_message":           "",
		},
	}
}

// ContentPart is one typed piece of a chat message. Only "text" parts are
// consumed by the relay.
type ContentPart struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// ChatTurn is one message in the UI's history, read-only to the adapter.
type ChatTurn struct {
	Role    string        `json:"role"`
	Content []ContentPart `json:"content"`
}

// Chunk is one streamed content item delivered back to the UI.
type Chunk struct {
	Content []ContentPart `json:"content"`
}
