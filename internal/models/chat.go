package models

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Message is one entry of a transcript.
type Message struct {
	Role       string     `json:"role"` // "system" | "user" | "assistant" | "tool"
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	Name       string     `json:"name,omitempty"` // tool name on "tool" messages
}

// ToolCall is an operation request emitted by the reasoner. Arguments is a JSON object string.
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ToolSpec declares an operation the reasoner may request.
type ToolSpec struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// ChatTurn is a user/assistant exchange as supplied by simple chat front-ends.
type ChatTurn struct {
	User      string `json:"user"`
	Assistant string `json:"assistant"`
}

// ChatRequest is the payload sent to the plain chat endpoint.
type ChatRequest struct {
	Message string     `json:"message"`
	History []ChatTurn `json:"history"`
}

// ChatResponse is the reply from the receptionist.
type ChatResponse struct {
	Reply string `json:"reply"`
}

type ConverseRequest struct {
	Messages []Message `json:"messages"`
}

type Audio struct {
	MIMEType string `json:"mime_type"`
	Data     []byte `json:"data"` // base64 in JSON
}

type EncodedImage struct {
	MIMEType string `json:"mime_type"`
	Data     []byte `json:"data"`
}

type ConverseResponse struct {
	Messages []Message     `json:"messages"`
	Audio    *Audio        `json:"audio"`
	Image    *EncodedImage `json:"image"`
}
