package models

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatTurn represents a single message in a conversation.
type ChatTurn struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// ChatRequest is the payload sent to the chat endpoint.
type ChatRequest struct {
	Message  string     `json:"message"`
	Language string     `json:"language"`
	History  []ChatTurn `json:"history"`
}

// ChatResponse is the reply from the assistant. Error is set only on failure.
type ChatResponse struct {
	Error    string `json:"error,omitempty"`
	Response string `json:"response"`
}
