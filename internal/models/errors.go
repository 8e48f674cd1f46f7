package models

// ErrorResponse is the flat error body shared by the non-AI endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
