package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"kisansathi-backend/internal/models"
	"kisansathi-backend/internal/services"
)

const (
	chatConfigMessage    = "The AI service is not properly configured. Please ensure GOOGLE_API_KEY is set."
	chatQuotaMessage     = "I'm sorry, but my daily limit has been reached. I'll be back soon! Please try again in a few hours."
	chatTransientMessage = "I apologize, but I'm having trouble right now. Please try again in a moment."
	chatInvalidMessage   = "I didn't catch that. Please type or say your question again."
)

// maxChatBodySize bounds a chat request including its history.
const maxChatBodySize = 64 << 10

// ChatRateLimitedBody is what the rate limiter returns on the chat route.
var ChatRateLimitedBody = models.ChatResponse{
	Error:    "Too many requests",
	Response: "You're asking faster than I can answer. Please wait a minute and try again.",
}

type chatAssistant interface {
	Chat(ctx context.Context, message, language string, history []models.ChatTurn) (string, error)
}

type ChatHandler struct {
	assistant chatAssistant
}

func NewChatHandler(assistant chatAssistant) *ChatHandler {
	return &ChatHandler{assistant: assistant}
}

func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxChatBodySize)

	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, models.ChatResponse{Error: "Message is too long", Response: chatInvalidMessage})
			return
		}
		writeJSON(w, http.StatusBadRequest, models.ChatResponse{Error: "Invalid request body", Response: chatInvalidMessage})
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, models.ChatResponse{Error: "Message is required", Response: chatInvalidMessage})
		return
	}

	reply, err := h.assistant.Chat(r.Context(), req.Message, req.Language, req.History)
	if err != nil {
		status, body := chatFailure(services.FailureKindOf(err))
		writeJSON(w, status, body)
		return
	}

	writeJSON(w, http.StatusOK, models.ChatResponse{Response: reply})
}

func chatFailure(kind services.FailureKind) (int, models.ChatResponse) {
	switch kind {
	case services.FailureMissingConfig:
		return http.StatusInternalServerError, models.ChatResponse{Error: "API key not configured", Response: chatConfigMessage}
	case services.FailureQuotaExceeded:
		return http.StatusTooManyRequests, models.ChatResponse{Error: "API quota exceeded", Response: chatQuotaMessage}
	default:
		return http.StatusInternalServerError, models.ChatResponse{Error: "Failed to generate response", Response: chatTransientMessage}
	}
}
