package handlers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"kisansathi-backend/internal/models"
	"kisansathi-backend/internal/services"
)

// DiagnoseRateLimitedBody is what the rate limiter returns on the diagnose route.
var DiagnoseRateLimitedBody = models.DiagnoseResponse{
	Error:           "Too many requests",
	DiagnosisResult: services.FailedDiagnosis(services.FailureQuotaExceeded),
}

type diagnosisAssistant interface {
	Diagnose(ctx context.Context, image []byte, mimeType string) (models.DiagnosisResult, error)
}

type DiagnoseHandler struct {
	assistant   diagnosisAssistant
	maxBodySize int64
}

func NewDiagnoseHandler(assistant diagnosisAssistant, maxBodySize int64) *DiagnoseHandler {
	return &DiagnoseHandler{assistant: assistant, maxBodySize: maxBodySize}
}

func (h *DiagnoseHandler) Diagnose(w http.ResponseWriter, r *http.Request) {
	if h.maxBodySize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	}

	var req models.DiagnoseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResp("Image is too large"))
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResp("Invalid request body"))
		return
	}

	if strings.TrimSpace(req.Image) == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("No image provided"))
		return
	}

	image, mimeType, err := decodeImage(req.Image)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("Invalid image encoding"))
		return
	}

	result, err := h.assistant.Diagnose(r.Context(), image, mimeType)
	if err != nil {
		switch services.FailureKindOf(err) {
		case services.FailureMissingConfig:
			writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{
				Error:   "API key not configured",
				Message: "The AI service is not properly configured.",
			})
		case services.FailureQuotaExceeded:
			writeJSON(w, http.StatusTooManyRequests, models.DiagnoseResponse{Error: "Failed to analyze image", DiagnosisResult: result})
		default:
			writeJSON(w, http.StatusInternalServerError, models.DiagnoseResponse{Error: "Failed to analyze image", DiagnosisResult: result})
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// decodeImage accepts raw base64 or a data: URL and returns the bytes with
// the best-known MIME type.
func decodeImage(payload string) ([]byte, string, error) {
	payload = strings.TrimSpace(payload)

	mimeType := ""
	if strings.HasPrefix(payload, "data:") {
		header, data, ok := strings.Cut(payload, ",")
		if !ok {
			return nil, "", errors.New("malformed data URL")
		}
		mimeType = strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")
		payload = data
	}

	image, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		image, err = base64.RawStdEncoding.DecodeString(payload)
		if err != nil {
			return nil, "", err
		}
	}
	if len(image) == 0 {
		return nil, "", errors.New("empty image")
	}

	if !strings.HasPrefix(mimeType, "image/") {
		mimeType = http.DetectContentType(image)
	}
	if !strings.HasPrefix(mimeType, "image/") {
		mimeType = "image/jpeg"
	}
	return image, mimeType, nil
}
