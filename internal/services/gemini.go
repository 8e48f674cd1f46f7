package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"kisansathi-backend/internal/logging"
	"kisansathi-backend/internal/models"
)

// ChatPrompt is one conversational request to the text model.
type ChatPrompt struct {
	System          string
	History         []models.ChatTurn
	Message         string
	Temperature     float32
	MaxOutputTokens int32
}

// Generator abstracts the text/vision provider.
type Generator interface {
	GenerateChat(ctx context.Context, p ChatPrompt) (string, error)
	GenerateFromImage(ctx context.Context, instruction string, image []byte, mimeType string) (string, error)
}

// RetryPolicy bounds how long and how often a transient failure is retried.
// Quota and configuration failures are never retried.
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration
	Timeout    time.Duration // per attempt, 0 means none
}

type GeminiService struct {
	client    *genai.Client
	modelName string
	retry     RetryPolicy
}

func NewGeminiService(apiKey, modelName string, retry RetryPolicy) (*GeminiService, error) {
	if apiKey == "" {
		return nil, ErrMissingCredential
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiService{
		client:    client,
		modelName: modelName,
		retry:     retry,
	}, nil
}

func (s *GeminiService) Close() {
	s.client.Close()
}

// GenerateChat sends the windowed history plus the new message. The model
// value is built per call since the system instruction varies by language.
func (s *GeminiService) GenerateChat(ctx context.Context, p ChatPrompt) (string, error) {
	model := s.client.GenerativeModel(s.modelName)
	model.SetTemperature(p.Temperature)
	model.SetMaxOutputTokens(p.MaxOutputTokens)
	if p.System != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(p.System)}}
	}

	return withRetry(ctx, s.retry, func(ctx context.Context) (string, error) {
		cs := model.StartChat()
		cs.History = toGeminiHistory(p.History)

		resp, err := cs.SendMessage(ctx, genai.Text(p.Message))
		if err != nil {
			return "", fmt.Errorf("Gemini API error: %w", err)
		}
		logFinishReasons(ctx, resp)
		return extractText(resp), nil
	})
}

func (s *GeminiService) GenerateFromImage(ctx context.Context, instruction string, image []byte, mimeType string) (string, error) {
	if len(image) == 0 {
		return "", fmt.Errorf("image payload is empty")
	}

	model := s.client.GenerativeModel(s.modelName)

	return withRetry(ctx, s.retry, func(ctx context.Context) (string, error) {
		resp, err := model.GenerateContent(ctx,
			genai.Text(instruction),
			genai.Blob{MIMEType: mimeType, Data: image},
		)
		if err != nil {
			return "", fmt.Errorf("Gemini vision error: %w", err)
		}
		logFinishReasons(ctx, resp)
		return extractText(resp), nil
	})
}

// withRetry runs call, retrying transient failures with exponential backoff.
func withRetry(ctx context.Context, p RetryPolicy, call func(context.Context) (string, error)) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= p.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := p.BaseDelay * time.Duration(1<<uint(attempt-1))
			logging.WithCtx(ctx).Warn("retrying Gemini call",
				zap.Int("attempt", attempt),
				zap.Duration("backoff", backoff),
				zap.Error(lastErr),
			)
			select {
			case <-ctx.Done():
				return "", lastErr
			case <-time.After(backoff):
			}
		}

		text, err := callWithTimeout(ctx, p.Timeout, call)
		if err == nil {
			return text, nil
		}
		lastErr = err

		if ClassifyFailure(err) != FailureTransient || ctx.Err() != nil {
			break
		}
	}
	return "", lastErr
}

func callWithTimeout(ctx context.Context, timeout time.Duration, call func(context.Context) (string, error)) (string, error) {
	if timeout <= 0 {
		return call(ctx)
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return call(ctx)
}

func toGeminiHistory(turns []models.ChatTurn) []*genai.Content {
	history := make([]*genai.Content, 0, len(turns))
	for _, t := range turns {
		role := "user"
		if t.Role == models.RoleAssistant {
			role = "model"
		}
		history = append(history, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(t.Content)},
		})
	}
	return history
}

func logFinishReasons(ctx context.Context, resp *genai.GenerateContentResponse) {
	for i, cand := range resp.Candidates {
		if cand.FinishReason != genai.FinishReasonStop {
			logging.WithCtx(ctx).Warn("Gemini stopped early",
				zap.Int("candidate", i),
				zap.String("finish_reason", cand.FinishReason.String()),
			)
		}
	}
}

func extractText(resp *genai.GenerateContentResponse) string {
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}
