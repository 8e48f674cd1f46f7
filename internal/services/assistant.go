package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"kisansathi-backend/internal/logging"
	"kisansathi-backend/internal/models"
)

const (
	historyWindow   = 6
	chatTemperature = 0.7
	chatMaxTokens   = 500
)

// AssistantService holds the farming persona for chat and crop diagnosis.
// A nil generator means no credential was configured.
type AssistantService struct {
	gen Generator
}

func NewAssistantService(gen Generator) *AssistantService {
	return &AssistantService{gen: gen}
}

// Configured reports whether a provider is available.
func (s *AssistantService) Configured() bool {
	return s.gen != nil
}

// Chat answers message given the recent history. Failures come back as
// *UpstreamError.
func (s *AssistantService) Chat(ctx context.Context, message, language string, history []models.ChatTurn) (string, error) {
	if s.gen == nil {
		return "", &UpstreamError{Kind: FailureMissingConfig, Err: ErrMissingCredential}
	}

	reply, err := s.gen.GenerateChat(ctx, ChatPrompt{
		System:          buildChatSystemPrompt(language),
		History:         WindowHistory(history, historyWindow),
		Message:         message,
		Temperature:     chatTemperature,
		MaxOutputTokens: chatMaxTokens,
	})
	if err != nil {
		ue := newUpstreamError(err)
		logging.WithCtx(ctx).Error("chat generation failed",
			zap.String("kind", ue.Kind.String()),
			zap.Error(err),
		)
		return "", ue
	}
	if strings.TrimSpace(reply) == "" {
		logging.WithCtx(ctx).Warn("chat generation returned empty text")
		return "", newUpstreamError(errors.New("Gemini returned empty response"))
	}

	return reply, nil
}

// Diagnose asks the vision model for a structured report. The returned
// result is always fully populated; err is non-nil only when the provider
// call failed, in which case the result is the matching failure report.
func (s *AssistantService) Diagnose(ctx context.Context, image []byte, mimeType string) (models.DiagnosisResult, error) {
	if s.gen == nil {
		return FailedDiagnosis(FailureMissingConfig), &UpstreamError{Kind: FailureMissingConfig, Err: ErrMissingCredential}
	}

	reply, err := s.gen.GenerateFromImage(ctx, diagnosisPrompt, image, mimeType)
	if err != nil {
		ue := newUpstreamError(err)
		logging.WithCtx(ctx).Error("diagnosis generation failed",
			zap.String("kind", ue.Kind.String()),
			zap.Error(err),
		)
		return FailedDiagnosis(ue.Kind), ue
	}

	result, parsed := DiagnosisFromReply(reply)
	if !parsed {
		logging.WithCtx(ctx).Warn("diagnosis reply was not JSON, using generic advice",
			zap.String("reply", truncate(reply, 500)),
		)
	}
	return result, nil
}

// WindowHistory keeps the most recent n turns in order and normalizes roles.
// The input slice is never modified.
func WindowHistory(history []models.ChatTurn, n int) []models.ChatTurn {
	if len(history) > n {
		history = history[len(history)-n:]
	}

	out := make([]models.ChatTurn, len(history))
	for i, t := range history {
		role := models.RoleUser
		if t.Role == models.RoleAssistant {
			role = models.RoleAssistant
		}
		out[i] = models.ChatTurn{Role: role, Content: t.Content}
	}
	return out
}

func buildChatSystemPrompt(language string) string {
	if strings.TrimSpace(language) == "" {
		language = "en"
	}

	var b strings.Builder

	b.WriteString("You are KisanSathi, a professional Indian agricultural expert AI assistant. You provide practical, accurate advice to farmers.\n\n")

	b.WriteString(`Your expertise includes:
- Crop cultivation techniques and best practices for Indian climate zones
- Pest and disease identification and organic/chemical treatment methods
- Weather-based farming decisions and seasonal planning
- Government schemes (PM-KISAN, PMFBY, soil health cards, etc.)
- Market prices, MSP rates, and selling strategies
- Soil health management and fertilizer recommendations
- Water management and irrigation techniques
- Organic farming and sustainable agriculture

Communication style:
- Speak in simple, clear language that farmers can understand
- Be supportive and encouraging
- Provide actionable steps whenever possible
- If asked in Hindi or regional languages, respond in that language
- Keep responses concise (2-3 paragraphs) but comprehensive
`)

	b.WriteString(fmt.Sprintf("\nCurrent language preference: %s", language))

	return b.String()
}

const diagnosisPrompt = `You are an expert agricultural pathologist. Analyze this crop/plant leaf image and provide:
1. Disease name (if any disease is detected, otherwise state "Healthy")
2. Confidence level (0-100)
3. Treatment steps (as an array of 3-5 specific actionable steps)

If the leaf appears healthy, provide preventive care tips instead of treatment.
If you cannot identify a specific disease, suggest general pest/disease management practices.

Format your response as a fenced JSON block:
` + "```json" + `
{
  "disease": "Disease name or 'Healthy'",
  "confidence": 85,
  "treatment": ["Step 1", "Step 2", "Step 3"]
}
` + "```"

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
