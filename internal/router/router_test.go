package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kisansathi-backend/internal/handlers"
	"kisansathi-backend/internal/middleware"
	"kisansathi-backend/internal/services"
)

type echoGenerator struct{}

func (echoGenerator) GenerateChat(ctx context.Context, p services.ChatPrompt) (string, error) {
	return "You asked: " + p.Message, nil
}

func (echoGenerator) GenerateFromImage(ctx context.Context, instruction string, image []byte, mimeType string) (string, error) {
	return `{"disease":"Healthy","confidence":96,"treatment":["Keep watering"]}`, nil
}

func newTestServer(t *testing.T, gen services.Generator, chatLimit int) http.Handler {
	t.Helper()

	assistant := services.NewAssistantService(gen)
	chatLimiter := middleware.NewRateLimiter(chatLimit, time.Minute, handlers.ChatRateLimitedBody)
	diagnoseLimiter := middleware.NewRateLimiter(10, time.Minute, handlers.DiagnoseRateLimitedBody)
	t.Cleanup(chatLimiter.Stop)
	t.Cleanup(diagnoseLimiter.Stop)

	return New(
		handlers.NewChatHandler(assistant),
		handlers.NewDiagnoseHandler(assistant, 1<<20),
		handlers.NewWeatherHandler(services.NewWeatherService("", "http://unused", nil)),
		handlers.NewMarketHandler(services.NewMarketService()),
		handlers.NewSchemeHandler(services.NewSchemeService()),
		chatLimiter,
		diagnoseLimiter,
		"http://localhost:3000",
	)
}

func TestRouter_ChatEndToEnd(t *testing.T) {
	srv := newTestServer(t, echoGenerator{}, 10)

	req := httptest.NewRequest(http.MethodPost, "/api/chat",
		strings.NewReader(`{"message":"When should I sow paddy?","language":"en","history":[]}`))
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var body map[string]string
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.Equal(t, "You asked: When should I sow paddy?", body["response"])
	assert.NotEmpty(t, rr.Header().Get(middleware.RequestIDHeader))
}

func TestRouter_DiagnoseEndToEnd(t *testing.T) {
	srv := newTestServer(t, echoGenerator{}, 10)

	req := httptest.NewRequest(http.MethodPost, "/api/diagnose", strings.NewReader(`{"image":"/9j/4AAQSkZJRg=="}`))
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var body map[string]any
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.Equal(t, "Healthy", body["disease"])
	assert.Equal(t, float64(96), body["confidence"])
}

func TestRouter_ChatRateLimited(t *testing.T) {
	srv := newTestServer(t, echoGenerator{}, 1)

	var last *httptest.ResponseRecorder
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message":"hi"}`))
		req.RemoteAddr = "192.0.2.7:5555"
		last = httptest.NewRecorder()
		srv.ServeHTTP(last, req)
	}

	assert.Equal(t, http.StatusTooManyRequests, last.Code)
	var body map[string]string
	require.NoError(t, json.NewDecoder(last.Body).Decode(&body))
	assert.NotEmpty(t, body["error"])
	assert.NotEmpty(t, body["response"])
}

func TestRouter_StaticRoutes(t *testing.T) {
	srv := newTestServer(t, nil, 10)

	tests := []struct {
		path   string
		status int
	}{
		{"/health", http.StatusOK},
		{"/api/market", http.StatusOK},
		{"/api/schemes?search=kisan", http.StatusOK},
		{"/api/weather", http.StatusBadRequest},
		{"/api/weather?lat=10&lon=79", http.StatusInternalServerError},
		{"/api/unknown", http.StatusNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			rr := httptest.NewRecorder()
			srv.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tc.path, nil))
			assert.Equal(t, tc.status, rr.Code)
		})
	}
}

func TestRouter_ChatWithoutCredential(t *testing.T) {
	srv := newTestServer(t, nil, 10)

	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message":"hi"}`)))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	var body map[string]string
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.Equal(t, "API key not configured", body["error"])
}
