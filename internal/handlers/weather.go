package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"kisansathi-backend/internal/logging"
	"kisansathi-backend/internal/models"
	"kisansathi-backend/internal/services"
)

type weatherProvider interface {
	Current(ctx context.Context, lat, lon float64) (*models.Weather, error)
}

type WeatherHandler struct {
	weather weatherProvider
}

func NewWeatherHandler(weather weatherProvider) *WeatherHandler {
	return &WeatherHandler{weather: weather}
}

func (h *WeatherHandler) Current(w http.ResponseWriter, r *http.Request) {
	lat, latErr := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lon, lonErr := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	// negated ranges also reject NaN
	if latErr != nil || lonErr != nil || !(lat >= -90 && lat <= 90) || !(lon >= -180 && lon <= 180) {
		writeJSON(w, http.StatusBadRequest, errorResp("Missing lat/lon parameters"))
		return
	}

	weather, err := h.weather.Current(r.Context(), lat, lon)
	if err != nil {
		if errors.Is(err, services.ErrWeatherNotConfigured) {
			logging.WithCtx(r.Context()).Error("weather API key not configured")
			writeJSON(w, http.StatusInternalServerError, errorResp("Weather API not configured. Please add OPENWEATHER_API_KEY."))
			return
		}
		logging.WithCtx(r.Context()).Error("weather fetch failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResp("Failed to fetch weather data"))
		return
	}

	writeJSON(w, http.StatusOK, weather)
}
