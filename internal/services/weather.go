package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"kisansathi-backend/internal/logging"
	"kisansathi-backend/internal/models"
)

const (
	defaultTemp      = 28
	defaultCondition = "Clear"
	defaultLocation  = "Your Location"
	weatherTimeout   = 10 * time.Second
)

// WeatherCache stores translated readings by coordinate key.
type WeatherCache interface {
	Get(ctx context.Context, key string) (*models.Weather, bool)
	Set(ctx context.Context, key string, w *models.Weather)
}

type WeatherService struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	cache      WeatherCache
}

// NewWeatherService builds an OpenWeather client. cache may be nil.
func NewWeatherService(apiKey, baseURL string, cache WeatherCache) *WeatherService {
	return &WeatherService{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: weatherTimeout},
		cache:      cache,
	}
}

func (s *WeatherService) Configured() bool {
	return s.apiKey != ""
}

// openWeatherResponse is the subset of the current-weather payload we read.
type openWeatherResponse struct {
	Name string `json:"name"`
	Main *struct {
		Temp     *float64 `json:"temp"`
		Humidity *int     `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Wind *struct {
		Speed *float64 `json:"speed"`
	} `json:"wind"`
}

func (s *WeatherService) Current(ctx context.Context, lat, lon float64) (*models.Weather, error) {
	if !s.Configured() {
		return nil, ErrWeatherNotConfigured
	}

	key := weatherCacheKey(lat, lon)
	if s.cache != nil {
		if w, ok := s.cache.Get(ctx, key); ok {
			return w, nil
		}
	}

	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("units", "metric")
	q.Set("appid", s.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/data/2.5/weather?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build weather request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("OpenWeather API returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var data openWeatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode weather response: %w", err)
	}

	w := translateWeather(data)
	logging.WithCtx(ctx).Debug("weather data received",
		zap.String("location", w.Location),
		zap.Int("temp", w.Temp),
	)

	if s.cache != nil {
		s.cache.Set(ctx, key, w)
	}
	return w, nil
}

func translateWeather(data openWeatherResponse) *models.Weather {
	w := &models.Weather{
		Location:  defaultLocation,
		Name:      data.Name,
		Temp:      defaultTemp,
		Condition: defaultCondition,
	}
	if data.Name != "" {
		w.Location = data.Name
	}
	if data.Main != nil {
		if data.Main.Temp != nil {
			w.Temp = int(math.Round(*data.Main.Temp))
		}
		w.Humidity = data.Main.Humidity
	}
	if len(data.Weather) > 0 && data.Weather[0].Description != "" {
		w.Condition = data.Weather[0].Description
	}
	if data.Wind != nil {
		w.WindSpeed = data.Wind.Speed
	}
	return w
}

// weatherCacheKey rounds to ~1km so nearby requests share an entry.
func weatherCacheKey(lat, lon float64) string {
	return fmt.Sprintf("weather:%.2f:%.2f", lat, lon)
}

// RedisWeatherCache keeps readings in Redis for a fixed TTL. Errors are
// logged and treated as misses.
type RedisWeatherCache struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewRedisWeatherCache(client *redis.Client, ttl time.Duration) *RedisWeatherCache {
	return &RedisWeatherCache{redis: client, ttl: ttl}
}

func (c *RedisWeatherCache) Get(ctx context.Context, key string) (*models.Weather, bool) {
	raw, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logging.WithCtx(ctx).Warn("weather cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	var w models.Weather
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, false
	}
	return &w, true
}

func (c *RedisWeatherCache) Set(ctx context.Context, key string, w *models.Weather) {
	data, _ := json.Marshal(w)
	if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
		logging.WithCtx(ctx).Warn("weather cache write failed", zap.String("key", key), zap.Error(err))
	}
}
