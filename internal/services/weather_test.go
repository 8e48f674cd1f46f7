package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kisansathi-backend/internal/models"
)

type memoryWeatherCache struct {
	mu    sync.Mutex
	items map[string]*models.Weather
}

func (c *memoryWeatherCache) Get(ctx context.Context, key string) (*models.Weather, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	w, ok := c.items[key]
	return w, ok
}

func (c *memoryWeatherCache) Set(ctx context.Context, key string, w *models.Weather) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = w
}

func TestWeatherCurrent_Translates(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/data/2.5/weather", r.URL.Path)
		q := r.URL.Query()
		gotQuery = map[string]string{
			"lat": q.Get("lat"), "lon": q.Get("lon"), "units": q.Get("units"), "appid": q.Get("appid"),
		}
		w.Write([]byte(`{"name":"Thanjavur","main":{"temp":31.6,"humidity":70},"weather":[{"description":"scattered clouds"}],"wind":{"speed":3.4}}`))
	}))
	defer srv.Close()

	svc := NewWeatherService("test-key", srv.URL, nil)
	w, err := svc.Current(context.Background(), 10.78, 79.13)

	require.NoError(t, err)
	assert.Equal(t, "Thanjavur", w.Location)
	assert.Equal(t, "Thanjavur", w.Name)
	assert.Equal(t, 32, w.Temp)
	assert.Equal(t, "scattered clouds", w.Condition)
	require.NotNil(t, w.Humidity)
	assert.Equal(t, 70, *w.Humidity)
	require.NotNil(t, w.WindSpeed)
	assert.InDelta(t, 3.4, *w.WindSpeed, 0.001)

	assert.Equal(t, "10.78", gotQuery["lat"])
	assert.Equal(t, "79.13", gotQuery["lon"])
	assert.Equal(t, "metric", gotQuery["units"])
	assert.Equal(t, "test-key", gotQuery["appid"])
}

func TestWeatherCurrent_Defaults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	w, err := NewWeatherService("k", srv.URL, nil).Current(context.Background(), 1, 2)

	require.NoError(t, err)
	assert.Equal(t, "Your Location", w.Location)
	assert.Equal(t, 28, w.Temp)
	assert.Equal(t, "Clear", w.Condition)
	assert.Nil(t, w.Humidity)
	assert.Nil(t, w.WindSpeed)
}

func TestWeatherCurrent_FreezingTempKept(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"main":{"temp":0}}`))
	}))
	defer srv.Close()

	w, err := NewWeatherService("k", srv.URL, nil).Current(context.Background(), 30.9, 75.8)

	require.NoError(t, err)
	assert.Equal(t, 0, w.Temp)
}

func TestWeatherCurrent_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"cod":401,"message":"Invalid API key"}`))
	}))
	defer srv.Close()

	_, err := NewWeatherService("bad", srv.URL, nil).Current(context.Background(), 1, 2)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestWeatherCurrent_NotConfigured(t *testing.T) {
	_, err := NewWeatherService("", "http://unused", nil).Current(context.Background(), 1, 2)
	assert.ErrorIs(t, err, ErrWeatherNotConfigured)
}

func TestWeatherCurrent_UsesCache(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte(`{"name":"Trichy","main":{"temp":30}}`))
	}))
	defer srv.Close()

	cache := &memoryWeatherCache{items: map[string]*models.Weather{}}
	svc := NewWeatherService("k", srv.URL, cache)

	first, err := svc.Current(context.Background(), 10.801, 78.689)
	require.NoError(t, err)
	second, err := svc.Current(context.Background(), 10.799, 78.691)
	require.NoError(t, err)

	assert.Equal(t, 1, hits)
	assert.Equal(t, first, second)
	assert.Contains(t, cache.items, "weather:10.80:78.69")
}
