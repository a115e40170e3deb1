// Package weatherclient looks up current conditions from OpenWeather for a
// shift's weather note.
package weatherclient

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/jakechorley/deployment-planner/internal/config"
)

const (
	RequestTimeout = 10 * time.Second
	UserAgent      = "deployment-planner"

	currentKey = "current"
)

// response is the part of the OpenWeather current weather payload we read
type response struct {
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
	Name string `json:"name"`
}

// Client fetches current weather. Results are cached for the configured TTL.
type Client struct {
	cfg    config.WeatherConfig
	http   *http.Client
	cache  *cache.Cache
	logger *zap.Logger
}

// New creates a client for cfg
func New(cfg config.WeatherConfig, logger *zap.Logger) *Client {
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = config.DefaultWeatherTTL
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: RequestTimeout},
		cache:  cache.New(ttl, ttl*2),
		logger: logger,
	}
}

// Fetch returns the current conditions as "<description>, <temp><unit>",
// e.g. "light rain, 9°C". Failures are returned, not retried.
func (c *Client) Fetch(ctx context.Context) (string, error) {
	if cached, ok := c.cache.Get(currentKey); ok {
		c.logger.Debug("Weather cache hit")
		return cached.(string), nil
	}

	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(c.cfg.Latitude, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(c.cfg.Longitude, 'f', -1, 64))
	q.Set("appid", c.cfg.APIKey)
	q.Set("units", c.cfg.Units)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.Endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create weather request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch weather: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("weather request failed with status %d", resp.StatusCode)
	}

	var data response
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", fmt.Errorf("failed to decode weather response: %w", err)
	}
	if len(data.Weather) == 0 {
		return "", fmt.Errorf("weather response has no conditions")
	}

	summary := Format(data.Weather[0].Description, data.Main.Temp, c.cfg.Units)
	c.cache.SetDefault(currentKey, summary)
	c.logger.Debug("Fetched weather", zap.String("location", data.Name), zap.String("summary", summary))
	return summary, nil
}

// Format renders a description and temperature, rounding to whole degrees
func Format(description string, temp float64, units string) string {
	return fmt.Sprintf("%s, %d%s", description, int(math.Round(temp)), unitSymbol(units))
}

func unitSymbol(units string) string {
	switch units {
	case "imperial":
		return "°F"
	case "standard":
		return "K"
	default:
		return "°C"
	}
}
