package weatherclient

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/deployment-planner/internal/config"
)

const successBody = `{
  "weather": [{"id": 500, "main": "Rain", "description": "light rain", "icon": "10d"}],
  "main": {"temp": 8.6, "feels_like": 6.1},
  "name": "Ilford"
}`

func setupHTTPMock(t *testing.T) {
	t.Helper()
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)
}

func testConfig() config.WeatherConfig {
	return config.WeatherConfig{
		APIKey:    "key",
		Endpoint:  config.DefaultWeatherURL,
		Latitude:  51.56,
		Longitude: 0.07,
		Units:     "metric",
		CacheTTL:  time.Minute,
	}
}

func TestFetch_FormatsAndCaches(t *testing.T) {
	setupHTTPMock(t)
	httpmock.RegisterResponder("GET", `=~^https://api\.openweathermap\.org/data/2\.5/weather`,
		httpmock.NewStringResponder(http.StatusOK, successBody))

	client := New(testConfig(), zap.NewNop())

	got, err := client.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "light rain, 9°C", got)

	got, err = client.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "light rain, 9°C", got)
	assert.Equal(t, 1, httpmock.GetTotalCallCount(), "second call served from cache")
}

func TestFetch_SendsQuery(t *testing.T) {
	setupHTTPMock(t)
	httpmock.RegisterResponderWithQuery("GET", config.DefaultWeatherURL,
		map[string]string{"lat": "51.56", "lon": "0.07", "appid": "key", "units": "metric"},
		httpmock.NewStringResponder(http.StatusOK, successBody))

	_, err := New(testConfig(), zap.NewNop()).Fetch(context.Background())
	require.NoError(t, err)
}

func TestFetch_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{}`, wantErr: "status 401"},
		{name: "bad json", status: http.StatusOK, body: `{`, wantErr: "failed to decode"},
		{name: "no conditions", status: http.StatusOK, body: `{"weather": []}`, wantErr: "no conditions"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupHTTPMock(t)
			httpmock.RegisterResponder("GET", `=~^https://api\.openweathermap\.org`,
				httpmock.NewStringResponder(tt.status, tt.body))

			_, err := New(testConfig(), zap.NewNop()).Fetch(context.Background())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "clear sky, 72°F", Format("clear sky", 71.5, "imperial"))
	assert.Equal(t, "mist, 283K", Format("mist", 283.15, "standard"))
	assert.Equal(t, "mist, -2°C", Format("mist", -1.6, ""))
}
