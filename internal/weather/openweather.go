package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// DefaultBaseURL is the OpenWeatherMap current-weather endpoint.
const DefaultBaseURL = "https://api.openweathermap.org/data/2.5/weather"

// OpenWeatherClient calls the OpenWeatherMap current-weather API.
type OpenWeatherClient struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

// NewOpenWeatherClient builds a client whose transport emits OpenTelemetry
// client spans. A zero timeout means 5s.
func NewOpenWeatherClient(apiKey, baseURL string, timeout time.Duration) *OpenWeatherClient {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &OpenWeatherClient{
		BaseURL: baseURL,
		APIKey:  apiKey,
		HTTP: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// owmResponse is the part of the OpenWeatherMap payload we read.
type owmResponse struct {
	Main *struct {
		Temp     float64 `json:"temp"`
		Humidity float64 `json:"humidity"`
	} `json:"main"`
	Rain struct {
		OneHour float64 `json:"1h"`
	} `json:"rain"`
}

// Current implements Provider.
func (c *OpenWeatherClient) Current(ctx context.Context, lat, lon float64) (Reading, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("appid", c.APIKey)
	q.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return Reading{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return Reading{}, fmt.Errorf("openweathermap request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Reading{}, fmt.Errorf("openweathermap status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload owmResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&payload); err != nil {
		return Reading{}, fmt.Errorf("decode openweathermap: %w", err)
	}
	if payload.Main == nil {
		return Reading{}, fmt.Errorf("openweathermap: missing main block")
	}
	return Reading{
		Temperature: payload.Main.Temp,
		Humidity:    payload.Main.Humidity,
		Rainfall:    payload.Rain.OneHour,
		Source:      SourceLive,
	}, nil
}
