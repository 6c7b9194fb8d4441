// Package weather implements the weather provider client against the
// OpenWeatherMap current-conditions API.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"unicode"

	"morning-brief/internal/domain/entity"
	"morning-brief/internal/resilience/circuitbreaker"
)

const defaultBaseURL = "https://api.openweathermap.org/data/2.5/weather"

// Config holds the provider query target and credentials.
type Config struct {
	City        string
	CountryCode string
	APIKey      string

	// BaseURL overrides the provider endpoint, used in tests.
	BaseURL string
}

// Client fetches current weather readings. Any non-success provider
// response is an error; callers treat it as an absent reading.
type Client struct {
	config         Config
	httpClient     *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewClient creates a weather client with the given configuration.
func NewClient(config Config, httpClient *http.Client) *Client {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	return &Client{
		config:         config,
		httpClient:     httpClient,
		circuitBreaker: circuitbreaker.New(circuitbreaker.WeatherAPIConfig()),
	}
}

// apiResponse mirrors the subset of the provider payload the digest needs.
type apiResponse struct {
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

// Fetch retrieves the current reading for the configured location in
// metric units.
func (c *Client) Fetch(ctx context.Context) (*entity.WeatherInfo, error) {
	cbResult, err := c.circuitBreaker.Execute(func() (interface{}, error) {
		return c.doFetch(ctx)
	})
	if err != nil {
		return nil, err
	}
	return cbResult.(*entity.WeatherInfo), nil
}

// Ping issues the cheapest real provider round-trip: the same current
// conditions request with the body discarded. Used by the health probe.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.httpClient.Do(c.request(ctx))
	if err != nil {
		return fmt.Errorf("weather ping: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("weather ping: provider returned status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) request(ctx context.Context) *http.Request {
	params := url.Values{}
	params.Set("q", fmt.Sprintf("%s,%s", c.config.City, c.config.CountryCode))
	params.Set("appid", c.config.APIKey)
	params.Set("units", "metric")

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"?"+params.Encode(), nil)
	return req
}

func (c *Client) doFetch(ctx context.Context) (*entity.WeatherInfo, error) {
	resp, err := c.httpClient.Do(c.request(ctx))
	if err != nil {
		return nil, fmt.Errorf("fetch weather: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read weather response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather provider returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload apiResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode weather response: %w", err)
	}

	description := ""
	if len(payload.Weather) > 0 {
		description = titleCase(payload.Weather[0].Description)
	}

	info := &entity.WeatherInfo{
		Temperature: payload.Main.Temp,
		Description: description,
		Humidity:    payload.Main.Humidity,
		WindSpeed:   payload.Wind.Speed,
		FeelsLike:   payload.Main.FeelsLike,
	}

	slog.Debug("weather reading retrieved",
		slog.String("city", c.config.City),
		slog.Float64("temperature", info.Temperature),
		slog.String("description", info.Description))

	return info, nil
}

// titleCase uppercases the first letter of each word, matching the
// provider's lowercase descriptions to the digest's presentation style.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
