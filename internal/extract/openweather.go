package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"clima-etl/internal/weather"
)

// RawObservation is the provider response as received, decoded just enough
// for the normalizer to inspect it. Pointer fields distinguish an absent or
// null field from a zero value; Body keeps the original payload bytes for
// traceability.
type RawObservation struct {
	Name    *string         `json:"name"`
	Dt      int64           `json:"dt"`
	Main    *RawMain        `json:"main"`
	Weather []RawCondition  `json:"weather"`
	Body    json.RawMessage `json:"-"`
}

type RawMain struct {
	Temp     *float64 `json:"temp"`
	Humidity *float64 `json:"humidity"`
	Pressure *float64 `json:"pressure"`
}

type RawCondition struct {
	Description string `json:"description"`
}

// Fetcher abstracts the weather data source.
type Fetcher interface {
	Fetch(ctx context.Context, city string) (*RawObservation, error)
}

// OpenWeatherFetcher fetches current weather from OpenWeatherMap.
type OpenWeatherFetcher struct {
	client  *http.Client
	apiKey  string
	baseURL string
	circuit *gobreaker.CircuitBreaker
}

func NewOpenWeatherFetcher(client *http.Client, apiKey string) *OpenWeatherFetcher {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openweather",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &OpenWeatherFetcher{
		client:  client,
		apiKey:  apiKey,
		baseURL: "https://api.openweathermap.org/data/2.5/weather",
		circuit: cb,
	}
}

// Fetch performs one request for the given city and returns the raw response.
// Network failures, non-success statuses and undecodable bodies all classify
// as upstream failures.
func (f *OpenWeatherFetcher) Fetch(ctx context.Context, city string) (*RawObservation, error) {
	// Precondition failures are deterministic; classify them as validation
	// so the retry budget is not spent on a misconfiguration.
	if city == "" {
		return nil, fmt.Errorf("%w: city is not configured", weather.ErrValidation)
	}
	if f.apiKey == "" {
		return nil, fmt.Errorf("%w: openweather api key is not configured", weather.ErrValidation)
	}

	result, err := f.circuit.Execute(func() (interface{}, error) {
		return f.doRequest(ctx, city)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: circuit breaker open: %v", weather.ErrUpstream, err)
		}
		return nil, err
	}

	raw, ok := result.(*RawObservation)
	if !ok {
		return nil, fmt.Errorf("unexpected result type from circuit breaker")
	}
	return raw, nil
}

func (f *OpenWeatherFetcher) doRequest(ctx context.Context, city string) (*RawObservation, error) {
	values := url.Values{}
	values.Set("q", city)
	values.Set("appid", f.apiKey)
	values.Set("units", "metric")

	u := fmt.Sprintf("%s?%s", f.baseURL, values.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", weather.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return nil, fmt.Errorf("%w: provider returned status %d", weather.ErrUpstream, resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Read a small body for the error message.
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("%w: unexpected status %d: %s", weather.ErrUpstream, resp.StatusCode, string(b))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response body: %v", weather.ErrUpstream, err)
	}

	var raw RawObservation
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: malformed response body: %v", weather.ErrUpstream, err)
	}
	raw.Body = body

	return &raw, nil
}
