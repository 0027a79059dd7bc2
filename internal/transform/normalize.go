package transform

import (
	"fmt"
	"math"
	"time"

	"clima-etl/internal/extract"
	"clima-etl/internal/weather"
)

// Normalize validates the raw provider response and maps it into a
// WeatherRecord. It is a pure transform: same input and observation time
// always produce the same record, and nothing is mutated or written.
//
// The record carries the configured city identifier, not the name echoed by
// the provider; the provider name is still required to be present so a
// truncated response is caught here rather than downstream.
func Normalize(city string, raw *extract.RawObservation, observedAt time.Time) (weather.WeatherRecord, error) {
	var rec weather.WeatherRecord

	if raw == nil {
		return rec, fmt.Errorf("%w: empty provider response", weather.ErrValidation)
	}
	if raw.Name == nil || *raw.Name == "" {
		return rec, weather.FieldError("name")
	}
	if raw.Main == nil {
		return rec, weather.FieldError("main")
	}
	if raw.Main.Temp == nil {
		return rec, weather.FieldError("main.temp")
	}
	if raw.Main.Humidity == nil {
		return rec, weather.FieldError("main.humidity")
	}
	if raw.Main.Pressure == nil {
		return rec, weather.FieldError("main.pressure")
	}
	if len(raw.Weather) == 0 || raw.Weather[0].Description == "" {
		return rec, weather.FieldError("weather.description")
	}

	// OpenWeather reports pressure as integral hPa; a fractional value means
	// the payload is not what we expect.
	pressure := *raw.Main.Pressure
	if pressure != math.Trunc(pressure) {
		return rec, weather.FieldError("main.pressure")
	}

	rec = weather.WeatherRecord{
		City:        city,
		Timestamp:   observedAt.UTC(),
		Temperature: *raw.Main.Temp,
		Humidity:    *raw.Main.Humidity,
		Pressure:    int(pressure),
		Description: raw.Weather[0].Description,
		RawSource:   raw.Body,
	}

	if err := rec.Validate(); err != nil {
		return weather.WeatherRecord{}, err
	}
	return rec, nil
}
