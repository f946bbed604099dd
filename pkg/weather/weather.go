// Package weather turns the backend's weather payload into the one-line
// summary shown in the header.
package weather

import (
	"context"
	"fmt"
	"strings"

	"tableflip.dev/journal/pkg/api"
)

const (
	LoadingText       = "Loading weather..."
	NoLocationText    = "Location unavailable"
	NoTemperatureText = "Temperature unavailable"
	FailedText        = "Failed to load weather data"
)

// Source fetches current conditions. *api.Client implements it.
type Source interface {
	Weather(ctx context.Context, location string) (api.Weather, error)
}

// Summary is what the header renders.
type Summary struct {
	Location    string
	Temperature string
	Description string
	Icon        string
	FeelsLike   string
	Humidity    string
}

// Summarize fills the placeholders for anything the payload omits.
func Summarize(w api.Weather) Summary {
	s := Summary{Location: NoLocationText, Temperature: NoTemperatureText}
	if w.Location != nil && strings.TrimSpace(w.Location.Name) != "" {
		s.Location = w.Location.Name
	}
	c := w.Current
	if c == nil {
		return s
	}
	// The backend sends 0 when the reading is missing.
	if c.Temperature != nil && *c.Temperature != 0 {
		s.Temperature = fmt.Sprintf("%d°C", *c.Temperature)
	}
	if c.FeelsLike != nil {
		s.FeelsLike = fmt.Sprintf("%d°C", *c.FeelsLike)
	}
	if c.Humidity != nil {
		s.Humidity = fmt.Sprintf("%d%%", *c.Humidity)
	}
	if len(c.WeatherDescriptions) > 0 {
		s.Description = c.WeatherDescriptions[0]
	}
	if len(c.WeatherIcons) > 0 {
		s.Icon = c.WeatherIcons[0]
	}
	return s
}

// Line is "Mumbai 31°C, Sunny".
func (s Summary) Line() string {
	line := s.Location + " " + s.Temperature
	if s.Description != "" {
		line += ", " + s.Description
	}
	return line
}

func (s Summary) String() string { return s.Line() }

// Fetch loads and summarizes the weather for location.
func Fetch(ctx context.Context, src Source, location string) (Summary, error) {
	w, err := src.Weather(ctx, location)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(w), nil
}

// ErrorText is the header text for a failed fetch.
func ErrorText(err error) string {
	return api.Message(err, FailedText)
}
