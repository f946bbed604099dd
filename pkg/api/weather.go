package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
)

const DefaultWeatherLocation = "Mumbai"

// Weather is the weatherstack-shaped payload the backend relays.
type Weather struct {
	Location *WeatherLocation `json:"location"`
	Current  *CurrentWeather  `json:"current"`
}

type WeatherLocation struct {
	Name    string `json:"name"`
	Country string `json:"country"`
	Region  string `json:"region"`
}

type CurrentWeather struct {
	Temperature         *int     `json:"temperature"`
	FeelsLike           *int     `json:"feelslike"`
	Humidity            *int     `json:"humidity"`
	WeatherDescriptions []string `json:"weather_descriptions"`
	WeatherIcons        []string `json:"weather_icons"`
}

// Weather returns current conditions for location (default Mumbai). A payload
// without location or current block is a ServerError.
func (c *Client) Weather(ctx context.Context, location string) (Weather, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		location = DefaultWeatherLocation
	}
	var out Weather
	r := request{method: http.MethodGet, path: "/api/weather/" + url.PathEscape(location)}
	if err := c.doJSON(ctx, r, &out); err != nil {
		return Weather{}, err
	}
	if out.Location == nil || out.Current == nil {
		return Weather{}, &ServerError{Status: http.StatusOK, Err: errors.New("invalid weather data structure")}
	}
	return out, nil
}
