package weather

import (
	"bytes"
	"context"
	"net/http"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/journal/pkg/api"
	"tableflip.dev/journal/pkg/api/apitest"
)

func TestWeather(t *testing.T) {
	color.NoColor = true
	srv := apitest.New(t)
	c, err := api.New(api.Config{BaseURL: srv.URL}, nil, nil)
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, (&Weather{Location: "Pune", Source: c, Out: &out}).Do(context.Background()))
	assert.Contains(t, out.String(), "Pune 31°C, Partly cloudy")

	srv.Fail(http.MethodGet, "/api/weather/{location}", http.StatusBadGateway, "")
	err = (&Weather{Source: c, Out: &out}).Do(context.Background())
	require.EqualError(t, err, "Failed to load weather data")
}
