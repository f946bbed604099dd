package weather

import (
	"context"
	"errors"
	"io"

	"tableflip.dev/journal/pkg/printers"
	"tableflip.dev/journal/pkg/weather"
)

type Weather struct {
	Location string
	JSON     bool

	Source weather.Source
	Out    io.Writer
}

func (w *Weather) Do(ctx context.Context) error {
	s, err := weather.Fetch(ctx, w.Source, w.Location)
	if err != nil {
		return errors.New(weather.ErrorText(err))
	}
	pp := printers.PrettyPrint{Out: w.Out}
	if w.JSON {
		return pp.JSON(s)
	}
	pp.Weather(s)
	return nil
}
