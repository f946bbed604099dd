package get

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/journal/pkg/api"
	"tableflip.dev/journal/pkg/api/apitest"
	"tableflip.dev/journal/pkg/entry"
	"tableflip.dev/journal/pkg/journal"
	"tableflip.dev/journal/pkg/timeutil"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func setup(t *testing.T) (*apitest.Server, *journal.Synchronizer) {
	t.Helper()
	color.NoColor = true
	srv := apitest.New(t)
	tok := srv.AddUser("ada", "pw")
	c, err := api.New(api.Config{BaseURL: srv.URL}, staticToken(tok), nil)
	require.NoError(t, err)
	srv.Seed("ada",
		entry.Draft{Title: "Monday", Content: "ok", Sentiment: entry.Happy},
		entry.Draft{Title: "Tuesday", Content: "meh", Sentiment: entry.Sad},
		entry.Draft{Title: "Wednesday", Content: "good", Sentiment: entry.Happy},
	)
	return srv, journal.New(c)
}

func TestGetPrintsNewestFirst(t *testing.T) {
	_, j := setup(t)
	var out bytes.Buffer
	require.NoError(t, (&Get{Journal: j, Out: &out}).Do(context.Background()))

	got := out.String()
	assert.Contains(t, got, "Journal - 3 entries")
	assert.Less(t, strings.Index(got, "Wednesday"), strings.Index(got, "Monday"))
}

func TestGetFiltersAndLimits(t *testing.T) {
	_, j := setup(t)
	var out bytes.Buffer
	g := &Get{Journal: j, Out: &out, JSON: true, Mood: entry.Happy, Limit: 1}
	require.NoError(t, g.Do(context.Background()))

	var got []entry.Entry
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Wednesday", got[0].Title)
}

func TestGetCalendar(t *testing.T) {
	_, j := setup(t)
	var out bytes.Buffer
	g := &Get{Journal: j, Out: &out, Calendar: true, Now: func() time.Time {
		return time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	}}
	require.NoError(t, g.Do(context.Background()))
	assert.Contains(t, out.String(), "January 2024")
}

func TestGetLastWindow(t *testing.T) {
	_, j := setup(t)
	w, err := timeutil.ParseWindow("1d")
	require.NoError(t, err)
	var out bytes.Buffer
	g := &Get{Journal: j, Out: &out, Window: w, Now: func() time.Time {
		return time.Date(2024, time.January, 2, 9, 2, 30, 0, time.UTC)
	}}
	require.NoError(t, g.Do(context.Background()))

	got := out.String()
	assert.Contains(t, got, "Journal, last 1d - 1 entry")
	assert.Contains(t, got, "Wednesday")
	assert.NotContains(t, got, "Monday")
}

func TestGetNotLoggedIn(t *testing.T) {
	srv := apitest.New(t)
	c, err := api.New(api.Config{BaseURL: srv.URL}, staticToken(""), nil)
	require.NoError(t, err)
	err = (&Get{Journal: journal.New(c), Out: &bytes.Buffer{}}).Do(context.Background())
	assert.True(t, api.IsUnauthorized(err))
}
