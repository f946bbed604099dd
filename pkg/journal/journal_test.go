package journal_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/journal/pkg/api"
	"tableflip.dev/journal/pkg/api/apitest"
	"tableflip.dev/journal/pkg/entry"
	"tableflip.dev/journal/pkg/journal"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func setup(t *testing.T, opts ...journal.Option) (*apitest.Server, *journal.Synchronizer) {
	t.Helper()
	srv := apitest.New(t)
	tok := srv.AddUser("ada", "pw")
	client, err := api.New(api.Config{BaseURL: srv.URL}, staticToken(tok), nil)
	require.NoError(t, err)
	return srv, journal.New(client, opts...)
}

func draft(title, content string, mood entry.Sentiment) entry.Draft {
	return entry.Draft{Title: title, Content: content, Sentiment: mood}
}

func TestListReplacesCollection(t *testing.T) {
	srv, s := setup(t)
	srv.Seed("ada", draft("first", "a", entry.Happy), draft("second", "b", entry.Sad))

	got, err := s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "second", got[0].Title)

	snap := s.Snapshot()
	assert.Equal(t, journal.Idle, snap.State)
	assert.True(t, snap.Loaded)
	assert.NoError(t, snap.Err)
	assert.Equal(t, 2, s.Len())
}

func TestListFailureKeepsCollection(t *testing.T) {
	srv, s := setup(t)
	srv.Seed("ada", draft("kept", "a", entry.Happy))
	_, err := s.List(context.Background())
	require.NoError(t, err)

	srv.Fail(http.MethodGet, "/journal", http.StatusInternalServerError, "")
	_, err = s.List(context.Background())

	var fe *journal.FetchError
	require.ErrorAs(t, err, &fe)
	var se *api.ServerError
	assert.ErrorAs(t, err, &se)

	snap := s.Snapshot()
	assert.Equal(t, journal.Error, snap.State)
	require.Len(t, snap.Entries, 1)
	assert.Equal(t, "kept", snap.Entries[0].Title)
}

func TestOverlappingListsShareOneRequest(t *testing.T) {
	srv, s := setup(t)
	srv.Seed("ada", draft("one", "a", entry.Happy))
	release := srv.Hold(http.MethodGet, "/journal")

	var wg sync.WaitGroup
	results := make([][]entry.Entry, 2)
	errs := make([]error, 2)
	start := func(i int) {
		defer wg.Done()
		results[i], errs[i] = s.List(context.Background())
	}
	wg.Add(1)
	go start(0)
	require.Eventually(t, func() bool {
		return srv.Calls(http.MethodGet, "/journal") == 1
	}, time.Second, 5*time.Millisecond)
	wg.Add(1)
	go start(1)
	time.Sleep(50 * time.Millisecond)
	release()
	wg.Wait()

	assert.Equal(t, 1, srv.Calls(http.MethodGet, "/journal"))
	for i := range results {
		require.NoError(t, errs[i])
		assert.Len(t, results[i], 1)
	}
}

func TestCreatePrependsWithoutRefetch(t *testing.T) {
	srv, s := setup(t)
	srv.Seed("ada", draft("old", "a", entry.Happy))
	_, err := s.List(context.Background())
	require.NoError(t, err)

	created, err := s.Create(context.Background(), entry.Draft{Title: " new ", Content: "fresh"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "new", created.Title)
	assert.Equal(t, entry.Happy, created.Sentiment)

	got := s.Entries()
	require.Len(t, got, 2)
	assert.Equal(t, created.ID, got[0].ID)
	assert.Equal(t, 1, srv.Calls(http.MethodGet, "/journal"))
}

func TestCreateValidatesBeforeNetwork(t *testing.T) {
	srv, s := setup(t)
	for _, d := range []entry.Draft{
		{Title: "", Content: "x"},
		{Title: "x", Content: "   "},
		{Title: "x", Content: "y", Sentiment: "BORED"},
	} {
		_, err := s.Create(context.Background(), d)
		var ve *entry.ValidationError
		require.ErrorAs(t, err, &ve, "draft %+v", d)
	}
	assert.Zero(t, srv.Calls(http.MethodPost, "/journal"))
	assert.Equal(t, journal.Idle, s.Snapshot().State)
}

func TestUpdateMergesPatch(t *testing.T) {
	srv, s := setup(t)
	seeded := srv.Seed("ada", draft("title", "body", entry.Sad))
	_, err := s.List(context.Background())
	require.NoError(t, err)

	mood := entry.Angry
	updated, err := s.Update(context.Background(), seeded[0].ID, entry.Patch{Sentiment: &mood})
	require.NoError(t, err)
	assert.Equal(t, "title", updated.Title)
	assert.Equal(t, "body", updated.Content)
	assert.Equal(t, entry.Angry, updated.Sentiment)
	assert.Equal(t, seeded[0].Date.Unix(), updated.Date.Unix())

	local, ok := s.Get(seeded[0].ID)
	require.True(t, ok)
	assert.Equal(t, entry.Angry, local.Sentiment)
	assert.Equal(t, entry.Angry, srv.Entries("ada")[0].Sentiment)
}

func TestUpdateFetchesUnknownEntry(t *testing.T) {
	srv, s := setup(t)
	seeded := srv.Seed("ada", draft("title", "body", entry.Happy))

	title := "renamed"
	updated, err := s.Update(context.Background(), seeded[0].ID, entry.Patch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Title)
	assert.Equal(t, "body", updated.Content)
	assert.Equal(t, 1, srv.Calls(http.MethodGet, "/journal/id/{id}"))
}

func TestUpdateMissingEntryIsNotFound(t *testing.T) {
	_, s := setup(t)
	title := "x"
	_, err := s.Update(context.Background(), "nope", entry.Patch{Title: &title})
	var nf *api.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "Journal entry not found", api.Message(err, ""))
}

func TestUpdateRejectsBlankingPatch(t *testing.T) {
	srv, s := setup(t)
	seeded := srv.Seed("ada", draft("title", "body", entry.Happy))
	_, err := s.List(context.Background())
	require.NoError(t, err)

	blank := " "
	_, err = s.Update(context.Background(), seeded[0].ID, entry.Patch{Content: &blank})
	var ve *entry.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Zero(t, srv.Calls(http.MethodPut, "/journal/id/{id}"))
}

func TestDeleteDeclinedMakesNoCall(t *testing.T) {
	srv, s := setup(t)
	seeded := srv.Seed("ada", draft("keep", "me", entry.Happy))
	_, err := s.List(context.Background())
	require.NoError(t, err)

	var asked entry.Entry
	no := journal.ConfirmFunc(func(_ context.Context, e entry.Entry) (bool, error) {
		asked = e
		return false, nil
	})
	err = s.Delete(context.Background(), seeded[0].ID, no)
	require.ErrorIs(t, err, journal.ErrCanceled)
	assert.Equal(t, "keep", asked.Title)
	assert.Zero(t, srv.Calls(http.MethodDelete, "/journal/id/{id}"))
	assert.Equal(t, 1, s.Len())
}

func TestDeleteRemovesLocally(t *testing.T) {
	srv, s := setup(t)
	seeded := srv.Seed("ada", draft("a", "1", entry.Happy), draft("b", "2", entry.Happy))
	_, err := s.List(context.Background())
	require.NoError(t, err)

	require.NoError(t, s.Delete(context.Background(), seeded[0].ID, journal.Always))
	_, ok := s.Get(seeded[0].ID)
	assert.False(t, ok)
	assert.Equal(t, 1, s.Len())
	assert.Len(t, srv.Entries("ada"), 1)
}

func TestDeleteFailureReconciles(t *testing.T) {
	srv, s := setup(t)
	seeded := srv.Seed("ada", draft("a", "1", entry.Happy))
	_, err := s.List(context.Background())
	require.NoError(t, err)

	var states []journal.State
	s.OnChange(func(snap journal.Snapshot) { states = append(states, snap.State) })

	srv.Fail(http.MethodDelete, "/journal/id/{id}", http.StatusInternalServerError, "database down")
	err = s.Delete(context.Background(), seeded[0].ID, journal.Always)
	require.Error(t, err)
	assert.Equal(t, "database down", api.Message(err, ""))

	_, ok := s.Get(seeded[0].ID)
	assert.True(t, ok, "entry restored by refetch")
	assert.Equal(t, 2, srv.Calls(http.MethodGet, "/journal"))
	assert.Equal(t, journal.Error, states[len(states)-1])
}

func TestDeleteRestoresWhenReloadFails(t *testing.T) {
	srv, s := setup(t)
	seeded := srv.Seed("ada", draft("a", "1", entry.Happy), draft("b", "2", entry.Sad), draft("c", "3", entry.Angry))
	before, err := s.List(context.Background())
	require.NoError(t, err)

	srv.Fail(http.MethodDelete, "/journal/id/{id}", http.StatusInternalServerError, "db down")
	srv.Fail(http.MethodGet, "/journal", http.StatusBadGateway, "gateway")
	err = s.Delete(context.Background(), seeded[1].ID, journal.Always)
	require.Error(t, err)
	assert.Equal(t, "db down", api.Message(err, ""))

	assert.Equal(t, before, s.Entries(), "entry back at its old position")
	assert.Len(t, srv.Entries("ada"), 3)
	assert.Equal(t, journal.Error, s.Snapshot().State)
}

func TestDeleteRestoresOnUnauthorized(t *testing.T) {
	var hooked error
	srv, s := setup(t, journal.WithUnauthorized(func(_ context.Context, err error) { hooked = err }))
	seeded := srv.Seed("ada", draft("a", "1", entry.Happy), draft("b", "2", entry.Happy))
	_, err := s.List(context.Background())
	require.NoError(t, err)

	srv.Fail(http.MethodDelete, "/journal/id/{id}", http.StatusUnauthorized, "token expired")
	err = s.Delete(context.Background(), seeded[0].ID, journal.Always)
	require.Error(t, err)
	assert.True(t, api.IsUnauthorized(err))
	assert.True(t, api.IsUnauthorized(hooked))

	_, ok := s.Get(seeded[0].ID)
	assert.True(t, ok)
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, 1, srv.Calls(http.MethodGet, "/journal"), "no reload with a rejected token")
}

func TestDeleteWithoutConfirmerRefuses(t *testing.T) {
	srv, s := setup(t)
	seeded := srv.Seed("ada", draft("a", "1", entry.Happy))
	err := s.Delete(context.Background(), seeded[0].ID, nil)
	require.ErrorIs(t, err, journal.ErrNoConfirmer)
	assert.Zero(t, srv.Calls(http.MethodDelete, "/journal/id/{id}"))
}

func TestListSurvivesFirstCallerCanceling(t *testing.T) {
	srv, s := setup(t)
	srv.Seed("ada", draft("one", "a", entry.Happy))
	release := srv.Hold(http.MethodGet, "/journal")
	defer release()

	first, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := s.List(first)
		firstErr <- err
	}()
	require.Eventually(t, func() bool {
		return srv.Calls(http.MethodGet, "/journal") == 1
	}, time.Second, 5*time.Millisecond)

	type result struct {
		entries []entry.Entry
		err     error
	}
	second := make(chan result, 1)
	go func() {
		got, err := s.List(context.Background())
		second <- result{got, err}
	}()
	time.Sleep(50 * time.Millisecond)

	cancel()
	require.ErrorIs(t, <-firstErr, context.Canceled)
	release()

	res := <-second
	require.NoError(t, res.err)
	assert.Len(t, res.entries, 1)
	assert.Equal(t, 1, srv.Calls(http.MethodGet, "/journal"))
	snap := s.Snapshot()
	assert.Equal(t, journal.Idle, snap.State)
	assert.True(t, snap.Loaded)
}

func TestUpdateFromSkipsLookup(t *testing.T) {
	srv, s := setup(t)
	seeded := srv.Seed("ada", draft("t", "c", entry.Happy))

	base, err := s.Fetch(context.Background(), seeded[0].ID)
	require.NoError(t, err)
	title := "renamed"
	got, err := s.UpdateFrom(context.Background(), base, entry.Patch{Title: &title})
	require.NoError(t, err)

	assert.Equal(t, "renamed", got.Title)
	assert.Equal(t, "c", got.Content)
	assert.Equal(t, 1, srv.Calls(http.MethodGet, "/journal/id/{id}"))
	assert.Equal(t, "renamed", srv.Entries("ada")[0].Title)
}

func TestUnauthorizedInvokesHook(t *testing.T) {
	srv := apitest.New(t)
	client, err := api.New(api.Config{BaseURL: srv.URL}, staticToken("expired"), nil)
	require.NoError(t, err)

	var hooked error
	s := journal.New(client, journal.WithUnauthorized(func(_ context.Context, err error) { hooked = err }))

	_, err = s.List(context.Background())
	require.Error(t, err)
	assert.True(t, api.IsUnauthorized(err))
	require.Error(t, hooked)
	assert.True(t, api.IsUnauthorized(hooked))
}

func TestConfirmerErrorPropagates(t *testing.T) {
	_, s := setup(t)
	boom := errors.New("tty closed")
	err := s.Delete(context.Background(), "x", journal.ConfirmFunc(func(context.Context, entry.Entry) (bool, error) {
		return false, boom
	}))
	assert.ErrorIs(t, err, boom)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "fetching", journal.Fetching.String())
	assert.Equal(t, "state(9)", journal.State(9).String())
}

func TestFetchPrefersLocalCopy(t *testing.T) {
	srv, s := setup(t)
	seeded := srv.Seed("ada", draft("t", "c", entry.Happy))

	got, err := s.Fetch(context.Background(), seeded[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "t", got.Title)
	assert.Equal(t, 1, srv.Calls(http.MethodGet, "/journal/id/{id}"))

	_, err = s.List(context.Background())
	require.NoError(t, err)
	_, err = s.Fetch(context.Background(), seeded[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 1, srv.Calls(http.MethodGet, "/journal/id/{id}"))
}
