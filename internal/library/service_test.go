package library

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/arcade/internal/adapter"
	"github.com/mmcdole/arcade/internal/adapter/remote"
	"github.com/mmcdole/arcade/internal/adapter/source/libraryapi"
	"github.com/mmcdole/arcade/internal/domain"
	"github.com/mmcdole/arcade/internal/store"
	"github.com/mmcdole/arcade/internal/testutil"
)

type fixture struct {
	svc   *Service
	srv   *testutil.FakeLibrary
	store *store.Store
}

func newFixture(t *testing.T, seed ...libraryapi.EntryDTO) fixture {
	t.Helper()
	srv := testutil.NewFakeLibrary(seed...)
	t.Cleanup(srv.Close)

	client := libraryapi.NewClient(remote.Options{BaseURL: srv.URL, MaxRetries: -1}, "", adapter.NullLogger())
	st := store.NewMemory()
	svc := NewService(client, st, domain.StaticSession(true), Options{FallbackDelay: -1}, nil, adapter.NullLogger())
	return fixture{svc: svc, srv: srv, store: st}
}

func portal() domain.Game {
	return domain.Game{
		ID:              42,
		Name:            "Portal",
		BackgroundImage: "https://media.example.com/42.jpg",
		Metacritic:      90,
		Genres:          []domain.Ref{{ID: 7, Name: "Puzzle"}},
	}
}

func TestToggleFavoriteOnAbsentGame(t *testing.T) {
	tests := []struct {
		name        string
		postFails   bool
		wantOutcome Outcome
		wantPhase   Phase
		wantRemote  bool
	}{
		{"remote add succeeds", false, OutcomeRemote, PhaseCommittedRemote, true},
		{"remote add fails", true, OutcomeLocalOnly, PhaseCommittedLocalOnly, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if tt.postFails {
				f.srv.Fail(testutil.RouteLibraryPost, 500, `{"message":"db down"}`, -1)
			}

			outcome, err := f.svc.ToggleFavorite(context.Background(), portal())
			require.NoError(t, err)
			assert.Equal(t, tt.wantOutcome, outcome)

			entries := f.svc.Entries()
			require.Len(t, entries, 1)
			assert.Equal(t, 42, entries[0].ID)
			assert.True(t, entries[0].Favorite)
			assert.False(t, entries[0].Installed)
			assert.Equal(t, tt.postFails, entries[0].LocalOnly)

			assert.Equal(t, tt.wantPhase, f.svc.MutationState(42).Phase)
			// The swallowed add failure is never surfaced
			assert.Nil(t, f.svc.LastError())

			remoteEntry, ok := f.srv.Entry(42)
			assert.Equal(t, tt.wantRemote, ok)
			if ok {
				assert.True(t, remoteEntry.Favorite)
			}
		})
	}
}

func TestAddResponseKeyedByGameID(t *testing.T) {
	f := newFixture(t)
	// Backends keyed by row id echo both ids
	f.srv.PostEcho = func(e libraryapi.EntryDTO) libraryapi.EntryDTO {
		rowID, gameID := 7, *e.ID
		e.ID, e.GameID = &rowID, &gameID
		return e
	}

	outcome, err := f.svc.ToggleFavorite(context.Background(), portal())
	require.NoError(t, err)
	assert.Equal(t, OutcomeRemote, outcome)

	entries := f.svc.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, 42, entries[0].ID)
	assert.True(t, entries[0].Favorite)
	assert.True(t, f.svc.Contains(42))
	assert.False(t, f.svc.Contains(7))
	assert.Equal(t, PhaseCommittedRemote, f.svc.MutationState(42).Phase)
}

func TestAddResponseWithForeignIDFails(t *testing.T) {
	f := newFixture(t)
	f.srv.PostEcho = func(e libraryapi.EntryDTO) libraryapi.EntryDTO {
		rowID := 7
		e.ID = &rowID
		return e
	}

	outcome, err := f.svc.ToggleFavorite(context.Background(), portal())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, OutcomeNone, outcome)
	assert.False(t, f.svc.Contains(42))
	assert.Equal(t, PhaseFailed, f.svc.MutationState(42).Phase)
	assert.Equal(t, "Game not found in library", f.svc.LastError().Message)
}

func TestFailedAddPostsOnce(t *testing.T) {
	srv := testutil.NewFakeLibrary()
	t.Cleanup(srv.Close)
	srv.Fail(testutil.RouteLibraryPost, 502, `{"message":"bad gateway"}`, -1)

	client := libraryapi.NewClient(remote.Options{BaseURL: srv.URL, MaxRetries: 3, BaseRetryDelay: time.Millisecond}, "", adapter.NullLogger())
	svc := NewService(client, store.NewMemory(), domain.StaticSession(true), Options{FallbackDelay: -1}, nil, adapter.NullLogger())

	outcome, err := svc.ToggleFavorite(context.Background(), portal())
	require.NoError(t, err)
	assert.Equal(t, OutcomeLocalOnly, outcome)
	assert.Empty(t, srv.Posts())
	assert.Equal(t, 1, srv.PostAttempts())
}

func TestToggleInstalledOnAbsentGameSetsTrue(t *testing.T) {
	f := newFixture(t)

	outcome, err := f.svc.ToggleInstalled(context.Background(), portal())
	require.NoError(t, err)
	assert.Equal(t, OutcomeRemote, outcome)

	e, ok := f.svc.Entry(42)
	require.True(t, ok)
	assert.True(t, e.Installed)
	assert.False(t, e.Favorite)

	patches := f.srv.Patches()
	require.Len(t, patches, 1)
	assert.Equal(t, map[string]any{"installed": true}, patches[0].Body)
}

func TestToggleMemberPatchesNegation(t *testing.T) {
	f := newFixture(t, testutil.Entry(42, "Portal"))
	_, err := f.svc.Fetch(context.Background())
	require.NoError(t, err)

	_, err = f.svc.ToggleFavorite(context.Background(), portal())
	require.NoError(t, err)
	_, err = f.svc.ToggleFavorite(context.Background(), portal())
	require.NoError(t, err)

	assert.Empty(t, f.srv.Posts())
	patches := f.srv.Patches()
	require.Len(t, patches, 2)
	assert.Equal(t, true, patches[0].Body["favorite"])
	assert.Equal(t, false, patches[1].Body["favorite"])

	e, _ := f.svc.Entry(42)
	assert.False(t, e.Favorite)
}

func TestDirectPatchFailureSurfaces(t *testing.T) {
	f := newFixture(t, testutil.Entry(42, "Portal"))
	_, err := f.svc.Fetch(context.Background())
	require.NoError(t, err)
	f.srv.Fail(testutil.RouteLibraryPatch, 500, `{"message":"write failed"}`, -1)

	outcome, err := f.svc.ToggleFavorite(context.Background(), portal())
	require.Error(t, err)
	assert.Equal(t, OutcomeNone, outcome)

	m := f.svc.MutationState(42)
	assert.Equal(t, PhaseFailed, m.Phase)
	require.NotNil(t, m.Err)
	assert.Equal(t, "write failed", m.Err.Message)
	assert.Equal(t, "write failed", f.svc.LastError().Message)

	e, _ := f.svc.Entry(42)
	assert.False(t, e.Favorite)

	f.svc.ResetError()
	assert.Nil(t, f.svc.LastError())
}

func TestFollowUpPatchFailureAfterAdd(t *testing.T) {
	f := newFixture(t)
	f.srv.Fail(testutil.RouteLibraryPatch, 503, ``, -1)

	outcome, err := f.svc.ToggleFavorite(context.Background(), portal())
	require.Error(t, err)
	assert.Equal(t, OutcomeNone, outcome)

	// The add went through, the toggle did not
	entries := f.svc.Entries()
	require.Len(t, entries, 1)
	assert.False(t, entries[0].Favorite)
	assert.False(t, entries[0].LocalOnly)
	assert.Equal(t, PhaseFailed, f.svc.MutationState(42).Phase)
	assert.Equal(t, "unexpected status code: 503", f.svc.LastError().Message)
}

func TestFallbackNeverDuplicates(t *testing.T) {
	f := newFixture(t)
	f.srv.Fail(testutil.RouteLibraryPost, 500, ``, -1)

	_, err := f.svc.ToggleFavorite(context.Background(), portal())
	require.NoError(t, err)

	// The local-only entry is now a member, so this goes down the PATCH path
	// and fails because the remote never saw the entry
	_, err = f.svc.ToggleInstalled(context.Background(), portal())
	require.Error(t, err)

	entries := f.svc.Entries()
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Favorite)
	assert.False(t, entries[0].Installed)
}

func TestFallbackWaitsDelay(t *testing.T) {
	srv := testutil.NewFakeLibrary()
	t.Cleanup(srv.Close)
	srv.Fail(testutil.RouteLibraryPost, 500, ``, -1)
	client := libraryapi.NewClient(remote.Options{BaseURL: srv.URL, MaxRetries: -1}, "", adapter.NullLogger())
	svc := NewService(client, nil, nil, Options{FallbackDelay: 30 * time.Millisecond}, nil, adapter.NullLogger())

	start := time.Now()
	outcome, err := svc.ToggleFavorite(context.Background(), portal())
	require.NoError(t, err)
	assert.Equal(t, OutcomeLocalOnly, outcome)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestFallbackAppliesEvenWhenCanceledDuringDelay(t *testing.T) {
	srv := testutil.NewFakeLibrary()
	t.Cleanup(srv.Close)
	srv.Fail(testutil.RouteLibraryPost, 500, ``, -1)
	client := libraryapi.NewClient(remote.Options{BaseURL: srv.URL, MaxRetries: -1}, "", adapter.NullLogger())
	svc := NewService(client, nil, nil, Options{FallbackDelay: time.Hour}, nil, adapter.NullLogger())

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		for !svc.Contains(42) {
			time.Sleep(time.Millisecond)
		}
		cancel()
	}()

	outcome, err := svc.ToggleFavorite(ctx, portal())
	require.NoError(t, err)
	assert.Equal(t, OutcomeLocalOnly, outcome)
	e, _ := svc.Entry(42)
	assert.True(t, e.Favorite)
}

func TestMutationsRequirePermission(t *testing.T) {
	srv := testutil.NewFakeLibrary()
	t.Cleanup(srv.Close)
	client := libraryapi.NewClient(remote.Options{BaseURL: srv.URL}, "", adapter.NullLogger())
	svc := NewService(client, nil, domain.StaticSession(false), Options{}, nil, adapter.NullLogger())

	_, err := svc.ToggleFavorite(context.Background(), portal())
	assert.ErrorIs(t, err, domain.ErrNotPermitted)
	_, err = svc.Add(context.Background(), portal())
	assert.ErrorIs(t, err, domain.ErrNotPermitted)
	_, err = svc.UpdateLastPlayed(context.Background(), 42)
	assert.ErrorIs(t, err, domain.ErrNotPermitted)

	assert.Empty(t, srv.Posts())
	assert.Empty(t, srv.Patches())
	assert.Empty(t, svc.Entries())

	noRemote := NewService(nil, nil, nil, Options{}, nil, adapter.NullLogger())
	_, err = noRemote.Fetch(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotPermitted)
}

func TestSetFavoriteOnAbsentGame(t *testing.T) {
	f := newFixture(t)

	err := f.svc.SetFavorite(context.Background(), 42, true)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, "Game not found in library", f.svc.LastError().Message)
	assert.Empty(t, f.srv.Patches())
}

func TestSetInstalledOnMember(t *testing.T) {
	f := newFixture(t, testutil.Entry(42, "Portal"))
	_, err := f.svc.Fetch(context.Background())
	require.NoError(t, err)

	require.NoError(t, f.svc.SetInstalled(context.Background(), 42, true))
	require.NoError(t, f.svc.SetInstalled(context.Background(), 42, true))

	e, _ := f.svc.Entry(42)
	assert.True(t, e.Installed)
	assert.Len(t, f.srv.Patches(), 2)
}

func TestAddChecksBeforeInsert(t *testing.T) {
	f := newFixture(t)

	first, err := f.svc.Add(context.Background(), portal())
	require.NoError(t, err)
	second, err := f.svc.Add(context.Background(), portal())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, f.svc.Entries(), 1)
	assert.Len(t, f.srv.Posts(), 1)
}

func TestAddFailureSurfaces(t *testing.T) {
	f := newFixture(t)
	f.srv.Fail(testutil.RouteLibraryPost, 400, `{"message":"gameId is required"}`, 1)

	_, err := f.svc.Add(context.Background(), portal())
	require.Error(t, err)
	assert.Equal(t, "gameId is required", f.svc.LastError().Message)
	assert.Empty(t, f.svc.Entries())
}

func TestUpdateLastPlayed(t *testing.T) {
	f := newFixture(t, testutil.Entry(42, "Portal"))
	_, err := f.svc.Fetch(context.Background())
	require.NoError(t, err)

	fixed := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	f.svc.now = func() time.Time { return fixed }

	ts, err := f.svc.UpdateLastPlayed(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, fixed, ts)

	e, _ := f.svc.Entry(42)
	require.NotNil(t, e.LastPlayed)
	assert.True(t, fixed.Equal(*e.LastPlayed))
	assert.Equal(t, map[string]any{"lastPlayed": "2025-01-02T03:04:05Z"}, f.srv.Patches()[0].Body)
}

func TestUpdateLastPlayedIsNotGuarded(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.UpdateLastPlayed(context.Background(), 99)
	require.Error(t, err)

	// The request is sent even though the game is not in the library
	require.Len(t, f.srv.Patches(), 1)
	assert.Equal(t, 99, f.srv.Patches()[0].ID)
	assert.Equal(t, "Game not found in library", f.svc.LastError().Message)
}

func TestFetchKeepsLocalOnlyEntries(t *testing.T) {
	f := newFixture(t, testutil.Entry(1, "Celeste"))
	f.srv.Fail(testutil.RouteLibraryPost, 500, ``, 1)

	_, err := f.svc.ToggleFavorite(context.Background(), portal())
	require.NoError(t, err)

	entries, err := f.svc.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 1, entries[0].ID)
	assert.Equal(t, 42, entries[1].ID)
	assert.True(t, entries[1].LocalOnly)
	assert.Equal(t, domain.StatusSuccess, f.svc.FetchState().Status)
	assert.Equal(t, 1, f.svc.FetchState().Data)
}

func TestFetchFailure(t *testing.T) {
	f := newFixture(t)
	f.srv.Fail(testutil.RouteLibraryGet, 500, ``, -1)

	_, err := f.svc.Fetch(context.Background())
	require.Error(t, err)

	st := f.svc.FetchState()
	assert.Equal(t, domain.StatusFailure, st.Status)
	assert.Equal(t, "unexpected status code: 500", st.Err.Message)
	assert.NotNil(t, f.svc.LastError())
}

func TestSnapshotSurvivesRestart(t *testing.T) {
	f := newFixture(t)
	f.srv.Fail(testutil.RouteLibraryPost, 500, ``, -1)
	_, err := f.svc.ToggleFavorite(context.Background(), portal())
	require.NoError(t, err)

	restarted := NewService(nil, f.store, nil, Options{}, nil, adapter.NullLogger())
	assert.Equal(t, 1, restarted.LoadCached())
	assert.Equal(t, f.svc.Entries(), restarted.Entries())
}

func TestLoadCachedIgnoresCorruptSnapshot(t *testing.T) {
	st := store.NewMemory()
	require.NoError(t, st.Save(StorageKey, []byte("nope")))

	svc := NewService(nil, st, nil, Options{}, nil, adapter.NullLogger())
	assert.Equal(t, 0, svc.LoadCached())
	assert.Empty(t, svc.Entries())
}

func TestViews(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var entries []domain.LibraryEntry
	for i := 1; i <= 14; i++ {
		e := domain.LibraryEntry{ID: i, Name: fmt.Sprintf("G%d", i)}
		e.Installed = i%2 == 0
		e.Favorite = i%3 == 0
		if i <= 12 {
			ts := base.Add(time.Duration(i) * time.Hour)
			e.LastPlayed = &ts
		}
		entries = append(entries, e)
	}

	ids := func(es []domain.LibraryEntry) []int {
		out := []int{}
		for _, e := range es {
			out = append(out, e.ID)
		}
		return out
	}

	assert.Len(t, Filter(entries, ViewAll), 14)
	assert.Equal(t, []int{2, 4, 6, 8, 10, 12, 14}, ids(Filter(entries, ViewInstalled)))
	assert.Equal(t, []int{3, 6, 9, 12}, ids(Filter(entries, ViewFavorites)))
	assert.Equal(t, []int{12, 11, 10, 9, 8, 7, 6, 5, 4, 3}, ids(Filter(entries, ViewRecent)))
}
