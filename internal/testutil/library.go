package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/mmcdole/arcade/internal/adapter/source/libraryapi"
)

// Library fault keys
const (
	RouteLibraryGet   = "library:get"
	RouteLibraryPost  = "library:post"
	RouteLibraryPatch = "library:patch"
)

// PatchCall is one recorded PATCH request
type PatchCall struct {
	ID   int
	Body map[string]any
}

// FakeLibrary serves GET/POST /user/library and PATCH /user/library/{id}
type FakeLibrary struct {
	*httptest.Server
	faults

	mu      sync.Mutex
	entries []libraryapi.EntryDTO
	posts   []libraryapi.AddRequest
	sent    int
	patches []PatchCall
	Token   string

	// PostEcho, when set, shapes the body returned for an accepted POST
	PostEcho func(libraryapi.EntryDTO) libraryapi.EntryDTO
}

// NewFakeLibrary starts a library server seeded with entries
func NewFakeLibrary(entries ...libraryapi.EntryDTO) *FakeLibrary {
	l := &FakeLibrary{faults: newFaults(), entries: entries}

	r := chi.NewRouter()
	r.Use(l.auth)
	r.Get("/user/library", l.handleGet)
	r.Post("/user/library", l.handlePost)
	r.Patch("/user/library/{id}", l.handlePatch)
	l.Server = httptest.NewServer(r)
	return l
}

func (l *FakeLibrary) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if l.Token != "" && r.Header.Get("Authorization") != "Bearer "+l.Token {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Entries returns the server-side entries
func (l *FakeLibrary) Entries() []libraryapi.EntryDTO {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.entries)
}

// Entry returns the server-side entry for id
func (l *FakeLibrary) Entry(id int) (libraryapi.EntryDTO, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.indexOf(id)
	if i < 0 {
		return libraryapi.EntryDTO{}, false
	}
	return l.entries[i], true
}

// Posts returns every accepted POST body
func (l *FakeLibrary) Posts() []libraryapi.AddRequest {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.posts)
}

// PostAttempts counts every POST received, including faulted ones
func (l *FakeLibrary) PostAttempts() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sent
}

// Patches returns every PATCH request, including rejected ones
func (l *FakeLibrary) Patches() []PatchCall {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.patches)
}

func (l *FakeLibrary) indexOf(id int) int {
	return slices.IndexFunc(l.entries, func(e libraryapi.EntryDTO) bool {
		return e.ID != nil && *e.ID == id
	})
}

func (l *FakeLibrary) handleGet(w http.ResponseWriter, r *http.Request) {
	if applyFaults(w, &l.faults, RouteLibraryGet) {
		return
	}
	entries := l.Entries()
	if entries == nil {
		entries = []libraryapi.EntryDTO{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (l *FakeLibrary) handlePost(w http.ResponseWriter, r *http.Request) {
	l.mu.Lock()
	l.sent++
	l.mu.Unlock()

	if applyFaults(w, &l.faults, RouteLibraryPost) {
		return
	}

	var req libraryapi.AddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.GameID == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "gameId is required"})
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.posts = append(l.posts, req)
	if l.indexOf(req.GameID) >= 0 {
		writeJSON(w, http.StatusConflict, map[string]string{"message": "Game already in library"})
		return
	}

	id := req.GameID
	entry := libraryapi.EntryDTO{
		ID:              &id,
		Name:            req.Name,
		BackgroundImage: req.BackgroundImage,
		Genres:          req.Genres,
		Metacritic:      req.Metacritic,
		Favorite:        req.Favorite,
		Installed:       req.Installed,
		LastPlayed:      req.LastPlayed,
	}
	l.entries = append(l.entries, entry)
	if l.PostEcho != nil {
		writeJSON(w, http.StatusCreated, l.PostEcho(entry))
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (l *FakeLibrary) handlePatch(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	raw, _ := io.ReadAll(r.Body)
	var body map[string]any
	_ = json.Unmarshal(raw, &body)

	l.mu.Lock()
	l.patches = append(l.patches, PatchCall{ID: id, Body: body})
	l.mu.Unlock()

	if applyFaults(w, &l.faults, RouteLibraryPatch+":"+strconv.Itoa(id), RouteLibraryPatch) {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.indexOf(id)
	if i < 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Game not found in library"})
		return
	}

	e := &l.entries[i]
	if v, ok := body["favorite"].(bool); ok {
		e.Favorite = v
	}
	if v, ok := body["installed"].(bool); ok {
		e.Installed = v
	}
	if v, ok := body["lastPlayed"].(string); ok {
		if ts, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(v)); err == nil {
			e.LastPlayed = &ts
		}
	}
	writeJSON(w, http.StatusOK, body)
}

// Entry builds a remote library entry fixture
func Entry(id int, name string) libraryapi.EntryDTO {
	return libraryapi.EntryDTO{ID: &id, Name: name, Genres: []libraryapi.GenreDTO{}}
}
