package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/mmcdole/arcade/internal/adapter/source/rawg"
)

// Catalog fault keys
const (
	RouteList        = "list"
	RouteDetail      = "detail"
	RouteScreenshots = "screenshots"
)

// ListKey is the fault key for a specific list page
func ListKey(page int) string { return fmt.Sprintf("%s:%d", RouteList, page) }

// FakeCatalog serves /games, /games/{id} and /games/{id}/screenshots
type FakeCatalog struct {
	*httptest.Server
	faults

	mu          sync.Mutex
	games       []rawg.GameDTO
	screenshots map[int][]rawg.ImageDTO
	count       int // overrides len(games) in list responses when > 0
	requests    []url.Values
	APIKey      string
}

// NewFakeCatalog starts a catalog server seeded with games
func NewFakeCatalog(games ...rawg.GameDTO) *FakeCatalog {
	c := &FakeCatalog{
		faults:      newFaults(),
		games:       games,
		screenshots: map[int][]rawg.ImageDTO{},
	}

	r := chi.NewRouter()
	r.Get("/games", c.handleList)
	r.Get("/games/{id}", c.handleDetail)
	r.Get("/games/{id}/screenshots", c.handleScreenshots)
	c.Server = httptest.NewServer(r)
	return c
}

// SetCount makes list responses report count regardless of seeded games
func (c *FakeCatalog) SetCount(count int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count = count
}

// SetScreenshots seeds the screenshots of a game
func (c *FakeCatalog) SetScreenshots(id int, shots ...rawg.ImageDTO) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.screenshots[id] = shots
}

// Requests returns the query of every /games request in arrival order
func (c *FakeCatalog) Requests() []url.Values {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]url.Values(nil), c.requests...)
}

func (c *FakeCatalog) checkKey(w http.ResponseWriter, r *http.Request) bool {
	if c.APIKey != "" && r.URL.Query().Get("key") != c.APIKey {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "The key parameter is not provided"})
		return false
	}
	return true
}

func (c *FakeCatalog) handleList(w http.ResponseWriter, r *http.Request) {
	if !c.checkKey(w, r) {
		return
	}
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	size, _ := strconv.Atoi(q.Get("page_size"))
	if size < 1 {
		size = 20
	}

	c.mu.Lock()
	c.requests = append(c.requests, q)
	c.mu.Unlock()

	if applyFaults(w, &c.faults, ListKey(page), RouteList) {
		return
	}

	c.mu.Lock()
	games := c.games
	count := c.count
	c.mu.Unlock()
	if count == 0 {
		count = len(games)
	}

	start := (page - 1) * size
	if start > 0 && start >= count {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Invalid page."})
		return
	}

	resp := rawg.GameList{Count: count, Results: []rawg.GameDTO{}}
	if start < len(games) {
		resp.Results = games[start:min(start+size, len(games))]
	}
	if start+size < count {
		next := fmt.Sprintf("%s/games?page=%d", c.URL, page+1)
		resp.Next = &next
	}
	if page > 1 {
		prev := fmt.Sprintf("%s/games?page=%d", c.URL, page-1)
		resp.Previous = &prev
	}
	writeJSON(w, http.StatusOK, resp)
}

func (c *FakeCatalog) handleDetail(w http.ResponseWriter, r *http.Request) {
	if !c.checkKey(w, r) {
		return
	}
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	if applyFaults(w, &c.faults, fmt.Sprintf("%s:%d", RouteDetail, id), RouteDetail) {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, g := range c.games {
		if g.ID == id {
			writeJSON(w, http.StatusOK, g)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
}

func (c *FakeCatalog) handleScreenshots(w http.ResponseWriter, r *http.Request) {
	if !c.checkKey(w, r) {
		return
	}
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	if applyFaults(w, &c.faults, fmt.Sprintf("%s:%d", RouteScreenshots, id), RouteScreenshots) {
		return
	}

	c.mu.Lock()
	shots := c.screenshots[id]
	c.mu.Unlock()
	if shots == nil {
		shots = []rawg.ImageDTO{}
	}
	writeJSON(w, http.StatusOK, rawg.ScreenshotList{Count: len(shots), Results: shots})
}

// applyFaults waits on any gate and writes an injected failure.
// It reports whether the response was written.
func applyFaults(w http.ResponseWriter, f *faults, keys ...string) bool {
	for _, key := range keys {
		fl, gate := f.take(key)
		if gate != nil {
			gate.wait()
		}
		if fl != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(fl.status)
			w.Write([]byte(fl.body))
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Game builds a catalog game fixture
func Game(id int, name string, metacritic int) rawg.GameDTO {
	g := rawg.GameDTO{
		ID:              id,
		Slug:            fmt.Sprintf("game-%d", id),
		Name:            name,
		Released:        "2020-05-01",
		BackgroundImage: fmt.Sprintf("https://media.example.com/%d.jpg", id),
		Rating:          4.2,
		Genres:          []rawg.RefDTO{{ID: 4, Name: "Action", Slug: "action"}},
		Platforms:       []rawg.PlatformDTO{{Platform: rawg.RefDTO{ID: 4, Name: "PC", Slug: "pc"}}},
	}
	if metacritic > 0 {
		g.Metacritic = &metacritic
	}
	return g
}

// Games builds n sequential fixtures starting at id 1
func Games(n int) []rawg.GameDTO {
	out := make([]rawg.GameDTO, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, Game(i, fmt.Sprintf("Game %d", i), 60+i%40))
	}
	return out
}
