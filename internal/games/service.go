// Package games drives the catalog request lifecycles: list, detail and search.
package games

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mmcdole/arcade/internal/domain"
	"github.com/mmcdole/arcade/internal/pagination"
	"github.com/mmcdole/arcade/internal/query"
)

// SearchDebounce is the quiescence window callers wait after the last
// keystroke before calling Search.
const SearchDebounce = 300 * time.Millisecond

// Fallback messages used when neither the server nor the transport gave one
const (
	msgListFailed   = "Failed to fetch games"
	msgDetailFailed = "Failed to fetch game details"
	msgSearchFailed = "Failed to search games"
)

// Filters is the filter model the service reads from
type Filters interface {
	Snapshot() domain.FilterState
	Clear()
}

// Service owns the List, Detail and Search slots. Each slot issues a token
// per request and only the newest request's completion is applied.
type Service struct {
	repo     domain.CatalogRepository
	filters  Filters
	observer domain.ChangeObserver
	logger   *slog.Logger

	mu     sync.Mutex
	list   domain.RequestState[domain.GamePage]
	detail domain.RequestState[domain.GameDetail]
	search domain.RequestState[domain.SearchResult]
	page   domain.PageState
}

// NewService creates a catalog service
func NewService(repo domain.CatalogRepository, filters Filters, pageSize int, observer domain.ChangeObserver, logger *slog.Logger) *Service {
	if observer == nil {
		observer = domain.NoOpObserver{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:     repo,
		filters:  filters,
		observer: observer,
		logger:   logger,
		page:     domain.NewPageState(pageSize),
	}
}

// List fetches one page of games for the current filters.
// On success CurrentPage becomes the requested page.
func (s *Service) List(ctx context.Context, page int) (domain.GamePage, error) {
	if page < 1 {
		page = 1
	}

	s.mu.Lock()
	token := s.list.Begin()
	pageSize := s.page.PageSize
	s.mu.Unlock()
	s.notify(domain.SliceGameList, domain.StatusPending, 0)

	q, err := query.Translate(s.filters.Snapshot(), page, pageSize)
	if err != nil {
		s.logger.Warn("invalid filters, not fetching games", "error", err, "page", page)
		s.rejectList(token, err)
		return domain.GamePage{}, err
	}

	result, err := s.repo.ListGames(ctx, q.Params)
	if err != nil {
		if !isPageOutOfRange(err) {
			s.logger.Error("failed to fetch games", "error", err, "page", page)
			s.rejectList(token, err)
			return domain.GamePage{}, err
		}
		// Past the last page: empty result, count unchanged
		s.logger.Debug("requested page out of range", "page", page)
		s.mu.Lock()
		result = domain.GamePage{Count: s.page.Count}
		s.mu.Unlock()
	}

	s.mu.Lock()
	applied := s.list.Resolve(token, result)
	if applied {
		s.page.CurrentPage = page
		s.page.Count = result.Count
		s.page.Next = result.Next
		s.page.Previous = result.Previous
	}
	s.mu.Unlock()

	if !applied {
		s.logger.Debug("dropping stale list completion", "page", page, "token", token)
		return result, nil
	}
	s.logger.Debug("fetched games", "count", len(result.Games), "total", result.Count, "page", page)
	s.notify(domain.SliceGameList, domain.StatusSuccess, 0)
	return result, nil
}

func (s *Service) rejectList(token uint64, err error) {
	s.mu.Lock()
	applied := s.list.Reject(token, domain.Normalize(err, msgListFailed))
	s.mu.Unlock()
	if applied {
		s.notify(domain.SliceGameList, domain.StatusFailure, 0)
	}
}

// SetCurrentPage records the page the caller is about to show
func (s *Service) SetCurrentPage(page int) {
	if page < 1 {
		page = 1
	}
	s.mu.Lock()
	s.page.CurrentPage = page
	s.mu.Unlock()
	s.notify(domain.SliceGameList, s.ListState().Status, 0)
}

// GoToPage sets the current page and fetches it
func (s *Service) GoToPage(ctx context.Context, page int) (domain.GamePage, error) {
	s.SetCurrentPage(page)
	return s.List(ctx, page)
}

// ApplyFilters restarts the listing at page 1 with the current filters
func (s *Service) ApplyFilters(ctx context.Context) (domain.GamePage, error) {
	return s.GoToPage(ctx, 1)
}

// ClearFilters resets every filter and restarts the listing at page 1
func (s *Service) ClearFilters(ctx context.Context) (domain.GamePage, error) {
	s.filters.Clear()
	return s.GoToPage(ctx, 1)
}

// Detail fetches a game and its screenshots concurrently. The two requests
// succeed or fail as one unit.
func (s *Service) Detail(ctx context.Context, id int) (domain.GameDetail, error) {
	s.mu.Lock()
	token := s.detail.Begin()
	s.mu.Unlock()
	s.notify(domain.SliceDetail, domain.StatusPending, id)

	var (
		game  domain.Game
		shots []domain.Screenshot
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		game, err = s.repo.GetGame(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		shots, err = s.repo.GetScreenshots(gctx, id)
		return err
	})

	if err := g.Wait(); err != nil {
		s.logger.Error("failed to fetch game details", "error", err, "gameID", id)
		s.mu.Lock()
		applied := s.detail.Reject(token, domain.Normalize(err, msgDetailFailed))
		s.mu.Unlock()
		if applied {
			s.notify(domain.SliceDetail, domain.StatusFailure, id)
		}
		return domain.GameDetail{}, err
	}

	if shots == nil {
		shots = []domain.Screenshot{}
	}
	game.Screenshots = shots
	detail := domain.GameDetail{GameID: id, Game: game}

	s.mu.Lock()
	applied := s.detail.Resolve(token, detail)
	s.mu.Unlock()

	if !applied {
		s.logger.Debug("dropping stale detail completion", "gameID", id, "token", token)
		return detail, nil
	}
	s.notify(domain.SliceDetail, domain.StatusSuccess, id)
	return detail, nil
}

// Search runs a catalog search. A blank query is a no-op: nothing is sent,
// the slot is untouched and started is false.
func (s *Service) Search(ctx context.Context, params domain.SearchParams) (started bool, err error) {
	if strings.TrimSpace(params.Query) == "" {
		return false, nil
	}

	s.mu.Lock()
	token := s.search.Begin()
	s.mu.Unlock()
	s.notify(domain.SliceSearch, domain.StatusPending, 0)

	q, err := query.TranslateSearch(params)
	if err != nil {
		s.logger.Warn("invalid search parameters", "error", err, "query", params.Query)
		s.rejectSearch(token, err)
		return true, err
	}

	result, err := s.repo.ListGames(ctx, q.Params)
	if err != nil {
		s.logger.Error("failed to search games", "error", err, "query", params.Query)
		s.rejectSearch(token, err)
		return true, err
	}

	// Price is not a remote field; filter the returned page only
	sr := domain.SearchResult{
		Params: params,
		Games:  query.FilterByPrice(result.Games, q.Price),
		Count:  result.Count,
	}

	s.mu.Lock()
	applied := s.search.Resolve(token, sr)
	s.mu.Unlock()

	if !applied {
		s.logger.Debug("dropping stale search completion", "query", params.Query, "token", token)
		return true, nil
	}
	s.notify(domain.SliceSearch, domain.StatusSuccess, 0)
	return true, nil
}

func (s *Service) rejectSearch(token uint64, err error) {
	s.mu.Lock()
	applied := s.search.Reject(token, domain.Normalize(err, msgSearchFailed))
	s.mu.Unlock()
	if applied {
		s.notify(domain.SliceSearch, domain.StatusFailure, 0)
	}
}

// ClearSearchResults returns the Search slot to Idle and drops any
// in-flight search completion
func (s *Service) ClearSearchResults() {
	s.mu.Lock()
	s.search.Reset()
	s.mu.Unlock()
	s.notify(domain.SliceSearch, domain.StatusIdle, 0)
}

// ListState returns a snapshot of the List slot
func (s *Service) ListState() domain.RequestState[domain.GamePage] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list
}

// DetailState returns a snapshot of the Detail slot
func (s *Service) DetailState() domain.RequestState[domain.GameDetail] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.detail
}

// SearchState returns a snapshot of the Search slot
func (s *Service) SearchState() domain.RequestState[domain.SearchResult] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.search
}

// Page returns the pagination state
func (s *Service) Page() domain.PageState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

// Pagination returns the pager derived from the pagination state
func (s *Service) Pagination() pagination.Controls {
	p := s.Page()
	return pagination.NewControls(p.CurrentPage, p.Count, p.PageSize)
}

func (s *Service) notify(slice domain.Slice, status domain.RequestStatus, gameID int) {
	s.observer.OnChange(domain.Change{Slice: slice, Status: status, GameID: gameID})
}

func isPageOutOfRange(err error) bool {
	var e *domain.Error
	return errors.As(err, &e) && e.Kind == domain.KindRemote && e.Status == http.StatusNotFound
}
