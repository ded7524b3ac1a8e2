package remote

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/arcade/internal/adapter"
	"github.com/mmcdole/arcade/internal/domain"
)

func newTransport(t *testing.T, r http.Handler, opts Options) *Transport {
	t.Helper()
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	opts.BaseURL = srv.URL
	if opts.Name == "" {
		opts.Name = "test"
	}
	if opts.BaseRetryDelay == 0 {
		opts.BaseRetryDelay = time.Millisecond
	}
	return New(opts, adapter.NullLogger())
}

func TestGetDecodesAndSendsSharedParams(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/games/{id}", func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "k", req.URL.Query().Get("key"))
		assert.Equal(t, "2", req.URL.Query().Get("page"))
		assert.NotEmpty(t, req.Header.Get(RequestIDHeader))
		assert.Equal(t, "Bearer tok", req.Header.Get("Authorization"))
		w.Write([]byte(`{"id":` + chi.URLParam(req, "id") + `}`))
	})

	tr := newTransport(t, r, Options{})
	tr.SetQueryParam("key", "k")
	tr.SetHeader("Authorization", "Bearer tok")

	var out struct{ ID int }
	require.NoError(t, tr.Get(context.Background(), "/games/7", url.Values{"page": {"2"}}, &out))
	assert.Equal(t, 7, out.ID)
}

func TestDoJSONSendsBody(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/user/library", func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
		body, _ := io.ReadAll(req.Body)
		assert.JSONEq(t, `{"gameId":42}`, string(body))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"ok":true}`))
	})

	tr := newTransport(t, r, Options{})
	var out struct{ OK bool }
	require.NoError(t, tr.DoJSON(context.Background(), http.MethodPost, "/user/library", nil, map[string]int{"gameId": 42}, &out))
	assert.True(t, out.OK)
}

func TestRemoteErrorPrefersServerMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"error field", `{"error":"bad key"}`, "bad key"},
		{"message field", `{"message":"nope"}`, "nope"},
		{"detail field", `{"detail":"Not found."}`, "Not found."},
		{"no body", ``, "unexpected status code: 404"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := chi.NewRouter()
			r.Get("/x", func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				w.Write([]byte(tt.body))
			})
			tr := newTransport(t, r, Options{})

			err := tr.Get(context.Background(), "/x", nil, nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrRemote)

			info := domain.Normalize(err, "fallback")
			assert.Equal(t, tt.want, info.Message)
			assert.Equal(t, http.StatusNotFound, info.Status)
		})
	}
}

func TestRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	r := chi.NewRouter()
	r.Get("/flaky", func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{}`))
	})

	tr := newTransport(t, r, Options{})
	require.NoError(t, tr.Get(context.Background(), "/flaky", nil, nil))
	assert.Equal(t, int32(3), calls.Load())
}

func TestGivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	r := chi.NewRouter()
	r.Get("/down", func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error":"maintenance"}`))
	})

	tr := newTransport(t, r, Options{MaxRetries: 2})
	err := tr.Get(context.Background(), "/down", nil, nil)
	require.Error(t, err)
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, "maintenance", domain.Normalize(err, "").Message)
}

func TestPostIsNotRetried(t *testing.T) {
	var posts, patches atomic.Int32
	r := chi.NewRouter()
	r.Post("/user/library", func(w http.ResponseWriter, _ *http.Request) {
		posts.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	})
	r.Patch("/user/library/{id}", func(w http.ResponseWriter, _ *http.Request) {
		if patches.Add(1) < 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{}`))
	})

	tr := newTransport(t, r, Options{MaxRetries: 3})

	err := tr.DoJSON(context.Background(), http.MethodPost, "/user/library", nil, map[string]int{"gameId": 42}, nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadGateway, domain.Normalize(err, "").Status)
	assert.Equal(t, int32(1), posts.Load())

	require.NoError(t, tr.DoJSON(context.Background(), http.MethodPatch, "/user/library/42", nil, map[string]bool{"favorite": true}, nil))
	assert.Equal(t, int32(2), patches.Load())
}

func TestNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	tr := New(Options{Name: "dead", BaseURL: base}, adapter.NullLogger())
	err := tr.Get(context.Background(), "/games", nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNetwork)
	assert.Equal(t, domain.KindNetwork, domain.KindOf(err))
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var calls atomic.Int32
	r := chi.NewRouter()
	r.Get("/down", func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	tr := newTransport(t, r, Options{MaxRetries: -1, FailureThreshold: 2, OpenTimeout: time.Hour})

	for i := 0; i < 2; i++ {
		require.Error(t, tr.Get(context.Background(), "/down", nil, nil))
	}
	err := tr.Get(context.Background(), "/down", nil, nil)
	assert.ErrorIs(t, err, domain.ErrCircuitOpen)
	assert.ErrorIs(t, err, domain.ErrNetwork)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClientErrorsDoNotTripBreaker(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/missing", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	tr := newTransport(t, r, Options{FailureThreshold: 1, OpenTimeout: time.Hour})
	for i := 0; i < 3; i++ {
		err := tr.Get(context.Background(), "/missing", nil, nil)
		assert.False(t, errors.Is(err, domain.ErrCircuitOpen))
	}
}

func TestMalformedResponse(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/bad", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"id":`))
	})

	tr := newTransport(t, r, Options{})
	var out struct{ ID int }
	err := tr.Get(context.Background(), "/bad", nil, &out)
	assert.ErrorIs(t, err, domain.ErrRemote)
}

func TestCanceledContext(t *testing.T) {
	tr := New(Options{Name: "x", BaseURL: "http://127.0.0.1:1"}, adapter.NullLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := tr.Get(ctx, "/games", nil, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
