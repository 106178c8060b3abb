package library

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/marginalia-app/marginalia/internal/cache"
)

type apiState struct {
	papers   []Paper
	tags     []Tag
	stats    Stats
	failing  atomic.Bool
	getCount atomic.Int64
}

func newTestServer(t *testing.T, state *apiState) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/api/papers", func(w http.ResponseWriter, r *http.Request) {
		state.getCount.Add(1)
		if state.failing.Load() {
			http.Error(w, "down", http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(state.papers)
	})
	mux.HandleFunc("GET /v1/api/papers/{id}", func(w http.ResponseWriter, r *http.Request) {
		state.getCount.Add(1)
		if state.failing.Load() {
			http.Error(w, "down", http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(state.papers[0])
	})
	mux.HandleFunc("GET /v1/api/tags", func(w http.ResponseWriter, r *http.Request) {
		state.getCount.Add(1)
		json.NewEncoder(w).Encode(state.tags)
	})
	mux.HandleFunc("POST /v1/api/tags", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		tag := Tag{ID: len(state.tags) + 1, Name: body["name"]}
		state.tags = append(state.tags, tag)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(tag)
	})
	mux.HandleFunc("GET /v1/api/stats", func(w http.ResponseWriter, r *http.Request) {
		state.getCount.Add(1)
		if state.failing.Load() {
			http.Error(w, "down", http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(state.stats)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func testState() *apiState {
	return &apiState{
		papers: []Paper{{
			ID:        42,
			Title:     "Graph Compression at Scale!!",
			Authors:   []string{"R. Vigna"},
			CreatedAt: time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC),
		}},
		tags:  []Tag{{ID: 1, Name: "graphs"}},
		stats: Stats{Papers: 1, Tags: 1},
	}
}

func TestPapersReadThroughHitsNetworkOnce(t *testing.T) {
	t.Parallel()

	state := testState()
	server := newTestServer(t, state)
	client := NewClient(server.URL, "", cache.New(cache.WithDefaultTTL(time.Minute)))

	for i := 0; i < 3; i++ {
		papers, err := client.Papers(context.Background())
		if err != nil {
			t.Fatalf("papers call %d: %v", i, err)
		}
		if len(papers) != 1 || papers[0].ID != 42 {
			t.Fatalf("unexpected payload: %+v", papers)
		}
	}

	if got := state.getCount.Load(); got != 1 {
		t.Fatalf("expected exactly one network fetch, got %d", got)
	}
}

func TestTagMutationInvalidatesCachedReads(t *testing.T) {
	t.Parallel()

	state := testState()
	server := newTestServer(t, state)
	client := NewClient(server.URL, "", cache.New(cache.WithDefaultTTL(time.Minute)))

	if _, err := client.Tags(context.Background()); err != nil {
		t.Fatalf("prime tags: %v", err)
	}
	before := state.getCount.Load()

	if _, err := client.CreateTag(context.Background(), "compression"); err != nil {
		t.Fatalf("create tag: %v", err)
	}

	tags, err := client.Tags(context.Background())
	if err != nil {
		t.Fatalf("re-read tags: %v", err)
	}
	if len(tags) != 2 {
		t.Fatalf("expected refreshed taxonomy with 2 tags, got %d", len(tags))
	}
	if state.getCount.Load() != before+1 {
		t.Fatal("expected the post-mutation read to hit the network")
	}
}

func TestPapersStaleFallbackOnFetchFailure(t *testing.T) {
	t.Parallel()

	state := testState()
	server := newTestServer(t, state)

	clock := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	c := cache.New(
		cache.WithClock(func() time.Time { return clock }),
		cache.WithDefaultTTL(time.Minute),
	)
	client := NewClient(server.URL, "", c)

	if _, err := client.Papers(context.Background()); err != nil {
		t.Fatalf("prime papers: %v", err)
	}

	// Expire the entry, then take the API down.
	clock = clock.Add(time.Hour)
	state.failing.Store(true)

	papers, err := client.Papers(context.Background())
	if err != nil {
		t.Fatalf("expected stale fallback, got error: %v", err)
	}
	if len(papers) != 1 || papers[0].ID != 42 {
		t.Fatalf("stale payload mismatch: %+v", papers)
	}
}

func TestPapersFailsLoudlyWithNothingCached(t *testing.T) {
	t.Parallel()

	state := testState()
	state.failing.Store(true)
	server := newTestServer(t, state)
	client := NewClient(server.URL, "", cache.New())

	if _, err := client.Papers(context.Background()); err == nil {
		t.Fatal("primary read with no cache must surface the failure")
	}
}

func TestStatsDegradesToZeroValueWithNothingCached(t *testing.T) {
	t.Parallel()

	state := testState()
	state.failing.Store(true)
	server := newTestServer(t, state)
	client := NewClient(server.URL, "", cache.New())

	stats, err := client.Stats(context.Background())
	if err != nil {
		t.Fatalf("informational read must not fail: %v", err)
	}
	if stats != (Stats{}) {
		t.Fatalf("expected zero-value stats, got %+v", stats)
	}
}

func TestStatsStaleFallback(t *testing.T) {
	t.Parallel()

	state := testState()
	server := newTestServer(t, state)

	clock := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	c := cache.New(
		cache.WithClock(func() time.Time { return clock }),
		cache.WithTTL("stats", 5*time.Second),
	)
	client := NewClient(server.URL, "", c)

	if _, err := client.Stats(context.Background()); err != nil {
		t.Fatalf("prime stats: %v", err)
	}

	clock = clock.Add(time.Minute)
	state.failing.Store(true)

	stats, err := client.Stats(context.Background())
	if err != nil {
		t.Fatalf("stats stale read: %v", err)
	}
	if stats.Papers != 1 {
		t.Fatalf("expected last known stats, got %+v", stats)
	}
}

func TestBearerTokenAttachedWhenConfigured(t *testing.T) {
	t.Parallel()

	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]Paper{})
	}))
	t.Cleanup(server.Close)

	client := NewClient(server.URL, "sekrit", cache.New())
	if _, err := client.Papers(context.Background()); err != nil {
		t.Fatalf("papers: %v", err)
	}
	if gotAuth != "Bearer sekrit" {
		t.Fatalf("expected bearer header, got %q", gotAuth)
	}
}
