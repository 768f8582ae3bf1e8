package httpapi

import (
	"bytes"
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/denisok6893-rgb/fuzzy-catalog-ranking/internal/domain"
	"github.com/denisok6893-rgb/fuzzy-catalog-ranking/internal/matching"
	"github.com/denisok6893-rgb/fuzzy-catalog-ranking/internal/storage"
)

func ptr[T any](v T) *T { return &v }

func testEngine() *matching.Engine {
	return matching.NewEngine(matching.DefaultWeights(), matching.Options{
		Now: func() time.Time { return time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC) },
	}, zerolog.Nop())
}

func newTestServer(t *testing.T, items ItemStore) *httptest.Server {
	t.Helper()
	srv := NewServer(testEngine(), items, zerolog.Nop())
	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestGETItems_FiltersAndSort(t *testing.T) {
	t.Parallel()

	// Store is nil: the server starts with an empty in-memory catalog.
	ts := newTestServer(t, nil)

	post := func(r CreateItemRequest) {
		resp := postJSON(t, ts.URL+"/items", r)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("POST /items status=%d", resp.StatusCode)
		}
	}

	post(CreateItemRequest{Title: "A", ReleaseYear: ptr(1998), Runtime: ptr(110.0), SpokenLanguages: "English, French"})
	post(CreateItemRequest{Title: "B", ReleaseYear: ptr(2019), Runtime: ptr(95.0), SpokenLanguages: "fr"})
	post(CreateItemRequest{Title: "C", ReleaseYear: ptr(2022), Runtime: ptr(130.0), SpokenLanguages: "ja"})
	post(CreateItemRequest{Title: "D", ReleaseYear: ptr(2023), OriginalLanguage: "FR"})

	resp, err := http.Get(ts.URL + "/items?language=fr&min_year=2000&sort=year_desc&limit=20&offset=0")
	if err != nil {
		t.Fatalf("GET /items: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /items status=%d", resp.StatusCode)
	}

	var got ItemsListResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Total != 2 {
		t.Fatalf("total=%d want=2", got.Total)
	}
	if len(got.Items) != 2 {
		t.Fatalf("items=%d want=2", len(got.Items))
	}
	if got.Items[0].Title != "D" || got.Items[1].Title != "B" {
		t.Fatalf("titles=%q,%q want D,B", got.Items[0].Title, got.Items[1].Title)
	}
}

func TestGETItems_BadQuery(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, nil)

	for _, q := range []string{"sort=price_desc", "min_year=abc", "min_year=12"} {
		resp, err := http.Get(ts.URL + "/items?" + q)
		if err != nil {
			t.Fatalf("GET /items?%s: %v", q, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("GET /items?%s status=%d want=400", q, resp.StatusCode)
		}
	}
}

func catalog() *storage.MemoryStore {
	return storage.NewMemoryStore([]domain.Item{
		{ID: "a", Title: "Dream House", Runtime: ptr(95.0), ReleaseYear: ptr(2024), VoteAverage: ptr(8.0), VoteCount: ptr(500), Popularity: ptr(10.0), SpokenLanguages: "en", OriginalLanguage: "en"},
		{ID: "b", Title: "Long Night", Runtime: ptr(200.0), ReleaseYear: ptr(1980), VoteAverage: ptr(4.0), VoteCount: ptr(500), Popularity: ptr(10.0), SpokenLanguages: "en", OriginalLanguage: "en"},
	})
}

func TestPOSTRank(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, catalog())

	resp := postJSON(t, ts.URL+"/rank", RankRequest{Length: "Short", Rating: "excellent"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("POST /rank status=%d", resp.StatusCode)
	}
	var got RankResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.RankID == "" {
		t.Fatal("missing rank_id")
	}
	if got.Count != 1 || len(got.Results) != 1 {
		t.Fatalf("count=%d results=%d want=1", got.Count, len(got.Results))
	}
	r := got.Results[0]
	if r.Item.ID != "a" {
		t.Fatalf("id=%s want=a", r.Item.ID)
	}
	if math.Abs(r.Memberships.Length-0.75) > 1e-9 || math.Abs(r.Memberships.Rating-0.5) > 1e-9 {
		t.Fatalf("memberships=%+v", r.Memberships)
	}
	if math.Abs(r.FuzzyScore-0.5) > 1e-9 {
		t.Fatalf("fuzzy=%v want=0.5", r.FuzzyScore)
	}
}

func TestPOSTRank_EmptyResultIsArray(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, catalog())

	resp := postJSON(t, ts.URL+"/rank", RankRequest{})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("POST /rank status=%d", resp.StatusCode)
	}
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(raw["results"]) != "[]" {
		t.Fatalf("results=%s want=[]", raw["results"])
	}
}

func TestPOSTRank_Validation(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, catalog())

	tests := []struct {
		name string
		body any
	}{
		{"unknown rating", RankRequest{Rating: "stellar"}},
		{"unknown language", RankRequest{Language: "xx"}},
		{"top_n too large", RankRequest{TopN: 10000}},
		{"not json", "{"},
	}
	for _, tt := range tests {
		var resp *http.Response
		if s, ok := tt.body.(string); ok {
			var err error
			resp, err = http.Post(ts.URL+"/rank", "application/json", strings.NewReader(s))
			if err != nil {
				t.Fatalf("%s: %v", tt.name, err)
			}
			defer resp.Body.Close()
		} else {
			resp = postJSON(t, ts.URL+"/rank", tt.body)
		}
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("%s: status=%d want=400", tt.name, resp.StatusCode)
		}
	}
}

type failingStore struct {
	*storage.MemoryStore
	err error
}

func (f failingStore) ListItems(context.Context, int) ([]domain.Item, error) {
	return nil, f.err
}

func (f failingStore) CreateItem(context.Context, domain.Item) (domain.Item, error) {
	return domain.Item{}, storage.ErrReadOnly
}

func (f failingStore) DeleteItem(context.Context, string) (bool, error) {
	return false, storage.ErrReadOnly
}

func TestPOSTRank_SourceError(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, failingStore{MemoryStore: catalog(), err: errors.New("connection refused")})

	resp := postJSON(t, ts.URL+"/rank", RankRequest{Length: "short"})
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("status=%d want=502", resp.StatusCode)
	}
}

func TestReadOnlyStore(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, failingStore{MemoryStore: catalog()})

	resp := postJSON(t, ts.URL+"/items", CreateItemRequest{Title: "X"})
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("POST status=%d want=405", resp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/items/a", nil)
	dresp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE: %v", err)
	}
	defer dresp.Body.Close()
	if dresp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("DELETE status=%d want=405", dresp.StatusCode)
	}
}

func TestItemGetAndDelete(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, catalog())

	resp, err := http.Get(ts.URL + "/items/a")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	var it domain.Item
	if err := json.NewDecoder(resp.Body).Decode(&it); err != nil {
		t.Fatalf("decode: %v", err)
	}
	resp.Body.Close()
	if it.Title != "Dream House" || it.VoteCount == nil || *it.VoteCount != 500 {
		t.Fatalf("item=%+v", it)
	}

	del := func() int {
		req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/items/a", nil)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("DELETE: %v", err)
		}
		resp.Body.Close()
		return resp.StatusCode
	}
	if code := del(); code != http.StatusOK {
		t.Fatalf("first DELETE status=%d", code)
	}
	if code := del(); code != http.StatusNotFound {
		t.Fatalf("second DELETE status=%d want=404", code)
	}

	resp, err = http.Get(ts.URL + "/items/a")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("GET deleted status=%d want=404", resp.StatusCode)
	}
}

func TestCreateItemValidation(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, nil)

	for _, body := range []CreateItemRequest{
		{Title: "  "},
		{Title: "X", VoteAverage: ptr(11.0)},
		{Title: "X", Runtime: ptr(-5.0)},
	} {
		resp := postJSON(t, ts.URL+"/items", body)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("body=%+v status=%d want=400", body, resp.StatusCode)
		}
	}
}

func TestHealthAndMetrics(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, nil)

	for _, path := range []string{"/health", "/metrics"} {
		resp, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("GET %s status=%d", path, resp.StatusCode)
		}
	}
}

func TestGETWeights(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/weights")
	if err != nil {
		t.Fatalf("GET /weights: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d", resp.StatusCode)
	}
	var got matching.Weights
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != matching.DefaultWeights() {
		t.Fatalf("weights=%+v want defaults", got)
	}
}
