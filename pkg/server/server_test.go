package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"sync/atomic"
	"testing"

	"github.com/dagmin/dagmin/pkg/cache"
	"github.com/dagmin/dagmin/pkg/observability"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	ts := httptest.NewServer(New(WithCache(c)).Handler())
	t.Cleanup(func() {
		ts.Close()
		c.Close()
	})
	return ts
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

var diamondGraph = map[string]any{
	"edges": []map[string]string{
		{"from": "A", "to": "B"},
		{"from": "B", "to": "C"},
		{"from": "D", "to": "C"},
	},
}

func TestSolveEndpoint(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/solve", diamondGraph)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	got := decode[solveResponse](t, resp)
	if !got.Completed {
		t.Error("expected a completed result")
	}
	if !slices.Equal(got.DriverSet, []string{"A", "D"}) {
		t.Errorf("DriverSet = %v, want [A D]", got.DriverSet)
	}
	if got.K != 2 || got.K0 != 2 {
		t.Errorf("K = %d, K0 = %d, want 2, 2", got.K, got.K0)
	}
	if got.Cached {
		t.Error("first solve should not be cached")
	}
	if got.RunID == "" {
		t.Error("missing run ID")
	}
}

func TestSolveEndpointCaches(t *testing.T) {
	ts := newTestServer(t)

	first := decode[solveResponse](t, postJSON(t, ts.URL+"/api/solve", diamondGraph))
	second := decode[solveResponse](t, postJSON(t, ts.URL+"/api/solve", diamondGraph))

	if !second.Cached {
		t.Error("second solve of the same graph should hit the cache")
	}
	if !slices.Equal(first.DriverSet, second.DriverSet) {
		t.Errorf("cached DriverSet = %v, want %v", second.DriverSet, first.DriverSet)
	}
	if second.RunID == first.RunID {
		t.Error("cached response should carry a fresh run ID")
	}
}

// cacheHookRecorder counts cache events emitted by the solve endpoint.
type cacheHookRecorder struct {
	observability.NoopCacheHooks
	hits, misses, sets atomic.Int64
}

func (r *cacheHookRecorder) OnCacheHit(context.Context, string)      { r.hits.Add(1) }
func (r *cacheHookRecorder) OnCacheMiss(context.Context, string)     { r.misses.Add(1) }
func (r *cacheHookRecorder) OnCacheSet(context.Context, string, int) { r.sets.Add(1) }

func TestSolveEndpointEmitsCacheEvents(t *testing.T) {
	rec := &cacheHookRecorder{}
	observability.SetCacheHooks(rec)
	t.Cleanup(observability.Reset)

	ts := newTestServer(t)

	// First request misses and stores, second hits.
	postJSON(t, ts.URL+"/api/solve", diamondGraph)
	postJSON(t, ts.URL+"/api/solve", diamondGraph)

	if got := rec.misses.Load(); got != 1 {
		t.Errorf("misses = %d, want 1", got)
	}
	if got := rec.sets.Load(); got != 1 {
		t.Errorf("sets = %d, want 1", got)
	}
	if got := rec.hits.Load(); got != 1 {
		t.Errorf("hits = %d, want 1", got)
	}
}

func TestSolveEndpointMalformed(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/api/solve", "application/json", bytes.NewReader([]byte("{not json")))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	got := decode[errorResponse](t, resp)
	if got.Code != "MALFORMED_INPUT" {
		t.Errorf("error code = %q, want MALFORMED_INPUT", got.Code)
	}
}

func TestVerifyEndpoint(t *testing.T) {
	ts := newTestServer(t)

	body := map[string]any{
		"edges":      diamondGraph["edges"],
		"driver_set": []string{"A", "D"},
	}
	got := decode[verifyResponse](t, postJSON(t, ts.URL+"/api/verify", body))
	if !got.Valid {
		t.Error("driver set [A D] should verify")
	}

	body["driver_set"] = []string{"A"}
	got = decode[verifyResponse](t, postJSON(t, ts.URL+"/api/verify", body))
	if got.Valid {
		t.Error("driver set [A] should not verify")
	}
}

func TestVerifyEndpointUnknownNode(t *testing.T) {
	ts := newTestServer(t)

	body := map[string]any{
		"edges":      diamondGraph["edges"],
		"driver_set": []string{"A", "nope"},
	}
	resp := postJSON(t, ts.URL+"/api/verify", body)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	got := decode[errorResponse](t, resp)
	if got.Code != "NOT_FOUND" {
		t.Errorf("error code = %q, want NOT_FOUND", got.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	got := decode[map[string]string](t, resp)
	if got["status"] != "ok" {
		t.Errorf("status = %q, want ok", got["status"])
	}
}

func TestVersionEndpoint(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/version")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()

	got := decode[map[string]string](t, resp)
	if got["version"] == "" {
		t.Error("missing version field")
	}
}
