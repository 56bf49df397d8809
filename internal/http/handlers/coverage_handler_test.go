// README: Handler tests for the coverage and grid endpoints.
package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	httptransport "skyline/internal/http"
	"skyline/internal/modules/coverage"
	"skyline/internal/modules/elevation"
	"skyline/internal/types"
)

// flatFetcher serves zero elevation for everything, instantly.
type flatFetcher struct{}

func (flatFetcher) Lookup(_ context.Context, p types.Point) (elevation.Sample, error) {
	return elevation.Sample{Point: p}, nil
}

func (flatFetcher) FetchAll(_ context.Context, points []types.Point, onProgress elevation.ProgressFunc) ([]elevation.Sample, error) {
	samples := make([]elevation.Sample, 0, len(points))
	for _, p := range points {
		samples = append(samples, elevation.Sample{Point: p})
	}
	if onProgress != nil {
		onProgress(1, 1)
	}
	return samples, nil
}

func buildTestServer() (http.Handler, *coverage.Store) {
	gin.SetMode(gin.TestMode)
	cfg := coverage.Config{NumRadials: 4, MaxRangeKm: 10, IntervalKm: 1, KFactor: coverage.DefaultKFactor}
	svc := coverage.NewService(flatFetcher{}, cfg, nil)
	store := coverage.NewStore()
	svc.OnResult(store.Add)

	srv := httptransport.NewServer(httptransport.ServerDeps{
		Coverage: svc,
		Results:  store,
	})
	return srv.Routes(), store
}

func doJSON(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestStartRejectsBadBody(t *testing.T) {
	r, _ := buildTestServer()
	w := doJSON(r, http.MethodPost, "/api/coverage", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for empty body, got %d", w.Code)
	}
}

func TestStartRejectsNonPositiveAntenna(t *testing.T) {
	r, _ := buildTestServer()
	w := doJSON(r, http.MethodPost, "/api/coverage", map[string]any{
		"lat": 41.0082, "lng": 28.9784, "antenna_height_m": 0,
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for zero antenna height, got %d", w.Code)
	}
}

func TestStartAndFetchResult(t *testing.T) {
	r, store := buildTestServer()
	w := doJSON(r, http.MethodPost, "/api/coverage", map[string]any{
		"lat": 41.0082, "lng": 28.9784, "antenna_height_m": 25,
	})
	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", w.Code, w.Body.String())
	}
	var accepted struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &accepted); err != nil || accepted.ID == "" {
		t.Fatalf("bad accept payload: %s", w.Body.String())
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, ok := store.Get(types.ID(accepted.ID)); ok {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("result never retained")
		}
		time.Sleep(5 * time.Millisecond)
	}

	w = doJSON(r, http.MethodGet, "/api/coverage/results/"+accepted.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for retained result, got %d", w.Code)
	}
	var result coverage.Result
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if len(result.Rays) != 4 {
		t.Errorf("rays = %d, want 4", len(result.Rays))
	}
	// No label supplied: the handler fills in the observer's 6-char locator.
	if result.GridLabel != "KN41LA" {
		t.Errorf("grid label = %q, want KN41LA", result.GridLabel)
	}

	w = doJSON(r, http.MethodDelete, "/api/coverage/results/"+accepted.ID, nil)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 for delete, got %d", w.Code)
	}
	w = doJSON(r, http.MethodGet, "/api/coverage/results/"+accepted.ID, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", w.Code)
	}
}

func TestStatusEndpoint(t *testing.T) {
	r, _ := buildTestServer()
	w := doJSON(r, http.MethodGet, "/api/coverage/status", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var status struct {
		State string `json:"state"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if status.State != string(coverage.StateIdle) {
		t.Errorf("state = %q, want idle", status.State)
	}
}

func TestGridEndpoints(t *testing.T) {
	r, _ := buildTestServer()

	w := doJSON(r, http.MethodGet, "/api/grid/encode?lat=41.0082&lng=28.9784&precision=6", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("encode: expected 200, got %d", w.Code)
	}
	var encoded struct {
		Locator string `json:"locator"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &encoded); err != nil || encoded.Locator != "KN41LA" {
		t.Fatalf("encode payload = %s", w.Body.String())
	}

	w = doJSON(r, http.MethodGet, "/api/grid/KN41kb", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("decode: expected 200, got %d", w.Code)
	}

	w = doJSON(r, http.MethodGet, "/api/grid/NOPE1", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("decode invalid: expected 400, got %d", w.Code)
	}
}

func TestCancelEndpointAlwaysOK(t *testing.T) {
	r, _ := buildTestServer()
	w := doJSON(r, http.MethodPost, "/api/coverage/cancel", nil)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}
