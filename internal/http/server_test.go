package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"jarify/internal/core"
	"jarify/internal/kv"
	"jarify/internal/services"
	"jarify/internal/storage"
)

func newTestServer(t *testing.T, now time.Time) *Server {
	t.Helper()
	store := storage.New(kv.NewMemoryStore(), nil)
	clock := func() time.Time { return now }
	jars := services.NewJarService(store, nil, clock)
	reports := services.NewReportService(store, clock)
	recurring := services.NewRecurringService(store, nil, nil, clock)
	s := NewServer("127.0.0.1:0", jars, reports, recurring, nil)
	t.Cleanup(func() { s.rateLimiter.stop() })
	return s
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rec.Body.String())
	}
	return out
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t, time.Now())

	for _, path := range []string{"/healthz", "/readyz"} {
		rec := doJSON(t, s, http.MethodGet, path, nil)
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", path, rec.Code)
		}
	}
}

func TestJarLifecycle(t *testing.T) {
	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	s := newTestServer(t, now)

	rec := doJSON(t, s, http.MethodPost, "/jars", map[string]any{
		"name":   "Vacation",
		"target": 50000,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /jars = %d, body %s", rec.Code, rec.Body.String())
	}
	created := decode[core.Jar](t, rec)
	if created.ID == 0 || created.Name != "Vacation" {
		t.Fatalf("created jar = %+v", created)
	}

	rec = doJSON(t, s, http.MethodGet, "/jars", nil)
	if jars := decode[[]core.Jar](t, rec); len(jars) != 1 {
		t.Fatalf("GET /jars len = %d, want 1", len(jars))
	}

	rec = doJSON(t, s, http.MethodGet, fmt.Sprintf("/jars/%d", created.ID), nil)
	if rec.Code != http.StatusOK {
		t.Errorf("GET /jars/{id} = %d", rec.Code)
	}

	created.Name = "Renamed"
	rec = doJSON(t, s, http.MethodPut, fmt.Sprintf("/jars/%d", created.ID), created)
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT /jars/{id} = %d, body %s", rec.Code, rec.Body.String())
	}
	if got := decode[core.Jar](t, rec); got.Name != "Renamed" {
		t.Errorf("updated name = %s", got.Name)
	}

	rec = doJSON(t, s, http.MethodDelete, fmt.Sprintf("/jars/%d", created.ID), nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("DELETE /jars/{id} = %d", rec.Code)
	}
	rec = doJSON(t, s, http.MethodDelete, fmt.Sprintf("/jars/%d", created.ID), nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("second DELETE = %d, want 404", rec.Code)
	}
}

func TestJarValidationErrors(t *testing.T) {
	s := newTestServer(t, time.Now())

	rec := doJSON(t, s, http.MethodPost, "/jars", map[string]any{"name": "  "})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("blank name = %d, want 422", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/jars", bytes.NewBufferString("{not json"))
	rec2 := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec2, req)
	if rec2.Code != http.StatusBadRequest {
		t.Errorf("malformed body = %d, want 400", rec2.Code)
	}

	rec = doJSON(t, s, http.MethodGet, "/jars/abc", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad id = %d, want 400", rec.Code)
	}
}

func TestDepositAndWithdraw(t *testing.T) {
	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	s := newTestServer(t, now)

	rec := doJSON(t, s, http.MethodPost, "/jars", map[string]any{"name": "Vacation", "target": 50000})
	created := decode[core.Jar](t, rec)

	rec = doJSON(t, s, http.MethodPost, "/jars/deposit", map[string]any{"jarId": created.ID, "amount": 20000})
	if rec.Code != http.StatusOK {
		t.Fatalf("deposit = %d, body %s", rec.Code, rec.Body.String())
	}
	if jar := decode[core.Jar](t, rec); jar.Saved.Cents != 20000 {
		t.Errorf("Saved = %d, want 20000", jar.Saved.Cents)
	}

	rec = doJSON(t, s, http.MethodPost, "/jars/withdraw", map[string]any{"jarId": created.ID, "amount": 5000})
	jar := decode[core.Jar](t, rec)
	if jar.Saved.Cents != 15000 || jar.Withdrawn.Cents != 5000 {
		t.Errorf("Saved = %d, Withdrawn = %d", jar.Saved.Cents, jar.Withdrawn.Cents)
	}

	rec = doJSON(t, s, http.MethodPost, "/jars/deposit", map[string]any{"jarId": 999, "amount": 100})
	if rec.Code != http.StatusNotFound {
		t.Errorf("deposit to missing jar = %d, want 404", rec.Code)
	}

	rec = doJSON(t, s, http.MethodPost, "/jars/deposit", map[string]any{"jarId": created.ID, "amount": -5})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("negative deposit = %d, want 422", rec.Code)
	}
}

func TestSummaryReflectsMutations(t *testing.T) {
	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	s := newTestServer(t, now)

	rec := doJSON(t, s, http.MethodPost, "/jars", map[string]any{"name": "A", "target": 1000})
	created := decode[core.Jar](t, rec)

	rec = doJSON(t, s, http.MethodGet, "/reports/summary?range=all", nil)
	if sum := decode[core.Summary](t, rec); sum.TotalSaved.Cents != 0 {
		t.Errorf("TotalSaved = %d, want 0", sum.TotalSaved.Cents)
	}

	doJSON(t, s, http.MethodPost, "/jars/deposit", map[string]any{"jarId": created.ID, "amount": 250})

	// The mutation invalidates the report cache.
	rec = doJSON(t, s, http.MethodGet, "/reports/summary?range=all", nil)
	if sum := decode[core.Summary](t, rec); sum.TotalSaved.Cents != 250 {
		t.Errorf("TotalSaved = %d, want 250", sum.TotalSaved.Cents)
	}

	rec = doJSON(t, s, http.MethodGet, "/reports/summary?range=decade", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad range = %d, want 400", rec.Code)
	}
}

func TestFoldersEndpoint(t *testing.T) {
	s := newTestServer(t, time.Now())

	rec := doJSON(t, s, http.MethodGet, "/folders", nil)
	if folders := decode[[]core.Folder](t, rec); len(folders) != 3 {
		t.Fatalf("GET /folders len = %d, want 3 defaults", len(folders))
	}

	rec = doJSON(t, s, http.MethodPut, "/folders", []core.Folder{{ID: 10, Name: "Custom"}})
	if folders := decode[[]core.Folder](t, rec); len(folders) != 4 {
		t.Errorf("PUT /folders len = %d, want defaults plus custom", len(folders))
	}
}

func TestCalcEndpoints(t *testing.T) {
	s := newTestServer(t, time.Now())

	rec := doJSON(t, s, http.MethodGet, "/calc/months?target=20000&current=5000&monthly=400", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("calc/months = %d", rec.Code)
	}
	if got := decode[monthsResponse](t, rec); got.Months != 38 {
		t.Errorf("Months = %d, want 38", got.Months)
	}

	rec = doJSON(t, s, http.MethodGet, "/calc/compound?principal=1000&rate=10&years=1", nil)
	if got := decode[calcResponse](t, rec); got.Result != 1100 {
		t.Errorf("compound = %v, want 1100", got.Result)
	}

	rec = doJSON(t, s, http.MethodGet, "/calc/emi?principal=abc&rate=8&years=5", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad emi params = %d, want 400", rec.Code)
	}

	rec = doJSON(t, s, http.MethodGet, "/calc/compound?principal=0&rate=5&years=10", nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("zero principal = %d, want 422", rec.Code)
	}
}

func TestDarkModeAndReset(t *testing.T) {
	s := newTestServer(t, time.Now())

	rec := doJSON(t, s, http.MethodPut, "/settings/darkmode", map[string]any{"darkMode": true})
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT darkmode = %d", rec.Code)
	}
	rec = doJSON(t, s, http.MethodGet, "/settings/darkmode", nil)
	if got := decode[darkModeResponse](t, rec); !got.DarkMode {
		t.Error("DarkMode = false after enable")
	}

	doJSON(t, s, http.MethodPost, "/jars", map[string]any{"name": "A", "target": 100})
	rec = doJSON(t, s, http.MethodPost, "/settings/reset", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("reset = %d", rec.Code)
	}
	rec = doJSON(t, s, http.MethodGet, "/jars", nil)
	if jars := decode[[]core.Jar](t, rec); len(jars) != 0 {
		t.Errorf("jars after reset = %d, want 0", len(jars))
	}
}

func TestProcessRecurringEndpoint(t *testing.T) {
	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	s := newTestServer(t, now)

	weekday := 6
	rec := doJSON(t, s, http.MethodPost, "/jars", map[string]any{
		"name":   "Scheduled",
		"target": 100000,
		"recurringTransaction": map[string]any{
			"enabled":   true,
			"frequency": "weekly",
			"amount":    2500,
			"weekday":   weekday,
			"nextDate":  now.Add(-time.Hour).Format(time.RFC3339),
		},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /jars = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, s, http.MethodPost, "/recurring/process", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("process = %d", rec.Code)
	}
	if got := decode[processResponse](t, rec); got.Processed != 1 {
		t.Errorf("Processed = %d, want 1", got.Processed)
	}

	rec = doJSON(t, s, http.MethodGet, "/jars", nil)
	jars := decode[[]core.Jar](t, rec)
	if jars[0].Saved.Cents != 2500 {
		t.Errorf("Saved = %d, want 2500", jars[0].Saved.Cents)
	}
	if !jars[0].Recurring.NextDate.After(now) {
		t.Error("NextDate should move into the future")
	}
}

func TestRateLimiter(t *testing.T) {
	rl := newRateLimiter()
	defer rl.stop()

	for i := 0; i < 60; i++ {
		if !rl.allow("1.2.3.4") {
			t.Fatalf("request %d blocked, want first 60 allowed", i+1)
		}
	}
	if rl.allow("1.2.3.4") {
		t.Error("request 61 allowed, want blocked")
	}
	if !rl.allow("5.6.7.8") {
		t.Error("other client blocked")
	}
}
