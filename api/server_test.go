package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cses-tracker/models"
	"cses-tracker/scraper/cses"
	"cses-tracker/services"
	"cses-tracker/utils"
)

type fakeScraper struct {
	result *models.ScrapeResult
	err    error
	gotIdx int
}

func (f *fakeScraper) Run(userIndex int) (*models.ScrapeResult, error) {
	f.gotIdx = userIndex
	return f.result, f.err
}

type fakeLeaderboard struct {
	rows []*models.LeaderboardRow
	err  error
}

func (f *fakeLeaderboard) Rows() ([]*models.LeaderboardRow, error) {
	return f.rows, f.err
}

func newTestServer(scraper Scraper, lb LeaderboardSource) *Server {
	return NewServer(utils.NewLogger(), scraper, lb, cses.NewMetrics())
}

func TestScrapeEndpointSuccess(t *testing.T) {
	scraper := &fakeScraper{result: &models.ScrapeResult{
		Status:        "success",
		Message:       "Data saved for user alice",
		SolvedCount:   3,
		TotalProblems: 10,
		Files:         &models.SnapshotFiles{Stats: "/data/alice/stats.json"},
	}}
	srv := newTestServer(scraper, &fakeLeaderboard{})

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/scrape/3", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	if scraper.gotIdx != 3 {
		t.Errorf("user index: got %d, want 3", scraper.gotIdx)
	}

	var body models.ScrapeResult
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.SolvedCount != 3 || body.TotalProblems != 10 {
		t.Errorf("body: %+v", body)
	}
}

func TestScrapeEndpointErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"missing credentials", services.ErrCredentialsNotFound{Index: 9}, http.StatusNotFound},
		{"login rejected", services.ErrLoginFailed{Reason: "Login failed. Please check credentials."}, http.StatusUnauthorized},
		{"extraction failed", services.ErrExtractionFailed{Err: cses.ErrNoProblems}, http.StatusInternalServerError},
		{"storage fault", errors.New("disk full"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(&fakeScraper{err: tt.err}, &fakeLeaderboard{})

			rec := httptest.NewRecorder()
			srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/scrape/1", nil))

			if rec.Code != tt.want {
				t.Errorf("status: got %d, want %d", rec.Code, tt.want)
			}
			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatal(err)
			}
			if body["error"] == "" {
				t.Error("error envelope missing message")
			}
		})
	}
}

func TestScrapeEndpointBadIndex(t *testing.T) {
	srv := newTestServer(&fakeScraper{}, &fakeLeaderboard{})

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/scrape/abc", nil))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}
}

func TestLeaderboardEndpointRendersRows(t *testing.T) {
	lb := &fakeLeaderboard{rows: []*models.LeaderboardRow{
		{Username: "alice", SolvedCount: 9, TotalCount: 10, Progress: 90, LastUpdated: "2026-08-30 12:00:00"},
		{Username: "bob", SolvedCount: 5, TotalCount: 10, Progress: 50, LastUpdated: "2026-08-30 11:00:00"},
	}}
	srv := newTestServer(&fakeScraper{}, lb)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/leaderboard", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "alice") || !strings.Contains(body, "9 / 10") {
		t.Errorf("leaderboard page missing row content:\n%s", body)
	}
	if strings.Index(body, "alice") > strings.Index(body, "bob") {
		t.Error("rows must render in ranked order")
	}
}

func TestLeaderboardEndpointError(t *testing.T) {
	srv := newTestServer(&fakeScraper{}, &fakeLeaderboard{err: errors.New("enumeration failed")})

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/leaderboard", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status: got %d, want 500", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(&fakeScraper{}, &fakeLeaderboard{})

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status: got %d, want 200", rec.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(&fakeScraper{}, &fakeLeaderboard{})

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status: got %d, want 200", rec.Code)
	}
}
