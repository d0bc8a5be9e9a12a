// Package api exposes the scrape trigger and the leaderboard page over
// HTTP.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"cses-tracker/models"
	"cses-tracker/scraper/cses"
	"cses-tracker/services"
	"cses-tracker/utils"
)

// Scraper triggers one scrape run. Satisfied by services.ScrapeService.
type Scraper interface {
	Run(userIndex int) (*models.ScrapeResult, error)
}

// LeaderboardSource provides the ranked rows. Satisfied by
// services.Leaderboard.
type LeaderboardSource interface {
	Rows() ([]*models.LeaderboardRow, error)
}

// Server wires the HTTP routes around the scrape pipeline.
type Server struct {
	router      *chi.Mux
	logger      *utils.Logger
	scraper     Scraper
	leaderboard LeaderboardSource
	metrics     *cses.Metrics
}

// NewServer builds the router. metrics may be nil to skip the /metrics
// endpoint.
func NewServer(logger *utils.Logger, scraper Scraper, leaderboard LeaderboardSource, metrics *cses.Metrics) *Server {
	s := &Server{
		logger:      logger.WithPrefix("http"),
		scraper:     scraper,
		leaderboard: leaderboard,
		metrics:     metrics,
	}
	s.setupRouter()
	return s
}

// Router returns the configured handler.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) setupRouter() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)
	// A scrape run holds the connection for the whole browser session.
	r.Use(middleware.Timeout(5 * time.Minute))

	r.Get("/health", s.handleHealth)
	r.Get("/scrape/{userIndex}", s.handleScrape)
	r.Get("/leaderboard", s.handleLeaderboard)

	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics",
			promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{}))
	}

	s.router = r
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			s.logger.Info("%s %s -> %d (%dms, req %s)",
				r.Method, r.URL.Path, ww.Status(),
				time.Since(start).Milliseconds(),
				middleware.GetReqID(r.Context()))
		}()

		next.ServeHTTP(ww, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	userIndex, err := strconv.Atoi(chi.URLParam(r, "userIndex"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "user index must be an integer")
		return
	}

	result, err := s.scraper.Run(userIndex)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	rows, err := s.leaderboard.Rows()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := renderLeaderboard(w, rows, time.Now()); err != nil {
		s.logger.Error("render leaderboard: %v", err)
	}
}

// statusFor maps pipeline error classes onto HTTP status codes: missing
// credentials are a not-found condition, a rejected handshake is
// unauthorized, everything else is a server fault.
func statusFor(err error) int {
	var notFound services.ErrCredentialsNotFound
	if errors.As(err, &notFound) {
		return http.StatusNotFound
	}
	var login services.ErrLoginFailed
	if errors.As(err, &login) {
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
