package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"cses-tracker/config"
	"cses-tracker/models"
	"cses-tracker/scraper/cses"
	"cses-tracker/storage"
	"cses-tracker/utils"
)

// sessionHandle couples the driver capabilities with session teardown.
type sessionHandle interface {
	cses.Driver
	Close()
}

// ScrapeService runs the full pipeline for one user: credentials →
// session → login → extraction → aggregation → persistence. One run is
// strictly sequential; concurrent runs for different users are isolated
// except for the shared data directory.
type ScrapeService struct {
	cfg     *config.Config
	logger  *utils.Logger
	store   storage.SnapshotWriter
	mirror  storage.StatsMirror
	metrics *cses.Metrics
	pacer   utils.Pacer

	open func() (sessionHandle, error)
}

// NewScrapeService wires the pipeline. mirror may be nil to disable the
// Postgres stats mirror.
func NewScrapeService(
	cfg *config.Config,
	logger *utils.Logger,
	store storage.SnapshotWriter,
	mirror storage.StatsMirror,
	metrics *cses.Metrics,
) *ScrapeService {
	s := &ScrapeService{
		cfg:     cfg,
		logger:  logger.WithPrefix("scrape"),
		store:   store,
		mirror:  mirror,
		metrics: metrics,
		pacer:   utils.NewPacer(cfg.PacingEnabled),
	}
	s.open = func() (sessionHandle, error) {
		return cses.OpenSession(cfg, s.logger)
	}
	return s
}

// Run scrapes one user by index and persists the snapshot artifacts.
// The session is torn down on every path once it has been opened.
func (s *ScrapeService) Run(userIndex int) (*models.ScrapeResult, error) {
	start := time.Now()
	runID := uuid.NewString()[:8]

	username, password, ok := s.cfg.Credentials(userIndex)
	if !ok {
		s.metrics.IncScrape("config_error")
		return nil, ErrCredentialsNotFound{Index: userIndex}
	}

	s.logger.Info("run %s: scraping user %s (index %d)", runID, username, userIndex)

	sess, err := s.open()
	if err != nil {
		s.metrics.IncScrape("session_error")
		return nil, ErrSessionFailed{Err: err}
	}
	defer sess.Close()

	loginOK, message := cses.Login(sess, s.pacer, username, password)
	if !loginOK {
		s.metrics.IncLoginFailure()
		s.metrics.IncScrape("login_failed")
		s.logger.Warn("run %s: %s", runID, message)
		return nil, ErrLoginFailed{Reason: message}
	}
	s.logger.Info("run %s: logged in", runID)

	set, err := cses.ExtractProblems(sess, s.pacer, s.logger)
	if err != nil {
		s.metrics.IncScrape("extraction_failed")
		return nil, ErrExtractionFailed{Err: err}
	}
	s.metrics.AddProblems(set.TotalProblems())
	s.logger.Info("run %s: extracted %d problems (%d solved)",
		runID, set.TotalProblems(), set.TotalSolved())

	now := time.Now()
	stats := BuildStats(set, username, now)

	files, err := s.store.Write(username, Timestamp(now), set)
	if err != nil {
		s.metrics.IncScrape("storage_error")
		return nil, err
	}
	statsPath, err := s.store.WriteStats(username, stats)
	if err != nil {
		s.metrics.IncScrape("storage_error")
		return nil, err
	}
	files.Stats = statsPath

	// Mirror failures are logged, never fatal; the files on disk are the
	// source of truth.
	if s.mirror != nil {
		if err := s.mirror.UpsertStats(stats); err != nil {
			s.logger.Warn("run %s: stats mirror failed: %v", runID, err)
		}
	}

	s.metrics.IncScrape("success")
	s.metrics.ObserveDuration(time.Since(start))
	s.logger.Info("run %s: done in %v", runID, time.Since(start).Round(time.Millisecond))

	return &models.ScrapeResult{
		Status:        "success",
		Message:       fmt.Sprintf("Data saved for user %s", username),
		SolvedCount:   set.TotalSolved(),
		TotalProblems: set.TotalProblems(),
		Files:         files,
	}, nil
}
