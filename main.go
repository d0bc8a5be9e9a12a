package main

import (
	"net/http"
	"os"

	"cses-tracker/api"
	"cses-tracker/config"
	"cses-tracker/scraper/cses"
	"cses-tracker/services"
	"cses-tracker/storage"
	"cses-tracker/utils"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()

	logger.Info("=== CSES Progress Tracker starting ===")
	logger.Info("Config — addr: %s | data dir: %s | pacing: %v",
		cfg.Addr(), cfg.DataDir, cfg.PacingEnabled)

	store := storage.NewSnapshotStore(cfg.DataDir)

	var mirror storage.StatsMirror
	if cfg.PostgresDSN != "" {
		pg, err := storage.NewPostgresMirror(cfg.PostgresDSN)
		if err != nil {
			logger.Error("Failed to connect to PostgreSQL: %v", err)
			os.Exit(1)
		}
		defer pg.Close()
		mirror = pg
		logger.Info("Stats mirror enabled (table: user_stats)")
	}

	metrics := cses.NewMetrics()
	scrapeSvc := services.NewScrapeService(cfg, logger, store, mirror, metrics)
	leaderboard := services.NewLeaderboard(store)

	server := api.NewServer(logger, scrapeSvc, leaderboard, metrics)

	logger.Info("Listening on %s", cfg.Addr())
	if err := http.ListenAndServe(cfg.Addr(), server.Router()); err != nil {
		logger.Error("Server stopped: %v", err)
		os.Exit(1)
	}
}
