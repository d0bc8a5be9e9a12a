package storage

import "cses-tracker/models"

// SnapshotWriter persists the artifacts of one scrape run.
type SnapshotWriter interface {
	Write(username, timestamp string, set *models.ProblemSet) (*models.SnapshotFiles, error)
	WriteStats(username string, stats *models.UserStats) (string, error)
}

// StatsReader loads the current stats snapshot of every known user.
type StatsReader interface {
	ReadAllStats() ([]*models.UserStats, error)
}

// StatsMirror is an optional secondary sink for the current stats snapshot.
type StatsMirror interface {
	UpsertStats(stats *models.UserStats) error
	Close() error
}
