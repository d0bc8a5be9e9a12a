package services

import (
	"fmt"
	"sort"

	"cses-tracker/models"
	"cses-tracker/storage"
)

// Leaderboard produces a ranked view over all persisted stats snapshots.
type Leaderboard struct {
	stats storage.StatsReader
}

// NewLeaderboard builds a Leaderboard over the given stats source.
func NewLeaderboard(stats storage.StatsReader) *Leaderboard {
	return &Leaderboard{stats: stats}
}

// Rows loads every user's current stats, derives progress and sorts by
// solved count descending. The sort is stable, so users tied on solved
// count keep their discovery order.
func (l *Leaderboard) Rows() ([]*models.LeaderboardRow, error) {
	all, err := l.stats.ReadAllStats()
	if err != nil {
		return nil, fmt.Errorf("load leaderboard: %w", err)
	}

	rows := make([]*models.LeaderboardRow, 0, len(all))
	for _, s := range all {
		row := &models.LeaderboardRow{
			Username:    s.Username,
			SolvedCount: s.SolvedCount,
			TotalCount:  s.TotalCount,
			LastUpdated: s.LastUpdated,
		}
		if s.TotalCount > 0 {
			row.Progress = float64(s.SolvedCount) / float64(s.TotalCount) * 100
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].SolvedCount > rows[j].SolvedCount
	})

	return rows, nil
}
