// Package services holds the scrape pipeline, the stats aggregation and
// the leaderboard view on top of the stored snapshots.
package services

import (
	"time"

	"cses-tracker/models"
)

const (
	// timestampLayout qualifies the raw snapshot filenames.
	timestampLayout = "20060102_150405"
	// lastUpdatedLayout is the human-readable form shown on the leaderboard.
	lastUpdatedLayout = "2006-01-02 15:04:05"
)

// Timestamp formats a snapshot timestamp.
func Timestamp(now time.Time) string {
	return now.Format(timestampLayout)
}

// BuildStats folds a ProblemSet into per-section and total counters.
// Pure: the same set and instant always produce identical output.
//
// The section counters are filled in two passes: the solved pass
// increments each section's solved counter, then a pass over solved and
// unsolved together increments total. Sections that only ever appear in
// the unsolved list therefore end up with solved == 0.
func BuildStats(set *models.ProblemSet, username string, now time.Time) *models.UserStats {
	stats := &models.UserStats{
		Username:    username,
		Timestamp:   now.Format(timestampLayout),
		SolvedCount: set.TotalSolved(),
		TotalCount:  set.TotalProblems(),
		LastUpdated: now.Format(lastUpdatedLayout),
		Sections:    make(map[string]*models.SectionStats),
	}

	for _, p := range set.Solved {
		section := sectionOf(stats, p.Section)
		section.Solved++
	}

	for _, p := range append(append([]*models.ProblemRecord{}, set.Solved...), set.Unsolved...) {
		section := sectionOf(stats, p.Section)
		section.Total++
	}

	return stats
}

func sectionOf(stats *models.UserStats, name string) *models.SectionStats {
	if s, ok := stats.Sections[name]; ok {
		return s
	}
	s := &models.SectionStats{}
	stats.Sections[name] = s
	return s
}
