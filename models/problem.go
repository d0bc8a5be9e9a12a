// Package models defines the data structures shared across the tracker.
package models

// ProblemRecord is one problem as scraped from the CSES problem list.
// Identity is the (section, name) pair; records are never mutated after
// extraction.
type ProblemRecord struct {
	Name    string `json:"name"`
	Link    string `json:"link"`
	Section string `json:"section"`
	Solved  bool   `json:"solved"`
}

// ProblemSet partitions the extracted problems into solved and unsolved.
// A problem appears in exactly one of the two slices.
type ProblemSet struct {
	Solved   []*ProblemRecord
	Unsolved []*ProblemRecord
}

// TotalSolved returns the number of solved problems.
func (ps *ProblemSet) TotalSolved() int {
	return len(ps.Solved)
}

// TotalProblems returns the combined size of both partitions.
func (ps *ProblemSet) TotalProblems() int {
	return len(ps.Solved) + len(ps.Unsolved)
}

// Empty reports whether the extraction produced no records at all.
func (ps *ProblemSet) Empty() bool {
	return len(ps.Solved) == 0 && len(ps.Unsolved) == 0
}

// SectionStats holds per-section solve counters.
type SectionStats struct {
	Solved int `json:"solved"`
	Total  int `json:"total"`
}

// UserStats is the aggregated snapshot written to stats.json and re-read
// by the leaderboard.
type UserStats struct {
	Username    string                   `json:"username"`
	Timestamp   string                   `json:"timestamp"`
	SolvedCount int                      `json:"solved_count"`
	TotalCount  int                      `json:"total_count"`
	LastUpdated string                   `json:"last_updated"`
	Sections    map[string]*SectionStats `json:"sections"`
}

// SnapshotFiles lists the artifact paths produced by one scrape run.
type SnapshotFiles struct {
	Solved   string `json:"solved"`
	Unsolved string `json:"unsolved"`
	Stats    string `json:"stats"`
}

// ScrapeResult is the caller-facing outcome of a successful scrape.
type ScrapeResult struct {
	Status        string         `json:"status"`
	Message       string         `json:"message"`
	SolvedCount   int            `json:"solved_count"`
	TotalProblems int            `json:"total_problems"`
	Files         *SnapshotFiles `json:"files"`
}

// LeaderboardRow is one ranked entry served to the leaderboard page.
type LeaderboardRow struct {
	Username    string  `json:"username"`
	SolvedCount int     `json:"solved_count"`
	TotalCount  int     `json:"total_count"`
	Progress    float64 `json:"progress"`
	LastUpdated string  `json:"last_updated"`
}
