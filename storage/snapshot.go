package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"cses-tracker/models"
)

// solvedSnapshot is the on-disk shape of solved_<timestamp>.json.
type solvedSnapshot struct {
	TotalSolved int                     `json:"total_solved"`
	Problems    []*models.ProblemRecord `json:"problems"`
}

// unsolvedSnapshot is the on-disk shape of unsolved_<timestamp>.json.
type unsolvedSnapshot struct {
	TotalUnsolved int                     `json:"total_unsolved"`
	Problems      []*models.ProblemRecord `json:"problems"`
}

// SnapshotStore persists per-user scrape artifacts under a root data
// directory. The solved/unsolved lists are timestamp-qualified and never
// overwritten; stats.json is the single current snapshot and is replaced
// on every run.
type SnapshotStore struct {
	baseDir string
}

// NewSnapshotStore returns a store rooted at baseDir. The root itself is
// created lazily on first write.
func NewSnapshotStore(baseDir string) *SnapshotStore {
	return &SnapshotStore{baseDir: baseDir}
}

// BaseDir returns the root data directory.
func (s *SnapshotStore) BaseDir() string {
	return s.baseDir
}

// userDir creates (idempotently) and returns the user's data directory.
func (s *SnapshotStore) userDir(username string) (string, error) {
	dir := filepath.Join(s.baseDir, username)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create user dir %q: %w", dir, err)
	}
	return dir, nil
}

// Write persists the solved and unsolved lists as timestamped artifacts
// and returns the paths written (stats path filled in by WriteStats).
func (s *SnapshotStore) Write(username, timestamp string, set *models.ProblemSet) (*models.SnapshotFiles, error) {
	dir, err := s.userDir(username)
	if err != nil {
		return nil, err
	}

	solvedPath := filepath.Join(dir, fmt.Sprintf("solved_%s.json", timestamp))
	if err := writeJSONFile(solvedPath, solvedSnapshot{
		TotalSolved: set.TotalSolved(),
		Problems:    set.Solved,
	}); err != nil {
		return nil, err
	}

	unsolvedPath := filepath.Join(dir, fmt.Sprintf("unsolved_%s.json", timestamp))
	if err := writeJSONFile(unsolvedPath, unsolvedSnapshot{
		TotalUnsolved: len(set.Unsolved),
		Problems:      set.Unsolved,
	}); err != nil {
		return nil, err
	}

	return &models.SnapshotFiles{
		Solved:   solvedPath,
		Unsolved: unsolvedPath,
	}, nil
}

// WriteStats replaces the user's current stats snapshot in place.
func (s *SnapshotStore) WriteStats(username string, stats *models.UserStats) (string, error) {
	dir, err := s.userDir(username)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, "stats.json")
	if err := writeJSONFile(path, stats); err != nil {
		return "", err
	}
	return path, nil
}

// ReadAllStats enumerates every user directory and loads its current
// stats snapshot. Directories without one are silently skipped; a
// malformed snapshot fails the whole read.
func (s *SnapshotStore) ReadAllStats() ([]*models.UserStats, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list data dir %q: %w", s.baseDir, err)
	}

	var all []*models.UserStats
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		path := filepath.Join(s.baseDir, entry.Name(), "stats.json")
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("read stats %q: %w", path, err)
		}

		stats := &models.UserStats{}
		if err := json.Unmarshal(data, stats); err != nil {
			return nil, fmt.Errorf("decode stats %q: %w", path, err)
		}
		all = append(all, stats)
	}
	return all, nil
}

func writeJSONFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("encode %q: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %q: %w", path, err)
	}
	return nil
}
