package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"cses-tracker/models"
)

// PostgresMirror keeps one current stats row per user in PostgreSQL,
// mirroring the stats.json overwrite semantics. The filesystem remains
// the source of truth; the mirror exists for external dashboards.
type PostgresMirror struct {
	db *sql.DB
}

// NewPostgresMirror opens a connection, waits for the database to come
// up, and runs the schema migration.
func NewPostgresMirror(dsn string) (*PostgresMirror, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	m := &PostgresMirror{db: db}
	if err := m.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}
	return m, nil
}

func (m *PostgresMirror) migrate() error {
	_, err := m.db.Exec(`
		CREATE TABLE IF NOT EXISTS user_stats (
			username     TEXT PRIMARY KEY,
			solved_count INT  NOT NULL,
			total_count  INT  NOT NULL,
			sections     JSONB NOT NULL DEFAULT '{}',
			last_updated TEXT NOT NULL,
			updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_user_stats_solved ON user_stats(solved_count);
	`)
	return err
}

// UpsertStats replaces the user's current row.
func (m *PostgresMirror) UpsertStats(stats *models.UserStats) error {
	sections, err := json.Marshal(stats.Sections)
	if err != nil {
		return fmt.Errorf("postgres: encode sections: %w", err)
	}

	_, err = m.db.Exec(`
		INSERT INTO user_stats (username, solved_count, total_count, sections, last_updated, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (username) DO UPDATE SET
			solved_count = EXCLUDED.solved_count,
			total_count  = EXCLUDED.total_count,
			sections     = EXCLUDED.sections,
			last_updated = EXCLUDED.last_updated,
			updated_at   = NOW()
	`, stats.Username, stats.SolvedCount, stats.TotalCount, sections, stats.LastUpdated)
	if err != nil {
		return fmt.Errorf("postgres: upsert stats: %w", err)
	}
	return nil
}

// Close closes the underlying connection pool.
func (m *PostgresMirror) Close() error {
	return m.db.Close()
}
