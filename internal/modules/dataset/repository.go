// Package dataset owns the job-posting store and the in-memory snapshot the
// analytics engine computes on. The engine itself never touches the database.
package dataset

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aristath/talentwatch/internal/domain"
)

// Repository stores job postings as JSON documents keyed by id, with the
// fields needed for filtering promoted to columns.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a job-posting repository and ensures the schema.
func NewRepository(db *sql.DB, log zerolog.Logger) (*Repository, error) {
	repo := &Repository{
		db:  db,
		log: log.With().Str("repository", "dataset").Logger(),
	}
	if err := repo.migrate(); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *Repository) migrate() error {
	_, err := r.db.Exec(`
		CREATE TABLE IF NOT EXISTS job_postings (
			id TEXT PRIMARY KEY,
			agency TEXT NOT NULL,
			posted_date TEXT,
			data TEXT NOT NULL,
			imported_at INTEGER NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create job_postings table: %w", err)
	}
	_, err = r.db.Exec(`CREATE INDEX IF NOT EXISTS idx_job_postings_agency ON job_postings(agency)`)
	if err != nil {
		return fmt.Errorf("failed to create agency index: %w", err)
	}
	return nil
}

// UpsertMany inserts or replaces a batch of records in one transaction.
// Records without an id are assigned one.
func (r *Repository) UpsertMany(records []domain.JobRecord) (int, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO job_postings (id, agency, posted_date, data, imported_at)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().Unix()
	stored := 0
	for i := range records {
		rec := records[i]
		if rec.ID == "" {
			rec.ID = uuid.New().String()
		}
		data, err := json.Marshal(rec)
		if err != nil {
			r.log.Warn().Err(err).Str("agency", rec.Agency).Msg("Skipping unmarshalable record")
			continue
		}
		if _, err := stmt.Exec(rec.ID, rec.Agency, rec.PostedDate, string(data), now); err != nil {
			return stored, fmt.Errorf("failed to upsert record %s: %w", rec.ID, err)
		}
		stored++
	}

	if err := tx.Commit(); err != nil {
		return stored, fmt.Errorf("failed to commit upsert: %w", err)
	}
	return stored, nil
}

// GetAll loads every stored record. Rows with corrupt JSON are skipped with
// a warning rather than failing the whole load.
func (r *Repository) GetAll() ([]domain.JobRecord, error) {
	rows, err := r.db.Query(`SELECT id, data FROM job_postings ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query job postings: %w", err)
	}
	defer rows.Close()

	var records []domain.JobRecord
	for rows.Next() {
		var id, data string
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("failed to scan job posting: %w", err)
		}
		var rec domain.JobRecord
		if err := json.Unmarshal([]byte(data), &rec); err != nil {
			r.log.Warn().Err(err).Str("id", id).Msg("Skipping corrupt job posting row")
			continue
		}
		rec.ID = id
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate job postings: %w", err)
	}
	return records, nil
}

// Count returns the number of stored records.
func (r *Repository) Count() (int, error) {
	var n int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM job_postings`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count job postings: %w", err)
	}
	return n, nil
}

// DeleteAll removes every stored record. Used by import with replace=true.
func (r *Repository) DeleteAll() error {
	if _, err := r.db.Exec(`DELETE FROM job_postings`); err != nil {
		return fmt.Errorf("failed to clear job postings: %w", err)
	}
	return nil
}
