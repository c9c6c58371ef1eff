package postgres

import (
	"database/sql"
	"fmt"
	"time"

	"lstbot/internal/domain"

	"github.com/lib/pq"
)

// SignRepo implements repository.SignRepository
type SignRepo struct {
	db *sql.DB
}

// NewSignRepo creates a new sign repository
func NewSignRepo(db *sql.DB) *SignRepo {
	return &SignRepo{db: db}
}

// ListSigns returns every stored sign ordered by id
func (r *SignRepo) ListSigns() ([]domain.SignEntry, error) {
	query := `
		SELECT id, display_name, duration_ms, transition_in_ms, transition_out_ms, format, file, tags
		FROM signs
		ORDER BY id
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var signs []domain.SignEntry
	for rows.Next() {
		var s domain.SignEntry
		var duration, in, out int64
		var tags []string
		if err := rows.Scan(&s.ID, &s.DisplayName, &duration, &in, &out, &s.Format, &s.File, pq.Array(&tags)); err != nil {
			return nil, err
		}
		s.Duration = time.Duration(duration) * time.Millisecond
		s.TransitionIn = time.Duration(in) * time.Millisecond
		s.TransitionOut = time.Duration(out) * time.Millisecond
		s.Tags = tags
		signs = append(signs, s)
	}

	return signs, rows.Err()
}

// UpsertSigns inserts or replaces signs in one transaction
func (r *SignRepo) UpsertSigns(signs []domain.SignEntry) (int, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO signs (id, display_name, duration_ms, transition_in_ms, transition_out_ms, format, file, tags)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			duration_ms = EXCLUDED.duration_ms,
			transition_in_ms = EXCLUDED.transition_in_ms,
			transition_out_ms = EXCLUDED.transition_out_ms,
			format = EXCLUDED.format,
			file = EXCLUDED.file,
			tags = EXCLUDED.tags
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, s := range signs {
		tags := s.Tags
		if tags == nil {
			tags = []string{}
		}
		_, err := stmt.Exec(
			s.ID, s.DisplayName,
			s.Duration.Milliseconds(), s.TransitionIn.Milliseconds(), s.TransitionOut.Milliseconds(),
			s.Format, s.File, pq.Array(tags),
		)
		if err != nil {
			return 0, fmt.Errorf("failed to upsert sign %q: %w", s.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit signs: %w", err)
	}
	return len(signs), nil
}

// CountSigns returns the number of stored signs
func (r *SignRepo) CountSigns() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM signs`).Scan(&count)
	return count, err
}
