package postgres

import (
	"database/sql"

	"lstbot/internal/domain"

	"github.com/lib/pq"
)

// TranslationRepo implements repository.TranslationRepository
type TranslationRepo struct {
	db *sql.DB
}

// NewTranslationRepo creates a new translation history repository
func NewTranslationRepo(db *sql.DB) *TranslationRepo {
	return &TranslationRepo{db: db}
}

// SaveTranslation stores one translation request
func (r *TranslationRepo) SaveTranslation(t *domain.Translation) error {
	query := `
		INSERT INTO translations (id, user_id, text, language, matched, missing)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(query,
		t.ID, t.UserID, t.Text, string(t.Language),
		pq.Array(nonNil(t.Matched)), pq.Array(nonNil(t.Missing)),
	)
	return err
}

// GetRecentTranslations returns the user's latest translations, newest first
func (r *TranslationRepo) GetRecentTranslations(userID int64, limit int) ([]domain.Translation, error) {
	query := `
		SELECT id, user_id, text, language, matched, missing, created_at
		FROM translations
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.Query(query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var translations []domain.Translation
	for rows.Next() {
		var t domain.Translation
		var lang string
		if err := rows.Scan(&t.ID, &t.UserID, &t.Text, &lang, pq.Array(&t.Matched), pq.Array(&t.Missing), &t.CreatedAt); err != nil {
			return nil, err
		}
		t.Language = domain.Language(lang)
		translations = append(translations, t)
	}

	return translations, rows.Err()
}

// GetUserStats returns the translation count and last activity of a user
func (r *TranslationRepo) GetUserStats(userID int64) (*domain.UserStats, error) {
	var stats domain.UserStats
	var last sql.NullTime
	query := `SELECT COUNT(*), MAX(created_at) FROM translations WHERE user_id = $1`
	if err := r.db.QueryRow(query, userID).Scan(&stats.Translations, &last); err != nil {
		return nil, err
	}

	if last.Valid {
		stats.LastAt = &last.Time
	}
	return &stats, nil
}

// CleanOldTranslations deletes translations older than days and returns
// the number of removed rows
func (r *TranslationRepo) CleanOldTranslations(days int) (int64, error) {
	query := `
		DELETE FROM translations
		WHERE created_at < NOW() - INTERVAL '1 day' * $1
	`
	res, err := r.db.Exec(query, days)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
