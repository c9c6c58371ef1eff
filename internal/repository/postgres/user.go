package postgres

import (
	"database/sql"

	"lstbot/internal/domain"
)

// UserRepo implements repository.UserRepository
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo creates a new user repository
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

// EnsureUserExists creates the user with lang as source language if missing
func (r *UserRepo) EnsureUserExists(userID int64, lang domain.Language) error {
	query := `
		INSERT INTO users (user_id, language)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO NOTHING
	`
	_, err := r.db.Exec(query, userID, string(lang))
	return err
}

// GetUser returns the user or nil when unknown
func (r *UserRepo) GetUser(userID int64) (*domain.User, error) {
	var u domain.User
	var lang string
	query := `SELECT user_id, language, rate, created_at FROM users WHERE user_id = $1`
	err := r.db.QueryRow(query, userID).Scan(&u.UserID, &lang, &u.Rate, &u.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	u.Language = domain.Language(lang)
	return &u, nil
}

// SetLanguage stores the user's source language
func (r *UserRepo) SetLanguage(userID int64, lang domain.Language) error {
	query := `
		INSERT INTO users (user_id, language)
		VALUES ($1, $2)
		ON CONFLICT (user_id)
		DO UPDATE SET language = EXCLUDED.language
	`
	_, err := r.db.Exec(query, userID, string(lang))
	return err
}

// SetRate stores the user's playback speed
func (r *UserRepo) SetRate(userID int64, rate float64) error {
	query := `UPDATE users SET rate = $2 WHERE user_id = $1`
	_, err := r.db.Exec(query, userID, rate)
	return err
}
