package repository

import (
	"lstbot/internal/domain"
)

// UserRepository defines user preference operations
type UserRepository interface {
	EnsureUserExists(userID int64, lang domain.Language) error
	GetUser(userID int64) (*domain.User, error)
	SetLanguage(userID int64, lang domain.Language) error
	SetRate(userID int64, rate float64) error
}

// SignRepository defines sign catalog storage
type SignRepository interface {
	ListSigns() ([]domain.SignEntry, error)
	UpsertSigns(signs []domain.SignEntry) (int, error)
	CountSigns() (int, error)
}

// TranslationRepository defines translation history operations
type TranslationRepository interface {
	SaveTranslation(t *domain.Translation) error
	GetRecentTranslations(userID int64, limit int) ([]domain.Translation, error)
	GetUserStats(userID int64) (*domain.UserStats, error)
	CleanOldTranslations(days int) (int64, error)
}
