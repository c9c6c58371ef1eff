package service

import (
	"fmt"

	"lstbot/internal/domain"
	"lstbot/internal/repository"

	"go.uber.org/zap"
)

// DefaultRetentionDays is how long translation history is kept
const DefaultRetentionDays = 60

// Catalog is the part of the sign catalog reported in statistics
type Catalog interface {
	Stats() domain.SignStats
}

// Stats is a combined catalog and user report
type Stats struct {
	Catalog domain.SignStats
	User    domain.UserStats
}

// StatsService handles statistics and cleanup
type StatsService struct {
	translations  repository.TranslationRepository
	catalog       Catalog
	retentionDays int
	logger        *zap.Logger
}

// NewStatsService creates a new stats service. A non-positive retention
// selects DefaultRetentionDays.
func NewStatsService(translations repository.TranslationRepository, catalog Catalog, retentionDays int, logger *zap.Logger) *StatsService {
	if retentionDays <= 0 {
		retentionDays = DefaultRetentionDays
	}
	return &StatsService{
		translations:  translations,
		catalog:       catalog,
		retentionDays: retentionDays,
		logger:        logger,
	}
}

// UserStats returns catalog statistics and the activity of one user
func (s *StatsService) UserStats(userID int64) (*Stats, error) {
	user, err := s.translations.GetUserStats(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user stats: %w", err)
	}
	return &Stats{Catalog: s.catalog.Stats(), User: *user}, nil
}

// CleanupOldData removes translations older than the retention period
func (s *StatsService) CleanupOldData() error {
	s.logger.Info("Starting cleanup of old translations", zap.Int("retention_days", s.retentionDays))

	removed, err := s.translations.CleanOldTranslations(s.retentionDays)
	if err != nil {
		s.logger.Error("Failed to cleanup old translations", zap.Error(err))
		return err
	}

	s.logger.Info("Cleanup completed successfully", zap.Int64("removed", removed))
	return nil
}
