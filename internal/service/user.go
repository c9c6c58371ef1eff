package service

import (
	"fmt"

	"lstbot/internal/domain"
	"lstbot/internal/repository"
)

// UserService handles user preferences
type UserService struct {
	userRepo    repository.UserRepository
	defaultLang domain.Language
}

// NewUserService creates a new user service
func NewUserService(userRepo repository.UserRepository, defaultLang domain.Language) *UserService {
	return &UserService{
		userRepo:    userRepo,
		defaultLang: defaultLang,
	}
}

// EnsureUserExists creates user record if doesn't exist
func (s *UserService) EnsureUserExists(userID int64) error {
	return s.userRepo.EnsureUserExists(userID, s.defaultLang)
}

// Preferences returns the user's language and rate, falling back to
// defaults for unknown users
func (s *UserService) Preferences(userID int64) (*domain.User, error) {
	user, err := s.userRepo.GetUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return &domain.User{UserID: userID, Language: s.defaultLang, Rate: domain.DefaultRate}, nil
	}

	if _, err := domain.ParseLanguage(string(user.Language)); err != nil {
		user.Language = s.defaultLang
	}
	user.Rate = domain.ClampRate(user.Rate)
	return user, nil
}

// SetLanguage validates and stores the user's source language
func (s *UserService) SetLanguage(userID int64, code string) (domain.Language, error) {
	lang, err := domain.ParseLanguage(code)
	if err != nil {
		return "", err
	}
	if err := s.userRepo.SetLanguage(userID, lang); err != nil {
		return "", fmt.Errorf("failed to save language: %w", err)
	}
	return lang, nil
}

// SetRate clamps and stores the user's playback speed
func (s *UserService) SetRate(userID int64, rate float64) (float64, error) {
	rate = domain.ClampRate(rate)
	if err := s.userRepo.SetRate(userID, rate); err != nil {
		return 0, fmt.Errorf("failed to save rate: %w", err)
	}
	return rate, nil
}
