package testutil

import (
	"lstbot/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock for UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) EnsureUserExists(userID int64, lang domain.Language) error {
	args := m.Called(userID, lang)
	return args.Error(0)
}

func (m *MockUserRepository) GetUser(userID int64) (*domain.User, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) SetLanguage(userID int64, lang domain.Language) error {
	args := m.Called(userID, lang)
	return args.Error(0)
}

func (m *MockUserRepository) SetRate(userID int64, rate float64) error {
	args := m.Called(userID, rate)
	return args.Error(0)
}

// MockSignRepository is a mock for SignRepository
type MockSignRepository struct {
	mock.Mock
}

func (m *MockSignRepository) ListSigns() ([]domain.SignEntry, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SignEntry), args.Error(1)
}

func (m *MockSignRepository) UpsertSigns(signs []domain.SignEntry) (int, error) {
	args := m.Called(signs)
	return args.Int(0), args.Error(1)
}

func (m *MockSignRepository) CountSigns() (int, error) {
	args := m.Called()
	return args.Int(0), args.Error(1)
}

// MockTranslationRepository is a mock for TranslationRepository
type MockTranslationRepository struct {
	mock.Mock
}

func (m *MockTranslationRepository) SaveTranslation(t *domain.Translation) error {
	args := m.Called(t)
	return args.Error(0)
}

func (m *MockTranslationRepository) GetRecentTranslations(userID int64, limit int) ([]domain.Translation, error) {
	args := m.Called(userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Translation), args.Error(1)
}

func (m *MockTranslationRepository) GetUserStats(userID int64) (*domain.UserStats, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserStats), args.Error(1)
}

func (m *MockTranslationRepository) CleanOldTranslations(days int) (int64, error) {
	args := m.Called(days)
	return args.Get(0).(int64), args.Error(1)
}
