package service

import (
	"fmt"

	"lstbot/internal/builder"
	"lstbot/internal/domain"
	"lstbot/internal/normalizer"
	"lstbot/internal/repository"
	"lstbot/internal/resolver"
	"lstbot/internal/textutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	msgEmptyText = "Texte vide"
	msgNoSign    = "Aucun signe trouvé pour ce texte"
	msgFound     = "%d signe(s) trouvé(s)"
)

// Outcome is a translated text: the result shown to the user and the
// match that feeds the playback queue
type Outcome struct {
	Result domain.TranslationResult
	Match  domain.MatchResult
}

// Signs returns the playback queue
func (o *Outcome) Signs() []domain.SignEntry {
	return o.Match.Signs()
}

// TranslationService runs the text to sign pipeline and keeps history
type TranslationService struct {
	normalizer   *normalizer.Normalizer
	resolver     *resolver.Resolver
	builder      *builder.Builder
	translations repository.TranslationRepository
	logger       *zap.Logger
}

// NewTranslationService creates a new translation service.
// translations may be nil when no history is kept.
func NewTranslationService(
	norm *normalizer.Normalizer,
	res *resolver.Resolver,
	b *builder.Builder,
	translations repository.TranslationRepository,
	logger *zap.Logger,
) *TranslationService {
	return &TranslationService{
		normalizer:   norm,
		resolver:     res,
		builder:      b,
		translations: translations,
		logger:       logger,
	}
}

// Translate converts text written in lang into a sign sequence. Blank or
// punctuation-only text and texts without any known sign are reported
// through the result flag.
// History is best effort: a storage failure is logged, never returned.
func (s *TranslationService) Translate(userID int64, text string, lang domain.Language) *Outcome {
	if len(textutil.Tokenize(text)) == 0 {
		return &Outcome{
			Result: domain.TranslationResult{
				Success:      false,
				MatchedWords: []string{},
				MissingWords: []string{},
				Message:      msgEmptyText,
			},
			Match: domain.MatchResult{Matched: []domain.MatchedSign{}, Missing: []domain.MissingWord{}},
		}
	}

	tokens := s.normalizer.Normalize(text, lang)
	tokens = s.resolver.Resolve(tokens, lang)
	match := s.builder.Build(tokens)

	outcome := &Outcome{Result: NewResult(match), Match: match}

	s.logger.Debug("Text translated",
		zap.Int64("user_id", userID),
		zap.String("language", string(lang)),
		zap.Int("matched", len(match.Matched)),
		zap.Int("missing", len(match.Missing)))

	s.saveHistory(userID, text, lang, outcome.Result)
	return outcome
}

// NewResult builds the user-facing result of a match
func NewResult(match domain.MatchResult) domain.TranslationResult {
	result := domain.TranslationResult{
		Success:              len(match.Matched) > 0,
		MatchedWords:         match.MatchedSurfaces(),
		MissingWords:         match.MissingSurfaces(),
		TotalDurationSeconds: match.TotalDuration(),
	}
	if result.Success {
		result.Message = fmt.Sprintf(msgFound, len(match.Matched))
	} else {
		result.Message = msgNoSign
	}
	return result
}

// RecentHistory returns the latest translations of a user
func (s *TranslationService) RecentHistory(userID int64, limit int) ([]domain.Translation, error) {
	if s.translations == nil {
		return nil, nil
	}
	return s.translations.GetRecentTranslations(userID, limit)
}

func (s *TranslationService) saveHistory(userID int64, text string, lang domain.Language, result domain.TranslationResult) {
	if s.translations == nil || userID == 0 {
		return
	}

	record := &domain.Translation{
		ID:       uuid.NewString(),
		UserID:   userID,
		Text:     text,
		Language: lang,
		Matched:  result.MatchedWords,
		Missing:  result.MissingWords,
	}
	if err := s.translations.SaveTranslation(record); err != nil {
		s.logger.Error("Failed to save translation",
			zap.Int64("user_id", userID),
			zap.Error(err))
	}
}
