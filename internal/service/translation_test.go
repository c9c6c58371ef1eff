package service

import (
	"encoding/json"
	"errors"
	"sort"
	"testing"

	"lstbot/internal/builder"
	"lstbot/internal/domain"
	"lstbot/internal/lexicon"
	"lstbot/internal/normalizer"
	"lstbot/internal/resolver"
	"lstbot/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestTranslationService(t *testing.T, repo *testutil.MockTranslationRepository) *TranslationService {
	t.Helper()
	lex, err := lexicon.Default()
	require.NoError(t, err)

	logger := testutil.NewTestLogger()
	b := builder.New(testutil.NewTestCatalog(), 0, logger)

	if repo == nil {
		return NewTranslationService(normalizer.New(lex), resolver.New(lex), b, nil, logger)
	}
	return NewTranslationService(normalizer.New(lex), resolver.New(lex), b, repo, logger)
}

func TestTranslationService_Translate(t *testing.T) {
	tests := []struct {
		name            string
		text            string
		lang            domain.Language
		expectedSuccess bool
		expectedMatched []string
		expectedMissing []string
		expectedMessage string
		expectedSigns   []string
	}{
		{
			name:            "pivot words",
			text:            "médecin infirmier",
			lang:            domain.LangFrench,
			expectedSuccess: true,
			expectedMatched: []string{"médecin", "infirmier"},
			expectedMissing: []string{},
			expectedMessage: "2 signe(s) trouvé(s)",
			expectedSigns:   []string{"medecin", "infirmier"},
		},
		{
			name:            "english sentence",
			text:            "I went to the dentist",
			lang:            domain.LangEnglish,
			expectedSuccess: true,
			expectedMatched: []string{"went", "dentist"},
			expectedMissing: []string{},
			expectedMessage: "2 signe(s) trouvé(s)",
			expectedSigns:   []string{"aller", "dentiste"},
		},
		{
			name:            "unknown word mixed with a known one",
			text:            "médecin xyzzy",
			lang:            domain.LangFrench,
			expectedSuccess: true,
			expectedMatched: []string{"médecin"},
			expectedMissing: []string{"xyzzy"},
			expectedMessage: "1 signe(s) trouvé(s)",
			expectedSigns:   []string{"medecin"},
		},
		{
			name:            "nothing known",
			text:            "xyzzy",
			lang:            domain.LangFrench,
			expectedSuccess: false,
			expectedMatched: []string{},
			expectedMissing: []string{"xyzzy"},
			expectedMessage: "Aucun signe trouvé pour ce texte",
			expectedSigns:   []string{},
		},
		{
			name:            "derja",
			text:            "aslema tbib",
			lang:            domain.LangDerja,
			expectedSuccess: true,
			expectedMatched: []string{"aslema", "tbib"},
			expectedMissing: []string{},
			expectedMessage: "2 signe(s) trouvé(s)",
			expectedSigns:   []string{"bonjour", "medecin"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(testutil.MockTranslationRepository)
			repo.On("SaveTranslation", mock.AnythingOfType("*domain.Translation")).Return(nil)

			svc := newTestTranslationService(t, repo)
			outcome := svc.Translate(123, tt.text, tt.lang)

			assert.Equal(t, tt.expectedSuccess, outcome.Result.Success)
			assert.Equal(t, tt.expectedMatched, outcome.Result.MatchedWords)
			assert.Equal(t, tt.expectedMissing, outcome.Result.MissingWords)
			assert.Equal(t, tt.expectedMessage, outcome.Result.Message)
			assert.InDelta(t, 2.5*float64(len(tt.expectedSigns)), outcome.Result.TotalDurationSeconds, 0.0001)

			signs := make([]string, 0)
			for _, s := range outcome.Signs() {
				signs = append(signs, s.ID)
			}
			assert.Equal(t, tt.expectedSigns, signs)

			repo.AssertExpectations(t)
		})
	}
}

func TestTranslationService_EmptyText(t *testing.T) {
	repo := new(testutil.MockTranslationRepository)
	svc := newTestTranslationService(t, repo)

	for _, text := range []string{"", "   ", "\n\t", "...", " ?! ", "¿؟"} {
		outcome := svc.Translate(123, text, domain.LangFrench)

		assert.False(t, outcome.Result.Success)
		assert.Equal(t, "Texte vide", outcome.Result.Message)
		assert.Empty(t, outcome.Result.MatchedWords)
		assert.NotNil(t, outcome.Result.MatchedWords)
		assert.Empty(t, outcome.Signs())
	}

	repo.AssertNotCalled(t, "SaveTranslation", mock.Anything)
}

func TestTranslationService_SavesHistory(t *testing.T) {
	repo := new(testutil.MockTranslationRepository)
	repo.On("SaveTranslation", mock.MatchedBy(func(tr *domain.Translation) bool {
		_, err := uuid.Parse(tr.ID)
		return err == nil &&
			tr.UserID == 123 &&
			tr.Text == "J'ai mal de tête, docteur" &&
			tr.Language == domain.LangFrench &&
			assert.ObjectsAreEqual([]string{"mal", "docteur"}, tr.Matched) &&
			len(tr.Missing) == 0
	})).Return(nil)

	svc := newTestTranslationService(t, repo)
	outcome := svc.Translate(123, "J'ai mal de tête, docteur", domain.LangFrench)

	assert.True(t, outcome.Result.Success)
	require.Len(t, outcome.Match.Matched, 2)
	assert.Equal(t, "mal tete", outcome.Match.Matched[0].Sign.ID)
	assert.Equal(t, []string{"mal", "de", "tête"}, outcome.Match.Matched[0].Span)
	repo.AssertExpectations(t)
}

func TestTranslationService_HistoryFailureIsNotFatal(t *testing.T) {
	repo := new(testutil.MockTranslationRepository)
	repo.On("SaveTranslation", mock.Anything).Return(errors.New("db down"))

	svc := newTestTranslationService(t, repo)
	outcome := svc.Translate(123, "coeur", domain.LangFrench)

	assert.True(t, outcome.Result.Success)
	repo.AssertExpectations(t)
}

func TestTranslationService_WithoutHistory(t *testing.T) {
	svc := newTestTranslationService(t, nil)

	outcome := svc.Translate(123, "coeur poumon", domain.LangFrench)
	assert.Equal(t, []string{"coeur", "poumon"}, outcome.Result.MatchedWords)

	history, err := svc.RecentHistory(123, 5)
	assert.NoError(t, err)
	assert.Nil(t, history)

	// anonymous requests are never stored
	repo := new(testutil.MockTranslationRepository)
	svc = newTestTranslationService(t, repo)
	svc.Translate(0, "coeur", domain.LangFrench)
	repo.AssertNotCalled(t, "SaveTranslation", mock.Anything)
}

func TestTranslationResult_JSONFields(t *testing.T) {
	result := NewResult(domain.MatchResult{
		Matched: []domain.MatchedSign{{Surface: "médecin", Sign: testutil.NewTestSign("medecin")}},
		Missing: []domain.MissingWord{{Surface: "xyzzy", Position: 1}},
	})

	raw, err := json.Marshal(result)
	require.NoError(t, err)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &fields))

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	assert.Equal(t, []string{"matchedWords", "message", "missingWords", "success", "totalDurationSeconds"}, keys)
	assert.Equal(t, 2.5, fields["totalDurationSeconds"])
	assert.Equal(t, true, fields["success"])
}
