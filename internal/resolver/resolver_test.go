package resolver

import (
	"testing"

	"lstbot/internal/domain"
	"lstbot/internal/lexicon"
	"lstbot/internal/normalizer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPipeline(t *testing.T) (*normalizer.Normalizer, *Resolver) {
	t.Helper()
	lex, err := lexicon.Default()
	require.NoError(t, err)
	return normalizer.New(lex), New(lex)
}

func TestResolve_Phrases(t *testing.T) {
	norm, res := newPipeline(t)

	tests := []struct {
		name     string
		input    string
		lang     domain.Language
		expected []string
	}{
		{name: "three word phrase", input: "J'ai mal de tête", lang: domain.LangFrench, expected: []string{"mal tete"}},
		{name: "elided article", input: "salle d'attente", lang: domain.LangFrench, expected: []string{"salle attente"}},
		{name: "hyphenated", input: "Un rendez-vous", lang: domain.LangFrench, expected: []string{"rendez vous"}},
		{name: "surrounding words", input: "médecin, prise de sang, infirmière", lang: domain.LangFrench, expected: []string{"medecin", "prise sang", "infirmier"}},
		{name: "fillers dropped", input: "Je vais à l'hôpital", lang: domain.LangFrench, expected: []string{"aller", "hopital"}},
		{name: "no phrase", input: "coeur poumon", lang: domain.LangFrench, expected: []string{"coeur", "poumon"}},
		{name: "translated phrase", input: "I have a headache", lang: domain.LangEnglish, expected: []string{"mal tete"}},
		{name: "translated multiword key", input: "the waiting room", lang: domain.LangEnglish, expected: []string{"salle attente"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := res.Resolve(norm.Normalize(tt.input, tt.lang), tt.lang)
			assert.Equal(t, tt.expected, domain.Words(got))
		})
	}
}

func TestResolve_KeepsSurfaceAndSpan(t *testing.T) {
	norm, res := newPipeline(t)

	got := res.Resolve(norm.Normalize("J'ai mal de tête", domain.LangFrench), domain.LangFrench)

	require.Len(t, got, 1)
	assert.Equal(t, "mal tete", got[0].Word)
	assert.Equal(t, "mal", got[0].Surface)
	assert.Equal(t, []string{"mal", "de", "tête"}, got[0].Span)
	assert.Equal(t, "mal de tête", got[0].SpanText())
	assert.Equal(t, 2, got[0].Position)
}

func TestResolve_GreedyWithoutBacktracking(t *testing.T) {
	lex, err := lexicon.New(lexicon.File{
		Language: "fr",
		Phrases: map[string]string{
			"a b":   "ab",
			"b c d": "bcd",
		},
	})
	require.NoError(t, err)
	res := New(lex)

	// "a b" is taken first, so "b c d" can no longer form
	assert.Equal(t, []string{"ab", "c", "d"}, res.Words([]string{"a", "b", "c", "d"}, domain.LangFrench))
	assert.Equal(t, []string{"bcd"}, res.Words([]string{"b", "c", "d"}, domain.LangFrench))
}

func TestResolve_Deterministic(t *testing.T) {
	norm, res := newPipeline(t)

	tokens := norm.Normalize("Prise de sang au bloc opératoire, puis rendez-vous", domain.LangFrench)
	first := res.Resolve(tokens, domain.LangFrench)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, res.Resolve(tokens, domain.LangFrench))
	}
}

func TestResolve_Empty(t *testing.T) {
	_, res := newPipeline(t)

	assert.Equal(t, []domain.Token{}, res.Resolve(nil, domain.LangFrench))
	assert.Equal(t, []string{}, res.Words(nil, domain.LangFrench))
	assert.Equal(t, []string{}, res.Words([]string{"le", "de", "la"}, domain.LangFrench))
}

func TestResolve_SourceLanguageFillers(t *testing.T) {
	_, res := newPipeline(t)

	tokens := []domain.Token{
		domain.NewToken("The", "the", 0),
		domain.NewToken("xyzzy", "xyzzy", 1),
		domain.NewToken("years", "an", 2),
	}

	got := res.Resolve(tokens, domain.LangEnglish)
	assert.Equal(t, []string{"xyzzy", "an"}, domain.Words(got))
	assert.Equal(t, 1, got[0].Position)
}
