package textutil

import (
	"testing"

	"lstbot/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestStripPunctuation(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain", input: "médecin infirmier", expected: "médecin infirmier"},
		{name: "apostrophe", input: "l'hôpital", expected: "l hôpital"},
		{name: "hyphen", input: "rendez-vous", expected: "rendez vous"},
		{name: "trailing punctuation", input: "Bonjour !!!", expected: "Bonjour"},
		{name: "typographic quotes", input: "«docteur» — vite…", expected: "docteur vite"},
		{name: "arabic question mark", input: "طبيب؟", expected: "طبيب"},
		{name: "only punctuation", input: "?!.,", expected: ""},
		{name: "whitespace collapse", input: "  a \t\n b  ", expected: "a b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StripPunctuation(tt.input))
		})
	}
}

func TestFold(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		lang     domain.Language
		expected string
	}{
		{name: "accent", input: "Médecin", lang: domain.LangFrench, expected: "medecin"},
		{name: "circumflex", input: "HÔPITAL", lang: domain.LangFrench, expected: "hopital"},
		{name: "ligature", input: "Cœur", lang: domain.LangFrench, expected: "coeur"},
		{name: "english", input: "Dentist", lang: domain.LangEnglish, expected: "dentist"},
		{name: "arabic hamza", input: "أنا", lang: domain.LangArabic, expected: "انا"},
		{name: "arabic harakat", input: "طَبِيب", lang: domain.LangArabic, expected: "طبيب"},
		{name: "derja digits kept", input: "Y3aychek", lang: domain.LangDerja, expected: "y3aychek"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Fold(tt.input, tt.lang))
		})
	}
}

func TestFold_Idempotent(t *testing.T) {
	inputs := []string{"Médecin", "cœur", "ÉLÈVE", "إسعاف", "naïve", "straße"}
	for _, in := range inputs {
		once := Fold(in, domain.LangFrench)
		assert.Equal(t, once, Fold(once, domain.LangFrench), in)
	}
}

func TestFoldText(t *testing.T) {
	assert.Equal(t, "salle d attente", FoldText("Salle d'attente.", domain.LangFrench))
	assert.Equal(t, "", FoldText("  ... ", domain.LangFrench))
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"Je", "vais", "à", "l", "hôpital"}, Tokenize("Je vais à l'hôpital."))
	assert.Empty(t, Tokenize(""))
}
