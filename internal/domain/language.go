package domain

import (
	"fmt"
	"strings"
)

// Language identifies the source language of an input text
type Language string

const (
	// LangFrench is the pivot vocabulary of the sign catalog
	LangFrench  Language = "fr"
	LangEnglish Language = "en"
	LangArabic  Language = "ar"
	// LangDerja is Tunisian Arabic written in Latin script (arabizi)
	LangDerja   Language = "tn"
)

// PivotLanguage is the language every lookup is expressed in
const PivotLanguage = LangFrench

// Languages lists supported source languages in menu order
var Languages = []Language{LangFrench, LangEnglish, LangArabic, LangDerja}

// ParseLanguage accepts a language code (case-insensitive)
func ParseLanguage(code string) (Language, error) {
	lang := Language(strings.ToLower(strings.TrimSpace(code)))
	for _, l := range Languages {
		if l == lang {
			return l, nil
		}
	}
	return "", fmt.Errorf("unsupported language %q", code)
}

// IsPivot reports whether the language is the pivot vocabulary
func (l Language) IsPivot() bool {
	return l == PivotLanguage
}

// DisplayName returns a user-facing name
func (l Language) DisplayName() string {
	switch l {
	case LangFrench:
		return "Français"
	case LangEnglish:
		return "English"
	case LangArabic:
		return "العربية"
	case LangDerja:
		return "Derja (tounsi)"
	default:
		return string(l)
	}
}
