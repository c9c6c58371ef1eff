package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"lstbot/internal/domain"
)

// Punctuation lists every character replaced by a space before tokenizing.
// ASCII punctuation plus typographic quotes, dashes and Arabic marks.
const Punctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~" +
	"«»‹›“”„‘’‚…–—¿¡·" +
	"،؛؟٪۔"

var punctuationReplacer = func() *strings.Replacer {
	pairs := make([]string, 0, 2*len(Punctuation))
	for _, r := range Punctuation {
		pairs = append(pairs, string(r), " ")
	}
	return strings.NewReplacer(pairs...)
}()

// NFD, drop nonspacing marks, recompose
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

var languageTags = map[domain.Language]language.Tag{
	domain.LangFrench:  language.French,
	domain.LangEnglish: language.English,
	domain.LangArabic:  language.Arabic,
	domain.LangDerja:   language.Make("aeb-Latn"),
}

// StripPunctuation replaces punctuation with spaces and collapses whitespace
func StripPunctuation(text string) string {
	return strings.Join(strings.Fields(punctuationReplacer.Replace(text)), " ")
}

// Tokenize returns the punctuation-free tokens of text with case and accents kept
func Tokenize(text string) []string {
	return strings.Fields(punctuationReplacer.Replace(text))
}

// Lower lowercases text with the casing rules of lang
func Lower(text string, lang domain.Language) string {
	tag, ok := languageTags[lang]
	if !ok {
		tag = language.Und
	}
	return cases.Lower(tag).String(text)
}

// StripAccents removes diacritics ("é" -> "e", "أ" -> "ا")
func StripAccents(text string) string {
	result, _, err := transform.String(stripMarks, text)
	if err != nil {
		return text
	}
	return result
}

// Fold lowercases and strips accents from a single token
func Fold(token string, lang domain.Language) string {
	folded := StripAccents(Lower(token, lang))
	// ligatures survive decomposition
	return ligatureReplacer.Replace(folded)
}

// FoldText strips punctuation then folds every token, joined by single spaces
func FoldText(text string, lang domain.Language) string {
	tokens := Tokenize(text)
	for i, t := range tokens {
		tokens[i] = Fold(t, lang)
	}
	return strings.Join(tokens, " ")
}

var ligatureReplacer = strings.NewReplacer("œ", "oe", "æ", "ae", "ß", "ss")
