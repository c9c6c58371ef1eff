package normalizer

import (
	"strings"

	"lstbot/internal/domain"
	"lstbot/internal/lexicon"
	"lstbot/internal/textutil"
)

// Normalizer reduces raw text to pivot-vocabulary lemmas
type Normalizer struct {
	lex *lexicon.Lexicon
}

// New creates a normalizer backed by a read-only lexicon
func New(lex *lexicon.Lexicon) *Normalizer {
	return &Normalizer{lex: lex}
}

// Normalize turns raw text in lang into tokens carrying pivot lemmas.
// Surface forms are kept from the punctuation-stripped input so callers can
// show what the user actually typed. Empty input yields an empty result.
func (n *Normalizer) Normalize(rawText string, lang domain.Language) []domain.Token {
	surfaces := textutil.Tokenize(rawText)
	if len(surfaces) == 0 {
		return []domain.Token{}
	}

	folded := make([]string, len(surfaces))
	for i, s := range surfaces {
		folded[i] = textutil.Fold(s, lang)
	}

	if lang.IsPivot() {
		tokens := make([]domain.Token, 0, len(surfaces))
		for i := range surfaces {
			if folded[i] == "" {
				continue
			}
			tokens = append(tokens, domain.NewToken(surfaces[i], n.Lemmatize(folded[i]), i))
		}
		return tokens
	}

	return n.translate(surfaces, folded, lang)
}

// Words is Normalize reduced to the lemma strings
func (n *Normalizer) Words(rawText string, lang domain.Language) []string {
	return domain.Words(n.Normalize(rawText, lang))
}

// translate maps a non-pivot token stream onto the pivot vocabulary using
// longest-first windows against the language dictionary.
func (n *Normalizer) translate(surfaces, folded []string, lang domain.Language) []domain.Token {
	tokens := make([]domain.Token, 0, len(surfaces))

	for i := 0; i < len(folded); {
		matched := false
		for size := min(lexicon.MaxWindow, len(folded)-i); size >= 1; size-- {
			key := strings.Join(folded[i:i+size], " ")
			pivot, ok := n.lex.Translate(lang, key)
			if !ok {
				continue
			}

			span := make([]domain.Token, size)
			for j := 0; j < size; j++ {
				span[j] = domain.NewToken(surfaces[i+j], folded[i+j], i+j)
			}
			tokens = append(tokens, domain.Merge(span, n.lemmatizeText(pivot)))
			i += size
			matched = true
			break
		}
		if matched {
			continue
		}

		if folded[i] != "" && !n.lex.IsStopWord(lang, folded[i]) {
			// unresolved words pass through so the builder reports them
			tokens = append(tokens, domain.NewToken(surfaces[i], folded[i], i))
		}
		i++
	}

	return tokens
}

// lemmatizeText folds and lemmatizes pivot text word by word
func (n *Normalizer) lemmatizeText(text string) string {
	words := textutil.Tokenize(text)
	for i, w := range words {
		words[i] = n.Lemmatize(textutil.Fold(w, domain.PivotLanguage))
	}
	return strings.Join(words, " ")
}

// Lemmatize reduces a folded pivot word to its canonical lemma. Tables and
// suffix rules are applied until the word stops changing so that a lemma
// always normalizes to itself.
func (n *Normalizer) Lemmatize(word string) string {
	for steps := len(word) + 2; steps > 0; steps-- {
		next := n.lemmatizeOnce(word)
		if next == word {
			break
		}
		word = next
	}
	return word
}

func (n *Normalizer) lemmatizeOnce(word string) string {
	if lemma, ok := n.lex.Lemma(word); ok {
		return lemma
	}
	return singularize(word)
}

// singularize applies the regular plural suffix rules
func singularize(word string) string {
	if strings.Contains(word, " ") {
		return word
	}
	if strings.HasSuffix(word, "aux") && len(word) > 3 {
		return strings.TrimSuffix(word, "aux") + "al"
	}
	if strings.HasSuffix(word, "ss") {
		return word
	}
	if strings.HasSuffix(word, "s") || strings.HasSuffix(word, "x") {
		stem := word[:len(word)-1]
		if len([]rune(stem)) <= 1 || strings.HasSuffix(stem, "ss") {
			return word
		}
		return stem
	}
	return word
}
