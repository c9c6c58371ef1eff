package resolver

import (
	"strings"

	"lstbot/internal/domain"
	"lstbot/internal/lexicon"
	"lstbot/internal/textutil"
)

// Resolver collapses known multi-word expressions into single phrase tokens
type Resolver struct {
	lex *lexicon.Lexicon
}

// New creates a resolver backed by a read-only lexicon
func New(lex *lexicon.Lexicon) *Resolver {
	return &Resolver{lex: lex}
}

// Resolve scans tokens left to right trying windows of 3, 2 and 1 words
// against the phrase table. The first hit wins and the scan resumes after
// it, so a shorter match that prevents a longer one later is never undone.
// Filler words of the pivot language or of lang that are not part of a
// phrase are dropped.
func (r *Resolver) Resolve(tokens []domain.Token, lang domain.Language) []domain.Token {
	out := make([]domain.Token, 0, len(tokens))

	for i := 0; i < len(tokens); {
		size := r.match(tokens[i:])
		if size > 0 {
			window := tokens[i : i+size]
			phrase, _ := r.lex.Phrase(key(window))
			out = append(out, domain.Merge(window, phrase))
			i += size
			continue
		}

		if !r.isFiller(tokens[i], lang) {
			out = append(out, tokens[i])
		}
		i++
	}

	return out
}

// Words is Resolve over plain words, for callers without surface forms
func (r *Resolver) Words(words []string, lang domain.Language) []string {
	tokens := make([]domain.Token, len(words))
	for i, w := range words {
		tokens[i] = domain.NewToken(w, w, i)
	}
	return domain.Words(r.Resolve(tokens, lang))
}

// match returns the size of the longest phrase starting at tokens[0]
func (r *Resolver) match(tokens []domain.Token) int {
	for size := min(lexicon.MaxWindow, len(tokens)); size >= 1; size-- {
		if _, ok := r.lex.Phrase(key(tokens[:size])); ok {
			return size
		}
	}
	return 0
}

func (r *Resolver) isFiller(tok domain.Token, lang domain.Language) bool {
	if len(tok.Span) != 1 {
		return false
	}
	if r.lex.IsStopWord(domain.PivotLanguage, tok.Word) {
		return true
	}
	// untranslated source words are still checked against their own language
	surface := textutil.Fold(tok.Surface, lang)
	return tok.Word == surface && r.lex.IsStopWord(lang, surface)
}

func key(tokens []domain.Token) string {
	return strings.Join(domain.Words(tokens), " ")
}
