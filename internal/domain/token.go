package domain

import "strings"

// Token is one unit flowing through the translation pipeline.
// Word is rewritten by every stage, Surface and Span never are.
type Token struct {
	Surface  string   // first original token, as typed
	Span     []string // every original token that produced this one
	Word     string   // current canonical form
	Position int      // index of the first original token
}

// NewToken creates a token from a single original word
func NewToken(surface, word string, position int) Token {
	return Token{
		Surface:  surface,
		Span:     []string{surface},
		Word:     word,
		Position: position,
	}
}

// SpanText returns the full original span joined with spaces
func (t Token) SpanText() string {
	return strings.Join(t.Span, " ")
}

// Merge collapses consecutive tokens into one carrying word
func Merge(tokens []Token, word string) Token {
	if len(tokens) == 0 {
		return Token{Word: word}
	}
	span := make([]string, 0, len(tokens))
	for _, t := range tokens {
		span = append(span, t.Span...)
	}
	return Token{
		Surface:  tokens[0].Surface,
		Span:     span,
		Word:     word,
		Position: tokens[0].Position,
	}
}

// Words returns the canonical words of tokens
func Words(tokens []Token) []string {
	words := make([]string, len(tokens))
	for i, t := range tokens {
		words[i] = t.Word
	}
	return words
}
