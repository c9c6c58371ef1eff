package builder

import (
	"lstbot/internal/domain"

	"go.uber.org/zap"
)

// DefaultMaxSequence caps the number of signs played for one text
const DefaultMaxSequence = 50

// Catalog is the sign lookup the builder needs
type Catalog interface {
	Lookup(word string) (domain.SignEntry, bool)
}

// Builder maps resolved pivot tokens onto catalog signs
type Builder struct {
	catalog Catalog
	maxLen  int
	logger  *zap.Logger
}

// New creates a builder. A non-positive maxLen selects DefaultMaxSequence.
func New(catalog Catalog, maxLen int, logger *zap.Logger) *Builder {
	if maxLen <= 0 {
		maxLen = DefaultMaxSequence
	}
	return &Builder{
		catalog: catalog,
		maxLen:  maxLen,
		logger:  logger,
	}
}

// Build looks every token up by exact word. Matched signs keep input order
// and carry the token's first surface form; unknown words are listed as
// missing with their position. Words past the sequence limit are reported
// as missing too.
func (b *Builder) Build(tokens []domain.Token) domain.MatchResult {
	result := domain.MatchResult{
		Matched: []domain.MatchedSign{},
		Missing: []domain.MissingWord{},
	}

	dropped := 0
	for _, tok := range tokens {
		sign, ok := b.catalog.Lookup(tok.Word)
		if ok && len(result.Matched) >= b.maxLen {
			dropped++
			ok = false
		}
		if !ok {
			result.Missing = append(result.Missing, domain.MissingWord{
				Surface:  tok.Surface,
				Position: tok.Position,
			})
			continue
		}
		result.Matched = append(result.Matched, domain.MatchedSign{
			Surface:  tok.Surface,
			Span:     tok.Span,
			Position: tok.Position,
			Sign:     sign,
		})
	}

	if dropped > 0 {
		b.logger.Warn("Sequence truncated",
			zap.Int("max", b.maxLen),
			zap.Int("dropped", dropped))
	}

	return result
}

// BuildWords pairs words with surfaces by position. A missing surface falls
// back to the word itself.
func (b *Builder) BuildWords(words, surfaces []string) domain.MatchResult {
	tokens := make([]domain.Token, len(words))
	for i, w := range words {
		surface := w
		if i < len(surfaces) {
			surface = surfaces[i]
		}
		tokens[i] = domain.NewToken(surface, w, i)
	}
	return b.Build(tokens)
}
