package lexicon

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"lstbot/internal/domain"
	"lstbot/internal/textutil"
)

// MaxWindow is the longest multi-word key looked up in any table
const MaxWindow = 3

//go:embed data/*.json
var dataFS embed.FS

// File is the JSON layout of one language data file
type File struct {
	Language     string            `json:"language"`
	Synonyms     map[string]string `json:"synonyms,omitempty"`
	Conjugations map[string]string `json:"conjugations,omitempty"`
	Plurals      map[string]string `json:"plurals,omitempty"`
	Phrases      map[string]string `json:"phrases,omitempty"`
	Dictionary   map[string]string `json:"dictionary,omitempty"`
	StopWords    []string          `json:"stopwords,omitempty"`
}

// Lexicon is a read-only snapshot of every lookup table.
// It is built once and shared between goroutines without locking.
type Lexicon struct {
	synonyms     map[string]string
	conjugations map[string]string
	plurals      map[string]string
	phrases      map[string]string
	dictionaries map[domain.Language]map[string]string
	stopWords    map[domain.Language]map[string]struct{}
}

// Default loads the lexicon embedded in the binary
func Default() (*Lexicon, error) {
	entries, err := dataFS.ReadDir("data")
	if err != nil {
		return nil, fmt.Errorf("failed to list lexicon data: %w", err)
	}

	files := make([]File, 0, len(entries))
	for _, e := range entries {
		raw, err := dataFS.ReadFile("data/" + e.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", e.Name(), err)
		}
		var f File
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", e.Name(), err)
		}
		files = append(files, f)
	}

	return New(files...)
}

// New builds a lexicon from data files. Keys and values are folded so that
// lookups only ever see lowercase, accentless strings.
func New(files ...File) (*Lexicon, error) {
	lx := &Lexicon{
		synonyms:     make(map[string]string),
		conjugations: make(map[string]string),
		plurals:      make(map[string]string),
		phrases:      make(map[string]string),
		dictionaries: make(map[domain.Language]map[string]string),
		stopWords:    make(map[domain.Language]map[string]struct{}),
	}

	for _, f := range files {
		lang, err := domain.ParseLanguage(f.Language)
		if err != nil {
			return nil, err
		}

		if lang.IsPivot() {
			foldInto(lx.synonyms, f.Synonyms, lang)
			foldInto(lx.conjugations, f.Conjugations, lang)
			foldInto(lx.plurals, f.Plurals, lang)
			foldInto(lx.phrases, f.Phrases, lang)
		} else if len(f.Synonyms)+len(f.Conjugations)+len(f.Plurals)+len(f.Phrases) > 0 {
			return nil, fmt.Errorf("language %s: lemma and phrase tables are only allowed for the pivot language", lang)
		}

		if len(f.Dictionary) > 0 {
			dict, ok := lx.dictionaries[lang]
			if !ok {
				dict = make(map[string]string, len(f.Dictionary))
				lx.dictionaries[lang] = dict
			}
			// values are pivot text, folded later by the normalizer
			for k, v := range f.Dictionary {
				dict[textutil.FoldText(k, lang)] = strings.TrimSpace(v)
			}
		}

		if len(f.StopWords) > 0 {
			set, ok := lx.stopWords[lang]
			if !ok {
				set = make(map[string]struct{}, len(f.StopWords))
				lx.stopWords[lang] = set
			}
			for _, w := range f.StopWords {
				set[textutil.FoldText(w, lang)] = struct{}{}
			}
		}
	}

	if err := lx.validate(); err != nil {
		return nil, err
	}
	return lx, nil
}

func foldInto(dst, src map[string]string, lang domain.Language) {
	for k, v := range src {
		dst[textutil.FoldText(k, lang)] = textutil.FoldText(v, lang)
	}
}

// validate rejects lemma tables whose targets are rewritten again by
// another table, which would make normalization depend on iteration count.
func (lx *Lexicon) validate() error {
	tables := []struct {
		name  string
		table map[string]string
	}{
		{"synonyms", lx.synonyms},
		{"conjugations", lx.conjugations},
		{"plurals", lx.plurals},
	}

	var problems []string
	for _, t := range tables {
		for k, v := range t.table {
			if k == "" || v == "" {
				problems = append(problems, fmt.Sprintf("%s: empty entry %q -> %q", t.name, k, v))
				continue
			}
			if next, ok := lx.Lemma(v); ok && next != v {
				problems = append(problems, fmt.Sprintf("%s: %q -> %q is rewritten to %q", t.name, k, v, next))
			}
		}
	}

	if len(problems) > 0 {
		sort.Strings(problems)
		return fmt.Errorf("inconsistent lexicon: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Lemma checks the synonym, conjugation and plural tables in that order
func (lx *Lexicon) Lemma(word string) (string, bool) {
	if v, ok := lx.synonyms[word]; ok {
		return v, true
	}
	if v, ok := lx.conjugations[word]; ok {
		return v, true
	}
	if v, ok := lx.plurals[word]; ok {
		return v, true
	}
	return "", false
}

// Synonym returns the canonical form of a pivot synonym
func (lx *Lexicon) Synonym(word string) (string, bool) {
	v, ok := lx.synonyms[word]
	return v, ok
}

// Infinitive returns the infinitive of a conjugated pivot verb
func (lx *Lexicon) Infinitive(word string) (string, bool) {
	v, ok := lx.conjugations[word]
	return v, ok
}

// Singular returns the singular of an irregular or invariant pivot plural
func (lx *Lexicon) Singular(word string) (string, bool) {
	v, ok := lx.plurals[word]
	return v, ok
}

// Phrase returns the canonical phrase for a space-joined pivot key
func (lx *Lexicon) Phrase(key string) (string, bool) {
	v, ok := lx.phrases[key]
	return v, ok
}

// Translate looks a folded source key up in the dictionary of lang
func (lx *Lexicon) Translate(lang domain.Language, key string) (string, bool) {
	dict, ok := lx.dictionaries[lang]
	if !ok {
		return "", false
	}
	v, ok := dict[key]
	return v, ok
}

// IsStopWord reports whether word is a filler of lang
func (lx *Lexicon) IsStopWord(lang domain.Language, word string) bool {
	_, ok := lx.stopWords[lang][word]
	return ok
}

// Stats returns table sizes for diagnostics
func (lx *Lexicon) Stats() map[string]int {
	stats := map[string]int{
		"synonyms":     len(lx.synonyms),
		"conjugations": len(lx.conjugations),
		"plurals":      len(lx.plurals),
		"phrases":      len(lx.phrases),
	}
	for lang, dict := range lx.dictionaries {
		stats["dictionary_"+string(lang)] = len(dict)
	}
	for lang, set := range lx.stopWords {
		stats["stopwords_"+string(lang)] = len(set)
	}
	return stats
}
