package domain

import "sort"

// MatchedSign pairs what the user typed with the sign that renders it
type MatchedSign struct {
	Surface  string
	Span     []string
	Position int
	Sign     SignEntry
}

// MissingWord is an input word without a sign
type MissingWord struct {
	Surface  string
	Position int
}

// MatchResult is the output of the sign sequence builder
type MatchResult struct {
	Matched []MatchedSign
	Missing []MissingWord
}

// Slot is one position of the reconstructed input order
type Slot struct {
	Surface  string
	Position int
	Sign     *SignEntry // nil when the word is missing
}

// Empty reports whether nothing was matched or missed
func (r MatchResult) Empty() bool {
	return len(r.Matched) == 0 && len(r.Missing) == 0
}

// Signs returns matched sign entries in playback order
func (r MatchResult) Signs() []SignEntry {
	signs := make([]SignEntry, len(r.Matched))
	for i, m := range r.Matched {
		signs[i] = m.Sign
	}
	return signs
}

// MatchedSurfaces returns the surface forms of matched signs
func (r MatchResult) MatchedSurfaces() []string {
	words := make([]string, len(r.Matched))
	for i, m := range r.Matched {
		words[i] = m.Surface
	}
	return words
}

// MissingSurfaces returns the surface forms of unmatched words
func (r MatchResult) MissingSurfaces() []string {
	words := make([]string, len(r.Missing))
	for i, m := range r.Missing {
		words[i] = m.Surface
	}
	return words
}

// TotalDuration sums the durations of matched signs
func (r MatchResult) TotalDuration() float64 {
	var total float64
	for _, m := range r.Matched {
		total += m.Sign.DurationSeconds()
	}
	return total
}

// Ordered interleaves matched and missing words back into input order
func (r MatchResult) Ordered() []Slot {
	slots := make([]Slot, 0, len(r.Matched)+len(r.Missing))
	for i := range r.Matched {
		m := &r.Matched[i]
		slots = append(slots, Slot{Surface: m.Surface, Position: m.Position, Sign: &m.Sign})
	}
	for _, m := range r.Missing {
		slots = append(slots, Slot{Surface: m.Surface, Position: m.Position})
	}
	sort.SliceStable(slots, func(i, j int) bool {
		return slots[i].Position < slots[j].Position
	})
	return slots
}

// TranslationResult is the payload consumed by user interfaces.
// The field set is fixed; existing consumers rely on it.
type TranslationResult struct {
	Success              bool     `json:"success"`
	MatchedWords         []string `json:"matchedWords"`
	MissingWords         []string `json:"missingWords"`
	TotalDurationSeconds float64  `json:"totalDurationSeconds"`
	Message              string   `json:"message"`
}
