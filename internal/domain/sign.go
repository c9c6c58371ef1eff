package domain

import "time"

// Default clip timings used when a catalog source does not provide them
const (
	DefaultClipDuration = 2500 * time.Millisecond
	DefaultTransition   = 300 * time.Millisecond
)

// SignEntry describes one playable sign clip. Entries are immutable once loaded.
type SignEntry struct {
	ID            string
	DisplayName   string
	Duration      time.Duration
	TransitionIn  time.Duration
	TransitionOut time.Duration
	Format        string
	File          string // asset path relative to the clips directory
	Tags          []string
}

// DurationSeconds returns the clip duration in seconds
func (s SignEntry) DurationSeconds() float64 {
	return s.Duration.Seconds()
}

// TransitionWindow returns the blend window between two consecutive clips
func TransitionWindow(outgoing, incoming SignEntry) time.Duration {
	return max(outgoing.TransitionOut, incoming.TransitionIn)
}
