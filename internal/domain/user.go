package domain

import (
	"math"
	"time"
)

// Playback rate bounds accepted from users
const (
	MinRate     = 0.25
	MaxRate     = 2.0
	DefaultRate = 1.0
)

// User represents a bot user and their preferences
type User struct {
	UserID    int64
	Language  Language
	Rate      float64
	CreatedAt time.Time
}

// ClampRate keeps a playback rate inside the accepted bounds. Non-positive
// and non-finite rates fall back to DefaultRate.
func ClampRate(rate float64) float64 {
	if rate <= 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
		return DefaultRate
	}
	return min(max(rate, MinRate), MaxRate)
}
