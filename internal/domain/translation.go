package domain

import "time"

// Translation is a stored translation request
type Translation struct {
	ID        string
	UserID    int64
	Text      string
	Language  Language
	Matched   []string
	Missing   []string
	CreatedAt time.Time
}

// SignStats summarizes the loaded sign catalog
type SignStats struct {
	Total         int
	ByFormat      map[string]int
	ByTag         map[string]int
	TotalDuration time.Duration
}

// UserStats summarizes a user's activity
type UserStats struct {
	Translations int
	LastAt       *time.Time
}
