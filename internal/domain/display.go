package domain

import "time"

// DisplayDate returns a user-friendly French date string
func DisplayDate(date, now time.Time) string {
	date = date.In(now.Location())

	// Check if today
	if date.Year() == now.Year() && date.Month() == now.Month() && date.Day() == now.Day() {
		return "Aujourd'hui"
	}

	// Check if yesterday
	yesterday := now.AddDate(0, 0, -1)
	if date.Year() == yesterday.Year() && date.Month() == yesterday.Month() && date.Day() == yesterday.Day() {
		return "Hier"
	}

	months := []string{
		"", "janv.", "févr.", "mars", "avr.", "mai", "juin",
		"juil.", "août", "sept.", "oct.", "nov.", "déc.",
	}

	return date.Format("2 ") + months[date.Month()] + date.Format(" 2006")
}
