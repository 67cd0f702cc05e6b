package models

import "time"

// Completion records that a habit was performed on a calendar day. Day is
// always YYYY-MM-DD in the user's timezone, so two completions on the same
// day compare equal regardless of the time they were recorded.
type Completion struct {
	ID        string    `json:"id"`
	HabitID   string    `json:"habit_id"`
	Day       string    `json:"day"`
	Value     float64   `json:"value"`
	CreatedAt time.Time `json:"created_at"`
}
