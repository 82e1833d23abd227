package models

import "time"

// User represents a student account with study preferences.
type User struct {
	ID               int64     `json:"id" db:"id"`
	Email            string    `json:"email" db:"email"`
	Name             string    `json:"name" db:"name"`
	QuestionsPerDay  int       `json:"questions_per_day" db:"questions_per_day"`
	ReminderHour     int       `json:"reminder_hour" db:"reminder_hour"` // hour of day for due-review reminders (0-23)
	RemindersEnabled bool      `json:"reminders_enabled" db:"reminders_enabled"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}
