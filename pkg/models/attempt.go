package models

import "time"

// Session types for simulation attempts.
const (
	SessionStandard = "standard"
	SessionAdaptive = "adaptive"
)

// SimulationAttempt is one exam-simulation session. In adaptive sessions the
// difficulty walks up and down with each answer; in standard sessions it
// stays at the starting level.
type SimulationAttempt struct {
	ID                string     `json:"id" db:"id"`
	UserID            int64      `json:"user_id" db:"user_id"`
	SessionType       string     `json:"session_type" db:"session_type"`
	TotalQuestions    int        `json:"total_questions" db:"total_questions"`
	CurrentDifficulty int        `json:"current_difficulty" db:"current_difficulty"` // always within 1-3
	AnsweredCount     int        `json:"answered_count" db:"answered_count"`
	CorrectCount      int        `json:"correct_count" db:"correct_count"`
	MasteryEstimate   float64    `json:"mastery_estimate" db:"mastery_estimate"` // running accuracy in [0,1]
	StartedAt         time.Time  `json:"started_at" db:"started_at"`
	CompletedAt       *time.Time `json:"completed_at" db:"completed_at"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at" db:"updated_at"`
}

// Completed reports whether the attempt has reached its declared length.
func (a *SimulationAttempt) Completed() bool {
	return a.CompletedAt != nil || a.AnsweredCount >= a.TotalQuestions
}

// AttemptAnswer is one entry in an attempt's append-only answer log.
type AttemptAnswer struct {
	ID           int64     `json:"id" db:"id"`
	AttemptID    string    `json:"attempt_id" db:"attempt_id"`
	QuestionID   int64     `json:"question_id" db:"question_id"`
	Position     int       `json:"position" db:"position"` // 1-based order within the attempt
	AnswerIndex  int       `json:"answer_index" db:"answer_index"`
	IsCorrect    bool      `json:"is_correct" db:"is_correct"`
	TimeSpentSec int       `json:"time_spent_sec" db:"time_spent_sec"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// CategoryStat is per-category answer accuracy across a user's attempts.
type CategoryStat struct {
	CategoryID   int64  `json:"category_id" db:"category_id"`
	CategoryName string `json:"category_name" db:"category_name"`
	Total        int    `json:"total" db:"total"`
	Correct      int    `json:"correct" db:"correct"`
}
