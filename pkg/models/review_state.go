package models

import "time"

// Defaults for a never-reviewed item, per SM-2.
const (
	DefaultEaseFactor = 2.5
	DefaultInterval   = 1
	MinEaseFactor     = 1.3
)

// ReviewState tracks a user's spaced-repetition state for a single question.
// One row per (user, question) pair; created on the first answer and mutated
// in place on every subsequent one.
type ReviewState struct {
	ID            int64      `json:"id" db:"id"`
	UserID        int64      `json:"user_id" db:"user_id"`
	QuestionID    int64      `json:"question_id" db:"question_id"`
	EaseFactor    float64    `json:"ease_factor" db:"ease_factor"`   // SM-2 EF parameter, never below MinEaseFactor
	Interval      int        `json:"interval" db:"interval"`         // days until next review, >= 1
	Repetitions   int        `json:"repetitions" db:"repetitions"`   // consecutive successful reviews
	NextReview    *time.Time `json:"next_review" db:"next_review"`   // nil until first review
	LastReviewAt  *time.Time `json:"last_review_at" db:"last_review_at"`
	LastIsCorrect bool       `json:"last_is_correct" db:"last_is_correct"` // reporting only, not used for scheduling
	Version       int64      `json:"version" db:"version"`                 // optimistic-concurrency counter
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}

// NewReviewState returns the default state for an item the user has never
// answered before.
func NewReviewState(userID, questionID int64) *ReviewState {
	return &ReviewState{
		UserID:     userID,
		QuestionID: questionID,
		EaseFactor: DefaultEaseFactor,
		Interval:   DefaultInterval,
	}
}

// LearningProgress summarizes a user's review items. Mastered and Learning
// count along independent axes (ease vs. interval length) and may overlap
// with NeedsReview; they are not a partition.
type LearningProgress struct {
	TotalCards  int     `json:"total_cards"`
	Mastered    int     `json:"mastered"`     // ease factor > 2.5 and more than 3 repetitions
	Learning    int     `json:"learning"`     // interval of 7 days or less
	NeedsReview int     `json:"needs_review"` // next review is due
	Retention   float64 `json:"retention"`    // percentage, 0 when there are no attempts
}
