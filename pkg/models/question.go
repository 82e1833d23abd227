package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
)

// Difficulty levels for questions and adaptive sessions.
const (
	DifficultyEasy   = 1
	DifficultyMedium = 2
	DifficultyHard   = 3
)

// Question sources. Generated and fallback questions are flagged so a
// degraded-mode response is never mistaken for bank content.
const (
	SourceBank      = "bank"
	SourceGenerated = "generated"
	SourceFallback  = "fallback"
)

// StringList stores a JSON-encoded string slice in a TEXT column.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, errors.Wrap(err, "marshal string list")
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		return errors.Wrap(json.Unmarshal(v, l), "scan string list")
	case string:
		return errors.Wrap(json.Unmarshal([]byte(v), l), "scan string list")
	default:
		return errors.Errorf("unsupported string list source type %T", src)
	}
}

// Question is a single NCLEX practice question.
type Question struct {
	ID           int64      `json:"id" db:"id"`
	CategoryID   int64      `json:"category_id" db:"category_id"`
	CategoryName string     `json:"category_name,omitempty" db:"category_name"`
	Text         string     `json:"text" db:"text"`
	Options      StringList `json:"options" db:"options"`
	CorrectIndex int        `json:"correct_index" db:"correct_index"`
	Rationale    string     `json:"rationale" db:"rationale"`
	Difficulty   int        `json:"difficulty" db:"difficulty"` // 1-3 scale
	Source       string     `json:"source" db:"source"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// Category groups questions by NCLEX client-needs area.
type Category struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
