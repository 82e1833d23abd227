// Package practice assembles multiple-choice practice sets from a user's due
// review items.
package practice

import (
	"context"
	"math/rand"
	"time"

	"github.com/pkg/errors"

	"github.com/example/nclexprep/pkg/errs"
	"github.com/example/nclexprep/pkg/models"
)

// DueLister returns a user's due review items, earliest-due first.
type DueLister interface {
	DueQuestions(ctx context.Context, userID int64) ([]models.ReviewState, error)
}

// QuestionGetter loads questions by ID.
type QuestionGetter interface {
	Get(ctx context.Context, id int64) (*models.Question, error)
}

// Builder assembles practice sets.
type Builder struct {
	due       DueLister
	questions QuestionGetter
	rnd       *rand.Rand
}

// NewBuilder creates a practice-set builder.
func NewBuilder(due DueLister, questions QuestionGetter) *Builder {
	return &Builder{
		due:       due,
		questions: questions,
		rnd:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Item is one practice question with its options shuffled. CorrectIndex
// points into the shuffled options.
type Item struct {
	QuestionID   int64             `json:"question_id"`
	CategoryName string            `json:"category_name"`
	Text         string            `json:"text"`
	Options      models.StringList `json:"options"`
	CorrectIndex int               `json:"correct_index"`
	Difficulty   int               `json:"difficulty"`
}

// BuildSet turns up to limit of the user's due items into practice
// questions, keeping the due order (most overdue first).
func (b *Builder) BuildSet(ctx context.Context, userID int64, limit int) ([]Item, error) {
	if limit < 1 {
		return nil, errors.Wrap(errs.ErrInvalidInput, "limit must be positive")
	}

	states, err := b.due.DueQuestions(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(states) > limit {
		states = states[:limit]
	}

	items := make([]Item, 0, len(states))
	for _, st := range states {
		question, err := b.questions.Get(ctx, st.QuestionID)
		if err != nil {
			return nil, err
		}
		options, correct := shuffleOptions(b.rnd, question.Options, question.CorrectIndex)
		items = append(items, Item{
			QuestionID:   question.ID,
			CategoryName: question.CategoryName,
			Text:         question.Text,
			Options:      options,
			CorrectIndex: correct,
			Difficulty:   question.Difficulty,
		})
	}
	return items, nil
}

// shuffleOptions returns a shuffled copy of the options and the new index of
// the correct answer.
func shuffleOptions(rnd *rand.Rand, options models.StringList, correctIndex int) (models.StringList, int) {
	shuffled := make(models.StringList, len(options))
	copy(shuffled, options)
	rnd.Shuffle(len(shuffled), func(i, j int) {
		if i == correctIndex {
			correctIndex = j
		} else if j == correctIndex {
			correctIndex = i
		}
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled, correctIndex
}
