package content

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/example/nclexprep/pkg/errs"
	"github.com/example/nclexprep/pkg/models"
)

// QuestionBank is where accepted questions are stored.
type QuestionBank interface {
	Create(ctx context.Context, question *models.Question) error
}

// CategoryDirectory resolves category names to records.
type CategoryDirectory interface {
	GetOrCreate(ctx context.Context, name string) (*models.Category, error)
}

// QuestionGenerator produces one question for a category and difficulty.
type QuestionGenerator interface {
	GenerateQuestion(ctx context.Context, category string, difficulty int) (*models.Question, error)
}

// Provider generates a question and stores it in the bank. When the model
// output is rejected it can serve a canned fallback question instead; the
// fallback is explicitly marked degraded, never passed off as generated
// content.
type Provider struct {
	generator     QuestionGenerator
	bank          QuestionBank
	categories    CategoryDirectory
	allowFallback bool
}

// NewProvider creates a provider. allowFallback enables degraded-mode
// responses when generation fails validation.
func NewProvider(generator QuestionGenerator, bank QuestionBank, categories CategoryDirectory, allowFallback bool) *Provider {
	return &Provider{
		generator:     generator,
		bank:          bank,
		categories:    categories,
		allowFallback: allowFallback,
	}
}

// Generated is a provider response. Degraded is true when the question is a
// canned fallback rather than accepted model output.
type Generated struct {
	Question *models.Question `json:"question"`
	Degraded bool             `json:"degraded"`
}

// Generate produces one question for the category at the given difficulty
// and persists it. Invalid model output surfaces as errs.ErrInvalidContent
// unless fallback is enabled, in which case a degraded response is returned
// (and not persisted to the bank).
func (p *Provider) Generate(ctx context.Context, categoryName string, difficulty int) (*Generated, error) {
	category, err := p.categories.GetOrCreate(ctx, categoryName)
	if err != nil {
		return nil, err
	}

	question, err := p.generator.GenerateQuestion(ctx, category.Name, difficulty)
	if err != nil {
		if p.allowFallback && errors.Is(err, errs.ErrInvalidContent) {
			slog.Warn("question generation rejected, serving fallback",
				"category", category.Name, "difficulty", difficulty, "error", err)
			fb := FallbackQuestion(category, difficulty)
			return &Generated{Question: fb, Degraded: true}, nil
		}
		return nil, err
	}

	question.CategoryID = category.ID
	question.CategoryName = category.Name
	if err := p.bank.Create(ctx, question); err != nil {
		return nil, err
	}
	return &Generated{Question: question}, nil
}

// FallbackQuestion is the degraded-mode response served when generation
// fails and fallback is enabled. It keeps a session moving but is never
// stored in the bank.
func FallbackQuestion(category *models.Category, difficulty int) *models.Question {
	return &models.Question{
		CategoryID:   category.ID,
		CategoryName: category.Name,
		Text:         "A nurse is prioritizing care for four clients. Which client should the nurse assess first?",
		Options: models.StringList{
			"A client with new-onset confusion",
			"A client requesting pain medication",
			"A client awaiting discharge teaching",
			"A client with a scheduled dressing change",
		},
		CorrectIndex: 0,
		Rationale:    "New-onset confusion can signal an acute physiologic change and takes priority.",
		Difficulty:   difficulty,
		Source:       models.SourceFallback,
	}
}
