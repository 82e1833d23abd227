package content

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/nclexprep/pkg/errs"
	"github.com/example/nclexprep/pkg/models"
)

func TestParseGeneratedAcceptsValidOutput(t *testing.T) {
	raw := `{
		"question": "Which finding indicates digoxin toxicity?",
		"options": ["Bradycardia", "Hypertension", "Fever", "Polyuria"],
		"correct_index": 0,
		"rationale": "Bradycardia is a classic sign of digoxin toxicity."
	}`

	q, err := parseGenerated(raw)
	require.NoError(t, err)
	assert.Equal(t, "Which finding indicates digoxin toxicity?", q.Text)
	assert.Len(t, q.Options, 4)
	assert.Equal(t, 0, q.CorrectIndex)
}

func TestParseGeneratedStripsCodeFence(t *testing.T) {
	raw := "```json\n{\"question\":\"q\",\"options\":[\"a\",\"b\",\"c\",\"d\"],\"correct_index\":2,\"rationale\":\"r\"}\n```"

	q, err := parseGenerated(raw)
	require.NoError(t, err)
	assert.Equal(t, 2, q.CorrectIndex)
}

func TestParseGeneratedRejectsBadOutput(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "Here is your question: what is 2+2?"},
		{"empty question", `{"question":"  ","options":["a","b","c","d"],"correct_index":0}`},
		{"too few options", `{"question":"q","options":["a","b"],"correct_index":0}`},
		{"blank option", `{"question":"q","options":["a","","c","d"],"correct_index":0}`},
		{"correct index out of range", `{"question":"q","options":["a","b","c","d"],"correct_index":4}`},
		{"negative correct index", `{"question":"q","options":["a","b","c","d"],"correct_index":-1}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parseGenerated(tc.raw)
			assert.ErrorIs(t, err, errs.ErrInvalidContent)
		})
	}
}

type stubGenerator struct {
	question *models.Question
	err      error
}

func (s *stubGenerator) GenerateQuestion(context.Context, string, int) (*models.Question, error) {
	return s.question, s.err
}

type stubBank struct {
	created []*models.Question
}

func (b *stubBank) Create(_ context.Context, q *models.Question) error {
	q.ID = int64(len(b.created) + 1)
	b.created = append(b.created, q)
	return nil
}

type stubCategories struct{}

func (stubCategories) GetOrCreate(_ context.Context, name string) (*models.Category, error) {
	return &models.Category{ID: 1, Name: name}, nil
}

func TestProviderPersistsGeneratedQuestion(t *testing.T) {
	ctx := context.Background()
	bank := &stubBank{}
	gen := &stubGenerator{question: &models.Question{
		Text:         "q",
		Options:      models.StringList{"a", "b", "c", "d"},
		CorrectIndex: 1,
		Difficulty:   models.DifficultyHard,
		Source:       models.SourceGenerated,
	}}
	p := NewProvider(gen, bank, stubCategories{}, false)

	got, err := p.Generate(ctx, "Pharmacology", models.DifficultyHard)
	require.NoError(t, err)
	assert.False(t, got.Degraded)
	assert.Equal(t, int64(1), got.Question.CategoryID)
	require.Len(t, bank.created, 1)
}

func TestProviderRejectsInvalidContentWithoutFallback(t *testing.T) {
	ctx := context.Background()
	bank := &stubBank{}
	gen := &stubGenerator{err: errors.Wrap(errs.ErrInvalidContent, "bad json")}
	p := NewProvider(gen, bank, stubCategories{}, false)

	_, err := p.Generate(ctx, "Pharmacology", models.DifficultyEasy)
	assert.ErrorIs(t, err, errs.ErrInvalidContent)
	assert.Empty(t, bank.created)
}

func TestProviderFallbackIsMarkedDegradedAndNotPersisted(t *testing.T) {
	ctx := context.Background()
	bank := &stubBank{}
	gen := &stubGenerator{err: errors.Wrap(errs.ErrInvalidContent, "bad json")}
	p := NewProvider(gen, bank, stubCategories{}, true)

	got, err := p.Generate(ctx, "Pharmacology", models.DifficultyEasy)
	require.NoError(t, err)
	assert.True(t, got.Degraded)
	assert.Equal(t, models.SourceFallback, got.Question.Source)
	assert.Empty(t, bank.created)
}
