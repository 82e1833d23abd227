package importer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/nclexprep/pkg/models"
)

type memBank struct {
	questions []*models.Question
}

func (b *memBank) Create(_ context.Context, q *models.Question) error {
	q.ID = int64(len(b.questions) + 1)
	b.questions = append(b.questions, q)
	return nil
}

type memCategories struct {
	byName map[string]int64
}

func (c *memCategories) GetOrCreate(_ context.Context, name string) (*models.Category, error) {
	if c.byName == nil {
		c.byName = make(map[string]int64)
	}
	id, ok := c.byName[name]
	if !ok {
		id = int64(len(c.byName) + 1)
		c.byName[name] = id
	}
	return &models.Category{ID: id, Name: name}, nil
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bank.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestImportCSV(t *testing.T) {
	csv := "question,opt1,opt2,opt3,opt4,correct,category,difficulty,rationale\n" +
		"Q one,a,b,c,d,A,Pharmacology,hard,because\n" +
		"Q two,a,b,c,d,3,Pharmacology,1,\n" +
		",,,,,,,,\n" + // blank row is skipped
		"Q bad,a,b,c,d,Z9,Fundamentals,2,\n" // bad correct answer

	bank := &memBank{}
	categories := &memCategories{}
	im := New(bank, categories)

	cfg := DefaultConfig()
	cfg.FilePath = writeCSV(t, csv)

	result, err := im.Import(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, 4, result.TotalProcessed)
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 1, result.Skipped)
	assert.Len(t, result.Errors, 1)
	assert.Equal(t, 1, result.CategoriesCreated)

	require.Len(t, bank.questions, 2)
	first := bank.questions[0]
	assert.Equal(t, "Q one", first.Text)
	assert.Equal(t, 0, first.CorrectIndex)
	assert.Equal(t, models.DifficultyHard, first.Difficulty)
	assert.Equal(t, models.SourceBank, first.Source)

	second := bank.questions[1]
	assert.Equal(t, 2, second.CorrectIndex) // "3" is 1-based
	assert.Equal(t, models.DifficultyEasy, second.Difficulty)
}

func TestParseCorrect(t *testing.T) {
	tests := []struct {
		raw     string
		want    int
		wantErr bool
	}{
		{"A", 0, false},
		{"d", 3, false},
		{"2", 1, false},
		{"", 0, true},
		{"E", 0, true}, // outside a 4-option question
		{"0", 0, true},
		{"??", 0, true},
	}
	for _, tc := range tests {
		got, err := parseCorrect(tc.raw, 4)
		if tc.wantErr {
			assert.Error(t, err, "raw=%q", tc.raw)
			continue
		}
		require.NoError(t, err, "raw=%q", tc.raw)
		assert.Equal(t, tc.want, got)
	}
}
