package analytics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/nclexprep/pkg/models"
)

func TestNoopAnalyzerReturnsEmptyReport(t *testing.T) {
	report, err := NoopAnalyzer{}.Analyze(context.Background(), []AnswerRecord{
		{QuestionID: 1, IsCorrect: true},
		{QuestionID: 2, IsCorrect: false},
	})
	require.NoError(t, err)

	assert.Empty(t, report.Strengths)
	assert.Empty(t, report.Weaknesses)
	assert.Empty(t, report.RecommendedTopics)
	assert.Zero(t, report.Confidence)
	// Collections are present but empty, not nil, so they serialize as [].
	assert.NotNil(t, report.Strengths)
	assert.NotNil(t, report.Weaknesses)
	assert.NotNil(t, report.RecommendedTopics)
}

func TestRecordsFromAnswers(t *testing.T) {
	answers := []models.AttemptAnswer{
		{QuestionID: 10, IsCorrect: true, TimeSpentSec: 40},
		{QuestionID: 11, IsCorrect: false, TimeSpentSec: 75},
	}
	questions := map[int64]*models.Question{
		10: {ID: 10, CategoryID: 3},
	}

	records := RecordsFromAnswers(answers, questions)
	require.Len(t, records, 2)
	assert.Equal(t, int64(3), records[0].CategoryID)
	assert.Zero(t, records[1].CategoryID) // unknown question keeps zero category
}
