// Package analytics defines the performance-analysis extension point.
// Today's default implementation is a deliberate no-op; the interface exists
// so a real analyzer can be swapped in without touching callers.
package analytics

import (
	"context"

	"github.com/example/nclexprep/pkg/models"
)

// AnswerRecord is one graded answer fed to an analyzer.
type AnswerRecord struct {
	QuestionID   int64
	CategoryID   int64
	IsCorrect    bool
	TimeSpentSec int
}

// Report is an analyzer's assessment of a set of answers.
type Report struct {
	Strengths         []string `json:"strengths"`
	Weaknesses        []string `json:"weaknesses"`
	Confidence        float64  `json:"confidence"`
	RecommendedTopics []string `json:"recommended_topics"`
}

// PerformanceAnalyzer turns a set of answers into study guidance.
type PerformanceAnalyzer interface {
	Analyze(ctx context.Context, answers []AnswerRecord) (Report, error)
}

// NoopAnalyzer is the default analyzer: empty collections, zero confidence.
type NoopAnalyzer struct{}

// Analyze implements PerformanceAnalyzer.
func (NoopAnalyzer) Analyze(context.Context, []AnswerRecord) (Report, error) {
	return Report{
		Strengths:         []string{},
		Weaknesses:        []string{},
		RecommendedTopics: []string{},
	}, nil
}

// RecordsFromAnswers converts an attempt's answer log for analysis.
func RecordsFromAnswers(answers []models.AttemptAnswer, questions map[int64]*models.Question) []AnswerRecord {
	records := make([]AnswerRecord, 0, len(answers))
	for _, a := range answers {
		rec := AnswerRecord{
			QuestionID:   a.QuestionID,
			IsCorrect:    a.IsCorrect,
			TimeSpentSec: a.TimeSpentSec,
		}
		if q, ok := questions[a.QuestionID]; ok {
			rec.CategoryID = q.CategoryID
		}
		records = append(records, rec)
	}
	return records
}
