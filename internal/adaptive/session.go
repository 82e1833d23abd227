// Package adaptive drives computer-adaptive simulation sessions: a bounded
// difficulty walk over the 1-3 scale, advanced one answer at a time.
package adaptive

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/example/nclexprep/pkg/errs"
	"github.com/example/nclexprep/pkg/models"
)

// NextDifficulty moves one step up on a correct answer and one step down on
// an incorrect one, saturating at the scale bounds.
func NextDifficulty(current int, correct bool) int {
	if correct {
		if current >= models.DifficultyHard {
			return models.DifficultyHard
		}
		return current + 1
	}
	if current <= models.DifficultyEasy {
		return models.DifficultyEasy
	}
	return current - 1
}

// AttemptStore persists simulation attempts and their answer logs.
type AttemptStore interface {
	Create(ctx context.Context, attempt *models.SimulationAttempt) error
	// Get returns an attempt by ID, or errs.ErrNotFound.
	Get(ctx context.Context, id string) (*models.SimulationAttempt, error)
	Update(ctx context.Context, attempt *models.SimulationAttempt) error
	AppendAnswer(ctx context.Context, answer *models.AttemptAnswer) error
	Answers(ctx context.Context, attemptID string) ([]models.AttemptAnswer, error)
}

// QuestionSource serves questions for a session.
type QuestionSource interface {
	// Get returns a question by ID, or errs.ErrNotFound.
	Get(ctx context.Context, id int64) (*models.Question, error)
	// ByDifficulty returns one unseen question at exactly the given
	// difficulty, or errs.ErrExhaustedContent when none exists. No silent
	// fallback to a neighboring difficulty.
	ByDifficulty(ctx context.Context, difficulty int, excludeIDs []int64) (*models.Question, error)
}

// Service runs simulation attempts.
type Service struct {
	attempts  AttemptStore
	questions QuestionSource
	now       func() time.Time
}

// NewService creates an adaptive-session service.
func NewService(attempts AttemptStore, questions QuestionSource) *Service {
	return &Service{attempts: attempts, questions: questions, now: time.Now}
}

// StartAttempt creates a new simulation attempt and serves its first
// question. A zero startDifficulty defaults to medium.
func (s *Service) StartAttempt(ctx context.Context, userID int64, sessionType string, totalQuestions, startDifficulty int) (*models.SimulationAttempt, *models.Question, error) {
	if totalQuestions < 1 {
		return nil, nil, errors.Wrap(errs.ErrInvalidInput, "total questions must be positive")
	}
	if startDifficulty == 0 {
		startDifficulty = models.DifficultyMedium
	}
	if startDifficulty < models.DifficultyEasy || startDifficulty > models.DifficultyHard {
		return nil, nil, errors.Wrapf(errs.ErrInvalidInput, "difficulty %d outside [%d,%d]", startDifficulty, models.DifficultyEasy, models.DifficultyHard)
	}
	if sessionType == "" {
		sessionType = models.SessionAdaptive
	}

	attempt := &models.SimulationAttempt{
		ID:                uuid.NewString(),
		UserID:            userID,
		SessionType:       sessionType,
		TotalQuestions:    totalQuestions,
		CurrentDifficulty: startDifficulty,
		StartedAt:         s.now(),
	}
	if err := s.attempts.Create(ctx, attempt); err != nil {
		return nil, nil, err
	}

	question, err := s.questions.ByDifficulty(ctx, attempt.CurrentDifficulty, nil)
	if err != nil {
		return nil, nil, err
	}
	return attempt, question, nil
}

// AdvanceResult is the outcome of submitting one answer.
type AdvanceResult struct {
	IsCorrect       bool             `json:"is_correct"`
	Completed       bool             `json:"completed"`
	Difficulty      int              `json:"difficulty"`
	MasteryEstimate float64          `json:"mastery_estimate"`
	NextQuestion    *models.Question `json:"next_question"`
}

// AdvanceAttempt grades one answer, appends it to the attempt log, walks the
// difficulty, and serves the next question. Once the attempt has reached its
// declared length no further answers are recorded and the next question is
// always nil. An empty question pool at the new difficulty surfaces as
// errs.ErrExhaustedContent; the answer is still recorded.
func (s *Service) AdvanceAttempt(ctx context.Context, attemptID string, questionID int64, answerIndex, timeSpentSec int) (*AdvanceResult, error) {
	attempt, err := s.attempts.Get(ctx, attemptID)
	if err != nil {
		return nil, err
	}

	if attempt.Completed() {
		return &AdvanceResult{
			Completed:       true,
			Difficulty:      attempt.CurrentDifficulty,
			MasteryEstimate: attempt.MasteryEstimate,
		}, nil
	}

	question, err := s.questions.Get(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if answerIndex < 0 || answerIndex >= len(question.Options) {
		return nil, errors.Wrapf(errs.ErrInvalidInput, "answer index %d outside options", answerIndex)
	}
	isCorrect := answerIndex == question.CorrectIndex

	answer := &models.AttemptAnswer{
		AttemptID:    attempt.ID,
		QuestionID:   questionID,
		Position:     attempt.AnsweredCount + 1,
		AnswerIndex:  answerIndex,
		IsCorrect:    isCorrect,
		TimeSpentSec: timeSpentSec,
	}
	if err := s.attempts.AppendAnswer(ctx, answer); err != nil {
		return nil, err
	}

	attempt.AnsweredCount++
	if isCorrect {
		attempt.CorrectCount++
	}
	if attempt.SessionType == models.SessionAdaptive {
		attempt.CurrentDifficulty = NextDifficulty(attempt.CurrentDifficulty, isCorrect)
	}
	attempt.MasteryEstimate = float64(attempt.CorrectCount) / float64(attempt.AnsweredCount)

	completed := attempt.AnsweredCount >= attempt.TotalQuestions
	if completed {
		now := s.now()
		attempt.CompletedAt = &now
	}
	if err := s.attempts.Update(ctx, attempt); err != nil {
		return nil, err
	}

	result := &AdvanceResult{
		IsCorrect:       isCorrect,
		Completed:       completed,
		Difficulty:      attempt.CurrentDifficulty,
		MasteryEstimate: attempt.MasteryEstimate,
	}
	if completed {
		return result, nil
	}

	seen, err := s.attempts.Answers(ctx, attempt.ID)
	if err != nil {
		return nil, err
	}
	exclude := make([]int64, 0, len(seen))
	for _, a := range seen {
		exclude = append(exclude, a.QuestionID)
	}
	next, err := s.questions.ByDifficulty(ctx, attempt.CurrentDifficulty, exclude)
	if err != nil {
		return nil, err
	}
	result.NextQuestion = next
	return result, nil
}

// GetAttempt returns an attempt with its answer log.
func (s *Service) GetAttempt(ctx context.Context, attemptID string) (*models.SimulationAttempt, []models.AttemptAnswer, error) {
	attempt, err := s.attempts.Get(ctx, attemptID)
	if err != nil {
		return nil, nil, err
	}
	answers, err := s.attempts.Answers(ctx, attemptID)
	if err != nil {
		return nil, nil, err
	}
	return attempt, answers, nil
}
