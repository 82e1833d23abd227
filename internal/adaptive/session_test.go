package adaptive

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/nclexprep/pkg/errs"
	"github.com/example/nclexprep/pkg/models"
)

type fakeAttemptStore struct {
	attempts map[string]*models.SimulationAttempt
	answers  map[string][]models.AttemptAnswer
}

func newFakeAttemptStore() *fakeAttemptStore {
	return &fakeAttemptStore{
		attempts: make(map[string]*models.SimulationAttempt),
		answers:  make(map[string][]models.AttemptAnswer),
	}
}

func (f *fakeAttemptStore) Create(_ context.Context, a *models.SimulationAttempt) error {
	cp := *a
	f.attempts[a.ID] = &cp
	return nil
}

func (f *fakeAttemptStore) Get(_ context.Context, id string) (*models.SimulationAttempt, error) {
	a, ok := f.attempts[id]
	if !ok {
		return nil, errors.Wrap(errs.ErrNotFound, "attempt")
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAttemptStore) Update(_ context.Context, a *models.SimulationAttempt) error {
	cp := *a
	f.attempts[a.ID] = &cp
	return nil
}

func (f *fakeAttemptStore) AppendAnswer(_ context.Context, ans *models.AttemptAnswer) error {
	f.answers[ans.AttemptID] = append(f.answers[ans.AttemptID], *ans)
	return nil
}

func (f *fakeAttemptStore) Answers(_ context.Context, attemptID string) ([]models.AttemptAnswer, error) {
	return f.answers[attemptID], nil
}

// fakeQuestionSource serves an unlimited pool at every difficulty unless a
// difficulty is marked empty. Question N has correct index 0.
type fakeQuestionSource struct {
	nextID int64
	served map[int64]*models.Question
	empty  map[int]bool
}

func newFakeQuestionSource() *fakeQuestionSource {
	return &fakeQuestionSource{served: make(map[int64]*models.Question), empty: make(map[int]bool)}
}

func (f *fakeQuestionSource) Get(_ context.Context, id int64) (*models.Question, error) {
	q, ok := f.served[id]
	if !ok {
		return nil, errors.Wrap(errs.ErrNotFound, "question")
	}
	return q, nil
}

func (f *fakeQuestionSource) ByDifficulty(_ context.Context, difficulty int, _ []int64) (*models.Question, error) {
	if f.empty[difficulty] {
		return nil, errors.Wrapf(errs.ErrExhaustedContent, "difficulty %d", difficulty)
	}
	f.nextID++
	q := &models.Question{
		ID:           f.nextID,
		Text:         "question",
		Options:      models.StringList{"a", "b", "c", "d"},
		CorrectIndex: 0,
		Difficulty:   difficulty,
	}
	f.served[q.ID] = q
	return q, nil
}

func newTestService() (*Service, *fakeAttemptStore, *fakeQuestionSource) {
	attempts := newFakeAttemptStore()
	questions := newFakeQuestionSource()
	svc := NewService(attempts, questions)
	svc.now = func() time.Time { return time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC) }
	return svc, attempts, questions
}

func TestNextDifficultySaturates(t *testing.T) {
	// Saturating walk: arbitrary streaks never leave the 1-3 range.
	d := models.DifficultyMedium
	seq := []int{d}
	for i := 0; i < 3; i++ {
		d = NextDifficulty(d, true)
		seq = append(seq, d)
	}
	assert.Equal(t, []int{2, 3, 3, 3}, seq)

	for i := 0; i < 10; i++ {
		d = NextDifficulty(d, false)
		assert.GreaterOrEqual(t, d, models.DifficultyEasy)
	}
	assert.Equal(t, models.DifficultyEasy, d)
}

func TestStartAttemptDefaultsToMedium(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	attempt, question, err := svc.StartAttempt(ctx, 7, "", 5, 0)
	require.NoError(t, err)
	assert.Equal(t, models.DifficultyMedium, attempt.CurrentDifficulty)
	assert.Equal(t, models.SessionAdaptive, attempt.SessionType)
	assert.Equal(t, models.DifficultyMedium, question.Difficulty)
}

func TestStartAttemptRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	_, _, err := svc.StartAttempt(ctx, 7, models.SessionAdaptive, 0, 2)
	assert.ErrorIs(t, err, errs.ErrInvalidInput)

	_, _, err = svc.StartAttempt(ctx, 7, models.SessionAdaptive, 5, 4)
	assert.ErrorIs(t, err, errs.ErrInvalidInput)
}

func TestAdvanceAttemptWalksDifficulty(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	attempt, question, err := svc.StartAttempt(ctx, 7, models.SessionAdaptive, 10, models.DifficultyMedium)
	require.NoError(t, err)

	// Correct answer: difficulty steps up.
	res, err := svc.AdvanceAttempt(ctx, attempt.ID, question.ID, 0, 30)
	require.NoError(t, err)
	assert.True(t, res.IsCorrect)
	assert.Equal(t, models.DifficultyHard, res.Difficulty)
	assert.InDelta(t, 1.0, res.MasteryEstimate, 1e-9)
	require.NotNil(t, res.NextQuestion)
	assert.Equal(t, models.DifficultyHard, res.NextQuestion.Difficulty)

	// Incorrect answer: difficulty steps back down, mastery halves.
	res, err = svc.AdvanceAttempt(ctx, attempt.ID, res.NextQuestion.ID, 1, 30)
	require.NoError(t, err)
	assert.False(t, res.IsCorrect)
	assert.Equal(t, models.DifficultyMedium, res.Difficulty)
	assert.InDelta(t, 0.5, res.MasteryEstimate, 1e-9)
}

func TestStandardSessionKeepsDifficulty(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	attempt, question, err := svc.StartAttempt(ctx, 7, models.SessionStandard, 5, models.DifficultyMedium)
	require.NoError(t, err)

	res, err := svc.AdvanceAttempt(ctx, attempt.ID, question.ID, 0, 10)
	require.NoError(t, err)
	assert.True(t, res.IsCorrect)
	assert.Equal(t, models.DifficultyMedium, res.Difficulty)
}

func TestAdvanceAttemptCompletes(t *testing.T) {
	ctx := context.Background()
	svc, attempts, _ := newTestService()

	attempt, question, err := svc.StartAttempt(ctx, 7, models.SessionAdaptive, 5, models.DifficultyMedium)
	require.NoError(t, err)

	var res *AdvanceResult
	q := question
	for i := 0; i < 5; i++ {
		res, err = svc.AdvanceAttempt(ctx, attempt.ID, q.ID, 0, 20)
		require.NoError(t, err)
		if res.NextQuestion != nil {
			q = res.NextQuestion
		}
	}

	assert.True(t, res.Completed)
	assert.Nil(t, res.NextQuestion)

	stored, err := attempts.Get(ctx, attempt.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.CompletedAt)
	assert.Equal(t, 5, stored.AnsweredCount)

	// Further advances record nothing and serve nothing.
	res, err = svc.AdvanceAttempt(ctx, attempt.ID, q.ID, 0, 20)
	require.NoError(t, err)
	assert.True(t, res.Completed)
	assert.Nil(t, res.NextQuestion)

	answers, err := attempts.Answers(ctx, attempt.ID)
	require.NoError(t, err)
	assert.Len(t, answers, 5)
}

func TestAdvanceAttemptSurfacesExhaustedContent(t *testing.T) {
	ctx := context.Background()
	svc, _, questions := newTestService()

	attempt, question, err := svc.StartAttempt(ctx, 7, models.SessionAdaptive, 5, models.DifficultyMedium)
	require.NoError(t, err)

	// No hard questions left: a correct answer walks into an empty pool.
	questions.empty[models.DifficultyHard] = true

	_, err = svc.AdvanceAttempt(ctx, attempt.ID, question.ID, 0, 15)
	assert.ErrorIs(t, err, errs.ErrExhaustedContent)
}

func TestAdvanceAttemptUnknownAttempt(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	_, err := svc.AdvanceAttempt(ctx, "missing", 1, 0, 5)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}
