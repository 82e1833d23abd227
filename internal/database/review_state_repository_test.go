package database

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/nclexprep/internal/config"
	"github.com/example/nclexprep/pkg/errs"
	"github.com/example/nclexprep/pkg/models"
)

// testDB opens a fresh in-memory sqlite database with the full schema and a
// user, category, and question to satisfy foreign keys.
func testDB(t *testing.T) (*sqlx.DB, *models.User, *models.Question) {
	t.Helper()

	db, err := Connect(config.Config{DBType: config.DBSQLite, SQLitePath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()

	user := &models.User{Email: "student@example.com", QuestionsPerDay: 10, ReminderHour: 9, RemindersEnabled: true}
	require.NoError(t, NewUserRepository(db).Create(ctx, user))

	category, err := NewCategoryRepository(db).GetOrCreate(ctx, "Pharmacology")
	require.NoError(t, err)

	question := &models.Question{
		CategoryID:   category.ID,
		Text:         "A client is prescribed furosemide. Which lab value should the nurse monitor?",
		Options:      models.StringList{"Potassium", "Calcium", "Albumin", "Platelets"},
		CorrectIndex: 0,
		Difficulty:   models.DifficultyMedium,
	}
	require.NoError(t, NewQuestionRepository(db).Create(ctx, question))

	return db, user, question
}

func TestReviewStateRoundTrip(t *testing.T) {
	ctx := context.Background()
	db, user, question := testDB(t)
	repo := NewReviewStateRepository(db)

	_, err := repo.Get(ctx, user.ID, question.ID)
	assert.ErrorIs(t, err, errs.ErrNotFound)

	state := models.NewReviewState(user.ID, question.ID)
	next := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	state.NextReview = &next
	state.LastIsCorrect = true
	require.NoError(t, repo.Create(ctx, state))
	require.NotZero(t, state.ID)

	got, err := repo.Get(ctx, user.ID, question.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultEaseFactor, got.EaseFactor)
	assert.Equal(t, models.DefaultInterval, got.Interval)
	assert.True(t, got.LastIsCorrect)
	require.NotNil(t, got.NextReview)
	assert.True(t, got.NextReview.Equal(next))
}

func TestReviewStateUpdateVersioning(t *testing.T) {
	ctx := context.Background()
	db, user, question := testDB(t)
	repo := NewReviewStateRepository(db)

	state := models.NewReviewState(user.ID, question.ID)
	require.NoError(t, repo.Create(ctx, state))

	state.EaseFactor = 2.6
	state.Interval = 6
	state.Repetitions = 1
	require.NoError(t, repo.Update(ctx, state))
	assert.Equal(t, int64(1), state.Version)

	// A writer holding the old version loses the race.
	stale := *state
	stale.Version = 0
	err := repo.Update(ctx, &stale)
	assert.ErrorIs(t, err, errs.ErrConflict)

	got, err := repo.Get(ctx, user.ID, question.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, got.Interval)
	assert.Equal(t, int64(1), got.Version)
}

func TestReviewStateQueryDueOrdering(t *testing.T) {
	ctx := context.Background()
	db, user, question := testDB(t)
	repo := NewReviewStateRepository(db)
	questions := NewQuestionRepository(db)

	now := time.Date(2026, 5, 10, 8, 0, 0, 0, time.UTC)

	makeQuestion := func() *models.Question {
		q := &models.Question{
			CategoryID:   question.CategoryID,
			Text:         "another question",
			Options:      models.StringList{"a", "b", "c", "d"},
			CorrectIndex: 1,
			Difficulty:   models.DifficultyEasy,
		}
		require.NoError(t, questions.Create(ctx, q))
		return q
	}

	addState := func(q *models.Question, next time.Time) {
		st := models.NewReviewState(user.ID, q.ID)
		st.NextReview = &next
		require.NoError(t, repo.Create(ctx, st))
	}

	addState(question, now.AddDate(0, 0, -2))
	addState(makeQuestion(), now.AddDate(0, 0, -7))
	addState(makeQuestion(), now.AddDate(0, 0, 3)) // not due yet

	due, err := repo.QueryDue(ctx, user.ID, now)
	require.NoError(t, err)
	require.Len(t, due, 2)
	assert.True(t, due[0].NextReview.Before(*due[1].NextReview))
}

func TestQuestionByDifficultyExhausted(t *testing.T) {
	ctx := context.Background()
	db, _, question := testDB(t)
	questions := NewQuestionRepository(db)

	// The only question is medium; the hard pool is empty.
	_, err := questions.ByDifficulty(ctx, models.DifficultyHard, nil)
	assert.ErrorIs(t, err, errs.ErrExhaustedContent)

	// Excluding the only medium question empties that pool too.
	_, err = questions.ByDifficulty(ctx, models.DifficultyMedium, []int64{question.ID})
	assert.ErrorIs(t, err, errs.ErrExhaustedContent)

	got, err := questions.ByDifficulty(ctx, models.DifficultyMedium, nil)
	require.NoError(t, err)
	assert.Equal(t, question.ID, got.ID)
	assert.Equal(t, "Pharmacology", got.CategoryName)
}
