package srs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/example/nclexprep/pkg/errs"
	"github.com/example/nclexprep/pkg/models"
)

// ReviewStore is the persistence contract for per-item scheduling state.
type ReviewStore interface {
	// Get returns the state for one (user, question) pair, or errs.ErrNotFound.
	Get(ctx context.Context, userID, questionID int64) (*models.ReviewState, error)
	Create(ctx context.Context, state *models.ReviewState) error
	// Update persists a mutated state. Implementations compare-and-swap on
	// Version and return errs.ErrConflict on a lost race.
	Update(ctx context.Context, state *models.ReviewState) error
	// QueryDue returns states with next_review <= asOf, earliest-due first.
	QueryDue(ctx context.Context, userID int64, asOf time.Time) ([]models.ReviewState, error)
	ListByUser(ctx context.Context, userID int64) ([]models.ReviewState, error)
}

// Service coordinates answer processing and progress reporting. Writes to a
// given (user, question) pair are serialized through a per-key mutex so
// concurrent submissions for the same item cannot interleave their
// read-modify-write cycles.
type Service struct {
	store     ReviewStore
	scheduler *Scheduler
	now       func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewService creates a review service with the default scheduler.
func NewService(store ReviewStore) *Service {
	return &Service{
		store:     store,
		scheduler: NewScheduler(),
		now:       time.Now,
		locks:     make(map[string]*sync.Mutex),
	}
}

// ScheduleUpdate is the outcome of processing one answer.
type ScheduleUpdate struct {
	NextReview time.Time `json:"next_review"`
	Interval   int       `json:"interval"`
	EaseFactor float64   `json:"ease_factor"`
}

func (s *Service) itemLock(userID, questionID int64) *sync.Mutex {
	key := fmt.Sprintf("%d:%d", userID, questionID)
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[key]
	if !ok {
		l = &sync.Mutex{}
		s.locks[key] = l
	}
	return l
}

// ProcessAnswer records one answer for a question, updating (or creating) the
// review state and returning the new schedule. Quality outside [0,5] is
// rejected before any arithmetic runs.
func (s *Service) ProcessAnswer(ctx context.Context, userID, questionID int64, isCorrect bool, quality Quality) (*ScheduleUpdate, error) {
	if quality < 0 || quality > 5 {
		return nil, errors.Wrapf(errs.ErrInvalidInput, "quality %v outside [0,5]", quality)
	}

	lock := s.itemLock(userID, questionID)
	lock.Lock()
	defer lock.Unlock()

	state, err := s.store.Get(ctx, userID, questionID)
	fresh := false
	switch {
	case errors.Is(err, errs.ErrNotFound):
		// First answer for this question creates default state.
		state = models.NewReviewState(userID, questionID)
		fresh = true
	case err != nil:
		return nil, err
	}

	now := s.now()
	res := s.scheduler.ComputeNextReview(state.EaseFactor, state.Interval, state.Repetitions, quality)
	next := now.AddDate(0, 0, res.Interval)

	state.EaseFactor = res.EaseFactor
	state.Interval = res.Interval
	state.Repetitions = res.Repetitions
	state.NextReview = &next
	state.LastReviewAt = &now
	state.LastIsCorrect = isCorrect

	if fresh {
		err = s.store.Create(ctx, state)
	} else {
		err = s.store.Update(ctx, state)
	}
	if err != nil {
		// A failed write must not look like a successful schedule update.
		return nil, err
	}

	return &ScheduleUpdate{
		NextReview: next,
		Interval:   res.Interval,
		EaseFactor: res.EaseFactor,
	}, nil
}

// DueQuestions returns the user's review items whose next review has passed,
// earliest-due first.
func (s *Service) DueQuestions(ctx context.Context, userID int64) ([]models.ReviewState, error) {
	return s.store.QueryDue(ctx, userID, s.now())
}

// LearningProgress aggregates the user's review items into mastery counts.
// A user with no items gets all-zero statistics. Retention divides the count
// of items whose last answer was correct by the summed repetition count; an
// approximation of accuracy, kept for parity with the dashboard it feeds.
func (s *Service) LearningProgress(ctx context.Context, userID int64) (*models.LearningProgress, error) {
	states, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	progress := &models.LearningProgress{TotalCards: len(states)}
	now := s.now()
	totalAttempts := 0
	correct := 0
	for _, st := range states {
		if st.EaseFactor > models.DefaultEaseFactor && st.Repetitions > 3 {
			progress.Mastered++
		}
		if st.Interval <= 7 {
			progress.Learning++
		}
		if st.NextReview != nil && !st.NextReview.After(now) {
			progress.NeedsReview++
		}
		totalAttempts += st.Repetitions
		if st.LastIsCorrect {
			correct++
		}
	}
	if totalAttempts > 0 {
		progress.Retention = float64(correct) / float64(totalAttempts) * 100
	}
	return progress, nil
}
