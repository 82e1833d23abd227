// Package jobs runs the background due-review reminder schedule.
package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/example/nclexprep/internal/config"
	"github.com/example/nclexprep/pkg/models"
)

// Notifier delivers a due-review reminder to a user.
type Notifier interface {
	SendDueReminder(ctx context.Context, user models.User, dueCount int) error
}

// UserDirectory lists users who opted into reminders for an hour of day.
type UserDirectory interface {
	WithRemindersAt(ctx context.Context, hour int) ([]models.User, error)
}

// DueCounter reports a user's due review items.
type DueCounter interface {
	DueQuestions(ctx context.Context, userID int64) ([]models.ReviewState, error)
}

// ReminderScheduler checks hourly for users whose reminder hour has arrived
// and notifies them of their due review count.
type ReminderScheduler struct {
	scheduler *gocron.Scheduler
	users     UserDirectory
	reviews   DueCounter
	notifier  Notifier

	startHour int
	endHour   int
	now       func() time.Time
}

// NewReminderScheduler creates the reminder job. Reminders are only sent
// between the configured start and end hours.
func NewReminderScheduler(cfg config.Config, users UserDirectory, reviews DueCounter, notifier Notifier) *ReminderScheduler {
	return &ReminderScheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		users:     users,
		reviews:   reviews,
		notifier:  notifier,
		startHour: cfg.NotificationStartHour,
		endHour:   cfg.NotificationEndHour,
		now:       time.Now,
	}
}

// Start begins the hourly check in the background.
func (s *ReminderScheduler) Start() {
	s.scheduler.Every(1).Hour().Do(func() {
		s.checkAndSendReminders(context.Background())
	})
	s.scheduler.StartAsync()
}

// Stop terminates the schedule.
func (s *ReminderScheduler) Stop() {
	s.scheduler.Stop()
}

func (s *ReminderScheduler) checkAndSendReminders(ctx context.Context) {
	currentHour := s.now().Hour()
	if currentHour < s.startHour || currentHour > s.endHour {
		slog.Debug("outside notification hours, skipping reminders",
			"hour", currentHour, "start", s.startHour, "end", s.endHour)
		return
	}

	users, err := s.users.WithRemindersAt(ctx, currentHour)
	if err != nil {
		slog.Error("failed to get users for reminders", "error", err)
		return
	}

	for _, user := range users {
		if err := s.remind(ctx, user); err != nil {
			slog.Error("failed to send reminder", "user_id", user.ID, "error", err)
		}
	}
}

func (s *ReminderScheduler) remind(ctx context.Context, user models.User) error {
	due, err := s.reviews.DueQuestions(ctx, user.ID)
	if err != nil {
		return err
	}
	if len(due) == 0 {
		return nil
	}
	count := len(due)
	if user.QuestionsPerDay > 0 && count > user.QuestionsPerDay {
		count = user.QuestionsPerDay
	}
	return s.notifier.SendDueReminder(ctx, user, count)
}

// RunManualCheck forces a reminder check for a specific user, ignoring the
// notification window.
func (s *ReminderScheduler) RunManualCheck(ctx context.Context, user models.User) error {
	return s.remind(ctx, user)
}

// LogNotifier is the default notifier; it records reminders in the service
// log. Real delivery (email, push) plugs in behind the same interface.
type LogNotifier struct{}

// SendDueReminder implements Notifier.
func (LogNotifier) SendDueReminder(_ context.Context, user models.User, dueCount int) error {
	slog.Info("due-review reminder", "user_id", user.ID, "email", user.Email, "due_count", dueCount)
	return nil
}
