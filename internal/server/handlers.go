package server

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/example/nclexprep/internal/analytics"
	"github.com/example/nclexprep/internal/srs"
	"github.com/example/nclexprep/pkg/errs"
	"github.com/example/nclexprep/pkg/models"
)

func pathInt64(c echo.Context, name string) (int64, error) {
	v, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, errors.Wrapf(errs.ErrInvalidInput, "invalid %s", name)
	}
	return v, nil
}

type createUserRequest struct {
	Email            string `json:"email"`
	Name             string `json:"name"`
	QuestionsPerDay  int    `json:"questions_per_day"`
	ReminderHour     int    `json:"reminder_hour"`
	RemindersEnabled *bool  `json:"reminders_enabled"`
}

// POST /api/v1/users
func (s *Server) createUser(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, errors.Wrap(errs.ErrInvalidInput, "malformed body"))
	}
	if req.Email == "" {
		return writeError(c, errors.Wrap(errs.ErrInvalidInput, "email is required"))
	}
	if req.QuestionsPerDay == 0 {
		req.QuestionsPerDay = 10
	}
	if req.ReminderHour == 0 {
		req.ReminderHour = 9
	}
	user := &models.User{
		Email:            req.Email,
		Name:             req.Name,
		QuestionsPerDay:  req.QuestionsPerDay,
		ReminderHour:     req.ReminderHour,
		RemindersEnabled: req.RemindersEnabled == nil || *req.RemindersEnabled,
	}
	if err := s.deps.Users.Create(c.Request().Context(), user); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, user)
}

// GET /api/v1/users/:userID
func (s *Server) getUser(c echo.Context) error {
	userID, err := pathInt64(c, "userID")
	if err != nil {
		return writeError(c, err)
	}
	user, err := s.deps.Users.Get(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// GET /api/v1/categories
func (s *Server) listCategories(c echo.Context) error {
	categories, err := s.deps.Categories.GetAll(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, categories)
}

type processAnswerRequest struct {
	QuestionID int64   `json:"question_id"`
	IsCorrect  bool    `json:"is_correct"`
	Quality    float64 `json:"quality"`
}

// POST /api/v1/users/:userID/answers
func (s *Server) processAnswer(c echo.Context) error {
	userID, err := pathInt64(c, "userID")
	if err != nil {
		return writeError(c, err)
	}
	var req processAnswerRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, errors.Wrap(errs.ErrInvalidInput, "malformed body"))
	}

	update, err := s.deps.Reviews.ProcessAnswer(c.Request().Context(), userID, req.QuestionID, req.IsCorrect, srs.Quality(req.Quality))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, update)
}

// GET /api/v1/users/:userID/reviews/due
func (s *Server) dueReviews(c echo.Context) error {
	userID, err := pathInt64(c, "userID")
	if err != nil {
		return writeError(c, err)
	}
	due, err := s.deps.Reviews.DueQuestions(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, due)
}

// GET /api/v1/users/:userID/progress
func (s *Server) learningProgress(c echo.Context) error {
	userID, err := pathInt64(c, "userID")
	if err != nil {
		return writeError(c, err)
	}
	progress, err := s.deps.Reviews.LearningProgress(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	stats, err := s.deps.Stats.CategoryStats(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	report, err := s.deps.Analyzer.Analyze(c.Request().Context(), nil)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"progress":       progress,
		"category_stats": stats,
		"insights":       report,
	})
}

// GET /api/v1/users/:userID/practice?limit=10
func (s *Server) practiceSet(c echo.Context) error {
	userID, err := pathInt64(c, "userID")
	if err != nil {
		return writeError(c, err)
	}
	limit := 10
	if raw := c.QueryParam("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil {
			return writeError(c, errors.Wrap(errs.ErrInvalidInput, "invalid limit"))
		}
	}
	items, err := s.deps.Practice.BuildSet(c.Request().Context(), userID, limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

type startAttemptRequest struct {
	UserID          int64  `json:"user_id"`
	SessionType     string `json:"session_type"`
	TotalQuestions  int    `json:"total_questions"`
	StartDifficulty int    `json:"start_difficulty"`
}

// POST /api/v1/attempts
func (s *Server) startAttempt(c echo.Context) error {
	var req startAttemptRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, errors.Wrap(errs.ErrInvalidInput, "malformed body"))
	}
	attempt, question, err := s.deps.Attempts.StartAttempt(c.Request().Context(), req.UserID, req.SessionType, req.TotalQuestions, req.StartDifficulty)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"attempt":  attempt,
		"question": question,
	})
}

// GET /api/v1/attempts/:attemptID
func (s *Server) getAttempt(c echo.Context) error {
	attempt, answers, err := s.deps.Attempts.GetAttempt(c.Request().Context(), c.Param("attemptID"))
	if err != nil {
		return writeError(c, err)
	}
	report, err := s.deps.Analyzer.Analyze(c.Request().Context(), analytics.RecordsFromAnswers(answers, nil))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"attempt":  attempt,
		"answers":  answers,
		"insights": report,
	})
}

type advanceAttemptRequest struct {
	QuestionID   int64 `json:"question_id"`
	AnswerIndex  int   `json:"answer_index"`
	TimeSpentSec int   `json:"time_spent_sec"`
}

// POST /api/v1/attempts/:attemptID/answers
func (s *Server) advanceAttempt(c echo.Context) error {
	var req advanceAttemptRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, errors.Wrap(errs.ErrInvalidInput, "malformed body"))
	}
	result, err := s.deps.Attempts.AdvanceAttempt(c.Request().Context(), c.Param("attemptID"), req.QuestionID, req.AnswerIndex, req.TimeSpentSec)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

type generateQuestionRequest struct {
	Category   string `json:"category"`
	Difficulty int    `json:"difficulty"`
}

// POST /api/v1/questions/generate
func (s *Server) generateQuestion(c echo.Context) error {
	if s.deps.Provider == nil {
		return c.JSON(http.StatusServiceUnavailable, errorBody("unavailable", "question generation is not configured"))
	}
	var req generateQuestionRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, errors.Wrap(errs.ErrInvalidInput, "malformed body"))
	}
	if req.Category == "" {
		return writeError(c, errors.Wrap(errs.ErrInvalidInput, "category is required"))
	}
	generated, err := s.deps.Provider.Generate(c.Request().Context(), req.Category, req.Difficulty)
	if err != nil {
		return writeError(c, err)
	}
	if generated.Degraded {
		slog.Warn("serving degraded fallback question", "category", req.Category)
	}
	return c.JSON(http.StatusOK, generated)
}
