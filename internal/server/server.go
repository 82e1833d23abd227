// Package server exposes the scheduling core over HTTP.
package server

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/example/nclexprep/internal/adaptive"
	"github.com/example/nclexprep/internal/analytics"
	"github.com/example/nclexprep/internal/content"
	"github.com/example/nclexprep/internal/practice"
	"github.com/example/nclexprep/internal/srs"
	"github.com/example/nclexprep/pkg/models"
)

// CategoryStatsProvider reports per-category answer accuracy for the
// progress dashboard.
type CategoryStatsProvider interface {
	CategoryStats(ctx context.Context, userID int64) ([]models.CategoryStat, error)
}

// UserStore persists user accounts.
type UserStore interface {
	Get(ctx context.Context, id int64) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

// CategoryLister lists question categories.
type CategoryLister interface {
	GetAll(ctx context.Context) ([]models.Category, error)
}

// Deps are the services behind the HTTP routes. Provider may be nil when no
// AI key is configured; the generate endpoint then reports the feature as
// unavailable.
type Deps struct {
	Reviews    *srs.Service
	Attempts   *adaptive.Service
	Provider   *content.Provider
	Practice   *practice.Builder
	Analyzer   analytics.PerformanceAnalyzer
	Stats      CategoryStatsProvider
	Users      UserStore
	Categories CategoryLister
}

// Server wires the services to their HTTP routes.
type Server struct {
	echo *echo.Echo
	deps Deps
}

// New creates the HTTP server.
func New(deps Deps) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	s := &Server{echo: e, deps: deps}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	api := s.echo.Group("/api/v1")

	api.POST("/users", s.createUser)
	api.GET("/users/:userID", s.getUser)
	api.GET("/categories", s.listCategories)

	api.POST("/users/:userID/answers", s.processAnswer)
	api.GET("/users/:userID/reviews/due", s.dueReviews)
	api.GET("/users/:userID/progress", s.learningProgress)
	api.GET("/users/:userID/practice", s.practiceSet)

	api.POST("/attempts", s.startAttempt)
	api.GET("/attempts/:attemptID", s.getAttempt)
	api.POST("/attempts/:attemptID/answers", s.advanceAttempt)

	api.POST("/questions/generate", s.generateQuestion)
}

// Start runs the server until Shutdown.
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
