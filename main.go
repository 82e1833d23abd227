package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"github.com/example/nclexprep/internal/adaptive"
	"github.com/example/nclexprep/internal/analytics"
	"github.com/example/nclexprep/internal/config"
	"github.com/example/nclexprep/internal/content"
	"github.com/example/nclexprep/internal/database"
	"github.com/example/nclexprep/internal/importer"
	"github.com/example/nclexprep/internal/jobs"
	"github.com/example/nclexprep/internal/practice"
	"github.com/example/nclexprep/internal/server"
	"github.com/example/nclexprep/internal/srs"
)

func main() {
	importPath := flag.String("import", "", "import a question bank from an .xlsx or .csv file and exit")
	flag.Parse()

	// Optional .env for local development.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Connect(cfg)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	reviewRepo := database.NewReviewStateRepository(db)
	questionRepo := database.NewQuestionRepository(db)
	attemptRepo := database.NewAttemptRepository(db)
	categoryRepo := database.NewCategoryRepository(db)
	userRepo := database.NewUserRepository(db)

	if *importPath != "" {
		importCfg := importer.DefaultConfig()
		importCfg.FilePath = *importPath
		result, err := importer.New(questionRepo, categoryRepo).Import(context.Background(), importCfg)
		if err != nil {
			slog.Error("import failed", "error", err)
			os.Exit(1)
		}
		slog.Info("import finished",
			"processed", result.TotalProcessed,
			"created", result.Created,
			"skipped", result.Skipped,
			"categories_created", result.CategoriesCreated,
			"errors", len(result.Errors))
		for _, e := range result.Errors {
			slog.Warn("import error", "detail", e)
		}
		return
	}

	reviews := srs.NewService(reviewRepo)
	attempts := adaptive.NewService(attemptRepo, questionRepo)
	builder := practice.NewBuilder(reviews, questionRepo)

	var provider *content.Provider
	if cfg.OpenAIKey != "" {
		genCfg := content.DefaultConfig()
		genCfg.APIKey = cfg.OpenAIKey
		genCfg.BaseURL = cfg.OpenAIBaseURL
		genCfg.Model = cfg.OpenAIModel
		generator, err := content.NewGenerator(genCfg)
		if err != nil {
			slog.Error("failed to create question generator", "error", err)
			os.Exit(1)
		}
		provider = content.NewProvider(generator, questionRepo, categoryRepo, true)
	} else {
		slog.Warn("OPENAI_API_KEY not set, question generation disabled")
	}

	reminders := jobs.NewReminderScheduler(cfg, userRepo, reviews, jobs.LogNotifier{})
	reminders.Start()
	defer reminders.Stop()

	srv := server.New(server.Deps{
		Reviews:    reviews,
		Attempts:   attempts,
		Provider:   provider,
		Practice:   builder,
		Analyzer:   analytics.NoopAnalyzer{},
		Stats:      attemptRepo,
		Users:      userRepo,
		Categories: categoryRepo,
	})

	go func() {
		slog.Info("server starting", "addr", cfg.HTTPAddr)
		if err := srv.Start(cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	slog.Info("received signal, shutting down", "signal", sig.String())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("error during shutdown", "error", err)
	}
}
