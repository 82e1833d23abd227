// Package content generates new practice questions through an LLM behind a
// schema-validated boundary. Model output is parsed or rejected; it never
// reaches the question bank unvalidated.
package content

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	openai "github.com/sashabaranov/go-openai"

	"github.com/example/nclexprep/pkg/errs"
	"github.com/example/nclexprep/pkg/models"
)

// Config holds the generator configuration.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float32
	Timeout     time.Duration
}

// DefaultConfig returns the default generator configuration.
func DefaultConfig() Config {
	return Config{
		Model:       "gpt-4o-mini",
		MaxTokens:   600,
		Temperature: 0.7,
		Timeout:     30 * time.Second,
	}
}

// chatCompleter is the slice of the OpenAI client the generator uses.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Generator produces NCLEX-style questions from a chat model.
type Generator struct {
	client chatCompleter
	config Config
}

// NewGenerator creates a generator. The API key is required.
func NewGenerator(cfg Config) (*Generator, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("OPENAI_API_KEY is not set")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultConfig().Model
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = DefaultConfig().MaxTokens
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	return &Generator{client: openai.NewClientWithConfig(clientConfig), config: cfg}, nil
}

const systemPrompt = "You are an NCLEX-RN item writer. You produce single multiple-choice questions " +
	"as strict JSON with keys: question (string), options (array of exactly 4 strings), " +
	"correct_index (integer 0-3), rationale (string). Output JSON only, no prose."

// generatedQuestion is the wire shape expected from the model.
type generatedQuestion struct {
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
	Rationale    string   `json:"rationale"`
}

// GenerateQuestion asks the model for one question in the given category at
// the given difficulty. Output failing validation is rejected with
// errs.ErrInvalidContent, never repaired or silently substituted.
func (g *Generator) GenerateQuestion(ctx context.Context, category string, difficulty int) (*models.Question, error) {
	if difficulty < models.DifficultyEasy || difficulty > models.DifficultyHard {
		return nil, errors.Wrapf(errs.ErrInvalidInput, "difficulty %d outside [%d,%d]", difficulty, models.DifficultyEasy, models.DifficultyHard)
	}

	prompt := fmt.Sprintf(
		"Write one NCLEX-RN multiple-choice question in the category %q at difficulty %d on a 1 (easy) to 3 (hard) scale.",
		category, difficulty,
	)

	ctx, cancel := context.WithTimeout(ctx, g.config.Timeout)
	defer cancel()

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.config.Model,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "chat completion failed")
	}
	if len(resp.Choices) == 0 {
		return nil, errors.Wrap(errs.ErrInvalidContent, "no response choices returned")
	}

	question, err := parseGenerated(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}
	question.Difficulty = difficulty
	question.Source = models.SourceGenerated
	return question, nil
}

// parseGenerated validates the model output against the expected shape.
func parseGenerated(raw string) (*models.Question, error) {
	raw = strings.TrimSpace(raw)
	// Models occasionally fence their JSON despite instructions.
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var gq generatedQuestion
	if err := json.Unmarshal([]byte(raw), &gq); err != nil {
		return nil, errors.Wrapf(errs.ErrInvalidContent, "not valid JSON: %v", err)
	}
	if strings.TrimSpace(gq.Question) == "" {
		return nil, errors.Wrap(errs.ErrInvalidContent, "empty question text")
	}
	if len(gq.Options) != 4 {
		return nil, errors.Wrapf(errs.ErrInvalidContent, "expected 4 options, got %d", len(gq.Options))
	}
	for i, opt := range gq.Options {
		if strings.TrimSpace(opt) == "" {
			return nil, errors.Wrapf(errs.ErrInvalidContent, "option %d is empty", i)
		}
	}
	if gq.CorrectIndex < 0 || gq.CorrectIndex >= len(gq.Options) {
		return nil, errors.Wrapf(errs.ErrInvalidContent, "correct index %d outside options", gq.CorrectIndex)
	}

	return &models.Question{
		Text:         gq.Question,
		Options:      models.StringList(gq.Options),
		CorrectIndex: gq.CorrectIndex,
		Rationale:    gq.Rationale,
	}, nil
}
