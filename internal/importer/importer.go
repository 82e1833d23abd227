// Package importer loads question banks from Excel or CSV files.
package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/example/nclexprep/pkg/models"
)

// QuestionWriter persists imported questions.
type QuestionWriter interface {
	Create(ctx context.Context, question *models.Question) error
}

// CategoryResolver resolves category names to records, creating new ones.
type CategoryResolver interface {
	GetOrCreate(ctx context.Context, name string) (*models.Category, error)
}

// Config defines the import layout. Columns are spreadsheet letters.
type Config struct {
	FilePath         string
	TextColumn       string
	OptionColumns    []string // one column per answer option
	CorrectColumn    string   // option letter (A-D) or 1-based number
	CategoryColumn   string
	DifficultyColumn string // 1-3, or easy/medium/hard
	RationaleColumn  string
	SheetName        string
	StartRow         int // 1-based row to start importing from
}

// DefaultConfig returns the default import layout.
func DefaultConfig() Config {
	return Config{
		TextColumn:       "A",
		OptionColumns:    []string{"B", "C", "D", "E"},
		CorrectColumn:    "F",
		CategoryColumn:   "G",
		DifficultyColumn: "H",
		RationaleColumn:  "I",
		SheetName:        "Sheet1",
		StartRow:         2, // skip the header row
	}
}

// Result holds the outcome of an import run.
type Result struct {
	TotalProcessed    int
	CategoriesCreated int
	Created           int
	Skipped           int
	Errors            []string
}

// Importer loads question banks into the store.
type Importer struct {
	questions  QuestionWriter
	categories CategoryResolver
}

// New creates an importer.
func New(questions QuestionWriter, categories CategoryResolver) *Importer {
	return &Importer{questions: questions, categories: categories}
}

// Import reads the configured file, dispatching on extension.
func (im *Importer) Import(ctx context.Context, cfg Config) (*Result, error) {
	if strings.ToLower(filepath.Ext(cfg.FilePath)) == ".csv" {
		return im.importFromCSV(ctx, cfg)
	}
	return im.importFromExcel(ctx, cfg)
}

func (im *Importer) importFromExcel(ctx context.Context, cfg Config) (*Result, error) {
	f, err := excelize.OpenFile(cfg.FilePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open Excel file")
	}
	defer f.Close()

	rows, err := f.GetRows(cfg.SheetName)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get rows")
	}

	result := &Result{Errors: make([]string, 0)}
	known := make(map[string]int64)
	for i, row := range rows {
		if i < cfg.StartRow-1 {
			continue
		}
		result.TotalProcessed++
		if err := im.processRow(ctx, row, cfg, known, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i+1, err))
		}
	}
	return result, nil
}

func (im *Importer) importFromCSV(ctx context.Context, cfg Config) (*Result, error) {
	f, err := os.Open(cfg.FilePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open CSV file")
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	result := &Result{Errors: make([]string, 0)}
	known := make(map[string]int64)
	rowNum := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "failed to read CSV")
		}
		rowNum++
		if rowNum < cfg.StartRow {
			continue
		}
		result.TotalProcessed++
		if err := im.processRow(ctx, row, cfg, known, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", rowNum, err))
		}
	}
	return result, nil
}

func (im *Importer) processRow(ctx context.Context, row []string, cfg Config, known map[string]int64, result *Result) error {
	text := strings.TrimSpace(cell(row, cfg.TextColumn))
	if text == "" {
		result.Skipped++
		return nil
	}

	options := make(models.StringList, 0, len(cfg.OptionColumns))
	for _, col := range cfg.OptionColumns {
		opt := strings.TrimSpace(cell(row, col))
		if opt != "" {
			options = append(options, opt)
		}
	}
	if len(options) < 2 {
		return errors.Errorf("need at least 2 options, got %d", len(options))
	}

	correct, err := parseCorrect(cell(row, cfg.CorrectColumn), len(options))
	if err != nil {
		return err
	}

	categoryName := strings.TrimSpace(cell(row, cfg.CategoryColumn))
	if categoryName == "" {
		categoryName = "General"
	}
	categoryID, ok := known[strings.ToLower(categoryName)]
	if !ok {
		category, err := im.categories.GetOrCreate(ctx, categoryName)
		if err != nil {
			return err
		}
		categoryID = category.ID
		known[strings.ToLower(categoryName)] = categoryID
		result.CategoriesCreated++
	}

	difficulty, err := parseDifficulty(cell(row, cfg.DifficultyColumn))
	if err != nil {
		return err
	}

	question := &models.Question{
		CategoryID:   categoryID,
		Text:         text,
		Options:      options,
		CorrectIndex: correct,
		Rationale:    strings.TrimSpace(cell(row, cfg.RationaleColumn)),
		Difficulty:   difficulty,
		Source:       models.SourceBank,
	}
	if err := im.questions.Create(ctx, question); err != nil {
		return err
	}
	result.Created++
	return nil
}

// cell reads the value at a spreadsheet column letter, empty when the row is
// too short.
func cell(row []string, column string) string {
	idx, err := excelize.ColumnNameToNumber(column)
	if err != nil || idx-1 >= len(row) {
		return ""
	}
	return row[idx-1]
}

// parseCorrect accepts an option letter (A, B, ...) or a 1-based number.
func parseCorrect(raw string, optionCount int) (int, error) {
	raw = strings.ToUpper(strings.TrimSpace(raw))
	if raw == "" {
		return 0, errors.New("missing correct answer")
	}
	var idx int
	if n, err := strconv.Atoi(raw); err == nil {
		idx = n - 1
	} else if len(raw) == 1 && raw[0] >= 'A' && raw[0] <= 'Z' {
		idx = int(raw[0] - 'A')
	} else {
		return 0, errors.Errorf("unrecognized correct answer %q", raw)
	}
	if idx < 0 || idx >= optionCount {
		return 0, errors.Errorf("correct answer %q outside options", raw)
	}
	return idx, nil
}

// parseDifficulty accepts 1-3 or the level names; blank defaults to medium.
func parseDifficulty(raw string) (int, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "medium", "2":
		return models.DifficultyMedium, nil
	case "easy", "1":
		return models.DifficultyEasy, nil
	case "hard", "3":
		return models.DifficultyHard, nil
	default:
		return 0, errors.Errorf("unrecognized difficulty %q", raw)
	}
}
