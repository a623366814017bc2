package dataset

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/hyperjump/erabu/internal/models"
	"github.com/hyperjump/erabu/internal/storage"
)

var (
	// ErrUnsupportedFormat is returned for file extensions no parser handles.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrInvalidFile is returned when a file parses to nothing usable.
	ErrInvalidFile = errors.New("invalid dataset file")
)

// Export formats.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// Importer loads dataset and corpus files into storage.
type Importer struct {
	store  storage.Storage
	logger *zap.Logger
}

// NewImporter creates an importer over the given storage.
func NewImporter(store storage.Storage, logger *zap.Logger) *Importer {
	return &Importer{store: store, logger: logger}
}

// ImportResult reports what an import did.
type ImportResult struct {
	Dataset  *models.Dataset `json:"dataset"`
	Imported int             `json:"imported"`
	Existed  bool            `json:"existed"`
}

// ImportFile reads and imports the file at path.
func (im *Importer) ImportFile(ctx context.Context, path string) (*ImportResult, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return im.Import(ctx, filepath.Base(path), content)
}

// Import stores the examples parsed from a dataset or corpus file. The
// parser is chosen by extension: csv, json and xlsx rows become labeled
// examples; txt, pdf and docx content is split into unlabeled corpus
// utterances. Content already imported (matched by checksum) is left
// untouched and the existing dataset is returned with Existed set.
func (im *Importer) Import(ctx context.Context, filename string, content []byte) (*ImportResult, error) {
	sum := Checksum(content)
	existing, err := im.store.GetDatasetByChecksum(ctx, sum)
	if err == nil {
		im.logger.Info("dataset already imported",
			zap.String("file", filename),
			zap.String("dataset", existing.ID))
		return &ImportResult{Dataset: existing, Existed: true}, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	examples, err := Parse(filename, content)
	if err != nil {
		return nil, err
	}
	if len(examples) == 0 {
		return nil, fmt.Errorf("%w: no usable rows in %s", ErrInvalidFile, filename)
	}

	ds := &models.Dataset{
		ID:       uuid.NewString(),
		Name:     strings.TrimSuffix(filename, filepath.Ext(filename)),
		Filename: filename,
		Checksum: sum,
	}
	if err := im.store.CreateDataset(ctx, ds); err != nil {
		return nil, err
	}
	rows := make([]*models.Example, len(examples))
	for i, ex := range examples {
		rows[i] = &models.Example{
			ID:        uuid.NewString(),
			DatasetID: ds.ID,
			Text:      ex.Text,
			Intent:    ex.Intent,
			Spans:     ex.Spans,
			Source:    models.SourceImport,
		}
	}
	if err := im.store.BatchCreateExamples(ctx, rows); err != nil {
		return nil, err
	}
	ds.ExampleCount = len(rows)

	im.logger.Info("dataset imported",
		zap.String("file", filename),
		zap.String("dataset", ds.ID),
		zap.Int("examples", len(rows)))
	return &ImportResult{Dataset: ds, Imported: len(rows)}, nil
}

// Parse converts file content into examples based on the filename's
// extension.
func Parse(filename string, content []byte) ([]models.LabeledExample, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".csv":
		return ParseCSV(content)
	case ".json":
		return ParseJSON(content)
	case ".xlsx":
		return ParseXLSX(content)
	case ".txt", ".pdf", ".docx":
		return ParseCorpus(content, ext)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

// ParseCSV parses rows under a header naming text and intent columns, with
// an optional entities column holding a JSON span array.
func ParseCSV(content []byte) ([]models.LabeledExample, error) {
	reader := csv.NewReader(bytes.NewReader(content))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: empty csv", ErrInvalidFile)
	}
	return rowsToExamples(records)
}

// ParseJSON parses a JSON array of {text,intent,entities} records.
func ParseJSON(content []byte) ([]models.LabeledExample, error) {
	var records []models.LabeledExample
	if err := json.Unmarshal(content, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}
	var examples []models.LabeledExample
	for _, ex := range records {
		ex.Text = strings.TrimSpace(ex.Text)
		ex.Intent = strings.TrimSpace(ex.Intent)
		if ex.Text == "" {
			continue
		}
		examples = append(examples, ex)
	}
	return examples, nil
}

// ParseXLSX parses the first sheet of a workbook, same columns as ParseCSV.
func ParseXLSX(content []byte) ([]models.LabeledExample, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrInvalidFile)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: empty sheet", ErrInvalidFile)
	}
	return rowsToExamples(rows)
}

func rowsToExamples(records [][]string) ([]models.LabeledExample, error) {
	textCol, intentCol, spanCol := -1, -1, -1
	for i, name := range records[0] {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "text":
			textCol = i
		case "intent":
			intentCol = i
		case "entities":
			spanCol = i
		}
	}
	if textCol < 0 || intentCol < 0 {
		return nil, fmt.Errorf("%w: header must name text and intent columns", ErrInvalidFile)
	}

	var examples []models.LabeledExample
	for _, row := range records[1:] {
		if textCol >= len(row) {
			continue
		}
		text := strings.TrimSpace(row[textCol])
		if text == "" {
			continue
		}
		ex := models.LabeledExample{Text: text}
		if intentCol < len(row) {
			ex.Intent = strings.TrimSpace(row[intentCol])
		}
		if spanCol >= 0 && spanCol < len(row) {
			spans, err := parseSpanCell(row[spanCol])
			if err != nil {
				return nil, err
			}
			ex.Spans = spans
		}
		examples = append(examples, ex)
	}
	return examples, nil
}

func parseSpanCell(cell string) ([]models.Span, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" || cell == "[]" {
		return nil, nil
	}
	var spans []models.Span
	if err := json.Unmarshal([]byte(cell), &spans); err != nil {
		return nil, fmt.Errorf("%w: bad entities column: %v", ErrInvalidFile, err)
	}
	return spans, nil
}
