// Package storage provides the SQLite implementation of the Storage interface.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/erabu/internal/models"
)

// SQLiteStorage implements Storage using SQLite.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens or creates a SQLite database at dbPath and initializes the schema.
// Parent directories are created if they do not exist.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS datasets (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		filename TEXT,
		checksum TEXT NOT NULL UNIQUE,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_datasets_created_at ON datasets(created_at);

	CREATE TABLE IF NOT EXISTS examples (
		id TEXT PRIMARY KEY,
		dataset_id TEXT NOT NULL,
		text TEXT NOT NULL,
		intent TEXT NOT NULL DEFAULT '',
		entities TEXT,
		source TEXT NOT NULL DEFAULT 'import',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (dataset_id) REFERENCES datasets(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_examples_dataset_id ON examples(dataset_id);
	CREATE INDEX IF NOT EXISTS idx_examples_intent ON examples(intent);

	CREATE TABLE IF NOT EXISTS corrections (
		id TEXT PRIMARY KEY,
		text TEXT NOT NULL,
		predicted_intent TEXT NOT NULL,
		predicted_confidence REAL NOT NULL DEFAULT 0,
		corrected_intent TEXT NOT NULL,
		entities TEXT,
		remarks TEXT,
		engine TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_corrections_engine ON corrections(engine);
	`
	_, err := db.Exec(schema)
	return err
}

// CreateDataset inserts a dataset. Checksums are unique; inserting a
// duplicate fails with the underlying constraint error.
func (s *SQLiteStorage) CreateDataset(ctx context.Context, ds *models.Dataset) error {
	ds.CreatedAt = time.Now()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO datasets (id, name, filename, checksum, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		ds.ID, ds.Name, ds.Filename, ds.Checksum, ds.CreatedAt,
	)
	return err
}

const datasetColumns = `id, name, filename, checksum, created_at,
	(SELECT COUNT(*) FROM examples e WHERE e.dataset_id = datasets.id) AS example_count`

// GetDataset returns a dataset by ID.
func (s *SQLiteStorage) GetDataset(ctx context.Context, id string) (*models.Dataset, error) {
	ds, err := s.scanDataset(s.db.QueryRowContext(ctx,
		`SELECT `+datasetColumns+` FROM datasets WHERE id = ?`, id,
	))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: dataset %s", ErrNotFound, id)
	}
	return ds, err
}

// GetDatasetByChecksum returns the dataset with the given content checksum.
func (s *SQLiteStorage) GetDatasetByChecksum(ctx context.Context, checksum string) (*models.Dataset, error) {
	ds, err := s.scanDataset(s.db.QueryRowContext(ctx,
		`SELECT `+datasetColumns+` FROM datasets WHERE checksum = ?`, checksum,
	))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: checksum %s", ErrNotFound, checksum)
	}
	return ds, err
}

func (s *SQLiteStorage) scanDataset(row *sql.Row) (*models.Dataset, error) {
	var ds models.Dataset
	err := row.Scan(&ds.ID, &ds.Name, &ds.Filename, &ds.Checksum, &ds.CreatedAt, &ds.ExampleCount)
	if err != nil {
		return nil, err
	}
	return &ds, nil
}

// ListDatasets returns all datasets, newest first.
func (s *SQLiteStorage) ListDatasets(ctx context.Context) ([]*models.Dataset, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+datasetColumns+` FROM datasets ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var datasets []*models.Dataset
	for rows.Next() {
		var ds models.Dataset
		if err := rows.Scan(&ds.ID, &ds.Name, &ds.Filename, &ds.Checksum, &ds.CreatedAt, &ds.ExampleCount); err != nil {
			return nil, err
		}
		datasets = append(datasets, &ds)
	}
	return datasets, rows.Err()
}

// DeleteDataset removes a dataset and its examples.
func (s *SQLiteStorage) DeleteDataset(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM examples WHERE dataset_id = ?`, id); err != nil {
		return err
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM datasets WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("%w: dataset %s", ErrNotFound, id)
	}
	return tx.Commit()
}

// CreateExample inserts a single example.
func (s *SQLiteStorage) CreateExample(ctx context.Context, ex *models.Example) error {
	spansJSON, err := marshalSpans(ex.Spans)
	if err != nil {
		return err
	}
	ex.CreatedAt = time.Now()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO examples (id, dataset_id, text, intent, entities, source, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ex.ID, ex.DatasetID, ex.Text, ex.Intent, spansJSON, ex.Source, ex.CreatedAt,
	)
	return err
}

// BatchCreateExamples inserts multiple examples in a transaction.
func (s *SQLiteStorage) BatchCreateExamples(ctx context.Context, examples []*models.Example) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO examples (id, dataset_id, text, intent, entities, source, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now()
	for _, ex := range examples {
		spansJSON, err := marshalSpans(ex.Spans)
		if err != nil {
			return err
		}
		ex.CreatedAt = now
		if _, err := stmt.ExecContext(ctx, ex.ID, ex.DatasetID, ex.Text, ex.Intent, spansJSON, ex.Source, ex.CreatedAt); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ListExamples returns a dataset's examples in insertion order with offset
// and limit. A non-positive limit means no limit.
func (s *SQLiteStorage) ListExamples(ctx context.Context, datasetID string, offset, limit int) ([]*models.Example, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, dataset_id, text, intent, entities, source, created_at
		 FROM examples WHERE dataset_id = ? ORDER BY created_at, id LIMIT ? OFFSET ?`,
		datasetID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var examples []*models.Example
	for rows.Next() {
		var ex models.Example
		var spansJSON sql.NullString
		if err := rows.Scan(&ex.ID, &ex.DatasetID, &ex.Text, &ex.Intent, &spansJSON, &ex.Source, &ex.CreatedAt); err != nil {
			return nil, err
		}
		ex.Spans = unmarshalSpans(spansJSON)
		examples = append(examples, &ex)
	}
	return examples, rows.Err()
}

// CountExamples returns the number of examples in a dataset, or in total
// when datasetID is empty.
func (s *SQLiteStorage) CountExamples(ctx context.Context, datasetID string) (int64, error) {
	var count int64
	var err error
	if datasetID == "" {
		err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM examples`).Scan(&count)
	} else {
		err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM examples WHERE dataset_id = ?`, datasetID).Scan(&count)
	}
	return count, err
}

// TrainingExamples returns the labeled examples of one dataset, or of every
// dataset when datasetID is empty, in insertion order.
func (s *SQLiteStorage) TrainingExamples(ctx context.Context, datasetID string) ([]models.LabeledExample, error) {
	query := `SELECT text, intent, entities FROM examples WHERE intent != ''`
	args := []any{}
	if datasetID != "" {
		query += ` AND dataset_id = ?`
		args = append(args, datasetID)
	}
	query += ` ORDER BY created_at, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var examples []models.LabeledExample
	for rows.Next() {
		var ex models.LabeledExample
		var spansJSON sql.NullString
		if err := rows.Scan(&ex.Text, &ex.Intent, &spansJSON); err != nil {
			return nil, err
		}
		ex.Spans = unmarshalSpans(spansJSON)
		examples = append(examples, ex)
	}
	return examples, rows.Err()
}

// CreateCorrection inserts a correction.
func (s *SQLiteStorage) CreateCorrection(ctx context.Context, c *models.Correction) error {
	spansJSON, err := marshalSpans(c.Spans)
	if err != nil {
		return err
	}
	c.CreatedAt = time.Now()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO corrections (id, text, predicted_intent, predicted_confidence, corrected_intent, entities, remarks, engine, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Text, c.PredictedIntent, c.PredictedConfidence, c.CorrectedIntent, spansJSON, c.Remarks, c.Engine, c.CreatedAt,
	)
	return err
}

// ListCorrections returns corrections newest first, optionally filtered by
// engine. A non-positive limit means no limit.
func (s *SQLiteStorage) ListCorrections(ctx context.Context, engine string, offset, limit int) ([]*models.Correction, error) {
	if limit <= 0 {
		limit = -1
	}
	query := `SELECT id, text, predicted_intent, predicted_confidence, corrected_intent, entities, remarks, engine, created_at
		 FROM corrections`
	args := []any{}
	if engine != "" {
		query += ` WHERE engine = ?`
		args = append(args, engine)
	}
	query += ` ORDER BY created_at DESC, id LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var corrections []*models.Correction
	for rows.Next() {
		var c models.Correction
		var spansJSON sql.NullString
		if err := rows.Scan(&c.ID, &c.Text, &c.PredictedIntent, &c.PredictedConfidence, &c.CorrectedIntent, &spansJSON, &c.Remarks, &c.Engine, &c.CreatedAt); err != nil {
			return nil, err
		}
		c.Spans = unmarshalSpans(spansJSON)
		corrections = append(corrections, &c)
	}
	return corrections, rows.Err()
}

// CountCorrections returns the total number of corrections.
func (s *SQLiteStorage) CountCorrections(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM corrections`).Scan(&count)
	return count, err
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func marshalSpans(spans []models.Span) (string, error) {
	if len(spans) == 0 {
		return "", nil
	}
	b, err := json.Marshal(spans)
	if err != nil {
		return "", fmt.Errorf("failed to marshal spans: %w", err)
	}
	return string(b), nil
}

func unmarshalSpans(raw sql.NullString) []models.Span {
	if !raw.Valid || raw.String == "" {
		return nil
	}
	var spans []models.Span
	_ = json.Unmarshal([]byte(raw.String), &spans)
	return spans
}
