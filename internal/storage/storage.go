// Package storage defines the persistence interface for datasets, examples,
// and corrections.
package storage

import (
	"context"
	"errors"

	"github.com/hyperjump/erabu/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Storage defines dataset, example, and correction persistence operations.
type Storage interface {
	// Dataset operations
	CreateDataset(ctx context.Context, ds *models.Dataset) error
	GetDataset(ctx context.Context, id string) (*models.Dataset, error)
	GetDatasetByChecksum(ctx context.Context, checksum string) (*models.Dataset, error)
	ListDatasets(ctx context.Context) ([]*models.Dataset, error)
	DeleteDataset(ctx context.Context, id string) error

	// Example operations
	CreateExample(ctx context.Context, ex *models.Example) error
	BatchCreateExamples(ctx context.Context, examples []*models.Example) error
	ListExamples(ctx context.Context, datasetID string, offset, limit int) ([]*models.Example, error)
	CountExamples(ctx context.Context, datasetID string) (int64, error)

	// TrainingExamples returns the labeled examples of one dataset, or of
	// every dataset when datasetID is empty.
	TrainingExamples(ctx context.Context, datasetID string) ([]models.LabeledExample, error)

	// Correction operations
	CreateCorrection(ctx context.Context, c *models.Correction) error
	ListCorrections(ctx context.Context, engine string, offset, limit int) ([]*models.Correction, error)
	CountCorrections(ctx context.Context) (int64, error)

	Close() error
}
