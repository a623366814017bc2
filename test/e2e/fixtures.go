package e2e

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/hyperjump/erabu/internal/models"
)

// SupportedDatasetExtensions lists the labeled dataset formats the fixtures
// can produce.
var SupportedDatasetExtensions = []string{".csv", ".json", ".xlsx"}

// WriteDatasetFile renders examples as raw file content in the given format.
// The bytes are assembled by hand so importer tests do not lean on the
// exporter they are meant to check.
func WriteDatasetFile(ext string, examples []models.LabeledExample) ([]byte, error) {
	switch ext {
	case ".csv":
		return datasetCSV(examples)
	case ".json":
		return json.Marshal(examples)
	case ".xlsx":
		return datasetXLSX(examples)
	default:
		return nil, fmt.Errorf("no fixture writer for %s", ext)
	}
}

func datasetCSV(examples []models.LabeledExample) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"text", "intent", "entities"}); err != nil {
		return nil, err
	}
	for _, ex := range examples {
		entities, err := spanCell(ex.Spans)
		if err != nil {
			return nil, err
		}
		if err := w.Write([]string{ex.Text, ex.Intent, entities}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func datasetXLSX(examples []models.LabeledExample) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetRow("Sheet1", "A1", &[]string{"text", "intent", "entities"}); err != nil {
		return nil, err
	}
	for i, ex := range examples {
		entities, err := spanCell(ex.Spans)
		if err != nil {
			return nil, err
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow("Sheet1", cell, &[]string{ex.Text, ex.Intent, entities}); err != nil {
			return nil, err
		}
	}
	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func spanCell(spans []models.Span) (string, error) {
	if len(spans) == 0 {
		return "", nil
	}
	b, err := json.Marshal(spans)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
