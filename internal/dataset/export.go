package dataset

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/hyperjump/erabu/internal/models"
)

// Export renders examples in training format as json, csv, or xlsx and
// returns the bytes with their content type. An empty format means json.
func Export(examples []*models.Example, format string) ([]byte, string, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatJSON:
		b, err := ExportJSON(examples)
		return b, "application/json", err
	case FormatCSV:
		b, err := ExportCSV(examples)
		return b, "text/csv", err
	case FormatXLSX:
		b, err := ExportXLSX(examples)
		return b, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", err
	default:
		return nil, "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// ExportJSON renders examples as a JSON array of {text,intent,entities}.
func ExportJSON(examples []*models.Example) ([]byte, error) {
	records := make([]models.LabeledExample, 0, len(examples))
	for _, ex := range examples {
		records = append(records, ex.Labeled())
	}
	return json.MarshalIndent(records, "", "  ")
}

// ExportCSV renders examples under a text,intent,entities header. The
// entities column holds a JSON span array and stays empty for rows without
// spans.
func ExportCSV(examples []*models.Example) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"text", "intent", "entities"}); err != nil {
		return nil, err
	}
	for _, ex := range examples {
		cell, err := spanCell(ex.Spans)
		if err != nil {
			return nil, err
		}
		if err := w.Write([]string{ex.Text, ex.Intent, cell}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportXLSX renders examples on the first sheet of a new workbook.
func ExportXLSX(examples []*models.Example) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if err := f.SetSheetRow(sheet, "A1", &[]any{"text", "intent", "entities"}); err != nil {
		return nil, err
	}
	for i, ex := range examples {
		cell, err := spanCell(ex.Spans)
		if err != nil {
			return nil, err
		}
		axis := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, axis, &[]any{ex.Text, ex.Intent, cell}); err != nil {
			return nil, err
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
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
