// Package cli provides CLI output formatting for Erabu.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/hyperjump/erabu/internal/models"
	"github.com/hyperjump/erabu/pkg/utils"
)

// OutputFormat is the format for command output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// maxMissRows bounds the misclassification listing in text reports.
const maxMissRows = 25

// WritePredictions writes predictions to w in the given format.
// Use OutputJSON for parseable output consumable by other apps.
func WritePredictions(w io.Writer, predictions []models.Prediction, format OutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(predictions)
	default:
		writePredictionsText(w, predictions)
		return nil
	}
}

func writePredictionsText(w io.Writer, predictions []models.Prediction) {
	fmt.Fprintf(w, "\n%d predictions\n\n", len(predictions))
	for i, p := range predictions {
		writeOnePrediction(w, i+1, p)
	}
}

func writeOnePrediction(w io.Writer, rank int, p models.Prediction) {
	fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
	if p.Error != "" {
		fmt.Fprintf(w, "[%d] Error: %s\n", rank, p.Error)
	} else {
		fmt.Fprintf(w, "[%d] Intent: %s | Confidence: %.4f\n", rank, p.Intent, p.Confidence)
	}
	fmt.Fprintf(w, "\n%s\n", utils.Truncate(p.Text, 200))
	for _, span := range p.Spans {
		fmt.Fprintf(w, "  %s: %q [%d:%d] score %.2f\n", span.Label, span.Text, span.Start, span.End, span.Score)
	}
	fmt.Fprintln(w)
}

// WriteEvaluationReport writes an evaluation report to w in the given format.
func WriteEvaluationReport(w io.Writer, report *models.EvaluationReport, format OutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	default:
		writeEvaluationReportText(w, report)
		return nil
	}
}

func writeEvaluationReportText(w io.Writer, report *models.EvaluationReport) {
	fmt.Fprintf(w, "\nEngine %q evaluated on %d test samples (%d held for training)\n\n",
		report.Engine, report.TestSamples, report.TrainSamples)
	fmt.Fprintf(w, "Accuracy: %.4f | Precision: %.4f | Recall: %.4f | F1: %.4f\n",
		report.Metrics.Accuracy, report.Metrics.Precision, report.Metrics.Recall, report.Metrics.F1)

	if len(report.PerIntent) > 0 {
		fmt.Fprintln(w, "\n--- Per-intent metrics ---")
		intents := make([]string, 0, len(report.PerIntent))
		for intent := range report.PerIntent {
			intents = append(intents, intent)
		}
		sort.Strings(intents)
		for _, intent := range intents {
			m := report.PerIntent[intent]
			fmt.Fprintf(w, "%-24s P %.4f  R %.4f  F1 %.4f  support %d\n",
				utils.Truncate(intent, 21), m.Precision, m.Recall, m.F1, m.Support)
		}
	}

	if len(report.Confusion.Labels) > 0 {
		fmt.Fprintln(w, "\n--- Confusion matrix (rows true, columns predicted) ---")
		writeConfusionText(w, report.Confusion)
	}

	misses := 0
	for _, d := range report.Details {
		if d.Match {
			continue
		}
		if misses == 0 {
			fmt.Fprintln(w, "\n--- Misclassified ---")
		}
		misses++
		if misses > maxMissRows {
			continue
		}
		fmt.Fprintf(w, "%s -> %s (%.2f): %s\n",
			d.TrueIntent, d.PredictedIntent, d.Confidence, utils.Truncate(d.Text, 80))
	}
	if misses > maxMissRows {
		fmt.Fprintf(w, "... and %d more\n", misses-maxMissRows)
	}
	fmt.Fprintln(w)
}

// writeConfusionText numbers the labels so wide matrices stay readable:
// columns carry the index, rows carry both index and label.
func writeConfusionText(w io.Writer, c models.Confusion) {
	fmt.Fprintf(w, "%24s", "")
	for i := range c.Labels {
		fmt.Fprintf(w, "%6d", i)
	}
	fmt.Fprintln(w)
	for i, label := range c.Labels {
		fmt.Fprintf(w, "%2d %21s", i, utils.Truncate(label, 18))
		for _, n := range c.Matrix[i] {
			fmt.Fprintf(w, "%6d", n)
		}
		fmt.Fprintln(w)
	}
}
