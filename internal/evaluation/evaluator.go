package evaluation

import (
	"context"
	"errors"
	"fmt"

	"github.com/hyperjump/erabu/internal/models"
	"github.com/hyperjump/erabu/pkg/utils"
)

// ErrInvalidInput is returned when texts and intents are empty or
// misaligned.
var ErrInvalidInput = errors.New("invalid evaluation input")

// Predictor is the slice of the prediction engine evaluation needs.
type Predictor interface {
	PredictBatch(ctx context.Context, engineID string, texts []string) ([]models.Prediction, error)
}

// Options tune an evaluation run. TrainPct is clamped to [0,100] and
// applied as given, so zero means everything lands in the test partition.
// A zero Seed falls back to DefaultSeed. AllowedIntents extends the
// reported label set beyond what the test partition observes.
type Options struct {
	TrainPct       int
	Seed           int64
	AllowedIntents []string
}

// Evaluate scores engineID on a held-out split of the labeled pairs. The
// engine is used as-is: this never trains, and an untrained engine
// surfaces its own error through the predictor.
func Evaluate(ctx context.Context, predictor Predictor, engineID string, texts, trueIntents []string, opts Options) (*models.EvaluationReport, error) {
	if len(texts) == 0 || len(texts) != len(trueIntents) {
		return nil, fmt.Errorf("%w: %d texts, %d intents", ErrInvalidInput, len(texts), len(trueIntents))
	}
	if opts.Seed == 0 {
		opts.Seed = DefaultSeed
	}
	normalized := make([]string, len(trueIntents))
	for i, intent := range trueIntents {
		normalized[i] = utils.NormalizeLabel(intent)
	}

	split := Split(texts, normalized, opts.TrainPct, opts.Seed)
	predictions, err := predictor.PredictBatch(ctx, engineID, split.TestTexts)
	if err != nil {
		return nil, err
	}
	if len(predictions) != len(split.TestTexts) {
		return nil, fmt.Errorf("%w: predictor returned %d results for %d texts", ErrInvalidInput, len(predictions), len(split.TestTexts))
	}

	predLabels := make([]string, len(predictions))
	details := make([]models.EvaluationDetail, len(predictions))
	for i, pred := range predictions {
		label := utils.NormalizeLabel(pred.Intent)
		predLabels[i] = label
		details[i] = models.EvaluationDetail{
			Text:            split.TestTexts[i],
			TrueIntent:      split.TestLabels[i],
			PredictedIntent: label,
			Confidence:      SafeRound(utils.Clamp01(pred.Confidence)),
			Match:           label == split.TestLabels[i],
		}
	}

	allowed := make([]string, 0, len(opts.AllowedIntents))
	for _, intent := range opts.AllowedIntents {
		allowed = append(allowed, utils.NormalizeLabel(intent))
	}
	labels := labelSet(split.TestLabels, predLabels, allowed)

	return &models.EvaluationReport{
		Engine:       utils.NormalizeLabel(engineID),
		Metrics:      MetricsSummary(split.TestLabels, predLabels, labels),
		PerIntent:    PerIntentReport(split.TestLabels, predLabels, labels),
		Confusion:    BuildConfusion(split.TestLabels, predLabels, labels),
		Details:      details,
		TrainSamples: len(split.TrainTexts),
		TestSamples:  len(split.TestTexts),
	}, nil
}
