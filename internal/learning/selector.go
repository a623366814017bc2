// Package learning selects the utterances most worth a human look after a
// batch prediction pass: definite mistakes first, then the model's least
// confident guesses.
package learning

import (
	"sort"

	"github.com/hyperjump/erabu/internal/models"
	"github.com/hyperjump/erabu/pkg/utils"
)

// DefaultThreshold is the confidence bar at or below which a correct
// prediction is still queued for review.
const DefaultThreshold = 0.5

// Suggest builds a review queue from batch predictions. Ground truth is
// used only when actuals is non-empty and aligned with predictions; in
// that smart mode every wrong prediction is queued regardless of
// confidence and correct ones only when confidence is at or below the
// threshold. Without ground truth, low-confidence items are queued with
// correctness unknown. Wrong predictions sort first, then ascending
// confidence; ties keep the batch order. A non-positive threshold falls
// back to DefaultThreshold.
func Suggest(predictions []models.Prediction, actuals []string, threshold float64) models.ReviewQueue {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	useTruth := len(actuals) > 0 && len(actuals) == len(predictions)
	strategy := models.StrategyConfidenceOnly
	if useTruth {
		strategy = models.StrategySmart
	}

	items := make([]models.ReviewItem, 0, len(predictions))
	wrong := 0
	for i, pred := range predictions {
		item := models.ReviewItem{
			Text:       pred.Text,
			Intent:     pred.Intent,
			Confidence: pred.Confidence,
		}
		if useTruth {
			actual := utils.NormalizeLabel(actuals[i])
			isWrong := item.Intent != actual
			if !isWrong && item.Confidence > threshold {
				continue
			}
			item.IsWrong = &isWrong
			item.ActualIntent = actual
			if isWrong {
				wrong++
			}
		} else if item.Confidence > threshold {
			continue
		}
		items = append(items, item)
	}

	sort.SliceStable(items, func(i, j int) bool {
		ri, rj := reviewRank(items[i]), reviewRank(items[j])
		if ri != rj {
			return ri < rj
		}
		return items[i].Confidence < items[j].Confidence
	})

	return models.ReviewQueue{
		Threshold:         threshold,
		Count:             len(items),
		Items:             items,
		FilteringStrategy: strategy,
		WrongPredictions:  wrong,
	}
}

// reviewRank orders wrong predictions ahead of merely unsure ones.
func reviewRank(item models.ReviewItem) int {
	if item.IsWrong != nil && *item.IsWrong {
		return 0
	}
	return 1
}
