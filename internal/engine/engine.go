// Package engine orchestrates the intent classifier slots and the span
// extractor set behind named engines, and answers train, predict and batch
// requests.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"go.uber.org/zap"

	"github.com/hyperjump/erabu/internal/config"
	"github.com/hyperjump/erabu/internal/entity"
	"github.com/hyperjump/erabu/internal/intent"
	"github.com/hyperjump/erabu/internal/models"
	"github.com/hyperjump/erabu/pkg/utils"
)

var (
	// ErrModelNotTrained is returned when predicting against a slot that
	// has not been trained yet.
	ErrModelNotTrained = errors.New("model not trained")
	// ErrEmptyInput is returned when a single-prediction text is blank.
	ErrEmptyInput = errors.New("empty input")
	// ErrUnknownEngine is returned for engine ids outside the registry.
	ErrUnknownEngine = errors.New("unknown engine")
	// ErrTrainingInProgress is returned when a background training job is
	// already running for the engine.
	ErrTrainingInProgress = errors.New("training already in progress")
)

// Engine slot ids. Each slot pairs a distinct feature representation with
// its own learning algorithm so their error profiles diverge.
const (
	EngineLogit      = "logit"
	EngineSVM        = "svm"
	EnginePerceptron = "perceptron"
)

const (
	defaultCacheTTL      = 5 * time.Minute
	defaultCacheCapacity = 1024
)

// slot is one independently trainable engine: classifier, optional entity
// tagger, and a prediction cache, guarded by a per-slot lock so training one
// engine never blocks predictions on another.
type slot struct {
	id       string
	fallback float64
	fit      func(texts, labels []string) (intent.Classifier, error)

	mu         sync.RWMutex
	classifier intent.Classifier
	labels     []string
	tagger     *entity.Tagger
	extractors *entity.Set
	trainedAt  *time.Time

	cache *ttlcache.Cache[string, *models.Prediction]
}

// Engine is the registry of engine slots.
type Engine struct {
	cfg    *config.Config
	logger *zap.Logger
	ids    []string
	slots  map[string]*slot
}

// New creates the engine registry with the three standard slots. The
// perceptron slot honors the configured epoch count.
func New(cfg *config.Config, logger *zap.Logger) *Engine {
	e := &Engine{
		cfg:    cfg,
		logger: logger,
		slots:  make(map[string]*slot),
	}
	epochs := cfg.NLU.PerceptronEpochs
	e.register(EngineLogit, 0.95, intent.TrainLogit)
	e.register(EngineSVM, 0.9, intent.TrainSVM)
	e.register(EnginePerceptron, 0.88, func(texts, labels []string) (intent.Classifier, error) {
		return intent.TrainPerceptron(texts, labels, epochs)
	})
	return e
}

func (e *Engine) register(id string, fallback float64, fit func([]string, []string) (intent.Classifier, error)) {
	ttl := time.Duration(e.cfg.NLU.CacheTTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	capacity := e.cfg.NLU.CacheCapacity
	if capacity <= 0 {
		capacity = defaultCacheCapacity
	}
	s := &slot{
		id:         id,
		fallback:   fallback,
		fit:        fit,
		extractors: entity.NewRuleSet(),
		cache: ttlcache.New(
			ttlcache.WithTTL[string, *models.Prediction](ttl),
			ttlcache.WithCapacity[string, *models.Prediction](uint64(capacity)),
		),
	}
	go s.cache.Start()
	e.slots[id] = s
	e.ids = append(e.ids, id)
}

// DefaultEngine returns the configured default slot id.
func (e *Engine) DefaultEngine() string {
	if e.cfg.NLU.DefaultEngine != "" {
		return e.cfg.NLU.DefaultEngine
	}
	return EngineLogit
}

func (e *Engine) resolve(engineID string) (*slot, error) {
	id := strings.TrimSpace(strings.ToLower(engineID))
	if id == "" {
		id = e.DefaultEngine()
	}
	s, ok := e.slots[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q (valid: %s)", ErrUnknownEngine, id, strings.Join(e.ids, ", "))
	}
	return s, nil
}

// Train fits the slot's intent classifier on the examples and, when any
// example carries spans, the entity tagger. Both are swapped into the slot
// in one critical section, so readers never observe a half-replaced model,
// and the slot's prediction cache is invalidated.
func (e *Engine) Train(ctx context.Context, engineID string, examples []models.LabeledExample) (*models.TrainResult, error) {
	s, err := e.resolve(engineID)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(examples) == 0 {
		return nil, fmt.Errorf("%w: no examples", intent.ErrInvalidTrainingData)
	}

	texts := make([]string, len(examples))
	labels := make([]string, len(examples))
	hasSpans := false
	for i, ex := range examples {
		texts[i] = ex.Text
		labels[i] = ex.Intent
		if len(ex.Spans) > 0 {
			hasSpans = true
		}
	}

	start := time.Now()
	classifier, err := s.fit(texts, labels)
	if err != nil {
		return nil, fmt.Errorf("fit %s classifier: %w", s.id, err)
	}
	var tagger *entity.Tagger
	if hasSpans {
		tagger = entity.TrainTagger(examples, e.cfg.NLU.TaggerEpochs)
	}

	now := time.Now()
	s.mu.Lock()
	s.classifier = classifier
	s.labels = classifier.Classes()
	s.tagger = tagger
	s.extractors = extractorSet(tagger)
	s.trainedAt = &now
	s.mu.Unlock()
	s.cache.DeleteAll()

	e.logger.Info("engine trained",
		zap.String("engine", s.id),
		zap.Int("samples", len(examples)),
		zap.Int("labels", len(classifier.Classes())),
		zap.Bool("entity_model", tagger != nil),
		zap.Duration("took", time.Since(start)))

	return &models.TrainResult{
		Engine:          s.id,
		Labels:          classifier.Classes(),
		TrainingSamples: len(examples),
		EntityModel:     tagger != nil,
	}, nil
}

// extractorSet composes the slot's extractors: the trained tagger (when
// present) plus the always-on rule extractors.
func extractorSet(tagger *entity.Tagger) *entity.Set {
	if tagger == nil {
		return entity.NewRuleSet()
	}
	return entity.NewSet(tagger, entity.TravelExtractor{}, entity.FoodExtractor{}, entity.HealthExtractor{})
}

// Predict classifies the text and extracts reconciled entity spans. The
// classifier and the extractor set run concurrently.
func (e *Engine) Predict(ctx context.Context, engineID, text string) (*models.Prediction, error) {
	s, err := e.resolve(engineID)
	if err != nil {
		return nil, err
	}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, ErrEmptyInput
	}

	s.mu.RLock()
	classifier := s.classifier
	extractors := s.extractors
	s.mu.RUnlock()
	if classifier == nil {
		return nil, fmt.Errorf("%w: engine %q", ErrModelNotTrained, s.id)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if item := s.cache.Get(trimmed); item != nil {
		return item.Value(), nil
	}

	var (
		rawIntent  string
		confidence float64
		spans      []models.Span
	)
	errChan := make(chan error, 1)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				errChan <- fmt.Errorf("intent prediction failed: %v", r)
			}
		}()
		rawIntent, confidence = intent.PredictWithConfidence(classifier, trimmed, s.fallback)
	}()
	go func() {
		defer wg.Done()
		spans = entity.Reconcile(extractors.Extract(trimmed), e.cfg.NLU.OverlapThreshold)
	}()
	wg.Wait()
	close(errChan)
	for err := range errChan {
		if err != nil {
			return nil, err
		}
	}

	if minScore := e.cfg.NLU.MinSpanScore; minScore > 0 {
		kept := make([]models.Span, 0, len(spans))
		for _, sp := range spans {
			if sp.Score >= minScore {
				kept = append(kept, sp)
			}
		}
		spans = kept
	}

	pred := &models.Prediction{
		Text:       trimmed,
		Intent:     utils.NormalizeLabel(rawIntent),
		RawIntent:  rawIntent,
		Confidence: confidence,
		Spans:      spans,
	}
	s.cache.Set(trimmed, pred, ttlcache.DefaultTTL)
	return pred, nil
}

// PredictBatch predicts every text independently and always returns one
// result per input: blank texts degrade to "unknown" and per-item failures
// to "error" entries. An untrained slot fails the whole batch.
func (e *Engine) PredictBatch(ctx context.Context, engineID string, texts []string) ([]models.Prediction, error) {
	s, err := e.resolve(engineID)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	trained := s.classifier != nil
	s.mu.RUnlock()
	if !trained {
		return nil, fmt.Errorf("%w: engine %q", ErrModelNotTrained, s.id)
	}

	results := make([]models.Prediction, len(texts))
	for i, text := range texts {
		if strings.TrimSpace(text) == "" {
			results[i] = models.Prediction{Text: text, Intent: "unknown"}
			continue
		}
		pred, err := e.predictSafe(ctx, s.id, text)
		if err != nil {
			results[i] = models.Prediction{Text: text, Intent: "error", Error: err.Error()}
			continue
		}
		results[i] = *pred
	}
	return results, nil
}

func (e *Engine) predictSafe(ctx context.Context, engineID, text string) (pred *models.Prediction, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("prediction failed: %v", r)
		}
	}()
	return e.Predict(ctx, engineID, text)
}

// Learn feeds one corrected example to the slot's classifier when it
// supports incremental updates. It reports whether an update happened.
func (e *Engine) Learn(engineID, text, label string) bool {
	s, err := e.resolve(engineID)
	if err != nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	inc, ok := s.classifier.(intent.IncrementalModel)
	if !ok {
		return false
	}
	inc.Learn(text, label)
	s.cache.DeleteAll()
	return true
}

// Engines returns a snapshot of every slot, sorted by id.
func (e *Engine) Engines() []models.EngineInfo {
	ids := append([]string(nil), e.ids...)
	sort.Strings(ids)
	infos := make([]models.EngineInfo, 0, len(ids))
	for _, id := range ids {
		s := e.slots[id]
		s.mu.RLock()
		infos = append(infos, models.EngineInfo{
			ID:        id,
			Trained:   s.classifier != nil,
			Labels:    append([]string(nil), s.labels...),
			TrainedAt: s.trainedAt,
		})
		s.mu.RUnlock()
	}
	return infos
}

// Close stops the per-slot prediction caches.
func (e *Engine) Close() {
	for _, id := range e.ids {
		e.slots[id].cache.Stop()
	}
}
