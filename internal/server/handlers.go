package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hyperjump/erabu/internal/dataset"
	"github.com/hyperjump/erabu/internal/engine"
	"github.com/hyperjump/erabu/internal/evaluation"
	"github.com/hyperjump/erabu/internal/learning"
	"github.com/hyperjump/erabu/internal/models"
	"github.com/hyperjump/erabu/internal/search"
	"github.com/hyperjump/erabu/internal/storage"
	"github.com/hyperjump/erabu/pkg/utils"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type trainRequest struct {
	Texts    []string        `json:"texts"`
	Labels   []string        `json:"labels"`
	Entities [][]models.Span `json:"entities,omitempty"`
}

func (s *Server) handleTrain(w http.ResponseWriter, r *http.Request) {
	engineID := chi.URLParam(r, "engine")
	var req trainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Texts) == 0 || len(req.Texts) != len(req.Labels) {
		s.respondError(w, http.StatusBadRequest, "texts and labels must be non-empty and aligned")
		return
	}
	if len(req.Entities) > 0 && len(req.Entities) != len(req.Texts) {
		s.respondError(w, http.StatusBadRequest, "entities must align with texts")
		return
	}
	examples := make([]models.LabeledExample, len(req.Texts))
	for i, text := range req.Texts {
		examples[i] = models.LabeledExample{Text: text, Intent: req.Labels[i]}
		if len(req.Entities) > 0 {
			examples[i].Spans = req.Entities[i]
		}
	}
	s.logger.Debug("train request", zap.String("engine", engineID), zap.Int("examples", len(examples)))
	result, err := s.engine.Train(r.Context(), engineID, examples)
	if err != nil {
		s.logger.Error("training failed", zap.String("engine", engineID), zap.Error(err))
		recordTraining(s.engineOrDefault(engineID), "error")
		s.respondError(w, statusForError(err), err.Error())
		return
	}
	recordTraining(result.Engine, "ok")
	s.respondJSON(w, http.StatusOK, result)
}

type predictRequest struct {
	Text   string `json:"text"`
	Engine string `json:"engine,omitempty"`
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	var req predictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.logger.Debug("predict request", zap.String("engine", req.Engine), zap.String("text", req.Text))
	pred, err := s.engine.Predict(r.Context(), req.Engine, req.Text)
	if err != nil {
		s.respondError(w, statusForError(err), err.Error())
		return
	}
	recordPredictions(s.engineOrDefault(req.Engine), 1)
	s.respondJSON(w, http.StatusOK, pred)
}

type batchRequest struct {
	Texts  []string `json:"texts"`
	Engine string   `json:"engine,omitempty"`
}

func (s *Server) handlePredictBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Texts) == 0 {
		s.respondError(w, http.StatusBadRequest, "texts are required")
		return
	}
	engineID := s.engineOrDefault(req.Engine)
	s.logger.Debug("batch predict request", zap.String("engine", engineID), zap.Int("texts", len(req.Texts)))
	predictions, err := s.engine.PredictBatch(r.Context(), engineID, req.Texts)
	if err != nil {
		s.respondError(w, statusForError(err), err.Error())
		return
	}
	recordPredictions(engineID, len(predictions))
	s.respondJSON(w, http.StatusOK, map[string]any{
		"engine":      engineID,
		"predictions": predictions,
		"count":       len(predictions),
	})
}

type suggestRequest struct {
	Texts         []string `json:"texts"`
	Engine        string   `json:"engine,omitempty"`
	Threshold     *float64 `json:"threshold,omitempty"`
	ActualIntents []string `json:"actual_intents,omitempty"`
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	var req suggestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Texts) == 0 {
		s.respondError(w, http.StatusBadRequest, "texts are required")
		return
	}
	if len(req.ActualIntents) > 0 && len(req.ActualIntents) != len(req.Texts) {
		s.respondError(w, http.StatusBadRequest, "actual_intents must align with texts")
		return
	}
	threshold := s.config.Learning.DefaultThreshold
	if req.Threshold != nil {
		threshold = *req.Threshold
	}
	engineID := s.engineOrDefault(req.Engine)
	s.logger.Debug("suggest request",
		zap.String("engine", engineID),
		zap.Int("texts", len(req.Texts)),
		zap.Float64("threshold", threshold))
	predictions, err := s.engine.PredictBatch(r.Context(), engineID, req.Texts)
	if err != nil {
		s.respondError(w, statusForError(err), err.Error())
		return
	}
	recordPredictions(engineID, len(predictions))
	queue := learning.Suggest(predictions, req.ActualIntents, threshold)
	queue.Engine = engineID
	s.respondJSON(w, http.StatusOK, queue)
}

type evaluateRequest struct {
	Texts          []string `json:"texts"`
	Intents        []string `json:"intents"`
	Engine         string   `json:"engine,omitempty"`
	TrainPct       *int     `json:"train_pct,omitempty"`
	Seed           int64    `json:"seed,omitempty"`
	AllowedIntents []string `json:"allowed_intents,omitempty"`
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	opts := evaluation.Options{
		TrainPct:       s.config.Evaluation.DefaultTrainPct,
		Seed:           req.Seed,
		AllowedIntents: req.AllowedIntents,
	}
	if req.TrainPct != nil {
		opts.TrainPct = *req.TrainPct
	}
	if opts.Seed == 0 {
		opts.Seed = s.config.Evaluation.DefaultSeed
	}
	engineID := s.engineOrDefault(req.Engine)
	s.logger.Debug("evaluate request",
		zap.String("engine", engineID),
		zap.Int("pairs", len(req.Texts)),
		zap.Int("train_pct", opts.TrainPct))
	report, err := evaluation.Evaluate(r.Context(), s.engine, engineID, req.Texts, req.Intents, opts)
	if err != nil {
		s.respondError(w, statusForError(err), err.Error())
		return
	}
	recordPredictions(engineID, report.TestSamples)
	s.respondJSON(w, http.StatusOK, report)
}

type jobRequest struct {
	Engine    string `json:"engine"`
	DatasetID string `json:"dataset_id,omitempty"`
}

func (s *Server) handleJobCreate(w http.ResponseWriter, r *http.Request) {
	var req jobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.DatasetID != "" {
		if _, err := s.storage.GetDataset(r.Context(), req.DatasetID); err != nil {
			s.respondError(w, statusForError(err), "dataset not found")
			return
		}
	}
	job, err := s.jobs.Start(req.Engine, req.DatasetID)
	if err != nil {
		if statusForError(err) == http.StatusConflict {
			s.respondJSON(w, http.StatusConflict, map[string]any{"error": err.Error(), "job": job})
			return
		}
		s.respondError(w, statusForError(err), err.Error())
		return
	}
	s.respondJSON(w, http.StatusAccepted, job)
}

func (s *Server) handleJobList(w http.ResponseWriter, r *http.Request) {
	jobs := s.jobs.List()
	s.respondJSON(w, http.StatusOK, map[string]any{"jobs": jobs, "count": len(jobs)})
}

func (s *Server) handleJobGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	job, ok := s.jobs.Get(id)
	if !ok {
		s.respondError(w, http.StatusNotFound, "job not found")
		return
	}
	s.respondJSON(w, http.StatusOK, job)
}

type datasetCreateRequest struct {
	Name     string                  `json:"name"`
	Examples []models.LabeledExample `json:"examples"`
}

func (s *Server) handleDatasetCreate(w http.ResponseWriter, r *http.Request) {
	var req datasetCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		s.respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	// Datasets are keyed by content checksum, so posting the same payload
	// again returns the existing dataset.
	payload, err := json.Marshal(req)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	checksum := dataset.Checksum(payload)
	if existing, err := s.storage.GetDatasetByChecksum(r.Context(), checksum); err == nil {
		s.respondJSON(w, http.StatusOK, existing)
		return
	}

	now := time.Now()
	ds := &models.Dataset{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Checksum:  checksum,
		CreatedAt: now,
	}
	if err := s.storage.CreateDataset(r.Context(), ds); err != nil {
		s.logger.Error("create dataset failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	examples := make([]*models.Example, 0, len(req.Examples))
	for _, le := range req.Examples {
		text := strings.TrimSpace(le.Text)
		if text == "" {
			continue
		}
		examples = append(examples, &models.Example{
			ID:        uuid.NewString(),
			DatasetID: ds.ID,
			Text:      text,
			Intent:    utils.NormalizeLabel(le.Intent),
			Spans:     le.Spans,
			Source:    models.SourceAnnotation,
			CreatedAt: now,
		})
	}
	if err := s.storage.BatchCreateExamples(r.Context(), examples); err != nil {
		s.logger.Error("create dataset examples failed", zap.String("dataset", ds.ID), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.indexExamples(r, examples)
	ds.ExampleCount = len(examples)
	s.logger.Debug("dataset created", zap.String("dataset", ds.ID), zap.Int("examples", len(examples)))
	s.respondJSON(w, http.StatusCreated, ds)
}

func (s *Server) handleDatasetList(w http.ResponseWriter, r *http.Request) {
	datasets, err := s.storage.ListDatasets(r.Context())
	if err != nil {
		s.logger.Error("list datasets failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"datasets": datasets, "count": len(datasets)})
}

func (s *Server) handleDatasetGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ds, err := s.storage.GetDataset(r.Context(), id)
	if err != nil {
		s.respondError(w, statusForError(err), "dataset not found")
		return
	}
	s.respondJSON(w, http.StatusOK, ds)
}

func (s *Server) handleDatasetDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.logger.Debug("delete dataset request", zap.String("dataset", id))
	if err := s.storage.DeleteDataset(r.Context(), id); err != nil {
		s.respondError(w, statusForError(err), err.Error())
		return
	}
	removed, err := s.index.DeleteDataset(r.Context(), id)
	if err != nil {
		// Storage is authoritative; a stale index entry only affects search.
		s.logger.Warn("search index cleanup failed", zap.String("dataset", id), zap.Error(err))
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"status": "deleted", "id": id, "removed_from_index": removed})
}

func (s *Server) handleExampleList(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.storage.GetDataset(r.Context(), id); err != nil {
		s.respondError(w, statusForError(err), "dataset not found")
		return
	}
	offset := queryInt(r, "offset", 0)
	limit := queryInt(r, "limit", 50)
	examples, err := s.storage.ListExamples(r.Context(), id, offset, limit)
	if err != nil {
		s.logger.Error("list examples failed", zap.String("dataset", id), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	total, err := s.storage.CountExamples(r.Context(), id)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{
		"dataset_id": id,
		"examples":   examples,
		"count":      len(examples),
		"offset":     offset,
		"limit":      limit,
		"total":      total,
	})
}

type annotationRequest struct {
	Text     string        `json:"text"`
	Intent   string        `json:"intent"`
	Entities []models.Span `json:"entities,omitempty"`
}

func (s *Server) handleAnnotationCreate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.storage.GetDataset(r.Context(), id); err != nil {
		s.respondError(w, statusForError(err), "dataset not found")
		return
	}
	var req annotationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Text = strings.TrimSpace(req.Text)
	req.Intent = utils.NormalizeLabel(req.Intent)
	if req.Text == "" {
		s.respondError(w, http.StatusBadRequest, "text is required")
		return
	}
	if req.Intent == "" {
		s.respondError(w, http.StatusBadRequest, "intent is required")
		return
	}
	ex := &models.Example{
		ID:        uuid.NewString(),
		DatasetID: id,
		Text:      req.Text,
		Intent:    req.Intent,
		Spans:     req.Entities,
		Source:    models.SourceAnnotation,
		CreatedAt: time.Now(),
	}
	if err := s.storage.CreateExample(r.Context(), ex); err != nil {
		s.logger.Error("create annotation failed", zap.String("dataset", id), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := s.index.Index(r.Context(), ex); err != nil {
		s.logger.Warn("index annotation failed", zap.String("example", ex.ID), zap.Error(err))
	}
	s.respondJSON(w, http.StatusCreated, ex)
}

func (s *Server) handleDatasetExport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ds, err := s.storage.GetDataset(r.Context(), id)
	if err != nil {
		s.respondError(w, statusForError(err), "dataset not found")
		return
	}
	examples, err := s.storage.ListExamples(r.Context(), id, 0, 0)
	if err != nil {
		s.logger.Error("export: list examples failed", zap.String("dataset", id), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	format := r.URL.Query().Get("format")
	data, contentType, err := dataset.Export(examples, format)
	if err != nil {
		s.respondError(w, statusForError(err), err.Error())
		return
	}
	ext := strings.ToLower(strings.TrimSpace(format))
	if ext == "" {
		ext = dataset.FormatJSON
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+ds.Name+"."+ext+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleExampleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	opts := &search.Options{
		DatasetID: r.URL.Query().Get("dataset_id"),
		Intent:    r.URL.Query().Get("intent"),
		Limit:     queryInt(r, "limit", 0),
	}
	s.logger.Debug("example search", zap.String("query", q))
	result, err := s.index.Search(r.Context(), q, opts)
	if err != nil {
		s.respondError(w, statusForError(err), err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleCorrectionCreate(w http.ResponseWriter, r *http.Request) {
	var c models.Correction
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	c.Text = strings.TrimSpace(c.Text)
	c.CorrectedIntent = utils.NormalizeLabel(c.CorrectedIntent)
	c.PredictedIntent = utils.NormalizeLabel(c.PredictedIntent)
	if c.Text == "" {
		s.respondError(w, http.StatusBadRequest, "text is required")
		return
	}
	if c.CorrectedIntent == "" {
		s.respondError(w, http.StatusBadRequest, "corrected_intent is required")
		return
	}
	c.ID = uuid.NewString()
	c.Engine = s.engineOrDefault(c.Engine)
	c.CreatedAt = time.Now()
	if err := s.storage.CreateCorrection(r.Context(), &c); err != nil {
		s.logger.Error("create correction failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	learned := s.engine.Learn(c.Engine, c.Text, c.CorrectedIntent)
	recordCorrection(c.Engine)
	s.logger.Debug("correction recorded",
		zap.String("correction", c.ID),
		zap.String("engine", c.Engine),
		zap.Bool("learned", learned))
	s.respondJSON(w, http.StatusCreated, map[string]any{"correction": c, "learned": learned})
}

func (s *Server) handleCorrectionList(w http.ResponseWriter, r *http.Request) {
	engineFilter := utils.NormalizeLabel(r.URL.Query().Get("engine"))
	offset := queryInt(r, "offset", 0)
	limit := queryInt(r, "limit", 50)
	corrections, err := s.storage.ListCorrections(r.Context(), engineFilter, offset, limit)
	if err != nil {
		s.logger.Error("list corrections failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	total, err := s.storage.CountCorrections(r.Context())
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{
		"corrections": corrections,
		"count":       len(corrections),
		"total":       total,
	})
}

type engineStatus struct {
	models.EngineInfo
	TrainingState engine.JobState `json:"training_state"`
}

func (s *Server) handleEngines(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]any{
		"engines": s.engineStatuses(),
		"default": s.engine.DefaultEngine(),
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	datasets, err := s.storage.ListDatasets(ctx)
	if err != nil {
		s.logger.Error("status: list datasets failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	exampleCount, err := s.storage.CountExamples(ctx, "")
	if err != nil {
		s.logger.Error("status: count examples failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	correctionCount, err := s.storage.CountCorrections(ctx)
	if err != nil {
		s.logger.Error("status: count corrections failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := map[string]any{
		"datasets":    len(datasets),
		"examples":    exampleCount,
		"corrections": correctionCount,
		"engines":     s.engineStatuses(),
	}
	if docs, err := s.index.DocCount(); err == nil {
		resp["indexed_examples"] = docs
	}
	if diskBytes, err := storage.DiskUsageBytes(
		s.config.Storage.DatabasePath,
		s.config.Storage.BleveIndexPath,
	); err == nil {
		resp["disk_usage_bytes"] = diskBytes
	}
	resp["config"] = map[string]any{
		"default_engine":    s.engine.DefaultEngine(),
		"overlap_threshold": s.config.NLU.OverlapThreshold,
		"cache_ttl_seconds": s.config.NLU.CacheTTLSeconds,
		"cache_capacity":    s.config.NLU.CacheCapacity,
		"database_path":     s.config.Storage.DatabasePath,
		"bleve_index_path":  s.config.Storage.BleveIndexPath,
		"watch_enabled":     s.config.Watch.Enabled,
		"watch_directory":   s.config.Watch.Directory,
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) engineStatuses() []engineStatus {
	infos := s.engine.Engines()
	out := make([]engineStatus, len(infos))
	for i, info := range infos {
		out[i] = engineStatus{EngineInfo: info, TrainingState: s.jobs.EngineState(info.ID)}
	}
	return out
}

// engineOrDefault resolves an empty engine id to the configured default.
func (s *Server) engineOrDefault(id string) string {
	id = utils.NormalizeLabel(id)
	if id == "" {
		return s.engine.DefaultEngine()
	}
	return id
}

func (s *Server) indexExamples(r *http.Request, examples []*models.Example) {
	if len(examples) == 0 {
		return
	}
	docs := make([]models.Example, len(examples))
	for i, ex := range examples {
		docs[i] = *ex
	}
	if err := s.index.IndexBatch(r.Context(), docs); err != nil {
		s.logger.Warn("index examples failed", zap.Int("examples", len(docs)), zap.Error(err))
	}
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
