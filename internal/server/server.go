// Package server provides the HTTP API for Erabu.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/hyperjump/erabu/internal/config"
	"github.com/hyperjump/erabu/internal/dataset"
	"github.com/hyperjump/erabu/internal/engine"
	"github.com/hyperjump/erabu/internal/evaluation"
	"github.com/hyperjump/erabu/internal/intent"
	"github.com/hyperjump/erabu/internal/search"
	"github.com/hyperjump/erabu/internal/storage"
)

// Server is the HTTP server for the Erabu API.
type Server struct {
	engine  *engine.Engine
	jobs    *engine.Jobs
	storage storage.Storage
	index   *search.Index
	config  *config.Config
	logger  *zap.Logger
	server  *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(
	eng *engine.Engine,
	jobs *engine.Jobs,
	storage storage.Storage,
	index *search.Index,
	cfg *config.Config,
	logger *zap.Logger,
) *Server {
	return &Server{
		engine:  eng,
		jobs:    jobs,
		storage: storage,
		index:   index,
		config:  cfg,
		logger:  logger,
	}
}

// Handler builds the API router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))
	r.Use(metricsMiddleware)

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Get("/engines", s.handleEngines)
		r.Post("/engines/{engine}/train", s.handleTrain)

		r.Post("/predict", s.handlePredict)
		r.Post("/predict/batch", s.handlePredictBatch)
		r.Post("/suggest", s.handleSuggest)
		r.Post("/evaluate", s.handleEvaluate)

		r.Post("/train/jobs", s.handleJobCreate)
		r.Get("/train/jobs", s.handleJobList)
		r.Get("/train/jobs/{id}", s.handleJobGet)

		r.Post("/datasets", s.handleDatasetCreate)
		r.Get("/datasets", s.handleDatasetList)
		r.Get("/datasets/{id}", s.handleDatasetGet)
		r.Delete("/datasets/{id}", s.handleDatasetDelete)
		r.Get("/datasets/{id}/examples", s.handleExampleList)
		r.Post("/datasets/{id}/annotations", s.handleAnnotationCreate)
		r.Get("/datasets/{id}/export", s.handleDatasetExport)
		r.Get("/examples/search", s.handleExampleSearch)

		r.Post("/corrections", s.handleCorrectionCreate)
		r.Get("/corrections", s.handleCorrectionList)
	})
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// badRequestErrors are the domain errors caused by client input.
var badRequestErrors = []error{
	engine.ErrEmptyInput,
	engine.ErrUnknownEngine,
	intent.ErrInvalidTrainingData,
	evaluation.ErrInvalidInput,
	dataset.ErrInvalidFile,
	dataset.ErrUnsupportedFormat,
	search.ErrEmptyQuery,
}

// statusForError maps domain errors to HTTP status codes. Anything outside
// the known taxonomy is a 500.
func statusForError(err error) int {
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			return http.StatusBadRequest
		}
	}
	switch {
	case errors.Is(err, engine.ErrModelNotTrained):
		return http.StatusServiceUnavailable
	case errors.Is(err, engine.ErrTrainingInProgress):
		return http.StatusConflict
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
