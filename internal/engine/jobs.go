package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hyperjump/erabu/internal/models"
)

// JobState is the lifecycle state of a background training job.
type JobState string

const (
	JobIdle      JobState = "idle"
	JobRunning   JobState = "running"
	JobCompleted JobState = "completed"
	JobFailed    JobState = "failed"
)

// Job is a poll-able background training task. A job is born running once
// accepted and always reaches a terminal state; failures carry the cause.
type Job struct {
	ID         string     `json:"id"`
	Engine     string     `json:"engine"`
	DatasetID  string     `json:"dataset_id"`
	State      JobState   `json:"state"`
	Progress   int        `json:"progress"`
	Message    string     `json:"message,omitempty"`
	Error      string     `json:"error,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// ExampleSource loads a dataset's labeled examples for training.
type ExampleSource interface {
	TrainingExamples(ctx context.Context, datasetID string) ([]models.LabeledExample, error)
}

// Jobs runs training off the request path, one active job per engine.
type Jobs struct {
	engine *Engine
	source ExampleSource
	logger *zap.Logger

	mu     sync.Mutex
	jobs   map[string]*Job
	order  []string          // job ids, oldest first
	active map[string]string // engine id -> running job id
}

// NewJobs creates a job manager over the engine registry and the example
// source.
func NewJobs(engine *Engine, source ExampleSource, logger *zap.Logger) *Jobs {
	return &Jobs{
		engine: engine,
		source: source,
		logger: logger,
		jobs:   make(map[string]*Job),
		active: make(map[string]string),
	}
}

// Start accepts a training job for the engine unless one is already running
// there; in that case the running job is returned with
// ErrTrainingInProgress. The model swap performed by Train happens before
// the job flips to completed, so a completed job always means the new model
// is installed.
func (j *Jobs) Start(engineID, datasetID string) (Job, error) {
	s, err := j.engine.resolve(engineID)
	if err != nil {
		return Job{}, err
	}

	j.mu.Lock()
	if runningID, ok := j.active[s.id]; ok {
		running := *j.jobs[runningID]
		j.mu.Unlock()
		return running, fmt.Errorf("%w: engine %q (job %s)", ErrTrainingInProgress, s.id, running.ID)
	}
	job := &Job{
		ID:        uuid.NewString(),
		Engine:    s.id,
		DatasetID: datasetID,
		State:     JobRunning,
		StartedAt: time.Now(),
	}
	j.jobs[job.ID] = job
	j.order = append(j.order, job.ID)
	j.active[s.id] = job.ID
	snapshot := *job
	j.mu.Unlock()

	j.logger.Info("training job accepted",
		zap.String("job", job.ID),
		zap.String("engine", s.id),
		zap.String("dataset", datasetID))
	go j.run(job.ID, s.id, datasetID)
	return snapshot, nil
}

func (j *Jobs) run(jobID, engineID, datasetID string) {
	defer func() {
		if r := recover(); r != nil {
			j.finish(jobID, engineID, "", fmt.Errorf("training panic: %v", r))
		}
	}()

	ctx := context.Background()
	examples, err := j.source.TrainingExamples(ctx, datasetID)
	if err != nil {
		j.finish(jobID, engineID, "", fmt.Errorf("load examples: %w", err))
		return
	}
	j.progress(jobID, 25, fmt.Sprintf("loaded %d examples", len(examples)))
	result, err := j.engine.Train(ctx, engineID, examples)
	if err != nil {
		j.finish(jobID, engineID, "", err)
		return
	}
	j.finish(jobID, engineID,
		fmt.Sprintf("trained on %d samples (%d labels)", result.TrainingSamples, len(result.Labels)), nil)
}

// finish moves a running job to its terminal state. Jobs already terminal
// are left untouched.
func (j *Jobs) finish(jobID, engineID, message string, err error) {
	now := time.Now()
	j.mu.Lock()
	defer j.mu.Unlock()

	job, ok := j.jobs[jobID]
	if !ok || job.State != JobRunning {
		return
	}
	job.FinishedAt = &now
	if err != nil {
		job.State = JobFailed
		job.Error = err.Error()
		j.logger.Error("training job failed",
			zap.String("job", jobID),
			zap.String("engine", engineID),
			zap.Error(err))
	} else {
		job.State = JobCompleted
		job.Progress = 100
		job.Message = message
		j.logger.Info("training job completed",
			zap.String("job", jobID),
			zap.String("engine", engineID))
	}
	delete(j.active, engineID)
}

// progress updates a running job's progress and message; terminal jobs are
// left untouched.
func (j *Jobs) progress(jobID string, pct int, message string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	job, ok := j.jobs[jobID]
	if !ok || job.State != JobRunning {
		return
	}
	job.Progress = pct
	if message != "" {
		job.Message = message
	}
}

// Get returns a snapshot of the job with the given id.
func (j *Jobs) Get(id string) (Job, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	job, ok := j.jobs[id]
	if !ok {
		return Job{}, false
	}
	return *job, true
}

// List returns snapshots of all jobs, newest first.
func (j *Jobs) List() []Job {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]Job, 0, len(j.order))
	for i := len(j.order) - 1; i >= 0; i-- {
		out = append(out, *j.jobs[j.order[i]])
	}
	return out
}

// EngineState reports the training state for one engine: running while a
// job is active, otherwise idle.
func (j *Jobs) EngineState(engineID string) JobState {
	j.mu.Lock()
	defer j.mu.Unlock()
	if _, ok := j.active[engineID]; ok {
		return JobRunning
	}
	return JobIdle
}
