package integration

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hyperjump/erabu/internal/config"
	"github.com/hyperjump/erabu/internal/dataset"
	"github.com/hyperjump/erabu/internal/engine"
	"github.com/hyperjump/erabu/internal/models"
	"github.com/hyperjump/erabu/internal/search"
	"github.com/hyperjump/erabu/internal/storage"
)

const pipelineCSV = `text,intent
book a flight to pune,book_travel
book a train ticket from delhi to goa,book_travel
i want to travel to mumbai tomorrow,book_travel
order a pepperoni pizza for me,order_food
get one veg burger delivered home,order_food
i am craving chicken biryani right now,order_food
i have a headache since morning,health_query
what should i take for fever,health_query
my cough is getting worse,health_query
`

// TestPipeline_ImportIndexTrainPredictCorrect walks one dataset through every
// stage over real components: file import, checksum dedupe on re-import,
// search indexing, background training from storage, prediction, and a
// recorded correction.
func TestPipeline_ImportIndexTrainPredictCorrect(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	cfg.Storage.DatabasePath = filepath.Join(dir, "erabu.db")
	cfg.Storage.BleveIndexPath = filepath.Join(dir, "bleve")

	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	index, err := search.NewIndex(cfg.Storage.BleveIndexPath)
	if err != nil {
		t.Fatal(err)
	}
	defer index.Close()

	logger := zap.NewNop()
	eng := engine.New(cfg, logger)
	defer eng.Close()
	jobs := engine.NewJobs(eng, store, logger)
	importer := dataset.NewImporter(store, logger)
	ctx := context.Background()

	csvPath := filepath.Join(dir, "utterances.csv")
	if err := os.WriteFile(csvPath, []byte(pipelineCSV), 0o644); err != nil {
		t.Fatal(err)
	}

	result, err := importer.ImportFile(ctx, csvPath)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if result.Existed {
		t.Fatal("fresh dataset reported as existing")
	}
	if result.Imported != 9 {
		t.Fatalf("imported %d examples, want 9", result.Imported)
	}
	ds := result.Dataset

	count, err := store.CountExamples(ctx, ds.ID)
	if err != nil {
		t.Fatal(err)
	}
	if count != 9 {
		t.Fatalf("storage holds %d examples, want 9", count)
	}

	again, err := importer.ImportFile(ctx, csvPath)
	if err != nil {
		t.Fatalf("re-import: %v", err)
	}
	if !again.Existed {
		t.Fatal("re-import did not dedupe on checksum")
	}
	if again.Dataset.ID != ds.ID {
		t.Fatalf("re-import returned dataset %s, want %s", again.Dataset.ID, ds.ID)
	}

	stored, err := store.ListExamples(ctx, ds.ID, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	examples := make([]models.Example, len(stored))
	for i, ex := range stored {
		examples[i] = *ex
	}
	if err := index.IndexBatch(ctx, examples); err != nil {
		t.Fatalf("index: %v", err)
	}
	docs, err := index.DocCount()
	if err != nil {
		t.Fatal(err)
	}
	if docs != 9 {
		t.Fatalf("index holds %d documents, want 9", docs)
	}

	found, err := index.Search(ctx, "pizza", &search.Options{DatasetID: ds.ID, Limit: 5})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if found.Total == 0 {
		t.Fatal("no search hits for a pizza utterance")
	}

	job, err := jobs.Start("svm", ds.ID)
	if err != nil {
		t.Fatalf("start job: %v", err)
	}
	job = waitForTerminal(t, jobs, job.ID)
	if job.State != engine.JobCompleted {
		t.Fatalf("job finished in state %s: %s", job.State, job.Error)
	}

	pred, err := eng.Predict(ctx, "svm", "can you book a flight ticket to pune")
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if pred.Intent != "book_travel" {
		t.Errorf("intent = %q (confidence %.2f), want book_travel", pred.Intent, pred.Confidence)
	}

	correction := &models.Correction{
		ID:                  uuid.NewString(),
		Text:                pred.Text,
		PredictedIntent:     pred.Intent,
		PredictedConfidence: pred.Confidence,
		CorrectedIntent:     "book_travel",
		Engine:              "svm",
	}
	if err := store.CreateCorrection(ctx, correction); err != nil {
		t.Fatalf("correction: %v", err)
	}
	corrections, err := store.CountCorrections(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if corrections != 1 {
		t.Fatalf("%d corrections stored, want 1", corrections)
	}

	if _, err := eng.Predict(ctx, "logit", "anything at all"); !errors.Is(err, engine.ErrModelNotTrained) {
		t.Errorf("untrained predict error = %v, want ErrModelNotTrained", err)
	}
}

func waitForTerminal(t *testing.T, jobs *engine.Jobs, id string) engine.Job {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		job, ok := jobs.Get(id)
		if !ok {
			t.Fatalf("job %s disappeared", id)
		}
		if job.State == engine.JobCompleted || job.State == engine.JobFailed {
			return job
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("job %s did not finish in time", id)
	return engine.Job{}
}
