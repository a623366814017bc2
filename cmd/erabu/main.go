// Package main is the Erabu CLI entry point.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/hyperjump/erabu/internal/cli"
	"github.com/hyperjump/erabu/internal/config"
	"github.com/hyperjump/erabu/internal/dataset"
	"github.com/hyperjump/erabu/internal/engine"
	"github.com/hyperjump/erabu/internal/evaluation"
	"github.com/hyperjump/erabu/internal/models"
	"github.com/hyperjump/erabu/internal/search"
	"github.com/hyperjump/erabu/internal/server"
	"github.com/hyperjump/erabu/internal/storage"
	"github.com/hyperjump/erabu/internal/watcher"
	"github.com/hyperjump/erabu/pkg/utils"
	"go.uber.org/zap"
)

var version = "dev"

// loadConfig resolves the config to use. An explicit path wins. Otherwise
// config.yaml in the current directory is preferred (for development), then
// ~/.erabu/config.yaml, and finally built-in defaults when no file exists.
// Returns the config and the path that was actually loaded ("" for defaults).
func loadConfig(path string) (*config.Config, string, error) {
	if path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return nil, "", err
		}
		return cfg, path, nil
	}
	for _, candidate := range configCandidates() {
		if _, err := os.Stat(candidate); err != nil {
			continue
		}
		cfg, err := config.Load(candidate)
		if err != nil {
			return nil, "", err
		}
		return cfg, candidate, nil
	}
	return config.Default(), "", nil
}

// configCandidates lists the default config locations in priority order.
func configCandidates() []string {
	var candidates []string
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, "config.yaml"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".erabu", "config.yaml"))
	}
	return candidates
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "import":
		runImport()
	case "predict":
		runPredict()
	case "evaluate":
		runEvaluate()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("erabu version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", "", "config file path (default: ./config.yaml, then ~/.erabu/config.yaml)")
	debug := fs.Bool("debug", false, "enable debug logging (cache traffic, watch imports, etc.)")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	var watchSvc *watcher.Watcher
	if cfg.Watch.Enabled && cfg.Watch.Directory != "" {
		watchOpts := []watcher.Option{}
		if debugMode {
			watchOpts = append(watchOpts, watcher.WithLogger(logger))
		}
		watchSvc = watcher.New(
			cfg.Watch.Directory,
			cfg.Watch.Extensions,
			func(path string) {
				importWatchedFile(components, logger, path)
			},
			watchOpts...,
		)
		if err := watchSvc.Start(context.Background()); err != nil {
			logger.Fatal("Failed to start watcher", zap.Error(err))
		}
		watchSvc.SyncExisting()
	}

	srv := server.NewServer(
		components.Engine,
		components.Jobs,
		components.Storage,
		components.Index,
		cfg,
		logger,
	)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	if watchSvc != nil {
		watchSvc.Stop()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

// importWatchedFile imports a dropped dataset file and indexes its examples.
// Files seen before dedupe by checksum and only log.
func importWatchedFile(c *Components, logger *zap.Logger, path string) {
	ctx := context.Background()
	result, err := c.Importer.ImportFile(ctx, path)
	if err != nil {
		logger.Warn("watch import failed", zap.String("path", path), zap.Error(err))
		return
	}
	if result.Existed {
		logger.Debug("watch import skipped, checksum already known",
			zap.String("path", path),
			zap.String("dataset_id", result.Dataset.ID))
		return
	}
	if err := indexDataset(ctx, c, result.Dataset.ID); err != nil {
		logger.Warn("watch index failed", zap.String("dataset_id", result.Dataset.ID), zap.Error(err))
		return
	}
	logger.Info("watch imported dataset",
		zap.String("path", path),
		zap.String("dataset_id", result.Dataset.ID),
		zap.Int("examples", result.Imported))
}

// indexDataset loads a dataset's examples from storage into the search index.
func indexDataset(ctx context.Context, c *Components, datasetID string) error {
	examples, err := c.Storage.ListExamples(ctx, datasetID, 0, 0)
	if err != nil {
		return err
	}
	values := make([]models.Example, len(examples))
	for i, ex := range examples {
		values[i] = *ex
	}
	return c.Index.IndexBatch(ctx, values)
}

func runImport() {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	configPath := fs.String("config", "", "config file path")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: erabu import [flags] <file>")
		os.Exit(1)
	}
	path := fs.Arg(0)

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer components.Close()

	ctx := context.Background()
	result, err := components.Importer.ImportFile(ctx, path)
	if err != nil {
		fmt.Printf("Import failed: %v\n", err)
		os.Exit(1)
	}
	if result.Existed {
		fmt.Printf("Dataset already imported: %s (%s)\n", result.Dataset.Name, result.Dataset.ID)
		return
	}
	if err := indexDataset(ctx, components, result.Dataset.ID); err != nil {
		fmt.Printf("Search indexing failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Imported %d example(s) into dataset %s (%s)\n", result.Imported, result.Dataset.Name, result.Dataset.ID)
}

// printPredictUsage prints predict subcommand usage.
func printPredictUsage(fs *flag.FlagSet) {
	fmt.Fprintf(fs.Output(), "Usage: erabu predict -file <dataset> [flags] <utterance>\n\n")
	fmt.Fprintf(fs.Output(), "The utterance is all remaining arguments joined by spaces (or pass -text).\n\n")
	fs.PrintDefaults()
	fmt.Fprintf(fs.Output(), `
Examples:
  erabu predict -file travel.csv book a flight to pune
  erabu predict -file travel.csv -engine svm -text "order a veg pizza"
  erabu predict -file travel.csv -output json i have a headache
`)
}

// buildUtterance joins positional args with spaces so multi-word utterances
// work the same with or without shell quoting.
func buildUtterance(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// argsReorder moves flags (and their values) that appear after positional
// arguments to the front of the slice so that flag.Parse() sees them. Go's
// flag package stops at the first non-flag argument, so
// "erabu predict book a flight -file travel.csv" would otherwise leave
// -file unparsed.
func argsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

// outputFormatFromFlag maps the -output flag value to a cli format.
func outputFormatFromFlag(s string) (cli.OutputFormat, bool) {
	switch s {
	case "json":
		return cli.OutputJSON, true
	case "text", "":
		return cli.OutputText, true
	default:
		return cli.OutputText, false
	}
}

// parseDatasetFile reads and parses a dataset file into labeled examples.
func parseDatasetFile(path string) ([]models.LabeledExample, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return dataset.Parse(filepath.Base(path), content)
}

// labeledPairs extracts non-blank text/intent pairs with normalized labels.
// Labels are normalized before splitting so the partition matches the one
// the evaluator derives from the same inputs.
func labeledPairs(examples []models.LabeledExample) (texts, labels []string) {
	for _, ex := range examples {
		label := utils.NormalizeLabel(ex.Intent)
		if strings.TrimSpace(ex.Text) == "" || label == "" {
			continue
		}
		texts = append(texts, ex.Text)
		labels = append(labels, label)
	}
	return texts, labels
}

func runPredict() {
	predictArgs := argsReorder(os.Args[2:])
	fs := flag.NewFlagSet("predict", flag.ExitOnError)
	configPath := fs.String("config", "", "config file path")
	filePath := fs.String("file", "", "labeled dataset file to train from (csv, json, or xlsx)")
	text := fs.String("text", "", "utterance to classify (or pass it as positional arguments)")
	engineID := fs.String("engine", "", "engine id: logit, svm, or perceptron (default from config)")
	outputFormat := fs.String("output", "text", "output format: text (human-readable) or json (parseable)")
	fs.Usage = func() { printPredictUsage(fs) }
	_ = fs.Parse(predictArgs)

	utterance := strings.TrimSpace(*text)
	if utterance == "" {
		utterance = buildUtterance(fs.Args())
	}
	if *filePath == "" || utterance == "" {
		printPredictUsage(fs)
		os.Exit(1)
	}
	format, ok := outputFormatFromFlag(*outputFormat)
	if !ok {
		fmt.Printf("Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	examples, err := parseDatasetFile(*filePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Parse failed: %v\n", err)
		os.Exit(1)
	}

	// Trains in-process from the file, no storage involved.
	eng := engine.New(cfg, logger)
	defer eng.Close()

	ctx := context.Background()
	if _, err := eng.Train(ctx, *engineID, examples); err != nil {
		fmt.Fprintf(os.Stderr, "Training failed: %v\n", err)
		os.Exit(1)
	}
	prediction, err := eng.Predict(ctx, *engineID, utterance)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Prediction failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WritePredictions(os.Stdout, []models.Prediction{*prediction}, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runEvaluate() {
	fs := flag.NewFlagSet("evaluate", flag.ExitOnError)
	configPath := fs.String("config", "", "config file path")
	filePath := fs.String("file", "", "labeled dataset file (csv, json, or xlsx)")
	engineID := fs.String("engine", "", "engine id: logit, svm, or perceptron (default from config)")
	trainPct := fs.Int("train-pct", -1, "train split percent (default from config)")
	seed := fs.Int64("seed", 0, "shuffle seed (default from config)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	if *filePath == "" {
		fmt.Println("Usage: erabu evaluate -file <dataset> [-engine id] [-train-pct n] [-seed n] [-output text|json]")
		os.Exit(1)
	}
	format, ok := outputFormatFromFlag(*outputFormat)
	if !ok {
		fmt.Printf("Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	examples, err := parseDatasetFile(*filePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Parse failed: %v\n", err)
		os.Exit(1)
	}
	texts, labels := labeledPairs(examples)
	if len(texts) == 0 {
		fmt.Fprintln(os.Stderr, "No labeled examples in file")
		os.Exit(1)
	}

	pct := *trainPct
	if pct < 0 {
		pct = cfg.Evaluation.DefaultTrainPct
	}
	shuffleSeed := *seed
	if shuffleSeed == 0 {
		shuffleSeed = cfg.Evaluation.DefaultSeed
	}
	if shuffleSeed == 0 {
		shuffleSeed = evaluation.DefaultSeed
	}

	eng := engine.New(cfg, logger)
	defer eng.Close()
	ctx := context.Background()

	// Train on the train partition only; Evaluate rebuilds the same split
	// from the same inputs, so the test side stays unseen.
	split := evaluation.Split(texts, labels, pct, shuffleSeed)
	if len(split.TrainTexts) > 0 {
		trainExamples := make([]models.LabeledExample, len(split.TrainTexts))
		for i := range split.TrainTexts {
			trainExamples[i] = models.LabeledExample{Text: split.TrainTexts[i], Intent: split.TrainLabels[i]}
		}
		if _, err := eng.Train(ctx, *engineID, trainExamples); err != nil {
			fmt.Fprintf(os.Stderr, "Training failed: %v\n", err)
			os.Exit(1)
		}
	}

	report, err := evaluation.Evaluate(ctx, eng, *engineID, texts, labels, evaluation.Options{
		TrainPct: pct,
		Seed:     shuffleSeed,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Evaluation failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteEvaluationReport(os.Stdout, report, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

// statusEngineResponse is one engine entry in the status response.
type statusEngineResponse struct {
	ID            string   `json:"id"`
	Trained       bool     `json:"trained"`
	Labels        []string `json:"labels,omitempty"`
	TrainingState string   `json:"training_state"`
}

// statusConfigResponse holds configuration info returned by status.
type statusConfigResponse struct {
	DefaultEngine    string  `json:"default_engine"`
	OverlapThreshold float64 `json:"overlap_threshold,omitempty"`
	CacheTTLSeconds  int     `json:"cache_ttl_seconds,omitempty"`
	CacheCapacity    int     `json:"cache_capacity,omitempty"`
	DatabasePath     string  `json:"database_path,omitempty"`
	BleveIndexPath   string  `json:"bleve_index_path,omitempty"`
	WatchEnabled     bool    `json:"watch_enabled,omitempty"`
	WatchDirectory   string  `json:"watch_directory,omitempty"`
}

// statusResponse is the shape of the GET /api/v1/status response.
type statusResponse struct {
	Datasets        int                    `json:"datasets"`
	Examples        int64                  `json:"examples"`
	Corrections     int64                  `json:"corrections"`
	IndexedExamples *uint64                `json:"indexed_examples,omitempty"`
	DiskUsageBytes  *int64                 `json:"disk_usage_bytes,omitempty"`
	Engines         []statusEngineResponse `json:"engines"`
	Config          *statusConfigResponse  `json:"config,omitempty"`
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", "", "config file path (for direct storage mode)")
	serverURL := fs.String("server", "http://localhost:8090", "server URL (empty = read storage directly)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	var status statusResponse
	if *serverURL != "" {
		res, err := statusViaHTTP(*serverURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
			os.Exit(1)
		}
		status = *res
	} else {
		cfg, _, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
		logger, err := utils.NewLogger(cfg.Debug)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
		components, err := initializeComponents(cfg, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
			os.Exit(1)
		}
		defer components.Close()
		ctx := context.Background()
		datasets, err := components.Storage.ListDatasets(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "List datasets failed: %v\n", err)
			os.Exit(1)
		}
		exampleCount, err := components.Storage.CountExamples(ctx, "")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Count examples failed: %v\n", err)
			os.Exit(1)
		}
		correctionCount, err := components.Storage.CountCorrections(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Count corrections failed: %v\n", err)
			os.Exit(1)
		}
		status = statusResponse{
			Datasets:    len(datasets),
			Examples:    exampleCount,
			Corrections: correctionCount,
			Config: &statusConfigResponse{
				DefaultEngine:    cfg.NLU.DefaultEngine,
				OverlapThreshold: cfg.NLU.OverlapThreshold,
				CacheTTLSeconds:  cfg.NLU.CacheTTLSeconds,
				CacheCapacity:    cfg.NLU.CacheCapacity,
				DatabasePath:     cfg.Storage.DatabasePath,
				BleveIndexPath:   cfg.Storage.BleveIndexPath,
				WatchEnabled:     cfg.Watch.Enabled,
				WatchDirectory:   cfg.Watch.Directory,
			},
		}
		// Models live in process memory, so a fresh process reports every
		// engine untrained and idle.
		for _, info := range components.Engine.Engines() {
			status.Engines = append(status.Engines, statusEngineResponse{
				ID:            info.ID,
				Trained:       info.Trained,
				Labels:        info.Labels,
				TrainingState: string(engine.JobIdle),
			})
		}
		if docs, err := components.Index.DocCount(); err == nil {
			status.IndexedExamples = &docs
		}
		if diskBytes, err := storage.DiskUsageBytes(cfg.Storage.DatabasePath, cfg.Storage.BleveIndexPath); err == nil {
			status.DiskUsageBytes = &diskBytes
		}
	}

	switch *outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(status); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	case "text":
		fmt.Printf("datasets:          %d   # imported datasets\n", status.Datasets)
		fmt.Printf("examples:          %d   # stored labeled examples\n", status.Examples)
		fmt.Printf("corrections:       %d   # reviewer corrections\n", status.Corrections)
		if status.IndexedExamples != nil {
			fmt.Printf("indexed_examples:  %d   # examples in the search index\n", *status.IndexedExamples)
		}
		if status.DiskUsageBytes != nil {
			fmt.Printf("disk_usage_bytes:  %d   # database + search index on disk\n", *status.DiskUsageBytes)
		}
		if len(status.Engines) > 0 {
			fmt.Println()
			fmt.Println("# engines")
			for _, e := range status.Engines {
				fmt.Printf("%-12s trained=%-5t state=%s\n", e.ID, e.Trained, e.TrainingState)
			}
		}
		if status.Config != nil {
			fmt.Println()
			fmt.Println("# configuration")
			fmt.Printf("default_engine:    %s\n", status.Config.DefaultEngine)
			fmt.Printf("overlap_threshold: %.2f\n", status.Config.OverlapThreshold)
			if status.Config.CacheTTLSeconds > 0 {
				fmt.Printf("cache_ttl_seconds: %d\n", status.Config.CacheTTLSeconds)
			}
			if status.Config.CacheCapacity > 0 {
				fmt.Printf("cache_capacity:    %d\n", status.Config.CacheCapacity)
			}
			if status.Config.DatabasePath != "" {
				fmt.Printf("database_path:     %s\n", status.Config.DatabasePath)
			}
			if status.Config.BleveIndexPath != "" {
				fmt.Printf("bleve_index_path:  %s\n", status.Config.BleveIndexPath)
			}
			fmt.Printf("watch_enabled:     %t\n", status.Config.WatchEnabled)
			if status.Config.WatchDirectory != "" {
				fmt.Printf("watch_directory:   %s\n", status.Config.WatchDirectory)
			}
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}
}

func statusViaHTTP(serverURL string) (*statusResponse, error) {
	resp, err := http.Get(serverURL + "/api/v1/status")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var s statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &s, nil
}

// Components holds initialized services.
type Components struct {
	Storage  storage.Storage
	Index    *search.Index
	Engine   *engine.Engine
	Jobs     *engine.Jobs
	Importer *dataset.Importer
}

func (c *Components) Close() {
	if c.Engine != nil {
		c.Engine.Close()
	}
	if c.Index != nil {
		_ = c.Index.Close()
	}
	if c.Storage != nil {
		_ = c.Storage.Close()
	}
}

func initializeComponents(cfg *config.Config, logger *zap.Logger) (*Components, error) {
	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	index, err := search.NewIndex(cfg.Storage.BleveIndexPath)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to initialize search index: %w", err)
	}
	eng := engine.New(cfg, logger)
	jobs := engine.NewJobs(eng, store, logger)
	importer := dataset.NewImporter(store, logger)
	return &Components{
		Storage:  store,
		Index:    index,
		Engine:   eng,
		Jobs:     jobs,
		Importer: importer,
	}, nil
}

func printUsage() {
	fmt.Println(`erabu - Training-data workbench for conversational AI

Usage:
  erabu server [flags]                Start the HTTP API server
  erabu import [flags] <file>         Import a dataset file into storage
  erabu predict [flags] <utterance>   Train from a file and classify an utterance
  erabu evaluate [flags]              Train from a file and score a held-out split
  erabu status [flags]                Show storage/index/engine status
  erabu version                       Show version
  erabu help                          Show this help

Server Flags:
  --config string    Config file path (default: ./config.yaml, then ~/.erabu/config.yaml)
  --debug            Enable debug logging (cache traffic, watch imports, etc.)

Import Flags:
  --config string    Config file path

Predict Flags:
  --config string    Config file path
  --file string      Labeled dataset file to train from (csv, json, or xlsx)
  --text string      Utterance to classify (or pass it as positional arguments)
  --engine string    Engine id: logit, svm, or perceptron (default from config)
  --output string    Output format: text or json (default: text)

Evaluate Flags:
  --config string     Config file path
  --file string       Labeled dataset file (csv, json, or xlsx)
  --engine string     Engine id: logit, svm, or perceptron (default from config)
  --train-pct int     Train split percent (default from config)
  --seed int          Shuffle seed (default from config)
  --output string     Output format: text or json (default: text)

Status Flags:
  --config string    Config file path (for direct storage mode)
  --server string    Server URL (default: http://localhost:8090). Use empty (--server "") for direct storage.
  --output string    Output format: text or json (default: text)

Examples:
  erabu server
  erabu import banking.csv
  erabu predict -file banking.csv block my credit card
  erabu predict -file banking.csv -output json "transfer 500 to savings"
  erabu evaluate -file banking.csv -engine svm -train-pct 70
  erabu status
  erabu status --output json`)
}
