package main

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/hyperjump/erabu/internal/cli"
	"github.com/hyperjump/erabu/internal/models"
)

func TestArgsReorder(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected []string
	}{
		{
			name:     "flags after utterance are moved first",
			args:     []string{"book a flight", "-file", "travel.csv"},
			expected: []string{"-file", "travel.csv", "book a flight"},
		},
		{
			name:     "flags first returns unchanged",
			args:     []string{"-file", "travel.csv", "book a flight"},
			expected: []string{"-file", "travel.csv", "book a flight"},
		},
		{
			name:     "utterance only returns unchanged",
			args:     []string{"book a flight"},
			expected: []string{"book a flight"},
		},
		{
			name:     "empty args returns unchanged",
			args:     []string{},
			expected: []string{},
		},
		{
			name:     "multiple positionals then flags",
			args:     []string{"book", "a", "flight", "-engine", "svm"},
			expected: []string{"-engine", "svm", "book", "a", "flight"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := argsReorder(tt.args)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("argsReorder() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestBuildUtterance(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{"single word", []string{"hello"}, "hello"},
		{"multiple words", []string{"book", "a", "flight"}, "book a flight"},
		{"single quoted phrase", []string{"book a flight"}, "book a flight"},
		{"empty args", []string{}, ""},
		{"blank args", []string{"  ", "  "}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildUtterance(tt.args)
			if got != tt.expected {
				t.Errorf("buildUtterance(%v) = %q, want %q", tt.args, got, tt.expected)
			}
		})
	}
}

func TestOutputFormatFromFlag(t *testing.T) {
	tests := []struct {
		in     string
		format cli.OutputFormat
		ok     bool
	}{
		{"text", cli.OutputText, true},
		{"json", cli.OutputJSON, true},
		{"", cli.OutputText, true},
		{"yaml", cli.OutputText, false},
	}
	for _, tt := range tests {
		t.Run("flag "+tt.in, func(t *testing.T) {
			format, ok := outputFormatFromFlag(tt.in)
			if format != tt.format || ok != tt.ok {
				t.Errorf("outputFormatFromFlag(%q) = %v, %t; want %v, %t", tt.in, format, ok, tt.format, tt.ok)
			}
		})
	}
}

func TestLabeledPairs(t *testing.T) {
	examples := []models.LabeledExample{
		{Text: "book a flight", Intent: "Book_Travel"},
		{Text: "   ", Intent: "book_travel"},
		{Text: "order a pizza", Intent: ""},
		{Text: "i have a fever", Intent: "  health_query "},
	}
	texts, labels := labeledPairs(examples)
	if len(texts) != 2 || len(labels) != 2 {
		t.Fatalf("labeledPairs kept %d texts and %d labels, want 2 and 2", len(texts), len(labels))
	}
	if labels[0] != "book_travel" || labels[1] != "health_query" {
		t.Errorf("labels = %v, want normalized [book_travel health_query]", labels)
	}
	if texts[1] != "i have a fever" {
		t.Errorf("texts = %v, blank and unlabeled rows should be dropped", texts)
	}
}

func TestParseDatasetFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "travel.csv")
	content := "text,intent\nbook a flight to pune,book_travel\norder a veg pizza,order_food\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	examples, err := parseDatasetFile(path)
	if err != nil {
		t.Fatalf("parseDatasetFile: %v", err)
	}
	if len(examples) != 2 {
		t.Fatalf("parsed %d examples, want 2", len(examples))
	}
	if examples[0].Text != "book a flight to pune" || examples[0].Intent != "book_travel" {
		t.Errorf("examples[0] = %+v", examples[0])
	}

	if _, err := parseDatasetFile(filepath.Join(dir, "missing.csv")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadConfig_prefersCwdConfig(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := `
debug: true
server:
  host: "localhost"
  port: 8095
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	origWd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Chdir(origWd) }()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, err := loadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	// On macOS, cwd can be /private/var/... while t.TempDir() reports /var/...; compare canonical paths.
	resolvedCanon, _ := filepath.EvalSymlinks(resolved)
	configPathCanon, _ := filepath.EvalSymlinks(configPath)
	if resolvedCanon != configPathCanon {
		t.Errorf("resolved path = %s (canon %s), want %s (canon %s)", resolved, resolvedCanon, configPath, configPathCanon)
	}
	if !cfg.Debug {
		t.Error("debug should be true from cwd config.yaml")
	}
	if cfg.Server.Port != 8095 {
		t.Errorf("port = %d, want 8095", cfg.Server.Port)
	}
}

func TestLoadConfig_usesExplicitPath(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := `
server:
  host: "127.0.0.1"
  port: 9000
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, err := loadConfig(configPath)
	if err != nil {
		t.Fatal(err)
	}
	if resolved != configPath {
		t.Errorf("resolved path = %s, want %s", resolved, configPath)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9000 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
}

func TestLoadConfig_fallsBackToDefaults(t *testing.T) {
	cwd := t.TempDir()
	home := t.TempDir()
	t.Setenv("HOME", home)
	origWd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Chdir(origWd) }()
	if err := os.Chdir(cwd); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, err := loadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if resolved != "" {
		t.Errorf("resolved path = %q, want empty for built-in defaults", resolved)
	}
	if cfg.Server.Port != 8090 {
		t.Errorf("default port = %d, want 8090", cfg.Server.Port)
	}
	if cfg.NLU.DefaultEngine != "logit" {
		t.Errorf("default engine = %q, want logit", cfg.NLU.DefaultEngine)
	}
}

func TestLoadConfig_homeCandidate(t *testing.T) {
	cwd := t.TempDir()
	home := t.TempDir()
	t.Setenv("HOME", home)
	if err := os.MkdirAll(filepath.Join(home, ".erabu"), 0755); err != nil {
		t.Fatal(err)
	}
	configPath := filepath.Join(home, ".erabu", "config.yaml")
	if err := os.WriteFile(configPath, []byte("server:\n  port: 8099\n"), 0600); err != nil {
		t.Fatal(err)
	}
	origWd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Chdir(origWd) }()
	if err := os.Chdir(cwd); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, err := loadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if resolved != configPath {
		t.Errorf("resolved path = %s, want %s", resolved, configPath)
	}
	if cfg.Server.Port != 8099 {
		t.Errorf("port = %d, want 8099", cfg.Server.Port)
	}
}
