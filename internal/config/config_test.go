package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  host: "127.0.0.1"
  port: 9000
storage:
  database_path: "test.db"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9000 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Storage.DatabasePath == "" {
		t.Error("database_path should be set")
	}
	if cfg.Debug {
		t.Error("debug should default to false when unset")
	}
	if cfg.Matching.SkillWeight != 0.6 || cfg.Matching.TextWeight != 0.4 {
		t.Errorf("default weights: got %v/%v", cfg.Matching.SkillWeight, cfg.Matching.TextWeight)
	}
}

func TestLoad_debugTrue(t *testing.T) {
	path := writeConfig(t, `
debug: true
storage:
  database_path: "test.db"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Debug {
		t.Error("debug should be true when set in config")
	}
}

func TestLoad_matchingSection(t *testing.T) {
	path := writeConfig(t, `
matching:
  skill_weight: 0.8
  text_weight: 0.2
  default_limit: 5
  max_limit: 20
  min_description_length: 0
  workers: 4
  vocabulary_path: "./skills.yaml"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	m := cfg.Matching
	if m.SkillWeight != 0.8 || m.TextWeight != 0.2 {
		t.Errorf("weights: got %v/%v", m.SkillWeight, m.TextWeight)
	}
	if m.DefaultLimit != 5 || m.MaxLimit != 20 || m.Workers != 4 {
		t.Errorf("limits: got %+v", m)
	}
	if got := m.MinDescriptionLengthOrDefault(); got != 0 {
		t.Errorf("explicit 0 should disable the minimum, got %d", got)
	}
	want := filepath.Join(filepath.Dir(path), "skills.yaml")
	if m.VocabularyPath != want {
		t.Errorf("vocabulary_path = %s, want %s", m.VocabularyPath, want)
	}
}

func TestLoad_singleZeroWeightKept(t *testing.T) {
	path := writeConfig(t, `
matching:
  skill_weight: 1
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Matching.SkillWeight != 1 || cfg.Matching.TextWeight != 0 {
		t.Errorf("weights: got %v/%v", cfg.Matching.SkillWeight, cfg.Matching.TextWeight)
	}
}

func TestLoad_invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"negative weight", "matching:\n  skill_weight: -1\n  text_weight: 1\n"},
		{"max below default", "matching:\n  default_limit: 50\n  max_limit: 10\n"},
		{"negative workers", "matching:\n  workers: -2\n"},
		{"bad port", "server:\n  port: 70000\n"},
		{"malformed yaml", "server: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.content)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoad_missingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoad_expandPathDotSlashRelativeToConfigDir(t *testing.T) {
	path := writeConfig(t, `
storage:
  database_path: "./data/db/candidates.db"
  index_path: "./data/indices/bleve"
watch:
  directories: ["./resumes"]
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	dir := filepath.Dir(path)
	wantDB := filepath.Join(dir, "data", "db", "candidates.db")
	if cfg.Storage.DatabasePath != wantDB {
		t.Errorf("database_path = %s, want %s", cfg.Storage.DatabasePath, wantDB)
	}
	wantIdx := filepath.Join(dir, "data", "indices", "bleve")
	if cfg.Storage.IndexPath != wantIdx {
		t.Errorf("index_path = %s, want %s", cfg.Storage.IndexPath, wantIdx)
	}
	if len(cfg.Watch.Directories) != 1 {
		t.Fatalf("watch directories: got %d", len(cfg.Watch.Directories))
	}
	wantWatch := filepath.Join(dir, "resumes")
	if cfg.Watch.Directories[0] != wantWatch {
		t.Errorf("watch directory = %s, want %s", cfg.Watch.Directories[0], wantWatch)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	if cfg.Server.Host != "localhost" {
		t.Errorf("default host: got %s", cfg.Server.Host)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("default port: got %d", cfg.Server.Port)
	}
	if cfg.Matching.DefaultLimit != 10 {
		t.Errorf("default limit: got %d", cfg.Matching.DefaultLimit)
	}
	if cfg.Matching.MaxLimit != 100 {
		t.Errorf("max limit: got %d", cfg.Matching.MaxLimit)
	}
	if got := cfg.Matching.MinDescriptionLengthOrDefault(); got != 10 {
		t.Errorf("min description length: got %d", got)
	}
	if len(cfg.Watch.Extensions) != len(DefaultExtensions) || cfg.Watch.Extensions[0] != ".txt" {
		t.Errorf("watch extensions: got %v", cfg.Watch.Extensions)
	}
	cfg.Watch.Extensions[0] = ".changed"
	if DefaultExtensions[0] != ".txt" {
		t.Error("ApplyDefaults must copy DefaultExtensions")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestApplyDefaults_WatchRecursiveWhenDirectoriesSet(t *testing.T) {
	cfg := &Config{Watch: WatchConfig{Directories: []string{"/tmp/resumes"}}}
	ApplyDefaults(cfg)
	if cfg.Watch.Recursive == nil || !*cfg.Watch.Recursive {
		t.Error("recursive should default to true when directories are set")
	}
}

func TestWatchConfig_RecursiveOrDefault(t *testing.T) {
	t.Run("nil_returns_true", func(t *testing.T) {
		w := &WatchConfig{}
		if got := w.RecursiveOrDefault(); !got {
			t.Errorf("RecursiveOrDefault() = %v, want true", got)
		}
	})
	t.Run("false_returns_false", func(t *testing.T) {
		f := false
		w := &WatchConfig{Recursive: &f}
		if got := w.RecursiveOrDefault(); got {
			t.Errorf("RecursiveOrDefault() = %v, want false", got)
		}
	})
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "saved.yaml")
	cfg := Default()
	cfg.Server.Port = 9090
	cfg.Storage.DatabasePath = "/tmp/db"
	cfg.Watch.Directories = []string{"/tmp/resumes"}
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Server.Port != 9090 {
		t.Errorf("loaded port: got %d", loaded.Server.Port)
	}
	if len(loaded.Watch.Directories) != 1 || loaded.Watch.Directories[0] != "/tmp/resumes" {
		t.Errorf("loaded watch directories: got %v", loaded.Watch.Directories)
	}
}
