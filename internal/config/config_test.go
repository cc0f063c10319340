package config

import (
	"strings"
	"testing"
)

func setRequired(t *testing.T) {
	t.Setenv(EnvProjectID, "test-project")
	t.Setenv(EnvCredentials, "/tmp/sa.json")
	t.Setenv(EnvGeminiAPIKey, "test-key")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)
	t.Setenv(envDataset, "")
	t.Setenv(envDocumentsDir, "")
	t.Setenv(envArchiveBucket, "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.ProjectID != "test-project" {
		t.Errorf("ProjectID = %q, want %q", cfg.ProjectID, "test-project")
	}
	if cfg.Dataset != DefaultDataset {
		t.Errorf("Dataset = %q, want default %q", cfg.Dataset, DefaultDataset)
	}
	if cfg.DocumentsDir != defaultDocumentsDir {
		t.Errorf("DocumentsDir = %q, want default %q", cfg.DocumentsDir, defaultDocumentsDir)
	}
	if cfg.ArchiveBucket != "" {
		t.Errorf("ArchiveBucket = %q, want empty", cfg.ArchiveBucket)
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv(envDataset, "finance_dev")
	t.Setenv(envDocumentsDir, "/data/faturas")
	t.Setenv(envArchiveBucket, "fatura-archive")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Dataset != "finance_dev" {
		t.Errorf("Dataset = %q, want %q", cfg.Dataset, "finance_dev")
	}
	if cfg.DocumentsDir != "/data/faturas" {
		t.Errorf("DocumentsDir = %q, want %q", cfg.DocumentsDir, "/data/faturas")
	}
	if cfg.ArchiveBucket != "fatura-archive" {
		t.Errorf("ArchiveBucket = %q, want %q", cfg.ArchiveBucket, "fatura-archive")
	}
}

func TestLoadMissingRequired(t *testing.T) {
	setRequired(t)
	t.Setenv(EnvGeminiAPIKey, "")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() succeeded with missing GEMINI_API_KEY, want error")
	}
	if !strings.Contains(err.Error(), EnvGeminiAPIKey) {
		t.Errorf("error %q does not name the missing variable", err)
	}
}

func TestLoadReportsAllMissing(t *testing.T) {
	t.Setenv(EnvProjectID, "")
	t.Setenv(EnvCredentials, "")
	t.Setenv(EnvGeminiAPIKey, "")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() succeeded with no configuration, want error")
	}
	for _, name := range []string{EnvProjectID, EnvCredentials, EnvGeminiAPIKey} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error %q does not mention %s", err, name)
		}
	}
}
