// Package config loads the environment-provided settings shared by the
// fatura-tracker CLIs. A .env file in the working directory is honored but
// never required; real environment variables win.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	// EnvProjectID names the GCP project holding the finance dataset.
	EnvProjectID = "BIGQUERY_PROJECT_ID"
	// EnvCredentials names the service-account key file used for BigQuery
	// and GCS access.
	EnvCredentials = "GOOGLE_APPLICATION_CREDENTIALS"
	// EnvGeminiAPIKey names the Gemini API key read by the genai client.
	EnvGeminiAPIKey = "GEMINI_API_KEY"

	envDataset       = "BIGQUERY_DATASET"
	envDocumentsDir  = "DOCUMENTS_DIR"
	envArchiveBucket = "ARCHIVE_BUCKET"

	// DefaultDataset is used when BIGQUERY_DATASET is unset.
	DefaultDataset = "finance"

	defaultDocumentsDir = "documents"
)

// Config holds everything the ingestion run needs up front.
type Config struct {
	ProjectID       string
	Dataset         string
	CredentialsFile string
	GeminiAPIKey    string

	// DocumentsDir is the local directory scanned for statement PDFs.
	DocumentsDir string

	// ArchiveBucket, when non-empty, is the GCS bucket processed statements
	// are copied to after ingestion.
	ArchiveBucket string
}

// Load reads the .env file (if present) and the process environment and
// returns the resolved configuration. It fails when any required variable
// is missing; the caller is expected to treat that as fatal before doing
// any work.
func Load() (*Config, error) {
	// Ignore the error: a missing .env file is the normal case in CI and
	// on developer machines that export variables directly.
	_ = godotenv.Load()

	cfg := &Config{
		ProjectID:       os.Getenv(EnvProjectID),
		Dataset:         os.Getenv(envDataset),
		CredentialsFile: os.Getenv(EnvCredentials),
		GeminiAPIKey:    os.Getenv(EnvGeminiAPIKey),
		DocumentsDir:    os.Getenv(envDocumentsDir),
		ArchiveBucket:   os.Getenv(envArchiveBucket),
	}

	if cfg.Dataset == "" {
		cfg.Dataset = DefaultDataset
	}
	if cfg.DocumentsDir == "" {
		cfg.DocumentsDir = defaultDocumentsDir
	}

	var missing []string
	if cfg.ProjectID == "" {
		missing = append(missing, EnvProjectID)
	}
	if cfg.CredentialsFile == "" {
		missing = append(missing, EnvCredentials)
	}
	if cfg.GeminiAPIKey == "" {
		missing = append(missing, EnvGeminiAPIKey)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("config: missing required environment variables: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}
