// Package gcsuploader archives processed statement files to Google Cloud
// Storage. Archival is best-effort: the ingestion run never fails because a
// copy to the bucket did.
package gcsuploader

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"time"

	"cloud.google.com/go/storage"
)

const uploadTimeout = 2 * time.Minute

// Archiver copies statement files into a GCS bucket under processed/.
type Archiver struct {
	bucket string
}

// NewArchiver returns an Archiver targeting the given bucket.
func NewArchiver(bucket string) *Archiver {
	return &Archiver{bucket: bucket}
}

// ArchiveStatement uploads the local statement file to
// gs://<bucket>/processed/<basename> and returns the destination URI.
// It assumes Application Default Credentials are configured.
func (a *Archiver) ArchiveStatement(ctx context.Context, filePath string) (string, error) {
	objectName := path.Join("processed", filepath.Base(filePath))

	f, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("ArchiveStatement: open file %q: %w", filePath, err)
	}
	defer f.Close()

	client, err := storage.NewClient(ctx)
	if err != nil {
		return "", fmt.Errorf("ArchiveStatement: create storage client: %w", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	w := client.Bucket(a.bucket).Object(objectName).NewWriter(ctx)
	if _, err := io.Copy(w, f); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("ArchiveStatement: copy file to GCS writer: %w", err)
	}

	// Close finalizes the upload; errors here mean the object was not written.
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("ArchiveStatement: finalize upload: %w", err)
	}

	return fmt.Sprintf("gs://%s/%s", a.bucket, objectName), nil
}
