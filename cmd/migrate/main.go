// Command migrate applies the BigQuery schema migrations under
// migrations/bigquery in version order, tracking what has already run in a
// schema_migrations table.
package main

import (
	"context"
	"crypto/sha256"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"

	"github.com/lbarbosa/fatura-tracker/internal/config"
)

// migrationFilePattern matches files named like 0001_create_tables.sql.
var migrationFilePattern = regexp.MustCompile(`^(\d{4})_(.+)\.sql$`)

// migration is one pending migration file, with placeholders already resolved.
type migration struct {
	Version  int
	Name     string
	Filename string
	SQL      string
	Checksum string
}

func main() {
	var (
		projectID     = flag.String("project", os.Getenv(config.EnvProjectID), "GCP project ID (defaults to "+config.EnvProjectID+")")
		datasetID     = flag.String("dataset", config.DefaultDataset, "BigQuery dataset ID")
		appliedBy     = flag.String("applied-by", "migrate-cli", "recorded as the applier of each migration")
		migrationsDir = flag.String("migrations", "migrations/bigquery", "path to the migrations directory")
	)
	flag.Parse()

	if *projectID == "" {
		log.Fatal("missing project ID: pass -project or set " + config.EnvProjectID)
	}

	ctx := context.Background()

	client, err := bigquery.NewClient(ctx, *projectID)
	if err != nil {
		log.Fatalf("failed to create BigQuery client: %v", err)
	}
	defer client.Close()

	log.Printf("connected to BigQuery project %s, dataset %s", *projectID, *datasetID)

	if err := ensureMigrationsTable(ctx, client, *projectID, *datasetID); err != nil {
		log.Fatalf("failed to ensure schema_migrations table: %v", err)
	}

	migrations, err := loadMigrations(*migrationsDir, *projectID, *datasetID)
	if err != nil {
		log.Fatalf("failed to load migrations: %v", err)
	}
	log.Printf("found %d migration files", len(migrations))

	appliedVersions, err := appliedVersions(ctx, client, *projectID, *datasetID)
	if err != nil {
		log.Fatalf("failed to list applied migrations: %v", err)
	}
	log.Printf("found %d already applied migrations", len(appliedVersions))

	appliedCount := 0
	for _, m := range migrations {
		if appliedVersions[m.Version] {
			log.Printf("  [SKIP] %s (already applied)", m.Filename)
			continue
		}

		log.Printf("  [RUN]  %s", m.Filename)
		if err := runStatement(ctx, client, m.SQL, nil); err != nil {
			log.Fatalf("failed to apply %s: %v", m.Filename, err)
		}
		if err := recordMigration(ctx, client, *projectID, *datasetID, *appliedBy, m); err != nil {
			log.Fatalf("failed to record %s: %v", m.Filename, err)
		}
		log.Printf("  [OK]   %s", m.Filename)
		appliedCount++
	}

	if appliedCount == 0 {
		log.Println("no new migrations to apply, schema is up to date")
	} else {
		log.Printf("applied %d migration(s)", appliedCount)
	}
}

// parseMigrationFilename splits a file name like 0042_add_index.sql into its
// version and name. ok is false for anything that doesn't match the pattern.
func parseMigrationFilename(filename string) (version int, name string, ok bool) {
	matches := migrationFilePattern.FindStringSubmatch(filename)
	if matches == nil {
		return 0, "", false
	}
	version, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0, "", false
	}
	return version, matches[2], true
}

// checksumSQL fingerprints the raw file content, before placeholder
// substitution, so the same migration applied against different projects keeps
// the same checksum.
func checksumSQL(content []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(content))
}

// resolvePlaceholders fills in the {{PROJECT_ID}} and {{DATASET_ID}} markers
// used by the migration files so they stay portable across environments.
func resolvePlaceholders(sql, projectID, datasetID string) string {
	sql = strings.ReplaceAll(sql, "{{PROJECT_ID}}", projectID)
	return strings.ReplaceAll(sql, "{{DATASET_ID}}", datasetID)
}

// loadMigrations reads every migration file under dir, sorted by version.
func loadMigrations(dir, projectID, datasetID string) ([]migration, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("loadMigrations: read dir: %w", err)
	}

	var migrations []migration
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		version, name, ok := parseMigrationFilename(entry.Name())
		if !ok {
			log.Printf("skipping non-migration file: %s", entry.Name())
			continue
		}

		content, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("loadMigrations: read %s: %w", entry.Name(), err)
		}

		migrations = append(migrations, migration{
			Version:  version,
			Name:     name,
			Filename: entry.Name(),
			SQL:      resolvePlaceholders(string(content), projectID, datasetID),
			Checksum: checksumSQL(content),
		})
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})

	return migrations, nil
}

func ensureMigrationsTable(ctx context.Context, client *bigquery.Client, projectID, datasetID string) error {
	sql := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS `+"`%s.%s.schema_migrations`"+` (
			version     INT64 NOT NULL,
			name        STRING NOT NULL,
			applied_at  TIMESTAMP NOT NULL,
			checksum    STRING,
			applied_by  STRING
		)
	`, projectID, datasetID)
	return runStatement(ctx, client, sql, nil)
}

// appliedVersions returns the set of migration versions already recorded in
// schema_migrations.
func appliedVersions(ctx context.Context, client *bigquery.Client, projectID, datasetID string) (map[int]bool, error) {
	sql := fmt.Sprintf(`
		SELECT version
		FROM `+"`%s.%s.schema_migrations`"+`
		ORDER BY version ASC
	`, projectID, datasetID)

	it, err := client.Query(sql).Read(ctx)
	if err != nil {
		// First run against a fresh dataset.
		if strings.Contains(err.Error(), "Not found") {
			return map[int]bool{}, nil
		}
		return nil, fmt.Errorf("appliedVersions: query read: %w", err)
	}

	applied := make(map[int]bool)
	for {
		var row struct {
			Version int64 `bigquery:"version"`
		}
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("appliedVersions: iter next: %w", err)
		}
		applied[int(row.Version)] = true
	}

	return applied, nil
}

func recordMigration(ctx context.Context, client *bigquery.Client, projectID, datasetID, appliedBy string, m migration) error {
	sql := fmt.Sprintf(`
		INSERT INTO `+"`%s.%s.schema_migrations`"+`
		(version, name, applied_at, checksum, applied_by)
		VALUES (@version, @name, CURRENT_TIMESTAMP(), @checksum, @applied_by)
	`, projectID, datasetID)

	params := []bigquery.QueryParameter{
		{Name: "version", Value: m.Version},
		{Name: "name", Value: m.Name},
		{Name: "checksum", Value: m.Checksum},
		{Name: "applied_by", Value: appliedBy},
	}
	return runStatement(ctx, client, sql, params)
}

// runStatement executes one SQL statement as a query job and waits for it.
func runStatement(ctx context.Context, client *bigquery.Client, sql string, params []bigquery.QueryParameter) error {
	q := client.Query(sql)
	q.Parameters = params

	job, err := q.Run(ctx)
	if err != nil {
		return fmt.Errorf("runStatement: run: %w", err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("runStatement: wait: %w", err)
	}
	if err := status.Err(); err != nil {
		return fmt.Errorf("runStatement: job: %w", err)
	}
	return nil
}
