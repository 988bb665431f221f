package migration

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/muhammadchandra19/exchange/services/candlestick-service/pkg/logger"
	"github.com/muhammadchandra19/exchange/services/candlestick-service/pkg/questdb"
)

// Migration represents a database migration
type Migration struct {
	ID        string
	Name      string
	Timestamp time.Time
	UpSQL     string
}

// Runner applies forward-only migrations to QuestDB. QuestDB has no DELETE,
// so applied rows in schema_migrations are never removed.
type Runner struct {
	client questdb.QuestDBClient
	files  fs.FS
	log    logger.Interface
}

// NewRunner creates a new migration runner reading *.up.sql files from the root of files.
func NewRunner(client questdb.QuestDBClient, files fs.FS, log logger.Interface) *Runner {
	return &Runner{
		client: client,
		files:  files,
		log:    log,
	}
}

// EnsureMigrationTable creates the schema_migrations table if it doesn't exist
func (r *Runner) EnsureMigrationTable(ctx context.Context) error {
	createTableSQL := `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			id SYMBOL,
			name STRING,
			applied_at TIMESTAMP
		) TIMESTAMP(applied_at) PARTITION BY YEAR;
	`
	return r.client.Exec(ctx, createTableSQL)
}

// AppliedMigrations returns the set of applied migration IDs
func (r *Runner) AppliedMigrations(ctx context.Context) (map[string]bool, error) {
	applied := make(map[string]bool)

	rows, err := r.client.Query(ctx, "SELECT id FROM schema_migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		applied[id] = true
	}

	return applied, rows.Err()
}

// LoadMigrations loads all migration files sorted by file name.
func (r *Runner) LoadMigrations() ([]Migration, error) {
	upFiles, err := fs.Glob(r.files, "*.up.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(upFiles)

	migrations := make([]Migration, 0, len(upFiles))
	for _, upFile := range upFiles {
		m, err := r.parseMigrationFile(upFile)
		if err != nil {
			return nil, fmt.Errorf("failed to parse migration %s: %w", upFile, err)
		}
		migrations = append(migrations, m)
	}

	return migrations, nil
}

func (r *Runner) parseMigrationFile(upFile string) (Migration, error) {
	content, err := fs.ReadFile(r.files, upFile)
	if err != nil {
		return Migration{}, err
	}

	id := strings.TrimSuffix(path.Base(upFile), ".up.sql")

	// file names look like YYYYMMDDHHMMSS_name
	name := id
	timestamp := time.Unix(0, 0).UTC()
	if prefix, rest, ok := strings.Cut(id, "_"); ok {
		name = rest
		if ts, err := time.Parse("20060102150405", prefix); err == nil {
			timestamp = ts
		}
	}

	return Migration{
		ID:        id,
		Name:      name,
		Timestamp: timestamp,
		UpSQL:     strings.TrimSpace(string(content)),
	}, nil
}

// MigrateUp applies up to steps pending migrations; steps <= 0 applies all of them.
// It returns the IDs that were applied.
func (r *Runner) MigrateUp(ctx context.Context, steps int) ([]string, error) {
	if err := r.EnsureMigrationTable(ctx); err != nil {
		return nil, fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	migrations, err := r.LoadMigrations()
	if err != nil {
		return nil, err
	}

	applied, err := r.AppliedMigrations(ctx)
	if err != nil {
		return nil, err
	}

	var toApply []Migration
	for _, m := range migrations {
		if !applied[m.ID] {
			toApply = append(toApply, m)
		}
	}

	if steps > 0 && len(toApply) > steps {
		toApply = toApply[:steps]
	}

	done := make([]string, 0, len(toApply))
	for _, m := range toApply {
		if m.UpSQL == "" {
			r.log.Warn("Skipping empty migration", logger.Field{Key: "migration", Value: m.ID})
			continue
		}

		r.log.Info("Applying migration", logger.Field{Key: "action", Value: "migrate_up"}, logger.Field{Key: "migration", Value: m.ID})

		for _, stmt := range splitStatements(m.UpSQL) {
			if err := r.client.Exec(ctx, stmt); err != nil {
				return done, fmt.Errorf("failed to apply migration %s: %w", m.ID, err)
			}
		}

		if err := r.client.Exec(ctx, "INSERT INTO schema_migrations VALUES ($1, $2, now())", m.ID, m.Name); err != nil {
			return done, fmt.Errorf("failed to record migration %s: %w", m.ID, err)
		}
		done = append(done, m.ID)
	}

	return done, nil
}

// splitStatements breaks a migration body on semicolons. Migrations must not
// contain semicolons inside string literals.
func splitStatements(sql string) []string {
	var out []string
	for _, stmt := range strings.Split(sql, ";") {
		if s := strings.TrimSpace(stmt); s != "" {
			out = append(out, s)
		}
	}
	return out
}
