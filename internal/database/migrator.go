package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

// Migrator applies the plain SQL files in a directory, in name order, once
// each. Files are read at runtime so they can be updated without a rebuild.
type Migrator struct {
	pool   *pgxpool.Pool
	dir    string
	logger *logrus.Logger
}

func NewMigrator(pool *pgxpool.Pool, dir string, logger *logrus.Logger) *Migrator {
	if dir == "" {
		dir = "migrations"
	}
	return &Migrator{pool: pool, dir: dir, logger: logger}
}

// PendingFiles lists the migration files in dir that are not in applied.
// Files whose name contains "reset" are never returned.
func PendingFiles(dir string, applied map[string]bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}
		if strings.Contains(name, "reset") || applied[name] {
			continue
		}
		files = append(files, name)
	}
	sort.Strings(files)
	return files, nil
}

// RunMigrations executes every pending migration and records it in
// schema_migrations.
func (m *Migrator) RunMigrations(ctx context.Context) error {
	m.logger.Info("starting database migrations")

	if err := m.createMigrationsTable(ctx); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied, err := m.getAppliedMigrations(ctx)
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}

	files, err := PendingFiles(m.dir, applied)
	if err != nil {
		return err
	}

	for _, filename := range files {
		content, err := os.ReadFile(filepath.Join(m.dir, filename))
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", filename, err)
		}

		m.logger.WithField("file", filename).Info("running migration")
		if _, err := m.pool.Exec(ctx, string(content)); err != nil {
			return fmt.Errorf("failed to run migration %s: %w", filename, err)
		}

		if err := m.recordMigration(ctx, filename); err != nil {
			return fmt.Errorf("failed to record migration %s: %w", filename, err)
		}
	}

	if len(files) > 0 {
		m.logger.WithField("count", len(files)).Info("migrations applied")
	} else {
		m.logger.Info("database is up to date")
	}
	return nil
}

func (m *Migrator) createMigrationsTable(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			id SERIAL PRIMARY KEY,
			filename VARCHAR(255) UNIQUE NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`

	_, err := m.pool.Exec(ctx, query)
	return err
}

func (m *Migrator) getAppliedMigrations(ctx context.Context) (map[string]bool, error) {
	applied := make(map[string]bool)

	rows, err := m.pool.Query(ctx, "SELECT filename FROM schema_migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var filename string
		if err := rows.Scan(&filename); err != nil {
			return nil, err
		}
		applied[filename] = true
	}

	return applied, rows.Err()
}

func (m *Migrator) recordMigration(ctx context.Context, filename string) error {
	query := `
		INSERT INTO schema_migrations (filename)
		VALUES ($1)
		ON CONFLICT (filename) DO NOTHING
	`

	_, err := m.pool.Exec(ctx, query, filename)
	return err
}
