package main

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

var errBadName = errors.New("migration name must look like 000001_description.up.sql")

type migration struct {
	version int
	name    string
	sql     string
}

// parseName extracts the version from names like 000003_create_vouchers.up.sql.
func parseName(name string) (int, error) {
	if !strings.HasSuffix(name, ".up.sql") {
		return 0, fmt.Errorf("%w: %s", errBadName, name)
	}
	prefix, _, ok := strings.Cut(name, "_")
	if !ok {
		return 0, fmt.Errorf("%w: %s", errBadName, name)
	}
	v, err := strconv.Atoi(prefix)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%w: %s", errBadName, name)
	}
	return v, nil
}

func loadMigrations(fsys fs.FS, dir string) ([]migration, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, err
	}

	out := make([]migration, 0, len(entries))
	seen := map[int]string{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		v, err := parseName(e.Name())
		if err != nil {
			return nil, err
		}
		if prev, dup := seen[v]; dup {
			return nil, fmt.Errorf("duplicate migration version %d: %s and %s", v, prev, e.Name())
		}
		seen[v] = e.Name()

		body, err := fs.ReadFile(fsys, path.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		out = append(out, migration{version: v, name: e.Name(), sql: string(body)})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].version < out[j].version })
	return out, nil
}

// pending returns the migrations not yet recorded, in version order.
func pending(all []migration, applied map[int]bool) []migration {
	var out []migration
	for _, m := range all {
		if !applied[m.version] {
			out = append(out, m)
		}
	}
	return out
}

type migrator struct {
	db     *sql.DB
	logger *zap.SugaredLogger
}

func (m *migrator) applied(ctx context.Context) (map[int]bool, error) {
	if _, err := m.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    INTEGER PRIMARY KEY,
			name       TEXT NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`); err != nil {
		return nil, fmt.Errorf("create schema_migrations: %w", err)
	}

	rows, err := m.db.QueryContext(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[int]bool{}
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out[v] = true
	}
	return out, rows.Err()
}

// up applies every pending migration, each in its own transaction.
func (m *migrator) up(ctx context.Context, dryRun bool) error {
	all, err := loadMigrations(migrationFS, "migrations")
	if err != nil {
		return err
	}
	done, err := m.applied(ctx)
	if err != nil {
		return err
	}

	todo := pending(all, done)
	if len(todo) == 0 {
		m.logger.Info("schema is up to date")
		return nil
	}

	for _, mg := range todo {
		if dryRun {
			m.logger.Infow("pending", "version", mg.version, "name", mg.name)
			continue
		}
		if err := m.apply(ctx, mg); err != nil {
			return err
		}
		m.logger.Infow("applied", "version", mg.version, "name", mg.name)
	}
	return nil
}

func (m *migrator) apply(ctx context.Context, mg migration) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, mg.sql); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			return fmt.Errorf("%s: %s (%s)", mg.name, pqErr.Message, pqErr.Code)
		}
		return fmt.Errorf("%s: %w", mg.name, err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO schema_migrations (version, name) VALUES ($1, $2)`, mg.version, mg.name); err != nil {
		return fmt.Errorf("record %s: %w", mg.name, err)
	}
	return tx.Commit()
}
