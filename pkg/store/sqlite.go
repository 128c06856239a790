package store

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"charsheet/pkg/geom"
	"charsheet/pkg/store/migrations"
)

const migrationTable = "schema_migrations"

// SQLite keeps overrides in a local database file.
type SQLite struct {
	sqlDB     *sql.DB
	namespace string
}

// OpenSQLite opens and migrates the database at path.
func OpenSQLite(ctx context.Context, path, namespace string) (*SQLite, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(ctx, sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &SQLite{sqlDB: sqlDB, namespace: namespace}, nil
}

func (s *SQLite) Get(ctx context.Context, entityID, key string) (geom.Geometry, bool, error) {
	if err := s.check(ctx, entityID, key); err != nil {
		return geom.Geometry{}, false, err
	}
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT left_px, top_px, width_px, height_px
		 FROM overrides
		 WHERE namespace = ? AND entity_id = ? AND field_key = ?`,
		s.namespace, entityID, key,
	)
	var g geom.Geometry
	if err := row.Scan(&g.Left, &g.Top, &g.Width, &g.Height); err != nil {
		if err == sql.ErrNoRows {
			return geom.Geometry{}, false, nil
		}
		return geom.Geometry{}, false, fmt.Errorf("get override: %w", err)
	}
	return g, true, nil
}

func (s *SQLite) Set(ctx context.Context, entityID, key string, g geom.Geometry) error {
	if err := s.check(ctx, entityID, key); err != nil {
		return err
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO overrides (namespace, entity_id, field_key, left_px, top_px, width_px, height_px, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(namespace, entity_id, field_key) DO UPDATE SET
		   left_px = excluded.left_px,
		   top_px = excluded.top_px,
		   width_px = excluded.width_px,
		   height_px = excluded.height_px,
		   updated_at = excluded.updated_at`,
		s.namespace, entityID, key, g.Left, g.Top, g.Width, g.Height, time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("put override: %w", err)
	}
	return nil
}

func (s *SQLite) Delete(ctx context.Context, entityID, key string) error {
	if err := s.check(ctx, entityID, key); err != nil {
		return err
	}
	if _, err := s.sqlDB.ExecContext(ctx,
		`DELETE FROM overrides WHERE namespace = ? AND entity_id = ? AND field_key = ?`,
		s.namespace, entityID, key,
	); err != nil {
		return fmt.Errorf("delete override: %w", err)
	}
	return nil
}

func (s *SQLite) List(ctx context.Context, entityID string) (map[string]geom.Geometry, error) {
	if err := s.check(ctx, entityID, "*"); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT field_key, left_px, top_px, width_px, height_px
		 FROM overrides
		 WHERE namespace = ? AND entity_id = ?`,
		s.namespace, entityID,
	)
	if err != nil {
		return nil, fmt.Errorf("list overrides: %w", err)
	}
	defer rows.Close()

	out := make(map[string]geom.Geometry)
	for rows.Next() {
		var key string
		var g geom.Geometry
		if err := rows.Scan(&key, &g.Left, &g.Top, &g.Width, &g.Height); err != nil {
			return nil, fmt.Errorf("scan override: %w", err)
		}
		out[key] = g
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate overrides: %w", err)
	}
	return out, nil
}

// Close releases the underlying SQLite connection.
func (s *SQLite) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	err := s.sqlDB.Close()
	s.sqlDB = nil
	return err
}

func (s *SQLite) check(ctx context.Context, entityID, key string) error {
	if s == nil || s.sqlDB == nil {
		return ErrClosed
	}
	return validate(ctx, entityID, key)
}

// applyMigrations runs each embedded .sql file once, in name order.
func applyMigrations(ctx context.Context, sqlDB *sql.DB, migrationFS fs.FS) error {
	entries, err := fs.ReadDir(migrationFS, ".")
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}
	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	if _, err := sqlDB.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS `+migrationTable+` (
    name TEXT PRIMARY KEY,
    applied_at INTEGER NOT NULL
)`); err != nil {
		return fmt.Errorf("ensure migration table: %w", err)
	}

	for _, file := range files {
		var found int
		err := sqlDB.QueryRowContext(ctx, "SELECT 1 FROM "+migrationTable+" WHERE name = ?", file).Scan(&found)
		if err == nil {
			continue
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("check migration %s: %w", file, err)
		}

		content, err := fs.ReadFile(migrationFS, file)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", file, err)
		}
		tx, err := sqlDB.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin migration transaction %s: %w", file, err)
		}
		if _, err := tx.ExecContext(ctx, extractUpMigration(string(content))); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("exec migration %s: %w", file, err)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO "+migrationTable+" (name, applied_at) VALUES (?, ?)",
			file, time.Now().UTC().UnixMilli(),
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration %s: %w", file, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %s: %w", file, err)
		}
	}
	return nil
}

// extractUpMigration returns the SQL in the -- +migrate Up section.
func extractUpMigration(content string) string {
	upIdx := strings.Index(content, "-- +migrate Up")
	if upIdx == -1 {
		return content
	}
	body := content[upIdx+len("-- +migrate Up"):]
	if downIdx := strings.Index(body, "-- +migrate Down"); downIdx != -1 {
		body = body[:downIdx]
	}
	return body
}
