package database

import (
	"context"
	"database/sql"
	"embed"
	"sort"
	"strconv"
	"strings"
	"time"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrate applies every embedded migration whose numeric prefix is not yet
// recorded in schema_versions, in ascending order. It is safe to call on
// every startup: already-applied migrations are skipped.
func Migrate(ctx context.Context, db *sql.DB) error {
	entries, err := migrationFiles.ReadDir("migrations")
	if err != nil {
		return err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)

	// The first migration creates schema_versions itself; until that table
	// exists no version is recorded, so every migration runs.
	applied := map[int]bool{}
	if tableExists(ctx, db) {
		rows, err := db.QueryContext(ctx, "SELECT version FROM schema_versions")
		if err != nil {
			return err
		}
		for rows.Next() {
			var v int
			if err := rows.Scan(&v); err != nil {
				rows.Close()
				return err
			}
			applied[v] = true
		}
		rows.Close()
	}

	for _, name := range names {
		version, err := versionOf(name)
		if err != nil {
			return err
		}
		if applied[version] {
			continue
		}
		body, err := migrationFiles.ReadFile("migrations/" + name)
		if err != nil {
			return err
		}
		if err := runMigration(ctx, db, version, string(body)); err != nil {
			return err
		}
	}
	return nil
}

func tableExists(ctx context.Context, db *sql.DB) bool {
	var one int
	err := db.QueryRowContext(ctx, "SELECT 1 FROM schema_versions LIMIT 1").Scan(&one)
	return err == nil || err == sql.ErrNoRows
}

func versionOf(filename string) (int, error) {
	prefix := strings.SplitN(filename, "_", 2)[0]
	return strconv.Atoi(prefix)
}

// runMigration executes every statement in a migration file directly on
// db, then records the version. No transaction is used (MySQL auto-commits
// DDL anyway), so the version row insert is a follow-up rather than part
// of an atomic unit.
func runMigration(ctx context.Context, db *sql.DB, version int, body string) error {
	for _, stmt := range splitStatements(body) {
		if stmt == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	_, err := db.ExecContext(ctx,
		"INSERT INTO schema_versions (version, applied_at) VALUES (?,?)", version, time.Now().UTC())
	return err
}

func splitStatements(body string) []string {
	parts := strings.Split(body, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
