package main

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

type dialect string

const (
	dialectSQLite   dialect = "sqlite"
	dialectPostgres dialect = "postgres"
)

// openDB picks the driver from the connection URL. Postgres URLs go through
// pgx, everything else is treated as a SQLite path.
func openDB(url string) (*sql.DB, dialect, error) {
	d, driver, dsn := parseConnectionURL(url)

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, "", err
	}

	if d == dialectSQLite {
		// each :memory: connection would otherwise get its own database
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, "", err
	}

	return db, d, nil
}

func parseConnectionURL(url string) (dialect, string, string) {
	if strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://") {
		return dialectPostgres, "pgx", url
	}
	dsn := strings.TrimPrefix(url, "sqlite://")
	return dialectSQLite, "sqlite", dsn
}

// migrateDB applies the embedded schema. It is safe to call on every start.
func migrateDB(ctx context.Context, db *sql.DB, d dialect, log goose.Logger) error {
	goose.SetBaseFS(migrations)
	if log != nil {
		goose.SetLogger(log)
	}

	gooseDialect := "sqlite3"
	if d == dialectPostgres {
		gooseDialect = "pgx"
	}
	if err := goose.SetDialect(gooseDialect); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

// rebind rewrites ? placeholders to $1, $2, ... for Postgres.
func rebind(d dialect, query string) string {
	if d != dialectPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
