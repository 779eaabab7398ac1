package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// nullDate maps the zero-time "no date" sentinel to SQL NULL.
func nullDate(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func EnsureSchema(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026083101)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS documents (
	id TEXT PRIMARY KEY,
	filename TEXT NOT NULL,
	storage_path TEXT NOT NULL,
	status TEXT NOT NULL,
	error_message TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_documents_status ON documents(status);

CREATE TABLE IF NOT EXISTS extracted_fields (
	id BIGSERIAL PRIMARY KEY,
	document_id TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
	field_name TEXT NOT NULL,
	field_value TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_extracted_fields_document ON extracted_fields(document_id);

CREATE TABLE IF NOT EXISTS dataset_records (
	id BIGSERIAL PRIMARY KEY,
	position INTEGER NOT NULL,
	name TEXT NOT NULL,
	doa DATE,
	dob DATE,
	referral TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS matches (
	id BIGSERIAL PRIMARY KEY,
	document_id TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
	dataset_index INTEGER NOT NULL,
	dataset_name TEXT NOT NULL DEFAULT '',
	dataset_doa TEXT NOT NULL DEFAULT '',
	dataset_dob TEXT NOT NULL DEFAULT '',
	dataset_referral TEXT NOT NULL DEFAULT '',
	extracted_name TEXT NOT NULL DEFAULT '',
	extracted_doa TEXT NOT NULL DEFAULT '',
	extracted_dob TEXT NOT NULL DEFAULT '',
	extracted_referral TEXT NOT NULL DEFAULT '',
	name_score DOUBLE PRECISION NOT NULL DEFAULT 0,
	doa_match BOOLEAN NOT NULL DEFAULT FALSE,
	dob_match BOOLEAN NOT NULL DEFAULT FALSE,
	referral_score DOUBLE PRECISION NOT NULL DEFAULT 0,
	referral_match BOOLEAN NOT NULL DEFAULT FALSE,
	match_status TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_matches_document ON matches(document_id);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}
