package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ahmedafzal98/Document-Extraction/internal/core/domain"
)

type DatasetRepository struct {
	db *sql.DB
}

func NewDatasetRepository(db *sql.DB) *DatasetRepository {
	return &DatasetRepository{db: db}
}

func (r *DatasetRepository) InsertRecords(ctx context.Context, records []domain.DatasetRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin dataset tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO dataset_records (position, name, doa, dob, referral)
VALUES ($1,$2,$3,$4,$5)
`)
	if err != nil {
		return fmt.Errorf("prepare dataset insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.ExecContext(ctx,
			rec.Index, rec.Name, nullDate(rec.DOA), nullDate(rec.DOB), rec.Referral,
		); err != nil {
			return fmt.Errorf("insert dataset record %d: %w", rec.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit dataset tx: %w", err)
	}
	return nil
}

// ListRecords returns the reference records in stable position order; the
// worker path always loads the dataset through this typed reader.
func (r *DatasetRepository) ListRecords(ctx context.Context) ([]domain.DatasetRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT position, name, doa, dob, referral
FROM dataset_records
ORDER BY id
`)
	if err != nil {
		return nil, fmt.Errorf("query dataset records: %w", err)
	}
	defer rows.Close()

	var records []domain.DatasetRecord
	for rows.Next() {
		var rec domain.DatasetRecord
		var doa, dob sql.NullTime
		if err := rows.Scan(&rec.Index, &rec.Name, &doa, &dob, &rec.Referral); err != nil {
			return nil, fmt.Errorf("scan dataset record: %w", err)
		}
		if doa.Valid {
			rec.DOA = doa.Time
		}
		if dob.Valid {
			rec.DOB = dob.Time
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate dataset records: %w", err)
	}
	return records, nil
}
