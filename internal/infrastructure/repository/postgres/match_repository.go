package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ahmedafzal98/Document-Extraction/internal/core/domain"
)

type MatchRepository struct {
	db *sql.DB
}

func NewMatchRepository(db *sql.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

// ReplaceForDocument writes one processing pass atomically: the document's
// previous match and extracted-field rows are deleted, the new set inserted
// and the document flipped to processed, all in one transaction. Rerunning
// the same message therefore never duplicates rows, and a failed pass leaves
// the previous state untouched.
func (r *MatchRepository) ReplaceForDocument(
	ctx context.Context,
	documentID string,
	fields []domain.ExtractedField,
	results []domain.MatchResult,
) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin match tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM matches WHERE document_id = $1`, documentID); err != nil {
		return fmt.Errorf("delete previous matches: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM extracted_fields WHERE document_id = $1`, documentID); err != nil {
		return fmt.Errorf("delete previous extracted fields: %w", err)
	}

	for _, field := range fields {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO extracted_fields (document_id, field_name, field_value)
VALUES ($1,$2,$3)
`, field.DocumentID, field.FieldName, field.FieldValue); err != nil {
			return fmt.Errorf("insert extracted field %s: %w", field.FieldName, err)
		}
	}

	for _, m := range results {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO matches (
	document_id, dataset_index,
	dataset_name, dataset_doa, dataset_dob, dataset_referral,
	extracted_name, extracted_doa, extracted_dob, extracted_referral,
	name_score, doa_match, dob_match, referral_score, referral_match,
	match_status, created_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
`,
			m.DocumentID, m.DatasetIndex,
			m.DatasetName, m.DatasetDOA, m.DatasetDOB, m.DatasetReferral,
			m.ExtractedName, m.ExtractedDOA, m.ExtractedDOB, m.ExtractedReferral,
			float64(m.NameScore), m.DOAMatch, m.DOBMatch, float64(m.ReferralScore), m.ReferralMatch,
			m.Status, m.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert match for row %d: %w", m.DatasetIndex, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
UPDATE documents
SET status = $2, error_message = '', updated_at = $3
WHERE id = $1
`, documentID, string(domain.StatusProcessed), time.Now().UTC()); err != nil {
		return fmt.Errorf("mark document processed: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit match tx: %w", err)
	}
	return nil
}

func (r *MatchRepository) ListMatches(ctx context.Context, limit int) ([]domain.MatchResult, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT document_id, dataset_index,
	dataset_name, dataset_doa, dataset_dob, dataset_referral,
	extracted_name, extracted_doa, extracted_dob, extracted_referral,
	name_score, doa_match, dob_match, referral_score, referral_match,
	match_status, created_at
FROM matches
ORDER BY created_at DESC, dataset_index
LIMIT $1
`, limit)
	if err != nil {
		return nil, fmt.Errorf("query matches: %w", err)
	}
	defer rows.Close()

	var out []domain.MatchResult
	for rows.Next() {
		var m domain.MatchResult
		var nameScore, referralScore float64
		if err := rows.Scan(
			&m.DocumentID, &m.DatasetIndex,
			&m.DatasetName, &m.DatasetDOA, &m.DatasetDOB, &m.DatasetReferral,
			&m.ExtractedName, &m.ExtractedDOA, &m.ExtractedDOB, &m.ExtractedReferral,
			&nameScore, &m.DOAMatch, &m.DOBMatch, &referralScore, &m.ReferralMatch,
			&m.Status, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		m.NameScore = int(nameScore)
		m.ReferralScore = int(referralScore)
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate matches: %w", err)
	}
	return out, nil
}

func (r *MatchRepository) ListExtractedFields(ctx context.Context, limit int) ([]domain.ExtractedField, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT document_id, field_name, field_value
FROM extracted_fields
ORDER BY id DESC
LIMIT $1
`, limit)
	if err != nil {
		return nil, fmt.Errorf("query extracted fields: %w", err)
	}
	defer rows.Close()

	var out []domain.ExtractedField
	for rows.Next() {
		var f domain.ExtractedField
		if err := rows.Scan(&f.DocumentID, &f.FieldName, &f.FieldValue); err != nil {
			return nil, fmt.Errorf("scan extracted field: %w", err)
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate extracted fields: %w", err)
	}
	return out, nil
}
