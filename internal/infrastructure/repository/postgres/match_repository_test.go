package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/ahmedafzal98/Document-Extraction/internal/core/domain"
)

func newMatchRepoWithMock(t *testing.T) (*MatchRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	return &MatchRepository{db: db}, mock, func() { _ = db.Close() }
}

func sampleMatch() domain.MatchResult {
	return domain.MatchResult{
		DocumentID:   "doc-1",
		DatasetIndex: 0,
		DatasetName:  "John Smith",
		DatasetDOA:   "2023-05-10",
		DatasetDOB:   "1980-01-01",

		ExtractedName: "smith john",
		ExtractedDOA:  "2023-05-12",
		ExtractedDOB:  "1980-01-01",

		FieldComparison: domain.FieldComparison{
			NameScore: 100,
			NameMatch: true,
			DOAMatch:  true,
			DOBMatch:  true,
		},
		Status:    "Strong Match",
		CreatedAt: time.Now().UTC(),
	}
}

func TestReplaceForDocumentRunsOneTransaction(t *testing.T) {
	repo, mock, done := newMatchRepoWithMock(t)
	defer done()

	fields := []domain.ExtractedField{
		{DocumentID: "doc-1", FieldName: "Name", FieldValue: "Smith John"},
	}
	results := []domain.MatchResult{sampleMatch()}

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM matches WHERE document_id").
		WithArgs("doc-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM extracted_fields WHERE document_id").
		WithArgs("doc-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO extracted_fields").
		WithArgs("doc-1", "Name", "Smith John").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO matches").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE documents").
		WithArgs("doc-1", string(domain.StatusProcessed), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.ReplaceForDocument(context.Background(), "doc-1", fields, results)
	if err != nil {
		t.Fatalf("ReplaceForDocument() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestReplaceForDocumentRollsBackOnInsertFailure(t *testing.T) {
	repo, mock, done := newMatchRepoWithMock(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM matches WHERE document_id").
		WithArgs("doc-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM extracted_fields WHERE document_id").
		WithArgs("doc-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO matches").
		WillReturnError(errors.New("constraint violation"))
	mock.ExpectRollback()

	err := repo.ReplaceForDocument(context.Background(), "doc-1", nil, []domain.MatchResult{sampleMatch()})
	if err == nil {
		t.Fatalf("expected insert error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestListMatchesScansScores(t *testing.T) {
	repo, mock, done := newMatchRepoWithMock(t)
	defer done()

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"document_id", "dataset_index",
		"dataset_name", "dataset_doa", "dataset_dob", "dataset_referral",
		"extracted_name", "extracted_doa", "extracted_dob", "extracted_referral",
		"name_score", "doa_match", "dob_match", "referral_score", "referral_match",
		"match_status", "created_at",
	}).AddRow(
		"doc-1", 0,
		"John Smith", "2023-05-10", "1980-01-01", "",
		"smith john", "2023-05-12", "1980-01-01", "",
		100.0, true, true, 0.0, false,
		"Strong Match", now,
	)
	mock.ExpectQuery("SELECT document_id, dataset_index").
		WithArgs(25).
		WillReturnRows(rows)

	matches, err := repo.ListMatches(context.Background(), 25)
	if err != nil {
		t.Fatalf("ListMatches() error = %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].NameScore != 100 || matches[0].Status != "Strong Match" {
		t.Fatalf("unexpected match: %+v", matches[0])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestListMatchesAppliesDefaultLimit(t *testing.T) {
	repo, mock, done := newMatchRepoWithMock(t)
	defer done()

	mock.ExpectQuery("SELECT document_id, dataset_index").
		WithArgs(100).
		WillReturnRows(sqlmock.NewRows([]string{
			"document_id", "dataset_index",
			"dataset_name", "dataset_doa", "dataset_dob", "dataset_referral",
			"extracted_name", "extracted_doa", "extracted_dob", "extracted_referral",
			"name_score", "doa_match", "dob_match", "referral_score", "referral_match",
			"match_status", "created_at",
		}))

	if _, err := repo.ListMatches(context.Background(), 0); err != nil {
		t.Fatalf("ListMatches() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
