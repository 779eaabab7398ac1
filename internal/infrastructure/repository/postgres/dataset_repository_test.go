package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/ahmedafzal98/Document-Extraction/internal/core/domain"
)

func newDatasetRepoWithMock(t *testing.T) (*DatasetRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	return &DatasetRepository{db: db}, mock, func() { _ = db.Close() }
}

func TestInsertRecordsUsesOneTransaction(t *testing.T) {
	repo, mock, done := newDatasetRepoWithMock(t)
	defer done()

	doa := time.Date(2023, 5, 10, 0, 0, 0, 0, time.UTC)
	records := []domain.DatasetRecord{
		{Index: 0, Name: "John Smith", DOA: doa, Referral: "back pain"},
		{Index: 1, Name: "Jane Doe"},
	}

	mock.ExpectBegin()
	stmt := mock.ExpectPrepare("INSERT INTO dataset_records")
	stmt.ExpectExec().
		WithArgs(0, "John Smith", doa, nil, "back pain").
		WillReturnResult(sqlmock.NewResult(1, 1))
	stmt.ExpectExec().
		WithArgs(1, "Jane Doe", nil, nil, "").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	if err := repo.InsertRecords(context.Background(), records); err != nil {
		t.Fatalf("InsertRecords() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestInsertRecordsNoRowsIsNoOp(t *testing.T) {
	repo, mock, done := newDatasetRepoWithMock(t)
	defer done()

	if err := repo.InsertRecords(context.Background(), nil); err != nil {
		t.Fatalf("InsertRecords(nil) error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestListRecordsScansMissingDatesAsSentinel(t *testing.T) {
	repo, mock, done := newDatasetRepoWithMock(t)
	defer done()

	doa := time.Date(2023, 5, 10, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"position", "name", "doa", "dob", "referral"}).
		AddRow(0, "John Smith", doa, nil, "back pain").
		AddRow(1, "Jane Doe", nil, nil, "")
	mock.ExpectQuery("SELECT position, name, doa, dob, referral").
		WillReturnRows(rows)

	records, err := repo.ListRecords(context.Background())
	if err != nil {
		t.Fatalf("ListRecords() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if !records[0].DOA.Equal(doa) || !records[0].DOB.IsZero() {
		t.Fatalf("unexpected first record dates: %+v", records[0])
	}
	if !records[1].DOA.IsZero() {
		t.Fatalf("NULL doa must scan to the zero sentinel: %+v", records[1])
	}
}
