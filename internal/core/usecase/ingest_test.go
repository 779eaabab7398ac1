package usecase

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/ahmedafzal98/Document-Extraction/internal/core/domain"
)

type ingestRepoFake struct {
	created *domain.Document
	err     error
}

func (f *ingestRepoFake) Create(_ context.Context, doc *domain.Document) error {
	if f.err != nil {
		return f.err
	}
	copyDoc := *doc
	f.created = &copyDoc
	return nil
}

func (f *ingestRepoFake) GetByID(context.Context, string) (*domain.Document, error) {
	return nil, errors.New("not implemented")
}

func (f *ingestRepoFake) UpdateStatus(context.Context, string, domain.DocumentStatus, string) error {
	return errors.New("not implemented")
}

type ingestStorageFake struct {
	savedKey  string
	savedBody string
	err       error
}

func (f *ingestStorageFake) Save(_ context.Context, key string, data io.Reader) error {
	if f.err != nil {
		return f.err
	}
	raw, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	f.savedKey = key
	f.savedBody = string(raw)
	return nil
}

func (f *ingestStorageFake) Open(context.Context, string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("")), nil
}

type ingestQueueFake struct {
	batch *domain.DocumentBatch
	err   error
}

func (f *ingestQueueFake) PublishDocumentBatch(_ context.Context, batch domain.DocumentBatch) error {
	if f.err != nil {
		return f.err
	}
	copyBatch := batch
	f.batch = &copyBatch
	return nil
}

func (f *ingestQueueFake) SubscribeDocumentBatches(context.Context, func(context.Context, domain.DocumentBatch) error) error {
	return errors.New("not implemented")
}

func TestIngestUploadSuccess(t *testing.T) {
	repo := &ingestRepoFake{}
	storage := &ingestStorageFake{}
	queue := &ingestQueueFake{}
	uc := NewIngestDocumentUseCase(repo, storage, queue, "reference.xlsx")

	doc, err := uc.Upload(context.Background(), "scan 1.pdf", bytes.NewBufferString("%PDF-1.4"))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if doc.ID == "" {
		t.Fatalf("expected document id")
	}
	if doc.Status != domain.StatusUploaded {
		t.Fatalf("expected status uploaded, got %s", doc.Status)
	}
	if repo.created == nil {
		t.Fatalf("expected repo.Create call")
	}
	if !strings.Contains(storage.savedKey, "_scan_1.pdf") {
		t.Fatalf("expected sanitized storage key, got %q", storage.savedKey)
	}
	if storage.savedBody != "%PDF-1.4" {
		t.Fatalf("expected stored body, got %q", storage.savedBody)
	}
	if queue.batch == nil {
		t.Fatalf("expected queued batch")
	}
	if len(queue.batch.Documents) != 1 || queue.batch.Documents[0].DocumentID != doc.ID {
		t.Fatalf("expected queued batch for %s, got %+v", doc.ID, queue.batch)
	}
	if queue.batch.Documents[0].Locator != doc.StoragePath {
		t.Fatalf("expected batch locator %q, got %q", doc.StoragePath, queue.batch.Documents[0].Locator)
	}
	if queue.batch.DatasetFile != "reference.xlsx" {
		t.Fatalf("expected dataset file in batch, got %q", queue.batch.DatasetFile)
	}
}

func TestIngestUploadStorageFailure(t *testing.T) {
	repo := &ingestRepoFake{}
	storage := &ingestStorageFake{err: errors.New("disk full")}
	queue := &ingestQueueFake{}
	uc := NewIngestDocumentUseCase(repo, storage, queue, "")

	_, err := uc.Upload(context.Background(), "scan.pdf", bytes.NewBufferString("x"))
	if err == nil {
		t.Fatalf("expected storage error")
	}
	if repo.created != nil {
		t.Fatalf("failed save must not create a document row")
	}
	if queue.batch != nil {
		t.Fatalf("failed save must not queue a batch")
	}
}

func TestIngestUploadQueueFailure(t *testing.T) {
	repo := &ingestRepoFake{}
	storage := &ingestStorageFake{}
	queue := &ingestQueueFake{err: errors.New("nats down")}
	uc := NewIngestDocumentUseCase(repo, storage, queue, "")

	_, err := uc.Upload(context.Background(), "scan.pdf", bytes.NewBufferString("x"))
	if err == nil {
		t.Fatalf("expected publish error")
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"plain.pdf", "plain.pdf"},
		{"with space.pdf", "with_space.pdf"},
		{"../../escape.pdf", "escape.pdf"},
		{"weird*chars?.pdf", "weird_chars_.pdf"},
		{"", "document.pdf"},
		{"report-2023_v1.pdf", "report-2023_v1.pdf"},
	}
	for _, tc := range cases {
		if got := sanitizeFilename(tc.in); got != tc.want {
			t.Fatalf("sanitizeFilename(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
