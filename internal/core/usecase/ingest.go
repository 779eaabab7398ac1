package usecase

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ahmedafzal98/Document-Extraction/internal/core/domain"
	"github.com/ahmedafzal98/Document-Extraction/internal/core/ports"
)

type IngestDocumentUseCase struct {
	repo        ports.DocumentRepository
	storage     ports.ObjectStorage
	queue       ports.MessageQueue
	datasetFile string
}

func NewIngestDocumentUseCase(
	repo ports.DocumentRepository,
	storage ports.ObjectStorage,
	queue ports.MessageQueue,
	datasetFile string,
) *IngestDocumentUseCase {
	return &IngestDocumentUseCase{
		repo:        repo,
		storage:     storage,
		queue:       queue,
		datasetFile: datasetFile,
	}
}

// Upload stores the PDF, records the document row and queues it for
// asynchronous extraction and matching. The caller gets the queued document
// back immediately; all downstream outcomes surface via document status.
func (uc *IngestDocumentUseCase) Upload(
	ctx context.Context,
	filename string,
	body io.Reader,
) (*domain.Document, error) {
	id := uuid.NewString()
	storageKey := fmt.Sprintf("%s_%s", id, sanitizeFilename(filename))
	now := time.Now().UTC()

	if err := uc.storage.Save(ctx, storageKey, body); err != nil {
		return nil, fmt.Errorf("save to object storage: %w", err)
	}

	doc := &domain.Document{
		ID:          id,
		Filename:    filename,
		StoragePath: storageKey,
		Status:      domain.StatusUploaded,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := uc.repo.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("create document metadata: %w", err)
	}

	batch := domain.DocumentBatch{
		Documents:   []domain.BatchDocument{{DocumentID: doc.ID, Locator: storageKey}},
		DatasetFile: uc.datasetFile,
	}
	if err := uc.queue.PublishDocumentBatch(ctx, batch); err != nil {
		return nil, fmt.Errorf("publish document batch: %w", err)
	}

	return doc, nil
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" || base == "." || base == ".." {
		return "document.pdf"
	}
	return base
}
