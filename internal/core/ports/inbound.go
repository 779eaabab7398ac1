package ports

import (
	"context"
	"io"

	"github.com/ahmedafzal98/Document-Extraction/internal/core/domain"
)

// DocumentIngestor is the inbound contract for document upload orchestration.
type DocumentIngestor interface {
	Upload(ctx context.Context, filename string, body io.Reader) (*domain.Document, error)
}

// DatasetImporter ingests a reference dataset file and reports how many
// records were stored.
type DatasetImporter interface {
	Import(ctx context.Context, filename string, body io.Reader) (int, error)
}

// DocumentReader is the inbound read model for document state.
type DocumentReader interface {
	GetByID(ctx context.Context, id string) (*domain.Document, error)
}

// DocumentProcessor is the inbound contract for asynchronous batch processing.
type DocumentProcessor interface {
	ProcessBatch(ctx context.Context, batch domain.DocumentBatch) error
}

// MatchReader serves persisted match output.
type MatchReader interface {
	ListMatches(ctx context.Context, limit int) ([]domain.MatchResult, error)
	ListExtractedFields(ctx context.Context, limit int) ([]domain.ExtractedField, error)
}
