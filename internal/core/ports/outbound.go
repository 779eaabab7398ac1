package ports

import (
	"context"
	"io"

	"github.com/ahmedafzal98/Document-Extraction/internal/core/domain"
)

// DocumentRepository persists and reads document state.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMessage string) error
}

// DatasetRepository persists and reads typed reference records.
type DatasetRepository interface {
	InsertRecords(ctx context.Context, records []domain.DatasetRecord) error
	ListRecords(ctx context.Context) ([]domain.DatasetRecord, error)
}

// MatchRepository persists match output. ReplaceForDocument must be
// all-or-nothing and idempotent under message redelivery: the previous row
// set for the document is replaced in the same transaction that writes the
// new one.
type MatchRepository interface {
	ReplaceForDocument(ctx context.Context, documentID string, fields []domain.ExtractedField, results []domain.MatchResult) error
	ListMatches(ctx context.Context, limit int) ([]domain.MatchResult, error)
	ListExtractedFields(ctx context.Context, limit int) ([]domain.ExtractedField, error)
}

// ObjectStorage stores source documents under a stable locator key.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// MessageQueue delivers document batches at least once.
type MessageQueue interface {
	PublishDocumentBatch(ctx context.Context, batch domain.DocumentBatch) error
	SubscribeDocumentBatches(ctx context.Context, handler func(context.Context, domain.DocumentBatch) error) error
}

// ChunkSet is a scoped set of chunk files; Close removes them on every exit
// path.
type ChunkSet interface {
	Paths() []string
	Close() error
}

// PDFChunker splits a source PDF into fixed-size page chunks.
type PDFChunker interface {
	Split(ctx context.Context, src io.Reader) (ChunkSet, error)
}

// FieldExtractor is the external document-understanding black box: PDF bytes
// in, label-to-text mapping out. Callers treat the output as untrusted.
type FieldExtractor interface {
	ExtractFields(ctx context.Context, pdf []byte) (map[string]string, error)
}

// DatasetFileLoader parses a CSV/XLSX dataset into an untyped table.
type DatasetFileLoader interface {
	Load(ctx context.Context, path string) (domain.DatasetTable, error)
	LoadReader(ctx context.Context, filename string, r io.Reader) (domain.DatasetTable, error)
}
