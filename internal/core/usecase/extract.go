package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ahmedafzal98/Document-Extraction/internal/core/domain"
	"github.com/ahmedafzal98/Document-Extraction/internal/core/match"
	"github.com/ahmedafzal98/Document-Extraction/internal/core/ports"
)

// ExtractDocumentUseCase is the extraction adapter: it splits a stored PDF
// into page chunks, runs the external extractor per chunk and merges the
// labeled values into one record.
type ExtractDocumentUseCase struct {
	storage     ports.ObjectStorage
	chunker     ports.PDFChunker
	extractor   ports.FieldExtractor
	synonyms    match.Synonyms
	concurrency int
	observer    ports.PipelineObserver
}

func NewExtractDocumentUseCase(
	storage ports.ObjectStorage,
	chunker ports.PDFChunker,
	extractor ports.FieldExtractor,
	synonyms match.Synonyms,
	concurrency int,
	observer ports.PipelineObserver,
) *ExtractDocumentUseCase {
	if concurrency <= 0 {
		concurrency = 1
	}
	if observer == nil {
		observer = ports.NopObserver{}
	}
	return &ExtractDocumentUseCase{
		storage:     storage,
		chunker:     chunker,
		extractor:   extractor,
		synonyms:    synonyms,
		concurrency: concurrency,
		observer:    observer,
	}
}

// Extract produces the merged field set for one document. Chunks run in a
// bounded pool; a failed chunk is logged and skipped, and the merge walks
// chunks in page order so repeated fields concatenate deterministically.
// Zero fields across all chunks is a terminal failure.
func (uc *ExtractDocumentUseCase) Extract(ctx context.Context, doc *domain.Document) (*domain.ExtractedRecord, error) {
	src, err := uc.storage.Open(ctx, doc.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("open stored document: %w", err)
	}
	defer src.Close()

	chunks, err := uc.chunker.Split(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("split pdf into chunks: %w", err)
	}
	defer chunks.Close()

	paths := chunks.Paths()
	chunkFields := make([]map[string]string, len(paths))

	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(uc.concurrency)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			fields, err := uc.extractChunk(groupCtx, path)
			if err != nil {
				// Per-chunk failure skips the chunk, not the document.
				slog.Warn("chunk_extraction_failed",
					"document_id", doc.ID,
					"chunk", i+1,
					"chunks", len(paths),
					"error", err,
				)
				uc.observer.ChunkFailed()
				return nil
			}
			chunkFields[i] = fields
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	record := &domain.ExtractedRecord{}
	for _, fields := range chunkFields {
		uc.mergeChunk(record, fields)
	}

	if record.IsEmpty() {
		return nil, domain.WrapError(
			domain.ErrNoDataExtracted,
			"extract document",
			fmt.Errorf("zero fields from %d chunk(s) of %s", len(paths), doc.Filename),
		)
	}
	return record, nil
}

func (uc *ExtractDocumentUseCase) extractChunk(ctx context.Context, path string) (map[string]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read chunk file: %w", err)
	}
	fields, err := uc.extractor.ExtractFields(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("extract fields: %w", err)
	}
	return fields, nil
}

// mergeChunk folds one chunk's labeled values into the record. Labels are
// walked in sorted order so the merge does not depend on map iteration;
// labels outside the synonym table are discarded.
func (uc *ExtractDocumentUseCase) mergeChunk(record *domain.ExtractedRecord, fields map[string]string) {
	labels := make([]string, 0, len(fields))
	for label := range fields {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	for _, label := range labels {
		value := strings.TrimSpace(fields[label])
		if value == "" {
			continue
		}
		if canonical, ok := uc.synonyms.CanonicalField(label); ok {
			record.Append(canonical, value)
		}
	}
}
