package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ahmedafzal98/Document-Extraction/internal/core/domain"
	"github.com/ahmedafzal98/Document-Extraction/internal/core/match"
	"github.com/ahmedafzal98/Document-Extraction/internal/core/ports"
)

// ProcessBatchUseCase drives one queue message to completion: resolve each
// referenced document, extract its fields, match them against the reference
// dataset and persist the verdicts atomically.
type ProcessBatchUseCase struct {
	docs      ports.DocumentRepository
	dataset   ports.DatasetRepository
	matches   ports.MatchRepository
	loader    ports.DatasetFileLoader
	extractor *ExtractDocumentUseCase
	engine    *match.Engine
	observer  ports.PipelineObserver
}

func NewProcessBatchUseCase(
	docs ports.DocumentRepository,
	dataset ports.DatasetRepository,
	matches ports.MatchRepository,
	loader ports.DatasetFileLoader,
	extractor *ExtractDocumentUseCase,
	engine *match.Engine,
	observer ports.PipelineObserver,
) *ProcessBatchUseCase {
	if observer == nil {
		observer = ports.NopObserver{}
	}
	return &ProcessBatchUseCase{
		docs:      docs,
		dataset:   dataset,
		matches:   matches,
		loader:    loader,
		extractor: extractor,
		engine:    engine,
		observer:  observer,
	}
}

// ProcessBatch handles every document in the message independently. A
// terminal failure is recorded on that document and the rest of the batch
// keeps going; only transient failures propagate, so the unacknowledged
// message is redelivered. Already-processed documents are safe to reprocess
// because persistence replaces rather than appends.
func (uc *ProcessBatchUseCase) ProcessBatch(ctx context.Context, batch domain.DocumentBatch) error {
	if len(batch.Documents) == 0 {
		return domain.WrapError(domain.ErrInvalidInput, "process batch", fmt.Errorf("empty document list"))
	}

	records, err := uc.loadDataset(ctx, batch.DatasetFile)
	if err != nil {
		return err
	}

	var transient []error
	for _, ref := range batch.Documents {
		err := uc.processDocument(ctx, ref.DocumentID, records)
		switch {
		case err == nil:
		case domain.IsTerminal(err):
			// Already recorded on the document where one exists; redelivery
			// could never help, so the next document proceeds.
			slog.Warn("document_failed", "document_id", ref.DocumentID, "error", err)
		default:
			transient = append(transient, fmt.Errorf("document %s: %w", ref.DocumentID, err))
		}
	}
	return errors.Join(transient...)
}

func (uc *ProcessBatchUseCase) processDocument(ctx context.Context, documentID string, records []domain.DatasetRecord) error {
	doc, err := uc.docs.GetByID(ctx, documentID)
	if err != nil {
		return fmt.Errorf("resolve document %s: %w", documentID, err)
	}
	uc.observer.QueueLag(time.Since(doc.CreatedAt))

	if err := uc.docs.UpdateStatus(ctx, doc.ID, domain.StatusProcessing, ""); err != nil {
		return fmt.Errorf("set status=processing: %w", err)
	}

	record, err := uc.extractor.Extract(ctx, doc)
	if err != nil {
		return uc.fail(ctx, doc.ID, err)
	}

	results := uc.engine.Match(doc.ID, record, records)

	// Single transaction: replaces any earlier row set for this document and
	// flips the document to processed, so redelivery cannot duplicate rows
	// and a failed pass leaves nothing visible.
	if err := uc.matches.ReplaceForDocument(ctx, doc.ID, record.Fields(doc.ID), results); err != nil {
		return uc.fail(ctx, doc.ID, fmt.Errorf("persist match results: %w", err))
	}
	uc.observer.MatchRowsPersisted(len(results))

	slog.Info("document_processed",
		"document_id", doc.ID,
		"dataset_rows", len(records),
		"matches", len(results),
	)
	return nil
}

// loadDataset always goes through the typed loader path: either the named
// dataset file, or the records previously imported into the store.
func (uc *ProcessBatchUseCase) loadDataset(ctx context.Context, datasetFile string) ([]domain.DatasetRecord, error) {
	if datasetFile != "" {
		table, err := uc.loader.Load(ctx, datasetFile)
		if err != nil {
			return nil, fmt.Errorf("load dataset file %s: %w", datasetFile, err)
		}
		records, _ := uc.engine.BuildRecords(table)
		return records, nil
	}

	records, err := uc.dataset.ListRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("load dataset records: %w", err)
	}
	return records, nil
}

func (uc *ProcessBatchUseCase) fail(ctx context.Context, documentID string, procErr error) error {
	if err := uc.docs.UpdateStatus(ctx, documentID, domain.StatusFailed, procErr.Error()); err != nil {
		// The failure is not on record yet; surface the store error so the
		// message is redelivered instead of acknowledged as terminal.
		return fmt.Errorf("mark failed after %q: %w", procErr.Error(), err)
	}
	return procErr
}
