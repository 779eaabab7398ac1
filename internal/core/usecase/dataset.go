package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/ahmedafzal98/Document-Extraction/internal/core/match"
	"github.com/ahmedafzal98/Document-Extraction/internal/core/ports"
)

type ImportDatasetUseCase struct {
	loader ports.DatasetFileLoader
	repo   ports.DatasetRepository
	engine *match.Engine
}

func NewImportDatasetUseCase(
	loader ports.DatasetFileLoader,
	repo ports.DatasetRepository,
	engine *match.Engine,
) *ImportDatasetUseCase {
	return &ImportDatasetUseCase{loader: loader, repo: repo, engine: engine}
}

// Import parses a dataset file, detects its columns once and persists the
// typed records. Rows without a detected name are skipped.
func (uc *ImportDatasetUseCase) Import(ctx context.Context, filename string, body io.Reader) (int, error) {
	table, err := uc.loader.LoadReader(ctx, filename, body)
	if err != nil {
		return 0, fmt.Errorf("load dataset file: %w", err)
	}

	records, detection := uc.engine.BuildRecords(table)
	slog.Info("dataset_columns_detected",
		"file", filename,
		"columns", len(table.Headers),
		"detected", len(detection),
	)

	kept := records[:0]
	for _, rec := range records {
		if rec.Name == "" {
			continue
		}
		kept = append(kept, rec)
	}

	if err := uc.repo.InsertRecords(ctx, kept); err != nil {
		return 0, fmt.Errorf("persist dataset records: %w", err)
	}
	return len(kept), nil
}
