package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/ahmedafzal98/Document-Extraction/internal/config"
	"github.com/ahmedafzal98/Document-Extraction/internal/core/match"
	"github.com/ahmedafzal98/Document-Extraction/internal/core/ports"
	"github.com/ahmedafzal98/Document-Extraction/internal/core/usecase"
	"github.com/ahmedafzal98/Document-Extraction/internal/infrastructure/dataset"
	"github.com/ahmedafzal98/Document-Extraction/internal/infrastructure/extractor/docintel"
	"github.com/ahmedafzal98/Document-Extraction/internal/infrastructure/pdfchunk"
	natsqueue "github.com/ahmedafzal98/Document-Extraction/internal/infrastructure/queue/nats"
	"github.com/ahmedafzal98/Document-Extraction/internal/infrastructure/repository/postgres"
	"github.com/ahmedafzal98/Document-Extraction/internal/infrastructure/resilience"
	"github.com/ahmedafzal98/Document-Extraction/internal/infrastructure/storage/localfs"
)

// App wires the explicit dependency graph once at process start. No adapter
// holds a lazily-constructed shared client; everything is injected here and
// closed on shutdown.
type App struct {
	Config config.Config

	Queue     ports.MessageQueue
	Docs      ports.DocumentRepository
	Matches   ports.MatchRepository
	IngestUC  ports.DocumentIngestor
	DatasetUC ports.DatasetImporter
	ProcessUC ports.DocumentProcessor

	closeFn func()
}

// New builds the dependency graph. observer may be nil; the worker passes
// its metrics so pipeline progress is recorded, the API passes nothing.
func New(ctx context.Context, cfg config.Config, observer ports.PipelineObserver) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	docs := postgres.NewDocumentRepository(db)
	datasetRepo := postgres.NewDatasetRepository(db)
	matches := postgres.NewMatchRepository(db)

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig())

	queue, err := natsqueue.NewWithOptions(
		cfg.NATSURL, cfg.NATSStream, cfg.NATSSubject, cfg.NATSDurable,
		natsqueue.Options{ResilienceExecutor: executor},
	)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	policy, err := match.PolicyByName(cfg.MatchPolicy)
	if err != nil {
		queue.Close()
		_ = db.Close()
		return nil, fmt.Errorf("match policy: %w", err)
	}
	engine := match.NewEngine(
		match.DefaultSynonyms(),
		match.NewScorer(cfg.DateToleranceDays),
		policy,
	)

	extractorClient := docintel.New(
		cfg.ExtractorURL,
		time.Duration(cfg.ExtractorTimeoutSeconds)*time.Second,
		executor,
	)
	splitter := pdfchunk.NewSplitter(cfg.PagesPerChunk)
	loader := dataset.NewLoader()

	extractUC := usecase.NewExtractDocumentUseCase(storage, splitter, extractorClient, engine.Synonyms(), cfg.ChunkConcurrency, observer)
	ingestUC := usecase.NewIngestDocumentUseCase(docs, storage, queue, cfg.DatasetFile)
	datasetUC := usecase.NewImportDatasetUseCase(loader, datasetRepo, engine)
	processUC := usecase.NewProcessBatchUseCase(docs, datasetRepo, matches, loader, extractUC, engine, observer)

	return &App{
		Config: cfg,

		Queue:     queue,
		Docs:      docs,
		Matches:   matches,
		IngestUC:  ingestUC,
		DatasetUC: datasetUC,
		ProcessUC: processUC,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
