package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ahmedafzal98/Document-Extraction/internal/bootstrap"
	"github.com/ahmedafzal98/Document-Extraction/internal/config"
	"github.com/ahmedafzal98/Document-Extraction/internal/core/domain"
	"github.com/ahmedafzal98/Document-Extraction/internal/observability/logging"
	"github.com/ahmedafzal98/Document-Extraction/internal/observability/metrics"
)

// A batch of scanned PDFs can take a while: each document is chunked,
// extracted over HTTP and matched against the full dataset.
const batchTimeout = 15 * time.Minute

func main() {
	cfg := config.Load()
	slog.SetDefault(logging.NewJSONLogger("worker", cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	workerMetrics := metrics.NewWorkerMetrics("worker")
	metricsServer := &http.Server{
		Addr:    ":" + cfg.WorkerMetricsPort,
		Handler: metricsHandler(workerMetrics),
	}
	go func() {
		slog.Info("worker_metrics_listening", "port", cfg.WorkerMetricsPort)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("metrics server error: %v", err)
		}
	}()

	app, err := bootstrap.New(ctx, cfg, workerMetrics)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	slog.Info("worker_subscribed", "stream", cfg.NATSStream, "subject", cfg.NATSSubject, "durable", cfg.NATSDurable)
	err = app.Queue.SubscribeDocumentBatches(ctx, func(handlerCtx context.Context, batch domain.DocumentBatch) error {
		processCtx, cancel := context.WithTimeout(handlerCtx, batchTimeout)
		defer cancel()

		workerMetrics.StartBatch()
		start := time.Now()
		processErr := app.ProcessUC.ProcessBatch(processCtx, batch)
		workerMetrics.FinishBatch(time.Since(start), processErr)
		return processErr
	})
	if err != nil {
		log.Fatalf("worker subscribe error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = metricsServer.Shutdown(shutdownCtx)
}

func metricsHandler(workerMetrics *metrics.WorkerMetrics) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", workerMetrics.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}
