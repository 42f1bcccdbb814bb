package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	fileadapter "github.com/McGillMedPhys/clustered-dna-damage/internal/adapter/file"
	httpadapter "github.com/McGillMedPhys/clustered-dna-damage/internal/adapter/http"
	kafkaadapter "github.com/McGillMedPhys/clustered-dna-damage/internal/adapter/kafka"
	"github.com/McGillMedPhys/clustered-dna-damage/internal/config"
	"github.com/McGillMedPhys/clustered-dna-damage/internal/observability"
	"github.com/McGillMedPhys/clustered-dna-damage/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()
	params := cfg.Params()

	logger.Info("classifier parameters",
		"dsb_bp_distance", params.DSBDistance,
		"ssb_threshold_ev", params.SSBThresholdEV,
		"bd_threshold_ev", params.BDThresholdEV,
		"cluster_bp_distance", params.ClusterDistance,
		"number_of_split", params.NumberOfSplit,
	)

	reader := kafkaadapter.NewReader(cfg, logger)

	// Sink selection: OUTPUT_FILE switches the loader from the Kafka sink
	// topic to a local gzip JSONL file for offline analysis runs.
	var (
		loader    pipeline.BatchLoader
		closeSink func() error
	)
	if cfg.OutputFile != "" {
		fw, err := fileadapter.NewWriter(cfg.OutputFile, logger)
		if err != nil {
			logger.Error("failed to open output file", "error", err, "path", cfg.OutputFile)
			os.Exit(1)
		}
		logger.Info("writing summaries to file", "path", cfg.OutputFile)
		loader, closeSink = fw, fw.Close
	} else {
		kw := kafkaadapter.NewWriter(cfg, logger)
		loader, closeSink = kw, kw.Close
	}

	transformer := pipeline.NewTransformer(params, metrics, logger)

	p := pipeline.New(reader, transformer, loader, logger, metrics, cfg.BatchSize)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, params, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start classification pipeline.
	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := reader.Close(); err != nil {
		logger.Error("kafka reader close error", "error", err)
	}
	if err := closeSink(); err != nil {
		logger.Error("sink close error", "error", err)
	}

	logger.Info("shutdown complete")
}
