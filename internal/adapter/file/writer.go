// Package file provides a gzip JSONL sink for classified damage summaries,
// used in place of the Kafka sink for offline analysis runs.
package file

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/klauspost/compress/gzip"

	"github.com/McGillMedPhys/clustered-dna-damage/internal/domain"
)

// Writer appends one JSON line per damage summary to a gzip-compressed file.
// It implements pipeline.BatchLoader.
type Writer struct {
	mu     sync.Mutex
	file   *os.File
	gz     *gzip.Writer
	logger *slog.Logger
}

// NewWriter opens (or truncates) the output file.
func NewWriter(path string, logger *slog.Logger) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("open output file: %w", err)
	}
	return &Writer{
		file:   f,
		gz:     gzip.NewWriter(f),
		logger: logger,
	}, nil
}

// LoadBatch writes each event's serialized summary as one line. The gzip
// stream is flushed after every batch so a reader tailing the file sees
// complete rows even if the service stops uncleanly.
func (w *Writer) LoadBatch(ctx context.Context, events []domain.OutputEvent) error {
	if len(events) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	for _, event := range events {
		if _, err := w.gz.Write(event.Value); err != nil {
			return fmt.Errorf("write summary row: %w", err)
		}
		if _, err := w.gz.Write([]byte{'\n'}); err != nil {
			return fmt.Errorf("write summary row: %w", err)
		}
	}
	if err := w.gz.Flush(); err != nil {
		return fmt.Errorf("flush output file: %w", err)
	}
	return nil
}

// Close finalizes the gzip stream and closes the file.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.gz.Close(); err != nil {
		w.file.Close()
		return fmt.Errorf("close gzip stream: %w", err)
	}
	return w.file.Close()
}
