package store

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/newsloom/newsloom/internal/types"
)

// CSVStore persists the table as a single CSV file. Writes go to a temp
// file in the same directory and are renamed over the target, so a failed
// run never corrupts the prior table.
type CSVStore struct {
	path   string
	logger *slog.Logger
}

// NewCSVStore creates a CSV store at path, creating the parent directory if
// needed.
func NewCSVStore(path string, logger *slog.Logger) (*CSVStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &types.StorageError{Backend: "csv", Op: "init", Err: err}
	}
	return &CSVStore{
		path:   path,
		logger: logger.With("component", "csv_store"),
	}, nil
}

func (s *CSVStore) Name() string { return "csv" }

// Load reads the prior table. A missing file is an empty store, not an
// error.
func (s *CSVStore) Load(ctx context.Context) ([]Row, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Info("no prior store, starting empty", "path", s.path)
			return nil, nil
		}
		return nil, &types.StorageError{Backend: "csv", Op: "load", Err: err}
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // tolerate rows shorter than the header

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, &types.StorageError{Backend: "csv", Op: "load", Err: err}
	}

	var rows []Row
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &types.StorageError{Backend: "csv", Op: "load", Err: err}
		}

		row := make(Row, len(header))
		for i, col := range header {
			if i < len(record) && record[i] != "" {
				row[col] = record[i]
			}
		}
		rows = append(rows, row)
	}

	s.logger.Info("prior store loaded", "path", s.path, "rows", len(rows))
	return rows, nil
}

// Persist rewrites the full table atomically.
func (s *CSVStore) Persist(ctx context.Context, rows []Row) error {
	cols := Columns(rows)

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".newsloom-*.csv")
	if err != nil {
		return &types.StorageError{Backend: "csv", Op: "persist", Err: err}
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op after a successful rename

	w := csv.NewWriter(tmp)
	if err := w.Write(cols); err != nil {
		tmp.Close()
		return &types.StorageError{Backend: "csv", Op: "persist", Err: fmt.Errorf("write header: %w", err)}
	}

	line := make([]string, len(cols))
	for _, row := range rows {
		for i, col := range cols {
			line[i] = row[col]
		}
		if err := w.Write(line); err != nil {
			tmp.Close()
			return &types.StorageError{Backend: "csv", Op: "persist", Err: fmt.Errorf("write row: %w", err)}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return &types.StorageError{Backend: "csv", Op: "persist", Err: err}
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return &types.StorageError{Backend: "csv", Op: "persist", Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &types.StorageError{Backend: "csv", Op: "persist", Err: err}
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		return &types.StorageError{Backend: "csv", Op: "persist", Err: err}
	}

	s.logger.Info("store written", "path", s.path, "rows", len(rows), "columns", len(cols))
	return nil
}
