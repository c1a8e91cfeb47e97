package storage

import (
	"encoding/csv"
	"os"
	"path/filepath"

	errs "xscraper/pkg/errors"
	"xscraper/pkg/models"
)

// ResultWriter appends scrape results to the output CSV as they arrive.
type ResultWriter struct {
	file   *os.File
	writer *csv.Writer
}

// NewResultWriter opens the output CSV. A fresh or truncated file gets the
// header row; appending to a non-empty file (resume) does not repeat it.
func NewResultWriter(path string, appendMode bool) (*ResultWriter, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errs.New(errs.ErrorTypeStorage, "failed to create output directory", err)
		}
	}

	flags := os.O_CREATE | os.O_WRONLY
	if appendMode {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}

	file, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return nil, errs.New(errs.ErrorTypeStorage, "failed to open output file", err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, errs.New(errs.ErrorTypeStorage, "failed to stat output file", err)
	}

	w := &ResultWriter{
		file:   file,
		writer: csv.NewWriter(file),
	}

	if info.Size() == 0 {
		if err := w.writeRecord(models.ResultHeader); err != nil {
			file.Close()
			return nil, err
		}
	}

	return w, nil
}

// WriteResult appends one row and flushes it to disk immediately, so
// already-scraped rows survive an interrupt.
func (w *ResultWriter) WriteResult(result models.ScrapeResult) error {
	return w.writeRecord(result.Record())
}

func (w *ResultWriter) writeRecord(record []string) error {
	if err := w.writer.Write(record); err != nil {
		return errs.New(errs.ErrorTypeStorage, "failed to write result row", err)
	}
	w.writer.Flush()
	if err := w.writer.Error(); err != nil {
		return errs.New(errs.ErrorTypeStorage, "failed to flush result row", err)
	}
	return nil
}

// Close flushes buffered rows and closes the file.
func (w *ResultWriter) Close() error {
	w.writer.Flush()
	flushErr := w.writer.Error()
	closeErr := w.file.Close()
	if flushErr != nil {
		return errs.New(errs.ErrorTypeStorage, "failed to flush output file", flushErr)
	}
	return closeErr
}

// WriteFailed writes the single-column failure list. Nothing is written
// when the list is empty.
func WriteFailed(path string, urls []string) error {
	if len(urls) == 0 {
		return nil
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errs.New(errs.ErrorTypeStorage, "failed to create failed-list directory", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return errs.New(errs.ErrorTypeStorage, "failed to create failed-list file", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"url"}); err != nil {
		return errs.New(errs.ErrorTypeStorage, "failed to write failed-list header", err)
	}
	for _, url := range urls {
		if err := writer.Write([]string{url}); err != nil {
			return errs.New(errs.ErrorTypeStorage, "failed to write failed URL", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return errs.New(errs.ErrorTypeStorage, "failed to flush failed-list file", err)
	}
	return nil
}
