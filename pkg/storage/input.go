package storage

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	errs "xscraper/pkg/errors"
)

// headerNames are the column names recognized as a URL header, in
// lookup-priority order.
var headerNames = []string{"url", "link", "tweet", "status_url"}

// ReadURLs loads the list of post URLs from a CSV file.
//
// A single-column file whose first cell is not a recognized header name is
// treated as a bare URL list. Otherwise the first row is a header and the
// URL column is the first one named url/link/tweet/status_url, falling
// back to column 0.
func ReadURLs(path string) ([]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.New(errs.ErrorTypeStorage, fmt.Sprintf("failed to read input file %s", path), err)
	}

	// Strip the UTF-8 BOM that spreadsheet exports like to prepend
	content = bytes.TrimPrefix(content, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(content))
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errs.New(errs.ErrorTypeStorage, fmt.Sprintf("failed to parse input file %s", path), err)
	}
	if len(rows) == 0 {
		return nil, errs.New(errs.ErrorTypeStorage, "input CSV is empty", nil)
	}

	var urls []string
	if len(rows[0]) == 1 && !isHeaderCell(rows[0][0]) {
		for _, row := range rows {
			if len(row) == 0 {
				continue
			}
			if url := strings.TrimSpace(row[0]); url != "" {
				urls = append(urls, url)
			}
		}
	} else {
		colIdx := headerColumn(rows[0])
		for _, row := range rows[1:] {
			if colIdx >= len(row) {
				continue
			}
			if url := strings.TrimSpace(row[colIdx]); url != "" {
				urls = append(urls, url)
			}
		}
	}

	if len(urls) == 0 {
		return nil, errs.New(errs.ErrorTypeStorage, "input CSV contains no URLs", nil)
	}

	return urls, nil
}

func isHeaderCell(cell string) bool {
	cell = strings.ToLower(strings.TrimSpace(cell))
	for _, name := range headerNames {
		if cell == name {
			return true
		}
	}
	return false
}

// headerColumn picks the URL column from a header row.
func headerColumn(header []string) int {
	cells := make([]string, len(header))
	for i, cell := range header {
		cell = strings.ToLower(strings.TrimSpace(cell))
		cells[i] = strings.ReplaceAll(cell, "﻿", "")
	}

	for _, name := range headerNames {
		for i, cell := range cells {
			if cell == name {
				return i
			}
		}
	}
	return 0
}
