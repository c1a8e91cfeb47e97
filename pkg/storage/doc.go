// Package storage provides the CSV surfaces of a scrape run.
//
// The storage package handles:
//   - Reading the input URL list (bare lists or headered exports)
//   - Writing result rows as they arrive, flushed per row
//   - Writing the single-column failed-URL list
//
// ReadURLs accepts both a bare single-column list and spreadsheet exports
// with a header row; a column named url, link, tweet or status_url is
// preferred, with a UTF-8 BOM stripped if present.
//
// ResultWriter writes the header only when the file is fresh, so a resumed
// run can append to an existing results file. Every row is flushed to disk
// immediately; rows already written survive an interrupt.
//
// Usage:
//
//	urls, err := storage.ReadURLs("links.csv")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	writer, err := storage.NewResultWriter("results.csv", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer writer.Close()
//
//	for _, url := range urls {
//	    result := fetch(url)
//	    if err := writer.WriteResult(result); err != nil {
//	        log.Printf("Failed to write result: %v", err)
//	    }
//	}
package storage
