// Package scraper turns a list of post URLs into a metrics CSV.
//
// The package coordinates the whole run: the browser session, the
// one-time authentication bootstrap, the sequential fetch loop, and the
// files a run leaves behind.
//
// Architecture:
//
// The Scraper struct is the run coordinator. For each run it:
//   - Reads and normalizes the URL list
//   - Establishes a session once, trying the state file, then a cookie
//     header, then an interactive login, then proceeding without one
//   - Fetches every URL in order through a single browser page
//   - Streams result rows into the CSV and updates the checkpoint
//   - Writes the failure list and the run manifest at the end
//
// The Scheduler handles one URL at a time: it paces navigations,
// forces reloads when the post never renders, runs extraction over the
// page snapshot, and retries error outcomes up to the configured bound.
// ok and no_counts_found are terminal; only error rows are retried.
//
// Usage:
//
//	cfg, err := config.Load("", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	s, err := scraper.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer s.Close()
//
//	summary, err := s.Run(ctx, scraper.RunOptions{
//	    InputFile:  "urls.txt",
//	    OutputFile: "results.csv",
//	})
//
// Interrupts:
//
// When the context is canceled mid-run the loop stops at the current
// URL, keeps the checkpoint on disk, and still writes the failure list
// for the rows already recorded. A later run with --resume picks up
// where the interrupted one stopped.
package scraper
