// Package checkpoint provides functionality for saving and resuming scrape progress.
//
// The checkpoint system allows a run to resume after interruptions such as
// network failures, rate limits, or manual stops. It tracks:
//   - The input/output pair the run was started with
//   - The outcome recorded for every processed URL (to skip duplicates)
//   - Overall progress statistics
//
// Checkpoints are stored in platform-specific data directories:
//   - Linux: ~/.local/share/xscraper/checkpoints/
//   - macOS: ~/Library/Application Support/xscraper/checkpoints/
//   - Windows: %APPDATA%/xscraper/checkpoints/
//
// The checkpoint files are saved atomically to prevent corruption and include
// versioning for future compatibility.
package checkpoint
