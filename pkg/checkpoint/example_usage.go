package checkpoint

import (
	"fmt"
	"log"
)

func ExampleManager() {
	// Create checkpoint manager for an input/output pair
	mgr, err := NewManager("urls.csv", "results.csv")
	if err != nil {
		log.Fatal(err)
	}

	// Check if checkpoint exists
	if mgr.Exists() {
		// Load existing checkpoint
		cp, err := mgr.Load()
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("Resuming from checkpoint: %d URLs processed\n", cp.TotalProcessed)
	} else {
		// Create new checkpoint
		cp, err := mgr.Create()
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println("Starting fresh run")

		// Record outcomes as URLs are scraped
		err = mgr.MarkProcessed(cp, "https://x.com/user/status/1", "ok")
		if err != nil {
			log.Fatal(err)
		}
	}

	// When the run completes successfully, delete the checkpoint
	err = mgr.Delete()
	if err != nil {
		log.Printf("Failed to delete checkpoint: %v", err)
	}
}

func ExampleRunCheckpoint_IsProcessed() {
	cp := &RunCheckpoint{
		Processed: map[string]string{
			"https://x.com/user/status/1": "ok",
			"https://x.com/user/status/2": "error",
		},
	}

	// Check which URLs can be skipped on resume
	if cp.IsProcessed("https://x.com/user/status/1") {
		fmt.Println("status/1 already processed, skipping")
	}

	if !cp.IsProcessed("https://x.com/user/status/3") {
		fmt.Println("status/3 not processed yet, will scrape")
	}

	// Output:
	// status/1 already processed, skipping
	// status/3 not processed yet, will scrape
}
