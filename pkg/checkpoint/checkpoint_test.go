package checkpoint

import (
	"os"
	"testing"
)

func TestCheckpointManager(t *testing.T) {
	// Use a temp directory so test checkpoints never land in real data dirs
	os.Setenv("XDG_DATA_HOME", t.TempDir())
	defer os.Unsetenv("XDG_DATA_HOME")

	input := "urls.csv"
	output := "results.csv"

	t.Run("CreateAndLoad", func(t *testing.T) {
		mgr, err := NewManager(input, output)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}

		// Create checkpoint
		cp, err := mgr.Create()
		if err != nil {
			t.Fatalf("Failed to create checkpoint: %v", err)
		}

		if cp.InputFile != input {
			t.Errorf("Expected input %s, got %s", input, cp.InputFile)
		}
		if cp.OutputFile != output {
			t.Errorf("Expected output %s, got %s", output, cp.OutputFile)
		}

		// Load checkpoint
		loaded, err := mgr.Load()
		if err != nil {
			t.Fatalf("Failed to load checkpoint: %v", err)
		}
		if loaded == nil {
			t.Fatal("Expected checkpoint, got nil")
		}
		if loaded.InputFile != input {
			t.Errorf("Expected loaded input %s, got %s", input, loaded.InputFile)
		}
	})

	t.Run("MarkProcessed", func(t *testing.T) {
		mgr, err := NewManager(input, output)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}

		cp, err := mgr.Create()
		if err != nil {
			t.Fatalf("Failed to create checkpoint: %v", err)
		}

		// Record outcomes
		err = mgr.MarkProcessed(cp, "https://x.com/user/status/1", "ok")
		if err != nil {
			t.Fatalf("Failed to mark processed: %v", err)
		}
		err = mgr.MarkProcessed(cp, "https://x.com/user/status/2", "error")
		if err != nil {
			t.Fatalf("Failed to mark processed: %v", err)
		}

		// Verify outcomes
		if !cp.IsProcessed("https://x.com/user/status/1") {
			t.Error("Expected status/1 to be processed")
		}
		if !cp.IsProcessed("https://x.com/user/status/2") {
			t.Error("Expected status/2 to be processed")
		}
		if cp.IsProcessed("https://x.com/user/status/3") {
			t.Error("Expected status/3 to not be processed")
		}
		if cp.TotalProcessed != 2 {
			t.Errorf("Expected 2 processed, got %d", cp.TotalProcessed)
		}

		status, ok := cp.StatusFor("https://x.com/user/status/2")
		if !ok || status != "error" {
			t.Errorf("Expected recorded status error, got %s (%v)", status, ok)
		}

		// Outcomes survive a reload
		loaded, err := mgr.Load()
		if err != nil {
			t.Fatalf("Failed to load checkpoint: %v", err)
		}
		if !loaded.IsProcessed("https://x.com/user/status/1") {
			t.Error("Expected processed URL to survive reload")
		}
	})

	t.Run("MismatchedPairIgnored", func(t *testing.T) {
		mgr, err := NewManager(input, output)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}

		if _, err := mgr.Create(); err != nil {
			t.Fatalf("Failed to create checkpoint: %v", err)
		}

		// Hand the manager a checkpoint written for another run
		other, err := NewManager("other.csv", output)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		other.checkpointPath = mgr.checkpointPath

		loaded, err := other.Load()
		if err != nil {
			t.Fatalf("Failed to load checkpoint: %v", err)
		}
		if loaded != nil {
			t.Error("Expected mismatched checkpoint to be ignored")
		}
	})

	t.Run("Delete", func(t *testing.T) {
		mgr, err := NewManager(input, output)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}

		_, err = mgr.Create()
		if err != nil {
			t.Fatalf("Failed to create checkpoint: %v", err)
		}

		// Verify exists
		if !mgr.Exists() {
			t.Error("Expected checkpoint to exist")
		}

		// Delete
		err = mgr.Delete()
		if err != nil {
			t.Fatalf("Failed to delete checkpoint: %v", err)
		}

		// Verify deleted
		if mgr.Exists() {
			t.Error("Expected checkpoint to not exist after deletion")
		}
	})

	t.Run("AtomicWrite", func(t *testing.T) {
		mgr, err := NewManager(input, output)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}

		cp, err := mgr.Create()
		if err != nil {
			t.Fatalf("Failed to create checkpoint: %v", err)
		}

		// Simulate multiple concurrent saves
		done := make(chan bool, 10)
		for i := 0; i < 10; i++ {
			go func(n int) {
				c := *cp
				c.TotalProcessed = n
				mgr.Save(&c)
				done <- true
			}(i)
		}

		// Wait for all saves to complete
		for i := 0; i < 10; i++ {
			<-done
		}

		// Verify checkpoint is still valid
		loaded, err := mgr.Load()
		if err != nil {
			t.Fatalf("Failed to load checkpoint after concurrent saves: %v", err)
		}
		if loaded == nil {
			t.Fatal("Checkpoint corrupted after concurrent saves")
		}
	})

	t.Run("Backup", func(t *testing.T) {
		mgr, err := NewManager(input, output)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}

		cp, err := mgr.Create()
		if err != nil {
			t.Fatalf("Failed to create checkpoint: %v", err)
		}

		// Add some data
		mgr.MarkProcessed(cp, "https://x.com/user/status/42", "ok")

		// Create backup
		err = mgr.Backup()
		if err != nil {
			t.Fatalf("Failed to backup checkpoint: %v", err)
		}

		// Verify backup exists
		backupPath := mgr.checkpointPath + ".backup"
		if _, err := os.Stat(backupPath); os.IsNotExist(err) {
			t.Error("Backup file not created")
		}
	})
}

func TestPairKey(t *testing.T) {
	a := pairKey("urls.csv", "results.csv")
	b := pairKey("urls.csv", "results.csv")
	if a != b {
		t.Error("Expected stable key for the same pair")
	}

	c := pairKey("other.csv", "results.csv")
	if a == c {
		t.Error("Expected different keys for different pairs")
	}

	if len(a) != 16 {
		t.Errorf("Expected 16-character key, got %d", len(a))
	}
}

func TestGetDataDirectory(t *testing.T) {
	os.Setenv("XDG_DATA_HOME", t.TempDir())
	defer os.Unsetenv("XDG_DATA_HOME")

	dir, err := getDataDirectory()
	if err != nil {
		t.Fatalf("Failed to get data directory: %v", err)
	}

	// Verify it's a valid path
	if dir == "" {
		t.Error("Data directory is empty")
	}

	// Verify it can be created
	err = os.MkdirAll(dir, 0755)
	if err != nil {
		t.Errorf("Cannot create data directory: %v", err)
	}
}
