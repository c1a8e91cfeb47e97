package metadata

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"xscraper/pkg/models"
)

func TestRunManifestRoundTrip(t *testing.T) {
	output := filepath.Join(t.TempDir(), "results.csv")

	started := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	manifest := &RunManifest{
		InputFile:  "urls.csv",
		OutputFile: output,
		StartedAt:  started,
		FinishedAt: started.Add(90 * time.Second),
		AuthSource: models.SessionFromCookies,
		Headless:   true,
		Summary: models.RunSummary{
			Total:    10,
			OK:       8,
			NoCounts: 1,
			Errors:   1,
			Elapsed:  90 * time.Second,
		},
	}

	if ManifestExists(output) {
		t.Error("Manifest should not exist before save")
	}

	if err := manifest.Save(); err != nil {
		t.Fatalf("Failed to save manifest: %v", err)
	}

	if !ManifestExists(output) {
		t.Error("Manifest should exist after save")
	}
	if ManifestPath(output) != output+".run.json" {
		t.Errorf("Unexpected manifest path: %s", ManifestPath(output))
	}

	loaded, err := Load(output)
	if err != nil {
		t.Fatalf("Failed to load manifest: %v", err)
	}

	if loaded.InputFile != manifest.InputFile {
		t.Errorf("InputFile mismatch: got %s, want %s", loaded.InputFile, manifest.InputFile)
	}
	if loaded.AuthSource != models.SessionFromCookies {
		t.Errorf("AuthSource mismatch: got %s", loaded.AuthSource)
	}
	if !loaded.StartedAt.Equal(manifest.StartedAt) {
		t.Errorf("StartedAt mismatch: got %v, want %v", loaded.StartedAt, manifest.StartedAt)
	}
	if loaded.Summary.OK != 8 {
		t.Errorf("Summary OK mismatch: got %d, want 8", loaded.Summary.OK)
	}
}

func TestLoadMissingManifest(t *testing.T) {
	output := filepath.Join(t.TempDir(), "results.csv")

	if _, err := Load(output); err == nil {
		t.Error("Expected error loading missing manifest")
	}
}

func TestSaveOverwritesExisting(t *testing.T) {
	output := filepath.Join(t.TempDir(), "results.csv")

	first := &RunManifest{OutputFile: output, Summary: models.RunSummary{Total: 1}}
	if err := first.Save(); err != nil {
		t.Fatalf("Failed to save first manifest: %v", err)
	}

	second := &RunManifest{OutputFile: output, Summary: models.RunSummary{Total: 2}}
	if err := second.Save(); err != nil {
		t.Fatalf("Failed to save second manifest: %v", err)
	}

	loaded, err := Load(output)
	if err != nil {
		t.Fatalf("Failed to load manifest: %v", err)
	}
	if loaded.Summary.Total != 2 {
		t.Errorf("Expected overwritten manifest, got total %d", loaded.Summary.Total)
	}

	// Sanity: the file really is indented JSON
	data, err := os.ReadFile(ManifestPath(output))
	if err != nil {
		t.Fatal(err)
	}
	if data[0] != '{' {
		t.Error("Expected JSON object")
	}
}
