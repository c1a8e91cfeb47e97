package metadata

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"xscraper/pkg/models"
)

// RunManifest records the provenance of one scrape run. It is written next
// to the results file so batch campaigns can tell later which input, auth
// source and settings produced a given output.
type RunManifest struct {
	InputFile  string               `json:"input_file"`
	OutputFile string               `json:"output_file"`
	StartedAt  time.Time            `json:"started_at"`
	FinishedAt time.Time            `json:"finished_at"`
	AuthSource models.SessionSource `json:"auth_source"`
	Headless   bool                 `json:"headless"`
	Summary    models.RunSummary    `json:"summary"`
}

// ManifestPath returns the manifest location for a results file
func ManifestPath(outputFile string) string {
	return outputFile + ".run.json"
}

// Save writes the manifest next to the results file
func (m *RunManifest) Save() error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run manifest: %w", err)
	}

	if err := os.WriteFile(ManifestPath(m.OutputFile), data, 0644); err != nil {
		return fmt.Errorf("failed to write run manifest: %w", err)
	}

	return nil
}

// Load reads the manifest belonging to a results file
func Load(outputFile string) (*RunManifest, error) {
	data, err := os.ReadFile(ManifestPath(outputFile))
	if err != nil {
		return nil, fmt.Errorf("failed to read run manifest: %w", err)
	}

	var manifest RunManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run manifest: %w", err)
	}

	return &manifest, nil
}

// ManifestExists checks if a manifest exists for a results file
func ManifestExists(outputFile string) bool {
	_, err := os.Stat(ManifestPath(outputFile))
	return err == nil
}
