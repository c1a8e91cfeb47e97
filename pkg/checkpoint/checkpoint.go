package checkpoint

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"xscraper/pkg/logger"
)

// RunCheckpoint represents the progress of a scrape run
type RunCheckpoint struct {
	InputFile      string            `json:"input_file"`
	OutputFile     string            `json:"output_file"`
	Processed      map[string]string `json:"processed"` // url -> status
	TotalProcessed int               `json:"total_processed"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
	Version        int               `json:"version"`
}

// Manager handles checkpoint operations for one input/output pair
type Manager struct {
	inputFile      string
	outputFile     string
	checkpointPath string
	logger         logger.Logger
}

// NewManager creates a checkpoint manager keyed to an input/output pair
func NewManager(inputFile, outputFile string) (*Manager, error) {
	dataDir, err := getDataDirectory()
	if err != nil {
		return nil, fmt.Errorf("failed to get data directory: %w", err)
	}

	// Create checkpoints directory if it doesn't exist
	checkpointsDir := filepath.Join(dataDir, "checkpoints")
	if err := os.MkdirAll(checkpointsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create checkpoints directory: %w", err)
	}

	inputFile = filepath.Clean(inputFile)
	outputFile = filepath.Clean(outputFile)

	// Create checkpoint file path
	name := fmt.Sprintf("run_%s.checkpoint.json", pairKey(inputFile, outputFile))
	checkpointPath := filepath.Join(checkpointsDir, name)

	return &Manager{
		inputFile:      inputFile,
		outputFile:     outputFile,
		checkpointPath: checkpointPath,
		logger:         logger.GetLogger(),
	}, nil
}

// Create creates a new checkpoint
func (m *Manager) Create() (*RunCheckpoint, error) {
	checkpoint := &RunCheckpoint{
		InputFile:      m.inputFile,
		OutputFile:     m.outputFile,
		Processed:      make(map[string]string),
		TotalProcessed: 0,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
		Version:        1,
	}

	if err := m.Save(checkpoint); err != nil {
		return nil, fmt.Errorf("failed to save initial checkpoint: %w", err)
	}

	m.logger.InfoWithFields("Checkpoint created", map[string]interface{}{
		"input": m.inputFile,
		"path":  m.checkpointPath,
	})

	return checkpoint, nil
}

// Load loads an existing checkpoint
func (m *Manager) Load() (*RunCheckpoint, error) {
	file, err := os.Open(m.checkpointPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // No checkpoint exists
		}
		return nil, fmt.Errorf("failed to open checkpoint file: %w", err)
	}
	defer file.Close()

	var checkpoint RunCheckpoint
	if err := json.NewDecoder(file).Decode(&checkpoint); err != nil {
		return nil, fmt.Errorf("failed to decode checkpoint: %w", err)
	}

	// A checkpoint only resumes the exact input/output pair it was written for
	if checkpoint.InputFile != m.inputFile || checkpoint.OutputFile != m.outputFile {
		m.logger.WarnWithFields("Checkpoint belongs to a different run, ignoring", map[string]interface{}{
			"checkpoint_input": checkpoint.InputFile,
			"expected_input":   m.inputFile,
		})
		return nil, nil
	}

	if checkpoint.Processed == nil {
		checkpoint.Processed = make(map[string]string)
	}

	m.logger.InfoWithFields("Checkpoint loaded", map[string]interface{}{
		"input":      checkpoint.InputFile,
		"processed":  checkpoint.TotalProcessed,
		"updated_at": checkpoint.UpdatedAt,
	})

	return &checkpoint, nil
}

// Save saves the checkpoint to disk atomically
func (m *Manager) Save(checkpoint *RunCheckpoint) error {
	checkpoint.UpdatedAt = time.Now()

	// Create temporary file
	tempPath := m.checkpointPath + ".tmp"
	file, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create temporary checkpoint file: %w", err)
	}

	// Write checkpoint data
	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(checkpoint); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to encode checkpoint: %w", err)
	}

	// Ensure data is written to disk
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to sync checkpoint file: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close checkpoint file: %w", err)
	}

	// Atomically replace the old checkpoint file
	if err := os.Rename(tempPath, m.checkpointPath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to replace checkpoint file: %w", err)
	}

	m.logger.DebugWithFields("Checkpoint saved", map[string]interface{}{
		"processed": checkpoint.TotalProcessed,
	})

	return nil
}

// Delete removes the checkpoint file
func (m *Manager) Delete() error {
	if err := os.Remove(m.checkpointPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete checkpoint: %w", err)
	}

	m.logger.Info("Checkpoint deleted")
	return nil
}

// Exists checks if a checkpoint file exists
func (m *Manager) Exists() bool {
	_, err := os.Stat(m.checkpointPath)
	return err == nil
}

// MarkProcessed records the outcome for a URL and persists the checkpoint
func (m *Manager) MarkProcessed(checkpoint *RunCheckpoint, url, status string) error {
	checkpoint.Processed[url] = status
	checkpoint.TotalProcessed = len(checkpoint.Processed)
	return m.Save(checkpoint)
}

// IsProcessed checks if a URL has already been processed
func (checkpoint *RunCheckpoint) IsProcessed(url string) bool {
	_, exists := checkpoint.Processed[url]
	return exists
}

// StatusFor returns the recorded outcome for a URL
func (checkpoint *RunCheckpoint) StatusFor(url string) (string, bool) {
	status, exists := checkpoint.Processed[url]
	return status, exists
}

// Backup creates a backup of the current checkpoint
func (m *Manager) Backup() error {
	if !m.Exists() {
		return nil // Nothing to backup
	}

	backupPath := m.checkpointPath + ".backup"

	// Copy checkpoint file to backup
	src, err := os.Open(m.checkpointPath)
	if err != nil {
		return fmt.Errorf("failed to open checkpoint for backup: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(backupPath)
	if err != nil {
		return fmt.Errorf("failed to create backup file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("failed to copy checkpoint to backup: %w", err)
	}

	m.logger.Debug("Checkpoint backed up")
	return nil
}

// pairKey derives a stable filename component from an input/output pair
func pairKey(inputFile, outputFile string) string {
	sum := sha256.Sum256([]byte(inputFile + "\x00" + outputFile))
	return hex.EncodeToString(sum[:])[:16]
}

// getDataDirectory returns the appropriate data directory for the current OS
func getDataDirectory() (string, error) {
	var dataDir string

	switch runtime.GOOS {
	case "linux":
		// Use XDG_DATA_HOME if set, otherwise ~/.local/share
		if xdgDataHome := os.Getenv("XDG_DATA_HOME"); xdgDataHome != "" {
			dataDir = filepath.Join(xdgDataHome, "xscraper")
		} else {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			dataDir = filepath.Join(home, ".local", "share", "xscraper")
		}
	case "darwin":
		// macOS: ~/Library/Application Support
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataDir = filepath.Join(home, "Library", "Application Support", "xscraper")
	case "windows":
		// Windows: %APPDATA%
		appData := os.Getenv("APPDATA")
		if appData == "" {
			return "", fmt.Errorf("APPDATA environment variable not set")
		}
		dataDir = filepath.Join(appData, "xscraper")
	default:
		return "", fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}

	// Create the data directory if it doesn't exist
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}

	return dataDir, nil
}
