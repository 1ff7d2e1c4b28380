package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"argus/internal/domain/models"
)

// StaticProvider loads a fixed inventory from a JSON file. Used by the
// standalone scanner binary and in development.
type StaticProvider struct {
	path string
}

// NewStaticProvider creates a provider backed by a JSON file containing
// an array of installed apps.
func NewStaticProvider(path string) *StaticProvider {
	return &StaticProvider{path: path}
}

// Snapshot reads and parses the inventory file. The file is re-read on
// every call so edits take effect on the next scan.
func (p *StaticProvider) Snapshot(ctx context.Context) ([]models.InstalledApp, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read inventory file: %w", err)
	}

	var apps []models.InstalledApp
	if err := json.Unmarshal(data, &apps); err != nil {
		return nil, fmt.Errorf("failed to parse inventory file: %w", err)
	}

	return apps, nil
}
