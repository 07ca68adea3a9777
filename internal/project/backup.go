package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/piwi3910/SeatPlan/internal/model"
)

// BackupData is the top-level structure for import/export of all planning
// data. It wraps the workspace so future additions (per-user preferences,
// audit history) can ride along without breaking old backups.
type BackupData struct {
	Version   string    `json:"version"`
	CreatedAt string    `json:"created_at"`
	Workspace Workspace `json:"workspace"`
}

// ExportAllData writes the complete workspace to a single JSON backup file
// at the specified path.
func ExportAllData(exportPath string, w *Workspace) error {
	if w == nil {
		return fmt.Errorf("nothing to export")
	}
	backup := BackupData{
		Version:   workspaceVersion,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Workspace: *w,
	}
	data, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal backup data: %w", err)
	}

	dir := filepath.Dir(exportPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	if err := os.WriteFile(exportPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write backup file: %w", err)
	}
	return nil
}

// ImportAllData reads a backup JSON file and returns the contained
// workspace. The caller decides whether to replace the current workspace.
func ImportAllData(importPath string) (BackupData, error) {
	data, err := os.ReadFile(importPath)
	if err != nil {
		return BackupData{}, fmt.Errorf("failed to read backup file: %w", err)
	}
	var backup BackupData
	if err := json.Unmarshal(data, &backup); err != nil {
		return BackupData{}, fmt.Errorf("failed to parse backup file: %w", err)
	}
	if backup.Version == "" {
		return BackupData{}, fmt.Errorf("invalid backup file: missing version field")
	}
	// Ensure Scenarios is never nil
	if backup.Workspace.Scenarios == nil {
		backup.Workspace.Scenarios = []*model.Scenario{}
	}
	return backup, nil
}
