// Package project persists the planning workspace (baseline, policy and
// scenarios) as JSON and provides full-data backup and restore.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/piwi3910/SeatPlan/internal/model"
)

// workspaceVersion is bumped on breaking workspace format changes.
const workspaceVersion = "1.0.0"

// Workspace is the on-disk planning state: one baseline, the active policy
// and every scenario with its last result.
type Workspace struct {
	Version   string             `json:"version"`
	SavedAt   time.Time          `json:"saved_at"`
	Baseline  model.Baseline     `json:"baseline"`
	Policy    model.PolicyConfig `json:"policy"`
	Scenarios []*model.Scenario  `json:"scenarios"`
}

// NewWorkspace returns an empty workspace with the default policy.
func NewWorkspace() *Workspace {
	return &Workspace{
		Version: workspaceVersion,
		Policy:  model.DefaultPolicy(),
	}
}

// Scenario finds a scenario by id, or nil.
func (w *Workspace) Scenario(id string) *model.Scenario {
	for _, s := range w.Scenarios {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// DefaultWorkspaceDir returns the default directory for workspace files.
// On all platforms this is ~/.seatplan/
func DefaultWorkspaceDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".seatplan")
}

// DefaultWorkspacePath returns the default path for the workspace file.
func DefaultWorkspacePath() string {
	return filepath.Join(DefaultWorkspaceDir(), "workspace.json")
}

// SaveWorkspace persists a workspace to the given path as JSON. It creates
// any missing parent directories automatically and stamps the save time.
func SaveWorkspace(path string, w *Workspace) error {
	if w == nil {
		return fmt.Errorf("nothing to save")
	}
	w.Version = workspaceVersion
	w.SavedAt = time.Now().UTC()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create workspace directory: %w", err)
	}
	data, err := json.MarshalIndent(w, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal workspace: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write workspace file: %w", err)
	}
	return nil
}

// LoadWorkspace reads a workspace from the given path. If the file does not
// exist, it returns a fresh empty workspace with no error.
func LoadWorkspace(path string) (*Workspace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewWorkspace(), nil
		}
		return nil, fmt.Errorf("failed to read workspace file: %w", err)
	}
	var w Workspace
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("failed to parse workspace file: %w", err)
	}
	if w.Version == "" {
		return nil, fmt.Errorf("invalid workspace file: missing version field")
	}
	// Ensure Scenarios is never nil
	if w.Scenarios == nil {
		w.Scenarios = []*model.Scenario{}
	}
	return &w, nil
}
