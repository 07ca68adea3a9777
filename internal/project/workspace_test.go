package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/SeatPlan/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleWorkspace() *Workspace {
	ws := NewWorkspace()
	ws.Baseline = model.Baseline{
		Units: []model.Unit{{Name: "Finance", CurrentHC: 80}},
		Floors: []model.Floor{
			{BuildingID: "B1", BuildingName: "HQ", TowerID: "T1", FloorNumber: 1, TotalSeats: 120},
		},
	}
	ws.Scenarios = append(ws.Scenarios, model.NewScenario("growth", model.ScenarioGrowth))
	return ws
}

func TestSaveLoadWorkspace_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "workspace.json")
	ws := sampleWorkspace()

	require.NoError(t, SaveWorkspace(path, ws))

	loaded, err := LoadWorkspace(path)
	require.NoError(t, err)

	assert.Equal(t, ws.Version, loaded.Version)
	assert.Equal(t, ws.Baseline, loaded.Baseline)
	assert.Equal(t, ws.Policy, loaded.Policy)
	require.Len(t, loaded.Scenarios, 1)
	assert.Equal(t, ws.Scenarios[0].ID, loaded.Scenarios[0].ID)
	assert.Equal(t, ws.Scenarios[0].Name, loaded.Scenarios[0].Name)
}

func TestLoadWorkspace_MissingFileReturnsFresh(t *testing.T) {
	loaded, err := LoadWorkspace(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)
	assert.Equal(t, workspaceVersion, loaded.Version)
	assert.Empty(t, loaded.Scenarios)
	assert.Equal(t, model.DefaultPolicy(), loaded.Policy)
}

func TestLoadWorkspace_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := LoadWorkspace(path)
	assert.Error(t, err)
}

func TestLoadWorkspace_MissingVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "versionless.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"scenarios":[]}`), 0644))

	_, err := LoadWorkspace(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "version")
}

func TestWorkspace_ScenarioLookup(t *testing.T) {
	ws := sampleWorkspace()
	id := ws.Scenarios[0].ID

	assert.NotNil(t, ws.Scenario(id))
	assert.Nil(t, ws.Scenario("nope"))
}

func TestBackup_ExportImportRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.json")
	ws := sampleWorkspace()

	require.NoError(t, ExportAllData(path, ws))

	backup, err := ImportAllData(path)
	require.NoError(t, err)
	assert.Equal(t, workspaceVersion, backup.Version)
	assert.NotEmpty(t, backup.CreatedAt)
	assert.Equal(t, ws.Baseline, backup.Workspace.Baseline)
	require.Len(t, backup.Workspace.Scenarios, 1)
	assert.Equal(t, ws.Scenarios[0].ID, backup.Workspace.Scenarios[0].ID)
}

func TestImportAllData_MissingVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad-backup.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"workspace":{}}`), 0644))

	_, err := ImportAllData(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "version")
}

func TestDefaultWorkspacePath(t *testing.T) {
	path := DefaultWorkspacePath()
	assert.Equal(t, "workspace.json", filepath.Base(path))
	assert.Contains(t, path, ".seatplan")
}
