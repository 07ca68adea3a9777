package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewScenario_Defaults(t *testing.T) {
	s := NewScenario("Q3 growth", ScenarioGrowth)

	assert.Len(t, s.ID, 8)
	assert.Equal(t, "Q3 growth", s.Name)
	assert.Equal(t, ScenarioGrowth, s.Type)
	assert.Equal(t, ScenarioDraft, s.State)
	assert.Equal(t, 6, s.HorizonMonths)
	assert.False(t, s.Locked())
}

func TestScenario_SetAndClearOverride(t *testing.T) {
	s := NewScenario("test", ScenarioCustom)
	growth := 0.25

	require.NoError(t, s.SetOverride(ScenarioOverride{UnitName: "Sales", GrowthPct: &growth}))
	require.Contains(t, s.Overrides, "Sales")
	assert.Equal(t, 0.25, *s.Overrides["Sales"].GrowthPct)

	require.NoError(t, s.ClearOverride("Sales"))
	assert.NotContains(t, s.Overrides, "Sales")
}

func TestScenario_LockedRejectsMutation(t *testing.T) {
	s := NewScenario("frozen", ScenarioConsolidation)
	s.Lock()
	require.True(t, s.Locked())

	growth := 0.1
	err := s.SetOverride(ScenarioOverride{UnitName: "Sales", GrowthPct: &growth})
	require.Error(t, err)
	var lockedErr *ScenarioLockedError
	assert.ErrorAs(t, err, &lockedErr)
	assert.Equal(t, s.ID, lockedErr.ScenarioID)

	assert.Error(t, s.ClearOverride("Sales"))
	assert.Error(t, s.SetParams(ScenarioParams{CapacityReductionPct: 0.2}))
}

func TestScenario_AttachResultAllowedWhenLocked(t *testing.T) {
	// Locking freezes assumptions, not computation: a locked scenario can
	// still receive a fresh result snapshot.
	s := NewScenario("frozen", ScenarioBaseline)
	s.Lock()

	s.AttachResult(&AllocationResult{ScenarioID: s.ID})
	require.NotNil(t, s.Result)
	assert.Equal(t, s.ID, s.Result.ScenarioID)
}
