package main

import (
	"context"
	"fmt"

	"github.com/piwi3910/SeatPlan/internal/engine"
	"github.com/piwi3910/SeatPlan/internal/export"
	"github.com/piwi3910/SeatPlan/internal/model"
	"github.com/piwi3910/SeatPlan/internal/project"
)

// loadWorkspace opens the workspace at path, falling back to the default
// location when path is empty.
func loadWorkspace(path string) (*project.Workspace, string, error) {
	if path == "" {
		path = project.DefaultWorkspacePath()
	}
	ws, err := project.LoadWorkspace(path)
	if err != nil {
		return nil, path, err
	}
	return ws, path, nil
}

// findScenario resolves a scenario id against the workspace. An empty id
// selects the bare baseline (nil scenario).
func findScenario(ws *project.Workspace, scenarioID string) (*model.Scenario, error) {
	if scenarioID == "" {
		return nil, nil
	}
	s := ws.Scenario(scenarioID)
	if s == nil {
		return nil, fmt.Errorf("scenario %q not found in workspace", scenarioID)
	}
	return s, nil
}

func runScenario(workspacePath, scenarioID string, save bool) error {
	ws, path, err := loadWorkspace(workspacePath)
	if err != nil {
		return err
	}
	scenario, err := findScenario(ws, scenarioID)
	if err != nil {
		return err
	}

	result, runErr := engine.RunScenario(ws.Baseline, scenario, ws.Policy)
	if result == nil {
		return runErr
	}
	if runErr != nil {
		fmt.Printf("WARNING: %v\n\n", runErr)
	}

	printResult(result)

	if save && scenario != nil {
		scenario.AttachResult(result)
		if err := project.SaveWorkspace(path, ws); err != nil {
			return err
		}
		fmt.Printf("\nResult saved to %s\n", path)
	}
	return nil
}

func runOptimize(workspacePath, scenarioID, objective string) error {
	ws, _, err := loadWorkspace(workspacePath)
	if err != nil {
		return err
	}
	scenario, err := findScenario(ws, scenarioID)
	if err != nil {
		return err
	}

	policy := ws.Policy
	if objective != "" {
		policy.Objective = model.Objective(objective)
		known := false
		for _, o := range model.Objectives {
			if policy.Objective == o {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("unknown objective %q", objective)
		}
	}

	outcome, optErr := engine.Optimize(context.Background(), ws.Baseline, scenario, policy, nil)
	if outcome == nil {
		return optErr
	}
	if optErr != nil && (outcome.Status == "Optimal" || outcome.Status == "Feasible") {
		fmt.Printf("WARNING: %v\n\n", optErr)
		optErr = nil
	}
	printOutcome(outcome)
	if optErr != nil && outcome.Status != "Infeasible" {
		return optErr
	}
	return nil
}

func runCompare(workspacePath, idA, idB string) error {
	ws, _, err := loadWorkspace(workspacePath)
	if err != nil {
		return err
	}

	resultFor := func(id string) (*model.AllocationResult, error) {
		scenario, err := findScenario(ws, id)
		if err != nil {
			return nil, err
		}
		if scenario != nil && scenario.Result != nil && !engine.Stale(scenario.Result, ws.Baseline) {
			return scenario.Result, nil
		}
		result, runErr := engine.RunScenario(ws.Baseline, scenario, ws.Policy)
		if result == nil {
			return nil, runErr
		}
		return result, nil
	}

	a, err := resultFor(idA)
	if err != nil {
		return err
	}
	b, err := resultFor(idB)
	if err != nil {
		return err
	}

	printDiff(idA, idB, engine.Diff(a, b))
	return nil
}

func runExport(workspacePath, scenarioID, xlsxPath, pdfPath, cardsPath string) error {
	if xlsxPath == "" && pdfPath == "" && cardsPath == "" {
		return fmt.Errorf("nothing to export: pass --xlsx, --pdf or --cards")
	}

	ws, _, err := loadWorkspace(workspacePath)
	if err != nil {
		return err
	}
	scenario, err := findScenario(ws, scenarioID)
	if err != nil {
		return err
	}

	result, runErr := engine.RunScenario(ws.Baseline, scenario, ws.Policy)
	if result == nil {
		return runErr
	}
	if runErr != nil {
		fmt.Printf("WARNING: %v\n\n", runErr)
	}

	floors := engine.NewOverlay(scenario).ResolveFloors(ws.Baseline.Floors)

	if xlsxPath != "" {
		if err := export.WriteWorkbook(xlsxPath, result, floors); err != nil {
			return err
		}
		fmt.Printf("Workbook written to %s\n", xlsxPath)
	}
	if pdfPath != "" {
		if err := export.WritePDF(pdfPath, result, floors); err != nil {
			return err
		}
		fmt.Printf("PDF report written to %s\n", pdfPath)
	}
	if cardsPath != "" {
		if err := export.WriteSeatCards(cardsPath, result); err != nil {
			return err
		}
		fmt.Printf("Seat cards written to %s\n", cardsPath)
	}
	return nil
}

func runBackup(workspacePath, backupPath string) error {
	ws, _, err := loadWorkspace(workspacePath)
	if err != nil {
		return err
	}
	if err := project.ExportAllData(backupPath, ws); err != nil {
		return err
	}
	fmt.Printf("Backup written to %s\n", backupPath)
	return nil
}

func runRestore(workspacePath, backupPath string) error {
	backup, err := project.ImportAllData(backupPath)
	if err != nil {
		return err
	}
	path := workspacePath
	if path == "" {
		path = project.DefaultWorkspacePath()
	}
	ws := backup.Workspace
	if err := project.SaveWorkspace(path, &ws); err != nil {
		return err
	}
	fmt.Printf("Workspace restored from %s (%d scenarios)\n", backupPath, len(ws.Scenarios))
	return nil
}
