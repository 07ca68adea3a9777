package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	var workspacePath string

	rootCmd := &cobra.Command{
		Use:   "seatplan",
		Short: "Seat allocation and optimization engine for office planning",
	}
	rootCmd.PersistentFlags().StringVarP(&workspacePath, "workspace", "w", "", "workspace file (default ~/.seatplan/workspace.json)")

	rootCmd.AddCommand(runCmd(&workspacePath))
	rootCmd.AddCommand(optimizeCmd(&workspacePath))
	rootCmd.AddCommand(compareCmd(&workspacePath))
	rootCmd.AddCommand(exportCmd(&workspacePath))
	rootCmd.AddCommand(backupCmd(&workspacePath))
	rootCmd.AddCommand(restoreCmd(&workspacePath))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCmd(workspacePath *string) *cobra.Command {
	var save bool

	cmd := &cobra.Command{
		Use:   "run [scenario-id]",
		Short: "Run the allocation pipeline for a scenario (or the bare baseline)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			scenarioID := ""
			if len(args) == 1 {
				scenarioID = args[0]
			}
			return runScenario(*workspacePath, scenarioID, save)
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "attach the result to the scenario and save the workspace")
	return cmd
}

func optimizeCmd(workspacePath *string) *cobra.Command {
	var objective string

	cmd := &cobra.Command{
		Use:   "optimize [scenario-id]",
		Short: "Run the solver-backed seat placement for a scenario",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			scenarioID := ""
			if len(args) == 1 {
				scenarioID = args[0]
			}
			return runOptimize(*workspacePath, scenarioID, objective)
		},
	}

	cmd.Flags().StringVarP(&objective, "objective", "o", "", "optimization objective (min_shortfall, max_cohesion, min_floors, fair_allocation)")
	return cmd
}

func compareCmd(workspacePath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "compare <scenario-a> <scenario-b>",
		Short: "Compare two scenarios unit by unit",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return runCompare(*workspacePath, args[0], args[1])
		},
	}
}

func exportCmd(workspacePath *string) *cobra.Command {
	var xlsxPath, pdfPath, cardsPath string

	cmd := &cobra.Command{
		Use:   "export [scenario-id]",
		Short: "Export a scenario's allocation as a workbook, PDF report or seat cards",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			scenarioID := ""
			if len(args) == 1 {
				scenarioID = args[0]
			}
			return runExport(*workspacePath, scenarioID, xlsxPath, pdfPath, cardsPath)
		},
	}

	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "write an Excel workbook to this path")
	cmd.Flags().StringVar(&pdfPath, "pdf", "", "write a PDF report to this path")
	cmd.Flags().StringVar(&cardsPath, "cards", "", "write QR seat cards to this path")
	return cmd
}

func backupCmd(workspacePath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "backup <path>",
		Short: "Export all planning data to a single backup file",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runBackup(*workspacePath, args[0])
		},
	}
}

func restoreCmd(workspacePath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <path>",
		Short: "Replace the workspace with data from a backup file",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runRestore(*workspacePath, args[0])
		},
	}
}
