package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cwbudde/vlelab/internal/diag"
)

var (
	elaborateCellsPath string
)

var elaborateCmd = &cobra.Command{
	Use:   "elaborate [fixture.yaml]",
	Short: "Elaborate a YAML-described parse-tree fixture and report diagnostics",
	Long: `Reads a YAML-described parse-tree fixture (or stdin when no file or "-"
is given), runs the full elaboration phase pipeline, and reports every
collected diagnostic. Exits with a nonzero status if elaboration
produced any error-severity diagnostic.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runElaborateCmd,
}

func init() {
	rootCmd.AddCommand(elaborateCmd)
	elaborateCmd.Flags().StringVar(&elaborateCellsPath, "cells", "", "path to a YAML cell-library document")
}

func runElaborateCmd(_ *cobra.Command, args []string) error {
	path := ""
	if len(args) == 1 {
		path = args[0]
	}

	mgr, source, errCount, err := runElaborate(path, elaborateCellsPath)
	if err != nil {
		return err
	}

	reportDiags(mgr, source)

	warnCount := mgr.Diags.Count(diag.SeverityWarning)
	fmt.Printf("elaboration complete: %d top module(s), %d error(s), %d warning(s)\n",
		len(mgr.TopModuleList()), errCount, warnCount)

	if errCount > 0 {
		return fmt.Errorf("elaboration failed with %d error(s)", errCount)
	}
	return nil
}
