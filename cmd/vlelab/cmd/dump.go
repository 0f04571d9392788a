package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cwbudde/vlelab/internal/elabdump"
)

var (
	dumpCellsPath string
	dumpOutPath   string
)

var dumpCmd = &cobra.Command{
	Use:   "dump [fixture.yaml]",
	Short: "Elaborate a fixture and print its design graph as JSON",
	Long: `Reads a YAML-described parse-tree fixture (or stdin when no file or
"-" is given), elaborates it, and writes the resulting design graph as
a single JSON document built with sjson. Diagnostics are reported on
stderr regardless of destination.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDumpCmd,
}

func init() {
	rootCmd.AddCommand(dumpCmd)
	dumpCmd.Flags().StringVar(&dumpCellsPath, "cells", "", "path to a YAML cell-library document")
	dumpCmd.Flags().StringVarP(&dumpOutPath, "out", "o", "", "write JSON to this path instead of stdout")
}

func runDumpCmd(_ *cobra.Command, args []string) error {
	path := ""
	if len(args) == 1 {
		path = args[0]
	}

	mgr, source, _, err := runElaborate(path, dumpCellsPath)
	if err != nil {
		return err
	}
	reportDiags(mgr, source)

	doc, err := elabdump.Dump(mgr)
	if err != nil {
		return fmt.Errorf("building dump: %w", err)
	}

	if dumpOutPath == "" || dumpOutPath == "-" {
		fmt.Println(doc)
		return nil
	}
	if err := os.WriteFile(dumpOutPath, []byte(doc+"\n"), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", dumpOutPath, err)
	}
	return nil
}
