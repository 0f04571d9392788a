package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/cwbudde/vlelab/internal/elabdump"
)

var (
	queryCellsPath string
	queryFrom      string
)

var queryCmd = &cobra.Command{
	Use:   "query <gjson-path> [fixture.yaml]",
	Short: "Run a gjson path query against a design's JSON dump",
	Long: `Elaborates a fixture (or reuses a previously written JSON dump given
via --from) and evaluates a gjson path expression against it, printing
the matched value. See https://github.com/tidwall/gjson for path
syntax (dot paths, array indices, "#" array-length, "#(...)" queries).`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runQueryCmd,
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().StringVar(&queryCellsPath, "cells", "", "path to a YAML cell-library document")
	queryCmd.Flags().StringVar(&queryFrom, "from", "", "read a previously written JSON dump instead of elaborating")
}

func runQueryCmd(_ *cobra.Command, args []string) error {
	gpath := args[0]

	var doc string
	if queryFrom != "" {
		data, err := readInput(queryFrom)
		if err != nil {
			return err
		}
		doc = string(data)
	} else {
		path := ""
		if len(args) == 2 {
			path = args[1]
		}
		mgr, source, _, err := runElaborate(path, queryCellsPath)
		if err != nil {
			return err
		}
		reportDiags(mgr, source)

		doc, err = elabdump.Dump(mgr)
		if err != nil {
			return fmt.Errorf("building dump: %w", err)
		}
	}

	result := gjson.Get(doc, gpath)
	if !result.Exists() {
		return fmt.Errorf("path %q matched nothing", gpath)
	}
	fmt.Println(result.String())
	return nil
}
