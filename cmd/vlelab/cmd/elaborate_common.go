package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/cwbudde/vlelab/internal/celllib"
	"github.com/cwbudde/vlelab/internal/diag"
	"github.com/cwbudde/vlelab/internal/elab"
	"github.com/cwbudde/vlelab/internal/elab/passes"
	"github.com/cwbudde/vlelab/internal/fixture"
)

// runElaborate reads the fixture at path (or stdin when path == "-"),
// loads an optional cell library, and drives the full phase pipeline.
// It returns the manager, the raw source bytes (for diagnostic source
// context), and the elaboration error count.
func runElaborate(path, cellsPath string) (*elab.Manager, []byte, int, error) {
	data, err := readInput(path)
	if err != nil {
		return nil, nil, 0, err
	}

	design, err := fixture.Load(data)
	if err != nil {
		return nil, nil, 0, err
	}

	var cells *celllib.Library
	if cellsPath != "" {
		cellData, err := os.ReadFile(cellsPath)
		if err != nil {
			return nil, nil, 0, fmt.Errorf("reading cell library: %w", err)
		}
		cells, err = celllib.Load(cellData)
		if err != nil {
			return nil, nil, 0, err
		}
	}

	var logger elab.Logger = elab.NopLogger{}
	if verbose {
		logger = elab.WriterLogger{W: os.Stderr}
	}

	sink := diag.NewCollectingSink()
	mgr := elab.NewManager(cells, sink, logger)
	errCount := passes.Elaborate(mgr, design)
	return mgr, data, errCount, nil
}

func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(os.Stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

// reportDiags prints every collected diagnostic to stderr, using the
// source text for caret context when available.
func reportDiags(mgr *elab.Manager, source []byte) {
	for _, d := range mgr.Diags.All() {
		fmt.Fprintln(os.Stderr, d.Format(string(source), false))
	}
}
