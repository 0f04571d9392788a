package diag

import (
	"strings"
	"testing"

	"github.com/cwbudde/vlelab/internal/fileset"
)

func TestOutOfRangeIsWarningNotError(t *testing.T) {
	sink := NewCollectingSink()
	sink.Report(New(OutOfRange, fileset.Region{}, "bit-select out of range"))
	sink.Report(New(NameNotFound, fileset.Region{}, "x not found"))

	if got := sink.Count(SeverityWarning); got != 1 {
		t.Errorf("warning count = %d, want 1", got)
	}
	if got := sink.Count(SeverityError); got != 1 {
		t.Errorf("error count = %d, want 1", got)
	}
}

func TestFormatIncludesSourceLineAndCaret(t *testing.T) {
	region := fileset.Region{Start: fileset.Position{File: "m.v", Line: 2, Column: 5}}
	d := New(NameNotFound, region, "identifier 'x' not found")
	out := d.Format("module m;\n  wire y = x;\nendmodule\n", false)
	if out == "" {
		t.Fatal("expected non-empty formatted output")
	}
	if !strings.Contains(out, "   2 |   wire y = x;\n") {
		t.Errorf("expected source line 2 in output, got %q", out)
	}
	if !strings.Contains(out, "\n"+strings.Repeat(" ", 11)+"^\n") {
		t.Errorf("expected caret under column 5, got %q", out)
	}
}
