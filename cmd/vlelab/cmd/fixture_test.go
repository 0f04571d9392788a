package cmd

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/cwbudde/vlelab/internal/diag"
	"github.com/cwbudde/vlelab/internal/elab"
	"github.com/cwbudde/vlelab/internal/elab/passes"
	"github.com/cwbudde/vlelab/internal/elabdump"
	"github.com/cwbudde/vlelab/internal/fixture"
)

// TestElaborateAndDumpFixtures runs a handful of small YAML fixtures
// through the same pipeline the elaborate/dump subcommands drive, and
// snapshots the rendered diagnostics and JSON dump for each.
func TestElaborateAndDumpFixtures(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{
			name: "and2_gate",
			yaml: `
modules:
  - name: and2
    ports:
      - {name: y, dir: output}
      - {name: a, dir: input}
      - {name: b, dir: input}
    items:
      - {kind: decl, decl: {category: net, items: [{name: y}]}}
      - {kind: decl, decl: {category: net, items: [{name: a}]}}
      - {kind: decl, decl: {category: net, items: [{name: b}]}}
      - kind: gate
        gate_type: and
        gates:
          - terms:
              - {kind: ident, name: y}
              - {kind: ident, name: a}
              - {kind: ident, name: b}
`,
		},
		{
			name: "param_const_expr",
			yaml: `
modules:
  - name: widths
    items:
      - kind: decl
        decl:
          category: parameter
          items:
            - name: WIDTH
              init: {kind: binary, op: "+", operands: [{kind: int, int: 3}, {kind: int, int: 5}]}
`,
		},
		{
			name: "undeclared_net_error",
			yaml: `
modules:
  - name: broken
    items:
      - kind: contassign
        lhs: [{kind: ident, name: y}]
        rhs: [{kind: ident, name: a}]
`,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			design, err := fixture.Load([]byte(tc.yaml))
			if err != nil {
				t.Fatalf("fixture.Load: %v", err)
			}

			sink := diag.NewCollectingSink()
			mgr := elab.NewManager(nil, sink, elab.NopLogger{})
			errCount := passes.Elaborate(mgr, design)

			var diagText string
			for _, d := range mgr.Diags.All() {
				diagText += d.Format(tc.yaml, false) + "\n"
			}
			snaps.MatchSnapshot(t, tc.name+"_diagnostics", diagText)
			snaps.MatchSnapshot(t, tc.name+"_errorCount", errCount)

			doc, err := elabdump.Dump(mgr)
			if err != nil {
				t.Fatalf("Dump: %v", err)
			}
			snaps.MatchSnapshot(t, tc.name+"_dump", doc)
		})
	}
}
