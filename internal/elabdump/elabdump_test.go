package elabdump_test

import (
	"testing"

	"github.com/tidwall/gjson"

	"github.com/cwbudde/vlelab/internal/diag"
	"github.com/cwbudde/vlelab/internal/elab"
	"github.com/cwbudde/vlelab/internal/elab/passes"
	"github.com/cwbudde/vlelab/internal/elabdump"
	"github.com/cwbudde/vlelab/internal/fileset"
	"github.com/cwbudde/vlelab/internal/fixture"
)

const and2Fixture = `
modules:
  - name: and2
    ports:
      - name: y
        dir: output
      - name: a
        dir: input
      - name: b
        dir: input
    items:
      - kind: decl
        decl:
          category: net
          items: [{name: y}]
      - kind: decl
        decl:
          category: net
          items: [{name: a}]
      - kind: decl
        decl:
          category: net
          items: [{name: b}]
      - kind: gate
        gate_type: and
        gates:
          - terms:
              - {kind: ident, name: y}
              - {kind: ident, name: a}
              - {kind: ident, name: b}
`

func elaborateFixture(t *testing.T, src string) *elab.Manager {
	t.Helper()
	design, err := fixture.Load([]byte(src))
	if err != nil {
		t.Fatalf("fixture.Load: %v", err)
	}
	sink := diag.NewCollectingSink()
	mgr := elab.NewManager(nil, sink, elab.NopLogger{})
	passes.Elaborate(mgr, design)
	return mgr
}

func TestDumpTopModules(t *testing.T) {
	mgr := elaborateFixture(t, and2Fixture)

	doc, err := elabdump.Dump(mgr)
	if err != nil {
		t.Fatalf("Dump: %v", err)
	}

	tops := gjson.Get(doc, "topModules")
	if !tops.IsArray() || len(tops.Array()) == 0 {
		t.Fatalf("expected at least one top module, got %s", tops.Raw)
	}

	nets := gjson.Get(doc, "scope.modules.0.scope.nets.#.name")
	names := map[string]bool{}
	for _, n := range nets.Array() {
		names[n.String()] = true
	}
	for _, want := range []string{"y", "a", "b"} {
		if !names[want] {
			t.Errorf("expected net %q in dump, got %v", want, names)
		}
	}
}

func TestRenderExprAndStmt(t *testing.T) {
	mgr := elaborateFixture(t, and2Fixture)
	for _, pr := range mgr.ListPrimitives(mgr.ListModules(mgr.Top)[0].Scope) {
		for _, term := range pr.Terms {
			if elabdump.RenderExpr(term) == "" {
				t.Errorf("expected non-empty rendering for term %v", term)
			}
		}
	}
	if got := elabdump.RenderStmt(elab.NewNullStmt(fileset.Region{})); got != ";" {
		t.Errorf("RenderStmt(null statement) = %q, want %q", got, ";")
	}
}
