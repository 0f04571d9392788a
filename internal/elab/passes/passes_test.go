package passes_test

import (
	"testing"

	"github.com/cwbudde/vlelab/internal/diag"
	"github.com/cwbudde/vlelab/internal/elab"
	"github.com/cwbudde/vlelab/internal/elab/passes"
	"github.com/cwbudde/vlelab/internal/fixture"
)

func elaborateFixture(t *testing.T, yamlSrc string) *elab.Manager {
	t.Helper()
	design, err := fixture.Load([]byte(yamlSrc))
	if err != nil {
		t.Fatalf("fixture.Load: %v", err)
	}
	sink := diag.NewCollectingSink()
	mgr := elab.NewManager(nil, sink, elab.NopLogger{})
	passes.Elaborate(mgr, design)
	return mgr
}

func TestDefparamOverridesInstanceParameter(t *testing.T) {
	src := `
modules:
  - name: leaf
    items:
      - kind: decl
        decl:
          category: parameter
          items:
            - {name: WIDTH, init: {kind: int, int: 4}}
  - name: top
    items:
      - kind: modinst
        module_name: leaf
        insts:
          - name: u0
      - kind: defparam
        assigns:
          - {target: "u0.WIDTH", value: {kind: int, int: 8}}
`
	mgr := elaborateFixture(t, src)

	if errCount := mgr.Diags.Count(diag.SeverityError); errCount != 0 {
		for _, d := range mgr.Diags.All() {
			t.Logf("diag: %s", d.Format(src, false))
		}
		t.Fatalf("expected no errors, got %d", errCount)
	}

	var top *elab.Module
	for _, m := range mgr.TopModuleList() {
		if m.DefName == "top" {
			top = m
		}
	}
	if top == nil {
		t.Fatalf("expected a top module named top, got %v", mgr.TopModuleList())
	}

	var leafInst *elab.Module
	for _, m := range mgr.ListModules(top.Scope) {
		if m.Name() == "u0" {
			leafInst = m
		}
	}
	if leafInst == nil {
		t.Fatalf("expected submodule instance u0 under top")
	}

	var width *elab.Parameter
	for _, p := range mgr.Objs.ByTag(leafInst.Scope, elab.TagParameters) {
		if param, ok := p.(*elab.Parameter); ok && param.Name() == "WIDTH" {
			width = param
		}
	}
	if width == nil {
		t.Fatalf("expected parameter WIDTH on u0")
	}
	if !width.Overridden {
		t.Errorf("expected WIDTH to be marked Overridden by the defparam")
	}
	got, ok := width.Value.ToInt()
	if !ok || got != 8 {
		t.Errorf("expected WIDTH == 8 after defparam override, got %v (ok=%v)", width.Value, ok)
	}
}

func TestDefparamUnresolvedTargetIsSilentlyDropped(t *testing.T) {
	src := `
modules:
  - name: top
    items:
      - kind: defparam
        assigns:
          - {target: "nosuch.WIDTH", value: {kind: int, int: 8}}
`
	mgr := elaborateFixture(t, src)
	if errCount := mgr.Diags.Count(diag.SeverityError); errCount != 0 {
		for _, d := range mgr.Diags.All() {
			t.Logf("diag: %s", d.Format(src, false))
		}
		t.Errorf("expected a defparam with no resolvable target to be silently dropped, got %d errors", errCount)
	}
}

func TestUndeclaredNetReportsDiagnostic(t *testing.T) {
	src := `
modules:
  - name: broken
    items:
      - kind: contassign
        lhs: [{kind: ident, name: y}]
        rhs: [{kind: ident, name: a}]
`
	mgr := elaborateFixture(t, src)
	if mgr.Diags.Count(diag.SeverityError) == 0 {
		t.Fatalf("expected at least one error for undeclared identifiers")
	}
}
