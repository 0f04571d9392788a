package fixture

import (
	"testing"

	"github.com/cwbudde/vlelab/internal/ptree"
)

func TestLoadYAMLDocument(t *testing.T) {
	data := []byte(`
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
          items:
            - name: y
      - kind: decl
        decl:
          category: net
          items:
            - name: a
      - kind: decl
        decl:
          category: net
          items:
            - name: b
      - kind: gate
        gate_type: and
        gates:
          - terms:
              - kind: ident
                name: y
              - kind: ident
                name: a
              - kind: ident
                name: b
`)

	design, err := Load(data)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(design.Modules) != 1 {
		t.Fatalf("expected 1 module, got %d", len(design.Modules))
	}
	m := design.Modules[0]
	if m.Name != "and2" {
		t.Fatalf("expected module and2, got %q", m.Name)
	}
	if len(m.Ports) != 3 {
		t.Fatalf("expected 3 ports, got %d", len(m.Ports))
	}
	if len(m.Items) != 4 {
		t.Fatalf("expected 4 items, got %d", len(m.Items))
	}
	if _, ok := m.Items[3].(*ptree.GateInstanceItem); !ok {
		t.Fatalf("expected last item to be a gate instance, got %T", m.Items[3])
	}
}

func TestBuildDefparamHierarchicalTarget(t *testing.T) {
	doc := &Design{
		Modules: []Module{
			{
				Name: "top",
				Items: []Item{
					{
						Kind: "defparam",
						Assigns: []ParamAssignItem{
							{
								Target: "inst.P",
								Value:  &Expr{Kind: "int", Int: 4},
							},
						},
					},
				},
			},
		},
	}

	design, err := Build(doc)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	item, ok := design.Modules[0].Items[0].(*ptree.DefparamItem)
	if !ok {
		t.Fatalf("expected DefparamItem, got %T", design.Modules[0].Items[0])
	}
	if len(item.Assigns) != 1 {
		t.Fatalf("expected 1 assignment, got %d", len(item.Assigns))
	}
	target := item.Assigns[0].Target
	if target.Name != "P" {
		t.Fatalf("expected leaf target name P, got %q", target.Name)
	}
	if len(target.Branches) != 1 || target.Branches[0].Name != "inst" {
		t.Fatalf("expected hierarchical branch inst, got %+v", target.Branches)
	}
}

func TestBuildConstExpression(t *testing.T) {
	doc := &Design{
		Modules: []Module{
			{
				Name: "consts",
				Items: []Item{
					{
						Kind: "decl",
						Decl: &DeclHead{
							Category: "parameter",
							Items: []DeclItem{
								{
									Name: "WIDTH",
									Init: &Expr{
										Kind: "binary",
										Op:   "+",
										Operands: []*Expr{
											{Kind: "int", Int: 3},
											{Kind: "int", Int: 5},
										},
									},
								},
							},
						},
					},
				},
			},
		},
	}

	design, err := Build(doc)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	head, ok := design.Modules[0].Items[0].(*ptree.DeclHead)
	if !ok {
		t.Fatalf("expected DeclHead item, got %T", design.Modules[0].Items[0])
	}
	if head.Category != ptree.DeclParameter {
		t.Fatalf("expected parameter category, got %v", head.Category)
	}
	op, ok := head.Items[0].Init.(*ptree.Operation)
	if !ok {
		t.Fatalf("expected Operation init expr, got %T", head.Items[0].Init)
	}
	if len(op.Operands) != 2 {
		t.Fatalf("expected 2 operands, got %d", len(op.Operands))
	}
}
