package celllib

import "testing"

func TestLoadAndLookup(t *testing.T) {
	doc := []byte(`
cells:
  - name: BUFX2
    pins:
      - name: A
        dir: input
      - name: Y
        dir: output
  - name: AND2X1
    pins:
      - name: A
        dir: input
      - name: B
        dir: input
      - name: Y
        dir: output
`)
	lib, err := Load(doc)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	cell, ok := lib.Lookup("bufx2")
	if !ok {
		t.Fatal("expected case-insensitive lookup to find BUFX2")
	}
	if cell.PinCount() != 2 {
		t.Fatalf("PinCount() = %d, want 2", cell.PinCount())
	}
	dir, ok := cell.PinDirection(1)
	if !ok || dir != DirOutput {
		t.Fatalf("PinDirection(1) = (%v, %v), want (output, true)", dir, ok)
	}

	if _, ok := lib.Lookup("nope"); ok {
		t.Fatal("expected lookup of unknown cell to fail")
	}
}
