// Package fileset provides the source-position types shared by the
// parse-tree model and the elaborated object model.
package fileset

import "fmt"

// Position identifies one point in a source file.
type Position struct {
	File   string
	Line   int
	Column int
	Offset int
}

// String renders "file:line:col", or "line:col" when File is empty.
func (p Position) String() string {
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// IsValid reports whether the position carries real line/column info.
func (p Position) IsValid() bool {
	return p.Line > 0
}

// Region is a start/end position pair. Every parse-tree node and every
// elaborated object carries one for diagnostics.
type Region struct {
	Start Position
	End   Position
}

// String renders the region as "start-end" (or just "start" when the
// two collapse to the same point).
func (r Region) String() string {
	if r.Start == r.End {
		return r.Start.String()
	}
	if r.Start.File == r.End.File {
		return fmt.Sprintf("%s-%d:%d", r.Start.String(), r.End.Line, r.End.Column)
	}
	return fmt.Sprintf("%s-%s", r.Start.String(), r.End.String())
}

// HasFileRegion is the capability trait implemented by every parse-tree
// node and every elaborated object.
type HasFileRegion interface {
	FileRegion() Region
}
