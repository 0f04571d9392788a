package ptree

// AttrSpec is one `name` or `name = expr` entry inside a `(* ... *)`
// attribute instance.
type AttrSpec struct {
	Name  string
	Value Expr // nil when no value was given
}

// AttrInstance is one `(* ... *)` group. It is a distinct heap object
// per occurrence in source; the elaborator's attribute index dedups by
// the *identity* of this pointer, which is why callers must never copy
// an AttrInstance by value.
type AttrInstance struct {
	base
	Specs []AttrSpec
}
