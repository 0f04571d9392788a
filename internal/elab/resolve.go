package elab

// HierSegment is one resolved prefix segment of a hierarchical name:
// a simple identifier, optionally indexed into a module-array or
// generate-for root.
type HierSegment struct {
	Name  string
	Index *int // nil for an unindexed segment
}

// FindUp implements the upward-search algorithm: resolve each
// hierarchical prefix segment (searching the current scope, then the
// module-definition dictionary for segments without an index, walking
// up on miss; indexed segments dereference through ArrayElem), then
// look up the final identifier at the resolved base and each enclosing
// scope up to (and including) upperLimit. It returns the first hit, or
// ok=false if upperLimit is passed with no match.
func (m *Manager) FindUp(base *Scope, prefix []HierSegment, final string, upperLimit *Scope) (Handle, bool) {
	cur := base
	for _, seg := range prefix {
		next, ok := m.resolveSegment(cur, seg, upperLimit)
		if !ok {
			return Handle{}, false
		}
		cur = next
	}
	s := cur
	for {
		if h, ok := m.Objs.Find(s, final); ok {
			return h, true
		}
		if s == upperLimit || s.ParentScope() == nil {
			return Handle{}, false
		}
		s = s.ParentScope()
	}
}

// resolveSegment resolves one hierarchical prefix segment starting at
// search, walking up to upperLimit on miss, and returns the scope the
// segment names.
func (m *Manager) resolveSegment(search *Scope, seg HierSegment, upperLimit *Scope) (*Scope, bool) {
	for {
		if h, ok := m.Objs.Find(search, seg.Name); ok {
			if seg.Index != nil {
				return h.ArrayElem(*seg.Index)
			}
			if h.Kind == HandleScope {
				return h.Scope, true
			}
			return nil, false
		}
		if seg.Index == nil {
			if def, ok := m.Modules.Find(search, seg.Name); ok {
				return def.Scope, true
			}
		}
		if search == upperLimit || search.ParentScope() == nil {
			return nil, false
		}
		search = search.ParentScope()
	}
}
