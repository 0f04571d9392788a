package elab

// ambiguousModule is the sentinel stored in ModuleDict when a second
// module with the same (parent, defName) key is added.
var ambiguousModule = &Module{}

// ModuleDict maps (parent scope, module-definition name) to module
// instance, used exclusively by upward search when a hierarchical
// prefix segment fails to resolve as an instance name. A name
// collision poisons the entry: subsequent lookups return not-found
// rather than an arbitrary one of the two candidates.
type ModuleDict struct {
	entries map[*Scope]map[string]*Module
}

// NewModuleDict creates an empty module-definition dictionary.
func NewModuleDict() *ModuleDict {
	return &ModuleDict{entries: make(map[*Scope]map[string]*Module)}
}

// Add registers m under (parent, m.DefName). If an entry already
// exists for that key, it is poisoned and future lookups fail.
func (d *ModuleDict) Add(parent *Scope, m *Module) {
	if d.entries[parent] == nil {
		d.entries[parent] = make(map[string]*Module)
	}
	if _, exists := d.entries[parent][m.DefName]; exists {
		d.entries[parent][m.DefName] = ambiguousModule
		return
	}
	d.entries[parent][m.DefName] = m
}

// Find looks up defName under parent. It returns (nil, false) both
// when nothing was registered and when the entry was poisoned by a
// collision — ambiguous is silently treated as not-found.
func (d *ModuleDict) Find(parent *Scope, defName string) (*Module, bool) {
	m, ok := d.entries[parent][defName]
	if !ok || m == ambiguousModule {
		return nil, false
	}
	return m, true
}
