package elab

import "github.com/cwbudde/vlelab/internal/ptree"

// AttrEntry is one resolved `(* name = expr *)` entry.
type AttrEntry struct {
	Name  string
	Value Expr // nil when the attribute carries no value
}

// AttrList is the pair of definition-side and instance-side attribute
// buckets attached to one elaborated object.
type AttrList struct {
	Definition []AttrEntry
	Instance   []AttrEntry
}

// AttributeIndex associates elaborated objects with attribute lists,
// deduplicating the expensive per-instance resolution by the identity
// of the source ptree.AttrInstance node: the same module template
// instantiated many times (module arrays, repeated instances) shares
// one parse-tree attribute list, so it only needs resolving once.
type AttributeIndex struct {
	byObject map[any]*AttrList
	resolved map[*ptree.AttrInstance][]AttrEntry
}

// NewAttributeIndex creates an empty attribute index.
func NewAttributeIndex() *AttributeIndex {
	return &AttributeIndex{
		byObject: make(map[any]*AttrList),
		resolved: make(map[*ptree.AttrInstance][]AttrEntry),
	}
}

// cachedResolve returns the resolved entries for inst, computing and
// caching them on first use via resolve.
func (idx *AttributeIndex) cachedResolve(inst *ptree.AttrInstance, resolve func(*ptree.AttrInstance) []AttrEntry) []AttrEntry {
	if entries, ok := idx.resolved[inst]; ok {
		return entries
	}
	entries := resolve(inst)
	idx.resolved[inst] = entries
	return entries
}

// Attach records the definition-side and/or instance-side attribute
// instances for obj, resolving each instance through the dedup cache.
// Per the scheduler's contract this must only ever be called from the
// completion phase: earlier phases never attach attributes, which is
// why an object elaborated but never completed has no discoverable
// attributes at all.
func (idx *AttributeIndex) Attach(obj any, defSide, instSide []*ptree.AttrInstance, resolve func(*ptree.AttrInstance) []AttrEntry) {
	list := &AttrList{}
	for _, inst := range defSide {
		list.Definition = append(list.Definition, idx.cachedResolve(inst, resolve)...)
	}
	for _, inst := range instSide {
		list.Instance = append(list.Instance, idx.cachedResolve(inst, resolve)...)
	}
	idx.byObject[obj] = list
}

// Find returns the attribute entries attached to obj: definition-side
// when definitionSide is true, instance-side otherwise. Returns nil if
// obj has no attached attributes (never completed, or carried none).
func (idx *AttributeIndex) Find(obj any, definitionSide bool) []AttrEntry {
	list, ok := idx.byObject[obj]
	if !ok {
		return nil
	}
	if definitionSide {
		return list.Definition
	}
	return list.Instance
}
