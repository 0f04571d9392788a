// Package ptree is the read-only parse-tree input model. It is the
// external collaborator the elaborator consumes: lexing, preprocessing,
// and parsing happen upstream and are assumed to have already produced
// these trees, including resolved literal bit patterns for sized
// constants.
//
// Every node is immutable once built and is never mutated by the
// elaborator.
package ptree

import "github.com/cwbudde/vlelab/internal/fileset"

// Node is the capability every parse-tree node implements: it can
// report the source region it came from.
type Node interface {
	FileRegion() fileset.Region
}

// Expr is any node that can appear as an expression.
type Expr interface {
	Node
	isExpr()
}

// Stmt is any node that can appear as a statement.
type Stmt interface {
	Node
	isStmt()
}

// Item is any node that can appear in a module/generate-block body.
type Item interface {
	Node
	isItem()
}

// base embeds the shared FileRegion storage for every concrete node.
type base struct {
	Reg fileset.Region
}

// FileRegion implements Node.
func (b base) FileRegion() fileset.Region { return b.Reg }

// Attributed is embedded by item/statement kinds that can carry
// `(* ... *)` attribute instances.
type Attributed struct {
	AttrList []*AttrInstance
}

// Attrs returns the attribute instances attached to this node.
func (a Attributed) Attrs() []*AttrInstance { return a.AttrList }
