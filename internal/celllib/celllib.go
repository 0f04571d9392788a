// Package celllib implements the cell-library lookup used by the
// elaborator to resolve primitive-class library cells. The library is
// described by a YAML document loaded with goccy/go-yaml.
package celllib

import (
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
)

// Direction is a cell pin's signal direction.
type Direction string

const (
	DirInput  Direction = "input"
	DirOutput Direction = "output"
	DirInout  Direction = "inout"
)

// Pin describes one pin of a library cell.
type Pin struct {
	Name string    `yaml:"name"`
	Dir  Direction `yaml:"dir"`
}

// Cell describes one library cell: its pin count and per-pin direction.
type Cell struct {
	Name string `yaml:"name"`
	Pins []Pin  `yaml:"pins"`
}

// PinCount returns the number of pins on the cell.
func (c *Cell) PinCount() int { return len(c.Pins) }

// PinDirection returns the direction of the pin at the given index.
func (c *Cell) PinDirection(index int) (Direction, bool) {
	if index < 0 || index >= len(c.Pins) {
		return "", false
	}
	return c.Pins[index].Dir, true
}

// yamlDoc is the on-disk shape of a cell library file.
type yamlDoc struct {
	Cells []Cell `yaml:"cells"`
}

// Library is a name-indexed collection of cells.
type Library struct {
	cells map[string]*Cell
}

// NewLibrary creates an empty library (useful for tests and for the
// "no cell library configured" elaboration mode).
func NewLibrary() *Library {
	return &Library{cells: make(map[string]*Cell)}
}

// Load parses a YAML cell-library document.
func Load(data []byte) (*Library, error) {
	var doc yamlDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("celllib: parsing library: %w", err)
	}
	lib := NewLibrary()
	for i := range doc.Cells {
		c := doc.Cells[i]
		lib.cells[strings.ToLower(c.Name)] = &c
	}
	return lib, nil
}

// Lookup finds a cell by name (case-insensitive, matching Verilog's
// usual cell/module naming).
func (l *Library) Lookup(name string) (*Cell, bool) {
	c, ok := l.cells[strings.ToLower(name)]
	return c, ok
}

// Add registers a cell programmatically (used by tests and by callers
// building a library without a YAML file).
func (l *Library) Add(c Cell) {
	l.cells[strings.ToLower(c.Name)] = &c
}
