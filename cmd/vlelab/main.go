// Command vlelab is the CLI front-end for the vlelab Verilog-2001
// elaboration engine: it turns a YAML-described parse-tree fixture
// (the stand-in for the external lexer/parser this module doesn't
// implement) into an elaborated design graph, and exposes that graph
// as a JSON dump or via gjson path queries.
package main

import (
	"fmt"
	"os"

	"github.com/cwbudde/vlelab/cmd/vlelab/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
