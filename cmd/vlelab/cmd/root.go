package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version information (set by build flags), following the teacher's
// cmd/dwscript/cmd/root.go convention.
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "vlelab",
	Short: "Verilog-2001 elaboration engine",
	Long: `vlelab elaborates an already-parsed Verilog-2001 design (hierarchical
name resolution, generate expansion, parameter/defparam overrides,
constant-expression and constant-function evaluation) into a concrete,
linked design graph.

Since lexing and parsing are out of scope for the elaborator itself,
vlelab reads its input as a YAML-described parse-tree fixture rather
than Verilog source text directly.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose phase-by-phase tracing")
}
