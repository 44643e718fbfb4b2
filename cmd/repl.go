// Copyright © 2025 The Weft authors

package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/weftlang/weft/repl"
)

// replCmd represents the repl command
var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive Weft Lisp REPL",
	Long: `Start an interactive read-eval-print loop for Weft Lisp.

The standard library is loaded automatically.  Line editing and in-session
command history are supported via readline.  Use Ctrl-D to exit.

Example REPL session:
  weft> (+ 1 2)
  3
  weft> (define square (lambda (x) (* x x)))
  ()
  weft> (square 5)
  25
  weft> math:pi
  3.141592653589793
  weft> (help 'map)
  ...`,
	Run: func(cmd *cobra.Command, args []string) {
		repl.RunRepl(filepath.Base(os.Args[0]) + "> ")
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}
