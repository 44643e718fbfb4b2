// Copyright © 2025 The Weft authors

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/weftlang/weft/diagnostic"
	"github.com/weftlang/weft/lisp"
	"github.com/weftlang/weft/lisp/lisplib"
	"github.com/weftlang/weft/parser"
	"github.com/weftlang/weft/repl"
)

var (
	runExpression bool
	runPrint      bool
	runGCStats    bool
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run lisp code",
	Long:  `Run lisp code supplied via the command line or a file.`,
	Run: func(cmd *cobra.Command, args []string) {
		env := lisp.NewEnv(nil)
		rc := lisp.InitializeUserEnv(env, lisp.WithReader(parser.NewReader()))
		if !rc.IsNil() {
			fmt.Fprintln(os.Stderr, rc)
			os.Exit(1)
		}
		rc = lisplib.LoadLibrary(env)
		if !rc.IsNil() {
			fmt.Fprintln(os.Stderr, rc)
			os.Exit(1)
		}
		for i := range args {
			res := runSource(env, args[i])
			if res.Type == lisp.LError {
				renderRunError(res)
				os.Exit(1)
			}
			if runPrint {
				fmt.Println(res)
			}
		}
		if runGCStats {
			unreachable := env.Runtime.CountUnreachableEnvs()
			swept := env.Runtime.CollectGarbage()
			fmt.Fprintf(os.Stderr, "gc: %d unreachable environments, %d swept, %d live\n",
				unreachable, swept, env.Runtime.NumEnvs())
		}
	},
}

func runSource(env *lisp.LEnv, arg string) *lisp.LVal {
	if runExpression {
		return env.LoadString("command-line", arg)
	}
	f, err := os.Open(arg) //#nosec G304
	if err != nil {
		return env.Error(err)
	}
	defer f.Close() //nolint:errcheck // read-only file
	return env.Load(filepath.Base(arg), f)
}

func renderRunError(res *lisp.LVal) {
	r := &diagnostic.Renderer{Color: colorMode()}
	err := r.Render(os.Stderr, repl.LispErrorDiagnostic(res))
	if err != nil {
		fmt.Fprintln(os.Stderr, res)
	}
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVarP(&runExpression, "expression", "e", false,
		"Interpret arguments as lisp expressions")
	runCmd.Flags().BoolVarP(&runPrint, "print", "p", false,
		"Print expression values to stdout")
	runCmd.Flags().BoolVar(&runGCStats, "gc-stats", false,
		"Collect garbage after running and report frame statistics")
}
