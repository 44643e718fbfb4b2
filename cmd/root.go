// Copyright © 2025 The Weft authors

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/weftlang/weft/diagnostic"
)

var (
	cfgFile   string
	colorFlag string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "weft",
	Short: "Weft — Embedded Lisp interpreter",
	Long: `Weft is an embedded Lisp interpreter implemented in Go.  It provides a
standalone CLI for running and exploring Weft Lisp code.

Getting started:
  weft run file.lisp           Run a Lisp source file
  weft run -e '(+ 1 2)'        Evaluate an expression
  weft repl                    Start an interactive REPL

Language overview:
  Weft is a Lisp-1 dialect (single namespace for functions and values).
  Booleans are the symbols true and false.  The empty list () is nil/falsey.
  Functions are created with (lambda (args) body) and bound with define.
  Macros are defined with (defmacro name (args) body).

Standard library prefixes:
  math:     Mathematical functions and constants (math:pi, math:sqrt, ...)
  string:   String manipulation (string:split, string:join, string:upper, ...)
  time:     Wall clock operations (time:now, time:sleep, time:format)

Documentation is built in: use (help 'symbol) in the REPL.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().  It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.weft.yaml)")
	rootCmd.PersistentFlags().StringVar(&colorFlag, "color", "auto",
		`Control colored output: "auto", "always", or "never".`)
}

// colorMode maps the --color flag to a diagnostic rendering mode.
func colorMode() diagnostic.ColorMode {
	mode := colorFlag
	if viper.IsSet("color") {
		mode = viper.GetString("color")
	}
	switch mode {
	case "always":
		return diagnostic.ColorAlways
	case "never":
		return diagnostic.ColorNever
	default:
		return diagnostic.ColorAuto
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".weft" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".weft")
	}

	viper.SetEnvPrefix("weft")
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
