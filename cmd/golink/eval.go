package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xy-planning-network/golink/redirect"
)

func newEvalCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "eval <destination> [args...]",
		Short: "Compile a destination template and evaluate args against it",
		Example: `  golink eval 'https://duckduckgo.com/{?q=$1}' golang
  golink eval 'http://google.com/{foo/$1{/bar/$2}}' x y`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(cmd, args[0], args[1:])
		},
	}
}

// runEval prints each variant of destination by arity, then what args evaluate to.
// Compiler warnings go to stderr.
func runEval(cmd *cobra.Command, destination string, args []string) error {
	warner := redirect.WarnFunc(func(msg string) {
		cmd.PrintErrln("warning:", msg)
	})

	compiled := redirect.Compile("eval", destination, redirect.WithWarner(warner))

	out := cmd.OutOrStdout()
	for _, v := range compiled.Variants() {
		if _, err := fmt.Fprintf(out, "%d\t%s\n", v.Arity, v.Text); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(out, "=>\t%s\n", compiled.Evaluate(strings.Join(args, " ")))
	return err
}
