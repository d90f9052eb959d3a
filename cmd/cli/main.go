// Package main is the jdmctl command-line entry point: load a JDM document
// from disk and evaluate it against a context, once or interactively.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// newRootCmd assembles the jdmctl command tree.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jdmctl",
		Short: "Evaluate JSON Decision Model documents",
		Long: `jdmctl loads a JDM document from disk and evaluates it against
an input context, printing the resulting output context as JSON.`,
	}

	cmd.AddCommand(newEvalCmd())
	cmd.AddCommand(newReplCmd())
	return cmd
}
