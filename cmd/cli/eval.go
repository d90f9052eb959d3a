package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/bizrules/jdm"
	"github.com/bizrules/jdm/internal/document"
	"github.com/bizrules/jdm/internal/value"
	"github.com/spf13/cobra"
)

type evalConfig struct {
	docPath     string
	contextPath string
	trace       bool
	perf        bool
	timeoutMS   int64
}

func (cfg *evalConfig) Validate() error {
	if cfg.docPath == "" {
		return fmt.Errorf("--doc is required")
	}
	return nil
}

func newEvalCmd() *cobra.Command {
	cfg := &evalConfig{}

	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Evaluate one JDM document against a context and print the result",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runEval(cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.docPath, "doc", "", "path to a JDM document JSON file (required)")
	cmd.Flags().StringVar(&cfg.contextPath, "context", "", "path to an input context JSON file (default: {})")
	cmd.Flags().BoolVar(&cfg.trace, "trace", false, "include per-node execution trace")
	cmd.Flags().BoolVar(&cfg.perf, "perf", false, "include performance metrics")
	cmd.Flags().Int64Var(&cfg.timeoutMS, "timeout-ms", 0, "abort evaluation after this many milliseconds (0 = no limit)")

	return cmd
}

func runEval(cfg *evalConfig) error {
	docBytes, err := os.ReadFile(cfg.docPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", cfg.docPath, err)
	}
	doc, err := document.Parse(docBytes)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", cfg.docPath, err)
	}

	ctxBytes := []byte("{}")
	if cfg.contextPath != "" {
		ctxBytes, err = os.ReadFile(cfg.contextPath)
		if err != nil {
			return fmt.Errorf("reading %s: %w", cfg.contextPath, err)
		}
	}
	ctxValue, err := value.FromJSON(ctxBytes)
	if err != nil {
		return fmt.Errorf("parsing context: %w", err)
	}

	eng, err := jdm.New(jdm.WithLoader(loaderForSingleDoc(doc)))
	if err != nil {
		return err
	}

	res, err := eng.EvaluateDoc(cmdContext(), doc, ctxValue, jdm.EvalOptions{
		IncludeTrace:       cfg.trace,
		IncludePerformance: cfg.perf,
		MaxExecutionTimeMS: cfg.timeoutMS,
	})
	if err != nil {
		return err
	}

	out, err := res.Result.ToJSON()
	if err != nil {
		return err
	}

	var indented bytes.Buffer
	if err := json.Indent(&indented, out, "", "  "); err != nil {
		fmt.Println(string(out))
		return nil
	}
	fmt.Println(indented.String())
	return nil
}
