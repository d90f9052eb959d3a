package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bizrules/jdm"
	"github.com/bizrules/jdm/internal/document"
	"github.com/bizrules/jdm/internal/value"
	"github.com/spf13/cobra"
)

// replSession holds the documents loaded by name and the one currently
// selected by "use", mirroring the original load/use/eval command set.
type replSession struct {
	docs    map[string]*document.Document
	current string
}

func newReplCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Interactively load documents and evaluate them against contexts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRepl(cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func runRepl(in io.Reader, out io.Writer) error {
	sess := &replSession{docs: map[string]*document.Document{}}
	scanner := bufio.NewScanner(in)
	w := func(format string, args ...any) { fmt.Fprintf(out, format, args...) }

	w("jdmctl repl — type \"help\" for commands\n")
	for {
		w("> ")
		if !scanner.Scan() {
			return nil
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		cmd, args := fields[0], fields[1:]

		switch cmd {
		case "help":
			w("commands: load <name> <path>, unload <name>, list, use <name>, eval <context.json|->, help, exit\n")
		case "load":
			if len(args) != 2 {
				w("usage: load <name> <path>\n")
				continue
			}
			if err := sess.load(args[0], args[1]); err != nil {
				w("error: %v\n", err)
				continue
			}
			w("loaded %q\n", args[0])
		case "unload":
			if len(args) != 1 {
				w("usage: unload <name>\n")
				continue
			}
			delete(sess.docs, args[0])
			if sess.current == args[0] {
				sess.current = ""
			}
			w("unloaded %q\n", args[0])
		case "list":
			if len(sess.docs) == 0 {
				w("(no documents loaded)\n")
				continue
			}
			for name := range sess.docs {
				marker := " "
				if name == sess.current {
					marker = "*"
				}
				w("%s %s\n", marker, name)
			}
		case "use":
			if len(args) != 1 {
				w("usage: use <name>\n")
				continue
			}
			if _, ok := sess.docs[args[0]]; !ok {
				w("error: %q is not loaded\n", args[0])
				continue
			}
			sess.current = args[0]
			w("using %q\n", args[0])
		case "eval":
			if len(args) != 1 {
				w("usage: eval <context.json|->\n")
				continue
			}
			res, err := sess.eval(args[0])
			if err != nil {
				w("error: %v\n", err)
				continue
			}
			out, err := res.Result.ToJSON()
			if err != nil {
				w("error: %v\n", err)
				continue
			}
			var indented []byte
			if indented, err = indentJSON(out); err == nil {
				w("%s\n", indented)
			} else {
				w("%s\n", out)
			}
		case "exit", "quit":
			return nil
		default:
			w("unknown command %q, type \"help\"\n", cmd)
		}
	}
}

func (s *replSession) load(name, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	doc, err := document.Parse(data)
	if err != nil {
		return err
	}
	s.docs[name] = doc
	if s.current == "" {
		s.current = name
	}
	return nil
}

func (s *replSession) eval(contextArg string) (jdm.EvaluationResult, error) {
	if s.current == "" {
		return jdm.EvaluationResult{}, fmt.Errorf("no document selected, use \"use <name>\" first")
	}
	doc := s.docs[s.current]

	var ctxBytes []byte
	var err error
	if contextArg == "-" {
		ctxBytes = []byte("{}")
	} else {
		ctxBytes, err = os.ReadFile(contextArg)
		if err != nil {
			return jdm.EvaluationResult{}, err
		}
	}
	ctxValue, err := value.FromJSON(ctxBytes)
	if err != nil {
		return jdm.EvaluationResult{}, err
	}

	eng, err := jdm.New(jdm.WithLoader(loaderForSingleDoc(doc)))
	if err != nil {
		return jdm.EvaluationResult{}, err
	}
	return eng.EvaluateDoc(cmdContext(), doc, ctxValue, jdm.EvalOptions{IncludeTrace: true, IncludePerformance: true})
}

func indentJSON(raw []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
