// Package repl implements the interactive type-checking shell listed under
// SPEC_FULL.md "AMBIENT STACK": a line is compiled as a one-class,
// one-method COOL program wrapping
// `class Main inherits IO { main(): Object { <line> } };`, and the REPL
// reports the line's computed type or its diagnostics. Grounded in
// ailang/internal/repl/repl.go's liner-based loop and command dispatch.
package repl

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	"github.com/cool-lang/coolc/internal/pipeline"
	"github.com/cool-lang/coolc/internal/types"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
	dim    = color.New(color.Faint).SprintFunc()
)

// REPL is a minimal, stateless (each line recompiles from scratch) COOL
// type-checking shell. It does not evaluate expressions: spec.md's Non-goals
// exclude an interpreter, so the REPL's value is showing what the checker
// infers for a snippet, not running it.
type REPL struct {
	history []string
}

func New() *REPL {
	return &REPL{}
}

// Start runs the read-eval-print loop until EOF or :quit. Lines are read
// from the terminal through liner, not from in; output goes to out.
func (r *REPL) Start(in io.Reader, out io.Writer) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetMultiLineMode(false)

	historyFile := filepath.Join(os.TempDir(), ".coolc_history")
	if f, err := os.Open(historyFile); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}

	line.SetCompleter(func(l string) (c []string) {
		if strings.HasPrefix(l, ":") {
			for _, cmd := range []string{":help", ":quit", ":type", ":history"} {
				if strings.HasPrefix(cmd, l) {
					c = append(c, cmd)
				}
			}
		}
		return
	})

	fmt.Fprintf(out, "%s\n", bold("coolc repl"))
	fmt.Fprintln(out, dim("Type :help for help, :quit to exit"))

	for {
		input, err := line.Prompt("cool> ")
		if err == io.EOF {
			fmt.Fprintln(out, green("\nGoodbye!"))
			break
		}
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", red("error"), err)
			continue
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		line.AppendHistory(input)
		r.history = append(r.history, input)

		if strings.HasPrefix(input, ":") {
			if r.handleCommand(input, out) {
				break
			}
			continue
		}

		r.evalLine(input, out)
	}

	if f, err := os.Create(historyFile); err == nil {
		_, _ = line.WriteHistory(f)
		f.Close()
	}
}

// handleCommand processes a `:`-prefixed command and reports whether the
// loop should stop.
func (r *REPL) handleCommand(cmd string, out io.Writer) bool {
	switch strings.Fields(cmd)[0] {
	case ":quit", ":q", ":exit":
		fmt.Fprintln(out, green("Goodbye!"))
		return true
	case ":help", ":h":
		fmt.Fprintln(out, "Enter a COOL expression; it's wrapped in Main.main and type-checked.")
		fmt.Fprintln(out, ":history   show entered lines")
		fmt.Fprintln(out, ":quit      exit")
	case ":history":
		for i, h := range r.history {
			fmt.Fprintf(out, "%3d  %s\n", i+1, h)
		}
	default:
		fmt.Fprintf(out, "%s: unknown command %q\n", yellow("warning"), cmd)
	}
	return false
}

// evalLine compiles expr as the sole body of Main.main and reports its
// computed type, or the diagnostics that prevented that.
func (r *REPL) evalLine(expr string, out io.Writer) {
	src := wrap(expr)
	res := pipeline.Compile([]byte(src))
	if !res.OK() {
		for _, diag := range res.Diagnostics {
			fmt.Fprintln(out, red(diag.String()))
		}
		return
	}
	mainType := mainReturnType(res)
	fmt.Fprintf(out, "%s %s\n", cyan("=>"), mainType)
}

func wrap(expr string) string {
	return "class Main inherits IO {\n\tmain(): Object {\n\t\t" + expr + "\n\t};\n};\n"
}

// mainReturnType reads the computed type the type checker recorded on
// Main.main's body, falling back to a generic acknowledgement when no type
// was recorded.
func mainReturnType(res *pipeline.Result) string {
	if res.Program == nil {
		return "ok"
	}
	for _, class := range res.Program.Classes {
		if class.Name != "Main" {
			continue
		}
		for _, m := range class.Methods {
			if m.Name == "main" && m.Body != nil {
				if t, ok := m.Body.ComputedType().(*types.Type); ok && t != nil {
					return t.Name
				}
			}
		}
	}
	return "ok"
}
