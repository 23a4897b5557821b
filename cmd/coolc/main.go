// Command coolc is the batch COOL compiler's CLI wrapper (spec.md §6): a
// positional or `-f/--file` argument naming the input file, with output
// written to the input path's `.cl` → `.mips` rename, exactly as
// original_source/src/main.py's CLI shape works.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/cool-lang/coolc/internal/config"
	"github.com/cool-lang/coolc/internal/errors"
	"github.com/cool-lang/coolc/internal/pipeline"
	"github.com/cool-lang/coolc/internal/repl"
	"github.com/cool-lang/coolc/internal/schema"
)

var (
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) > 0 && args[0] == "repl" {
		repl.New().Start(os.Stdin, os.Stdout)
		return 0
	}

	fs := flag.NewFlagSet("coolc", flag.ContinueOnError)
	file := fs.String("f", "", "input .cl file (alternative to a positional argument)")
	fs.StringVar(file, "file", "", "input .cl file (alternative to a positional argument)")
	jsonOut := fs.Bool("json", false, "emit diagnostics as JSON")
	dumpContext := fs.Bool("dump-context", false, "print the finalized type graph and exit")
	configPath := fs.String("config", "coolc.yaml", "project configuration file")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	path := *file
	if path == "" && fs.NArg() > 0 {
		path = fs.Arg(0)
	}
	if path == "" {
		fmt.Fprintln(os.Stderr, red("error:")+" no input file (use -f/--file or a positional argument)")
		return 2
	}

	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s reading %s: %s\n", red("error:"), *configPath, err)
		return 2
	}

	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s reading %s: %s\n", red("error:"), path, err)
		return 2
	}

	res := pipeline.CompileWithOptions(src, pipeline.Options{RuntimePath: cfg.RuntimePath})

	if *dumpContext {
		printContextDump(res)
	}

	if !res.OK() {
		printDiagnostics(res.Diagnostics, *jsonOut)
		return 1
	}

	outPath := outputPath(path, cfg.OutputDir)
	if err := os.WriteFile(outPath, []byte(res.MIPS), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "%s writing %s: %s\n", red("error:"), outPath, err)
		return 2
	}
	fmt.Fprintf(os.Stderr, "%s %s\n", green("wrote"), outPath)
	return 0
}

// outputPath implements spec.md §6's rename: the input path with `.cl`
// replaced by `.mips`. A non-empty outputDir (from coolc.yaml) relocates
// the result alongside a different directory instead of the source file's
// own, per SPEC_FULL.md's AMBIENT STACK config section.
func outputPath(in, outputDir string) string {
	base := filepath.Base(in)
	if strings.HasSuffix(base, ".cl") {
		base = strings.TrimSuffix(base, ".cl") + ".mips"
	} else {
		base += ".mips"
	}
	if outputDir == "" {
		return filepath.Join(filepath.Dir(in), base)
	}
	return filepath.Join(outputDir, base)
}

func printDiagnostics(reports []*errors.Report, asJSON bool) {
	if asJSON {
		data, err := errors.EncodeAll(reports)
		if err != nil {
			fmt.Fprintln(os.Stderr, red("error:")+" encoding diagnostics: "+err.Error())
			return
		}
		fmt.Println(string(data))
		return
	}
	for _, r := range reports {
		color := yellow
		if r.Kind == errors.KindTypeError || r.Kind == errors.KindNameError {
			color = red
		}
		fmt.Fprintln(os.Stderr, color(r.String()))
	}
}

func printContextDump(res *pipeline.Result) {
	if res.Context == nil {
		return
	}
	dump := struct {
		Schema string `json:"schema"`
		Types  any    `json:"types"`
	}{Schema: schema.ContextDumpV1, Types: res.Context.Dump().Types}
	data, err := json.MarshalIndent(dump, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, red("error:")+" encoding context dump: "+err.Error())
		return
	}
	fmt.Println(cyan(string(data)))
}
