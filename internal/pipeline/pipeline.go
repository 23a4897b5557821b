// Package pipeline wires every compiler pass into the single Compile call
// spec.md §2 and §6 describe: lex, parse, collect, build, check/infer,
// lower, emit. Each stage's diagnostics are reported as soon as they
// exist; a non-empty diagnostic list after any pass aborts the pipeline
// before the next pass runs (spec.md §7).
package pipeline

import (
	"os"

	"github.com/cool-lang/coolc/internal/ast"
	"github.com/cool-lang/coolc/internal/checker"
	"github.com/cool-lang/coolc/internal/cil"
	"github.com/cool-lang/coolc/internal/codegen/mips"
	"github.com/cool-lang/coolc/internal/errors"
	"github.com/cool-lang/coolc/internal/parser"
	"github.com/cool-lang/coolc/internal/types"
)

// Result carries everything a caller (the CLI, a scenario fixture, a REPL
// session) might want out of a compile run: the finalized Context, the
// annotated AST, every diagnostic raised, and — only when diagnostics are
// empty — the emitted MIPS text.
type Result struct {
	Program     *ast.Program
	Context     *types.Context
	Diagnostics []*errors.Report
	MIPS        string
}

// OK reports whether the run produced no diagnostics at all.
func (r *Result) OK() bool { return len(r.Diagnostics) == 0 }

// Options carries the project-level knobs coolc.yaml (internal/config) can
// set that affect a single Compile run.
type Options struct {
	// RuntimePath, when non-empty, is read and concatenated onto emitted
	// MIPS instead of internal/codegen/mips.RuntimeLibrary.
	RuntimePath string
}

// Compile runs the full pipeline over src with the default Options (the
// built-in runtime library, no other overrides).
func Compile(src []byte) *Result {
	return CompileWithOptions(src, Options{})
}

// CompileWithOptions runs the full pipeline over src and returns as much of
// Result as the run got to before its first non-empty diagnostic batch
// (spec.md §7: "the first pass that accumulates any error aborts the
// pipeline before the next pass runs").
func CompileWithOptions(src []byte, opts Options) *Result {
	prog, reports := parser.Parse(src)
	res := &Result{Program: prog}
	if len(reports) > 0 {
		res.Diagnostics = reports
		return res
	}

	ctx, collectReports := checker.CollectTypes(prog)
	res.Context = ctx
	if len(collectReports) > 0 {
		res.Diagnostics = collectReports
		return res
	}

	manager, tables, buildReports := checker.BuildTypes(prog, ctx)
	if len(buildReports) > 0 {
		res.Diagnostics = buildReports
		return res
	}

	_, inferReports := checker.RunInference(prog, ctx, manager, tables)
	if len(inferReports) > 0 {
		res.Diagnostics = inferReports
		return res
	}

	lowered := cil.Lower(prog, ctx)

	if opts.RuntimePath == "" {
		res.MIPS = mips.Emit(lowered)
		return res
	}

	runtime, err := os.ReadFile(opts.RuntimePath)
	if err != nil {
		res.Diagnostics = []*errors.Report{errors.New(errors.KindSemanticError, errors.ASM002, ast.Pos{},
			"runtime-path %q could not be read: %s", opts.RuntimePath, err)}
		return res
	}
	res.MIPS = mips.EmitWithRuntime(lowered, string(runtime))
	return res
}
