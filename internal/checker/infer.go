package checker

import (
	"strings"

	"github.com/cool-lang/coolc/internal/ast"
	"github.com/cool-lang/coolc/internal/errors"
	"github.com/cool-lang/coolc/internal/infer"
	"github.com/cool-lang/coolc/internal/types"
)

// maxFixedPointIterations guards against a malformed manager never
// reaching a fixed point; spec.md §8 property 5 bounds genuine convergence
// at O(|ids| * |Context|), so a count far beyond that signals a bug rather
// than slow progress.
const maxFixedPointIterations = 10000

// RunInference drives TypeChecker to a fixed point, commits every
// inference id's resolved type back into the signatures TypeBuilder
// installed (spec.md §4.5), and returns the commit's inference diagnostics
// followed by the diagnostics from the final, post-commit TypeChecker run,
// which spec.md §4.4/§4.5 guarantees produces no further AUTO_TYPE
// operations.
func RunInference(prog *ast.Program, ctx *types.Context, manager *infer.Manager, tables *Tables) (*TypeChecker, []*errors.Report) {
	tc := NewTypeChecker(ctx, manager, tables)

	for i := 0; i < maxFixedPointIterations; i++ {
		_, changed := tc.Check(prog)
		if !changed {
			break
		}
	}

	commitReports := tc.commit(prog)

	finalReports, _ := tc.Check(prog)
	return tc, append(commitReports, finalReports...)
}

// commit resolves every allocated inference id via infer.Candidate and
// overwrites the AUTO_TYPE occurrence it identifies: attribute types and
// method parameter/return types are rewritten in place (tables.Attrs and
// tables.Methods hold the same *types.Attribute/*types.Method pointers
// TypeBuilder installed on the Context, so this mutation is visible to
// every later pass); let-binding ids have no standing struct to rewrite,
// so their resolved type is cached on tc.resolved and consulted by
// resolveLetType on the final run instead.
func (tc *TypeChecker) commit(prog *ast.Program) []*errors.Report {
	sink := &errors.Sink{}
	tc.resolved = make(map[int]*types.Type, tc.manager.Count())

	for id := 0; id < tc.manager.Count(); id++ {
		t, err := infer.Candidate(tc.ctx, tc.manager, id)
		if err != nil {
			tc.resolved[id] = tc.ctx.Error
		} else {
			tc.resolved[id] = t
		}
	}

	for declAttr, attr := range tc.tables.Attrs {
		if !attr.Type.IsAutoType() {
			continue
		}
		id := attr.Type.InferenceID
		tc.reportIfUnresolved(sink, id, declAttr.Pos, "attribute %q", declAttr.Name)
		attr.Type = tc.resolved[id]
	}

	for declMethod, m := range tc.tables.Methods {
		if m.ReturnType.IsAutoType() {
			id := m.ReturnType.InferenceID
			tc.reportIfUnresolved(sink, id, declMethod.Pos, "return type of method %q", declMethod.Name)
			m.ReturnType = tc.resolved[id]
		}
		for i, pt := range m.ParamTypes {
			if !pt.IsAutoType() {
				continue
			}
			id := pt.InferenceID
			tc.reportIfUnresolved(sink, id, declMethod.Formals[i].Pos,
				"parameter %q of method %q", declMethod.Formals[i].Name, declMethod.Name)
			m.ParamTypes[i] = tc.resolved[id]
		}
	}

	for binding, id := range tc.letIDs {
		tc.reportIfUnresolved(sink, id, binding.Pos, "let binding %q", binding.Name)
	}

	return sink.Reports()
}

// reportIfUnresolved records a TypeInferenceError (INF001/INF002, spec.md
// §4.5 steps 2-3) when infer.Candidate could not resolve id; it is a no-op
// otherwise. The underlying error message already distinguishes an empty
// candidate set from an ambiguous one, so it is threaded through verbatim.
func (tc *TypeChecker) reportIfUnresolved(sink *errors.Sink, id int, pos ast.Pos, format string, args ...interface{}) {
	_, err := infer.Candidate(tc.ctx, tc.manager, id)
	if err == nil {
		return
	}
	code := errors.INF001
	if strings.Contains(err.Error(), "ambiguous") {
		code = errors.INF002
	}
	args = append(args, err)
	sink.Add(errors.New(errors.KindTypeInferenceError, code, pos, format+": %s", args...))
}
