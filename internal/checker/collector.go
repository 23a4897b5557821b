// Package checker implements the semantic analysis pipeline (spec.md §2,
// §4.2-§4.5): TypeCollector, TypeBuilder, TypeChecker, and the inference
// pass that drives the TypeChecker to a fixed point over the
// InferencerManager. This is the core of the compiler.
package checker

import (
	"github.com/cool-lang/coolc/internal/ast"
	"github.com/cool-lang/coolc/internal/errors"
	"github.com/cool-lang/coolc/internal/types"
)

// CollectTypes is the first pass (spec.md §4.2): it installs the builtin
// types into a fresh Context and declares every class named in the
// program. It never touches parents, attributes, or methods, and it never
// stops at the first duplicate — every duplicate class declaration is
// reported so a single run surfaces as many collection errors as possible.
func CollectTypes(prog *ast.Program) (*types.Context, []*errors.Report) {
	ctx := types.NewContext()
	sink := &errors.Sink{}

	for _, class := range prog.Classes {
		if _, err := ctx.CreateType(class.Name); err != nil {
			sink.Add(errors.New(errors.KindSemanticError, errors.SEM001, class.Pos,
				"class %q is already declared: %s", class.Name, err))
		}
	}

	return ctx, sink.Reports()
}

// ClassByName indexes a program's class declarations by name for the
// passes that need to go from a types.Type back to its declaration site
// (for diagnostic positions) or its AST body (for type-checking).
func ClassByName(prog *ast.Program) map[string]*ast.Class {
	out := make(map[string]*ast.Class, len(prog.Classes))
	for _, c := range prog.Classes {
		out[c.Name] = c
	}
	return out
}

func isReservedTypeName(name string) bool {
	return name == ast.SelfTypeName || name == ast.AutoType
}
