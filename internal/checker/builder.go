package checker

import (
	"github.com/cool-lang/coolc/internal/ast"
	"github.com/cool-lang/coolc/internal/errors"
	"github.com/cool-lang/coolc/internal/infer"
	"github.com/cool-lang/coolc/internal/types"
)

// Tables correlates AST declaration nodes with the types.Attribute/
// types.Method values TypeBuilder installed for them, so TypeChecker can go
// straight from an `*ast.Attribute`/`*ast.Method` to its resolved signature
// without a fragile name-based re-lookup (which would break under
// duplicate declarations TypeBuilder has already flagged as errors).
type Tables struct {
	Attrs   map[*ast.Attribute]*types.Attribute
	Methods map[*ast.Method]*types.Method
}

// BuildTypes is the second pass (spec.md §4.3): resolve every class's
// parent, reject cycles and inheritance from sealed types, then install
// every attribute and method signature, allocating a fresh inference id
// for each AUTO_TYPE occurrence.
func BuildTypes(prog *ast.Program, ctx *types.Context) (*infer.Manager, *Tables, []*errors.Report) {
	sink := &errors.Sink{}
	classes := ClassByName(prog)
	manager := infer.NewManager()
	tables := &Tables{
		Attrs:   make(map[*ast.Attribute]*types.Attribute),
		Methods: make(map[*ast.Method]*types.Method),
	}

	resolveParents(prog, ctx, classes, sink)
	if sink.HasErrors() {
		return manager, tables, sink.Reports()
	}

	order := topoOrder(ctx)
	detectCycles(ctx, classes, sink)
	if sink.HasErrors() {
		return manager, tables, sink.Reports()
	}

	for _, t := range order {
		class := classes[t.Name]
		if class == nil {
			continue // builtin
		}
		defineAttributes(class, t, ctx, manager, tables, sink)
		defineMethods(class, t, ctx, manager, tables, sink)
	}

	return manager, tables, sink.Reports()
}

func resolveParents(prog *ast.Program, ctx *types.Context, classes map[string]*ast.Class, sink *errors.Sink) {
	for _, class := range prog.Classes {
		t, _ := ctx.GetType(class.Name)

		parentName := "Object"
		if class.HasParent {
			parentName = class.Parent
		}

		if isReservedTypeName(parentName) {
			sink.Add(errors.New(errors.KindSemanticError, errors.SEM008, class.Pos,
				"class %q may not inherit from %q", class.Name, parentName))
			continue
		}

		parent, ok := ctx.GetType(parentName)
		if !ok {
			sink.Add(errors.New(errors.KindSemanticError, errors.SEM002, class.Pos,
				"class %q inherits from undefined type %q", class.Name, parentName))
			continue
		}
		if !parent.CanBeInherited {
			sink.Add(errors.New(errors.KindSemanticError, errors.SEM003, class.Pos,
				"class %q may not inherit from sealed type %q", class.Name, parentName))
			continue
		}

		t.Parent = parent
	}
}

// detectCycles traces each user type's parent chain; if it does not reach a
// nil parent (the root, Object) within the number of declared types, the
// chain loops and the traced type is reported once. Every user type whose
// chain loops is reported, including one whose chain only leads into a
// cycle (spec.md §4.3: "abort with an error per cycle member").
func detectCycles(ctx *types.Context, classes map[string]*ast.Class, sink *errors.Sink) {
	limit := len(ctx.Types()) + 1
	for _, t := range ctx.Types() {
		if t.Kind != types.KindUser {
			continue
		}
		steps := 0
		cur := t
		for cur != nil {
			if steps > limit {
				class := classes[t.Name]
				sink.Add(errors.New(errors.KindSemanticError, errors.SEM004, class.Pos,
					"inheritance cycle detected starting at class %q", t.Name))
				break
			}
			cur = cur.Parent
			steps++
		}
	}
}

// topoOrder returns every user type in parent-before-child order so
// attribute/method definition can safely consult inherited members. It
// assumes resolveParents has already run. BuildTypes computes it before
// detectCycles; a cycle leaves its members out of the order, which is fine
// since BuildTypes aborts on cycle errors before using this order for
// definitions.
func topoOrder(ctx *types.Context) []*types.Type {
	processed := make(map[*types.Type]bool)
	var remaining []*types.Type
	for _, t := range ctx.Types() {
		if t.Kind == types.KindUser {
			remaining = append(remaining, t)
		} else {
			processed[t] = true
		}
	}

	var order []*types.Type
	for len(remaining) > 0 {
		progressed := false
		var next []*types.Type
		for _, t := range remaining {
			if t.Parent != nil && processed[t.Parent] {
				order = append(order, t)
				processed[t] = true
				progressed = true
			} else {
				next = append(next, t)
			}
		}
		remaining = next
		if !progressed {
			// The remaining types are in or behind a cycle; stop rather
			// than loop forever. detectCycles reports them afterwards.
			break
		}
	}
	return order
}

func defineAttributes(class *ast.Class, t *types.Type, ctx *types.Context, manager *infer.Manager, tables *Tables, sink *errors.Sink) {
	for _, decl := range class.Attributes {
		if _, exists := t.GetAttribute(decl.Name); exists {
			sink.Add(errors.New(errors.KindAttributeError, errors.SEM005, decl.Pos,
				"attribute %q is already defined in %q or an ancestor", decl.Name, t.Name))
			continue
		}

		attrType := resolveDeclaredType(decl.Type, t, ctx, manager, decl.Pos, sink)
		attr := &types.Attribute{
			Name: decl.Name,
			Type: attrType,
			Init: decl.Init,
		}
		t.DefineAttribute(attr)
		tables.Attrs[decl] = attr
	}
}

func defineMethods(class *ast.Class, t *types.Type, ctx *types.Context, manager *infer.Manager, tables *Tables, sink *errors.Sink) {
	for _, decl := range class.Methods {
		for _, existing := range t.Methods {
			if existing.Name == decl.Name {
				sink.Add(errors.New(errors.KindSemanticError, errors.SEM006, decl.Pos,
					"method %q is already defined in %q", decl.Name, t.Name))
			}
		}

		paramNames := make([]string, len(decl.Formals))
		paramTypes := make([]*types.Type, len(decl.Formals))
		for i, f := range decl.Formals {
			paramNames[i] = f.Name
			paramTypes[i] = resolveDeclaredType(f.Type, t, ctx, manager, f.Pos, sink)
		}
		returnType := resolveDeclaredType(decl.ReturnType, t, ctx, manager, decl.Pos, sink)

		method := &types.Method{
			Name:       decl.Name,
			ParamNames: paramNames,
			ParamTypes: paramTypes,
			ReturnType: returnType,
			Body:       decl.Body,
		}

		if t.Parent != nil {
			if parentMethod, ok := t.Parent.GetMethod(decl.Name); ok {
				if !types.SameSignature(parentMethod, method) {
					sink.Add(errors.New(errors.KindSemanticError, errors.SEM007, decl.Pos,
						"method %q does not match the signature inherited from an ancestor", decl.Name))
				}
			}
		}

		t.DefineMethod(method)
		tables.Methods[decl] = method
	}
}

// resolveDeclaredType resolves a type name as it appears in an attribute,
// formal, or return-type position. AUTO_TYPE allocates a fresh inference id
// (spec.md §4.3); SELF_TYPE binds to owner; an unknown name is reported and
// recovered as the <error> type so downstream passes keep going.
func resolveDeclaredType(name string, owner *types.Type, ctx *types.Context, manager *infer.Manager, pos ast.Pos, sink *errors.Sink) *types.Type {
	if name == ast.AutoType {
		id := manager.AssignID()
		return types.NewAutoType(id)
	}
	t, ok := ctx.ResolveTypeName(name, owner)
	if !ok {
		sink.Add(errors.New(errors.KindNameError, errors.SEM002, pos,
			"unknown type %q", name))
		return ctx.Error
	}
	return t
}
