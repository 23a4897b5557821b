package checker

import (
	"github.com/cool-lang/coolc/internal/ast"
	"github.com/cool-lang/coolc/internal/errors"
	"github.com/cool-lang/coolc/internal/infer"
	"github.com/cool-lang/coolc/internal/scope"
	"github.com/cool-lang/coolc/internal/types"
)

// TypeChecker is the third pass (spec.md §4.4), and is also the engine the
// inference pass in infer.go drives to a fixed point: the same
// TypeChecker value is reused across repeated Check calls so that
// AUTO_TYPE occurrences inside let bindings (which have no InferencerManager
// id of their own until TypeChecker allocates one) keep the same id on
// every pass rather than growing a fresh one each time.
type TypeChecker struct {
	ctx     *types.Context
	manager *infer.Manager
	tables  *Tables

	letIDs   map[*ast.LetBinding]int
	resolved map[int]*types.Type // populated once by commit, post fixed-point

	sink    *errors.Sink
	changed bool
}

// NewTypeChecker constructs a checker bound to ctx, manager, and the
// Attrs/Methods correlation built by BuildTypes.
func NewTypeChecker(ctx *types.Context, manager *infer.Manager, tables *Tables) *TypeChecker {
	return &TypeChecker{
		ctx:     ctx,
		manager: manager,
		tables:  tables,
		letIDs:  make(map[*ast.LetBinding]int),
	}
}

// Check runs one full pass over the program (spec.md §4.4), annotating
// every expression with its computed type and driving manager constraint
// updates for any AUTO_TYPE occurrence encountered. It returns the pass's
// diagnostics and whether any constraint set grew, which the inference
// loop in infer.go uses to detect the fixed point (spec.md §4.5).
func (tc *TypeChecker) Check(prog *ast.Program) ([]*errors.Report, bool) {
	tc.sink = &errors.Sink{}
	tc.changed = false

	root := scope.NewRootScope()
	for _, class := range prog.Classes {
		tc.checkClass(class, root)
	}
	return tc.sink.Reports(), tc.changed
}

// checkClass builds the class-level scope (spec.md §4.4: self bound to
// SELF_TYPE(C), plus every inherited and declared attribute in inheritance
// order) and checks every attribute initializer and method body against it.
func (tc *TypeChecker) checkClass(class *ast.Class, root *scope.Scope) {
	self, ok := tc.ctx.GetType(class.Name)
	if !ok {
		return // TypeCollector already reported this; nothing to check.
	}

	classScope := root.CreateChild()
	classScope.DefineVariable("self", types.SelfTypeOf(self))
	for _, attr := range self.AllAttributes() {
		classScope.DefineVariable(attr.Name, attr.Type)
	}

	for _, decl := range class.Attributes {
		tc.checkAttribute(decl, self, classScope)
	}
	for _, decl := range class.Methods {
		tc.checkMethod(decl, self, classScope)
	}
}

func (tc *TypeChecker) checkAttribute(decl *ast.Attribute, self *types.Type, classScope *scope.Scope) {
	attr, ok := tc.tables.Attrs[decl]
	if !ok || decl.Init == nil {
		return
	}
	initType := tc.checkExpr(decl.Init, classScope, self)
	tc.requireConformsInto(attr.Type, initType, decl.Pos, errors.TC013,
		"initializer for attribute %q has type %s, which does not conform to its declared type %s",
		decl.Name, describe(initType), describe(attr.Type))
}

func (tc *TypeChecker) checkMethod(decl *ast.Method, self *types.Type, classScope *scope.Scope) {
	m, ok := tc.tables.Methods[decl]
	if !ok {
		return
	}
	methodScope := classScope.CreateChild()
	for i, name := range m.ParamNames {
		methodScope.DefineVariable(name, m.ParamTypes[i])
	}
	bodyType := tc.checkExpr(decl.Body, methodScope, self)
	tc.requireConformsInto(m.ReturnType, bodyType, decl.Pos, errors.TC014,
		"method %q's body has type %s, which does not conform to its declared return type %s",
		decl.Name, describe(bodyType), describe(m.ReturnType))
}

// requireUpperBound checks that actual conforms to bound, or, when actual
// is an unresolved AUTO_TYPE slot, records bound as an upper-bound
// constraint instead of failing (spec.md §4.4 "Use as value of an
// inference id i": upd_conforms_to(i, expected_upper_bound)).
func (tc *TypeChecker) requireUpperBound(actual, bound *types.Type, pos ast.Pos, code, format string, args ...interface{}) bool {
	if actual.IsAutoType() {
		if tc.manager.AutoToType(actual.InferenceID, bound.Concrete().Name) {
			tc.changed = true
		}
		return true
	}
	if actual.ConformsTo(bound) {
		return true
	}
	tc.sink.Add(errors.New(errors.KindTypeError, code, pos, format, args...))
	return false
}

// requireConformsInto checks that value conforms to target, the direction
// used for assignment, initializers, arguments, and return types. When
// either side is an unresolved AUTO_TYPE slot it records the appropriate
// constraint instead (spec.md §4.4's three AUTO_TYPE operations) rather
// than reporting an error.
func (tc *TypeChecker) requireConformsInto(target, value *types.Type, pos ast.Pos, code, format string, args ...interface{}) bool {
	switch {
	case target.IsAutoType() && value.IsAutoType():
		// "Conforms to another auto id j": propagate both sets between the
		// value's id (i) and the target's id (j).
		i, j := value.InferenceID, target.InferenceID
		c1 := tc.manager.UpdConformsTo(j, tc.manager.ConformsTo(i))
		c2 := tc.manager.UpdConformedBy(i, tc.manager.ConformedBy(j))
		if c1 || c2 {
			tc.changed = true
		}
		return true
	case target.IsAutoType():
		if tc.manager.TypeToAuto(target.InferenceID, value.Concrete().Name) {
			tc.changed = true
		}
		return true
	case value.IsAutoType():
		if tc.manager.AutoToType(value.InferenceID, target.Concrete().Name) {
			tc.changed = true
		}
		return true
	}
	if value.ConformsTo(target) {
		return true
	}
	tc.sink.Add(errors.New(errors.KindTypeError, code, pos, format, args...))
	return false
}

// describe renders a type for diagnostic messages, since AUTO_TYPE slots
// still carrying an unresolved inference id should print as "AUTO_TYPE"
// rather than exposing the numeric id.
func describe(t *types.Type) string {
	if t.IsAutoType() {
		return "AUTO_TYPE"
	}
	if t.IsSelfType() {
		return "SELF_TYPE"
	}
	return t.Name
}
