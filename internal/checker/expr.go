package checker

import (
	"github.com/cool-lang/coolc/internal/ast"
	"github.com/cool-lang/coolc/internal/errors"
	"github.com/cool-lang/coolc/internal/scope"
	"github.com/cool-lang/coolc/internal/types"
)

// checkExpr types one expression node (spec.md §4.4's "Typing rules"),
// recording the result on the node itself and returning it so callers can
// thread it into enclosing rules without a second lookup. self is the
// enclosing class, used to resolve SELF_TYPE and self-dispatch.
func (tc *TypeChecker) checkExpr(e ast.Expr, s *scope.Scope, self *types.Type) *types.Type {
	t := tc.typeOf(e, s, self)
	e.SetComputedType(t)
	return t
}

func (tc *TypeChecker) typeOf(e ast.Expr, s *scope.Scope, self *types.Type) *types.Type {
	switch n := e.(type) {
	case *ast.IntLit:
		return tc.ctx.Int
	case *ast.StringLit:
		return tc.ctx.String
	case *ast.BoolLit:
		return tc.ctx.Bool
	case *ast.Self:
		return types.SelfTypeOf(self)
	case *ast.Ident:
		return tc.checkIdent(n, s)
	case *ast.Assign:
		return tc.checkAssign(n, s, self)
	case *ast.BinOp:
		return tc.checkBinOp(n, s, self)
	case *ast.Not:
		operand := tc.checkExpr(n.Expr, s, self)
		tc.requireUpperBound(operand, tc.ctx.Bool, n.Pos,
			errors.TC005, "not requires a Bool operand, got %s", describe(operand))
		return tc.ctx.Bool
	case *ast.Complement:
		operand := tc.checkExpr(n.Expr, s, self)
		tc.requireUpperBound(operand, tc.ctx.Int, n.Pos,
			errors.TC006, "~ requires an Int operand, got %s", describe(operand))
		return tc.ctx.Int
	case *ast.IsVoid:
		tc.checkExpr(n.Expr, s, self)
		return tc.ctx.Bool
	case *ast.If:
		return tc.checkIf(n, s, self)
	case *ast.While:
		return tc.checkWhile(n, s, self)
	case *ast.Block:
		return tc.checkBlock(n, s, self)
	case *ast.Let:
		return tc.checkLet(n, s, self)
	case *ast.Case:
		return tc.checkCase(n, s, self)
	case *ast.New:
		return tc.checkNew(n, self)
	case *ast.Dispatch:
		return tc.checkDispatch(n, s, self)
	case *ast.StaticDispatch:
		return tc.checkStaticDispatch(n, s, self)
	case *ast.SelfDispatch:
		return tc.checkSelfDispatch(n, s, self)
	}
	return tc.ctx.Error
}

func (tc *TypeChecker) checkIdent(n *ast.Ident, s *scope.Scope) *types.Type {
	v := s.FindVariable(n.Name)
	if v == nil {
		tc.sink.Add(errors.New(errors.KindNameError, errors.TC001, n.Pos,
			"undeclared identifier %q", n.Name))
		return tc.ctx.Error
	}
	return v.Type
}

func (tc *TypeChecker) checkAssign(n *ast.Assign, s *scope.Scope, self *types.Type) *types.Type {
	rhs := tc.checkExpr(n.Expr, s, self)
	if n.Name == "self" {
		tc.sink.Add(errors.New(errors.KindTypeError, errors.TC010, n.Pos, "cannot assign to self"))
		return rhs
	}
	v := s.FindVariable(n.Name)
	if v == nil {
		tc.sink.Add(errors.New(errors.KindNameError, errors.TC001, n.Pos,
			"undeclared identifier %q", n.Name))
		return rhs
	}
	tc.requireConformsInto(v.Type, rhs, n.Pos, errors.TC004,
		"cannot assign a value of type %s to %q, declared %s", describe(rhs), n.Name, describe(v.Type))
	return rhs
}

func (tc *TypeChecker) checkBinOp(n *ast.BinOp, s *scope.Scope, self *types.Type) *types.Type {
	left := tc.checkExpr(n.Left, s, self)
	right := tc.checkExpr(n.Right, s, self)

	switch n.Op {
	case ast.OpAdd, ast.OpSub, ast.OpMul, ast.OpDiv:
		tc.requireUpperBound(left, tc.ctx.Int, n.Pos, errors.TC006, "arithmetic requires an Int operand, got %s", describe(left))
		tc.requireUpperBound(right, tc.ctx.Int, n.Pos, errors.TC006, "arithmetic requires an Int operand, got %s", describe(right))
		return tc.ctx.Int
	case ast.OpLt, ast.OpLe:
		tc.requireUpperBound(left, tc.ctx.Int, n.Pos, errors.TC006, "comparison requires an Int operand, got %s", describe(left))
		tc.requireUpperBound(right, tc.ctx.Int, n.Pos, errors.TC006, "comparison requires an Int operand, got %s", describe(right))
		return tc.ctx.Bool
	case ast.OpEq:
		tc.checkEquality(left, right, n.Pos)
		return tc.ctx.Bool
	}
	return tc.ctx.Error
}

// checkEquality implements spec.md §4.4: if either side is a builtin
// Int/String/Bool, both sides must be the same such builtin; any other
// pairing is permitted (both sides already conform to Object).
func (tc *TypeChecker) checkEquality(left, right *types.Type, pos ast.Pos) {
	if left.IsAutoType() || right.IsAutoType() {
		return // resolved on a later pass once both sides are concrete.
	}
	lc, rc := left.Concrete(), right.Concrete()
	if isBuiltinValueKind(lc) || isBuiltinValueKind(rc) {
		if !lc.Equals(rc) {
			tc.sink.Add(errors.New(errors.KindTypeError, errors.TC007, pos,
				"cannot compare %s and %s for equality", describe(left), describe(right)))
		}
	}
}

func isBuiltinValueKind(t *types.Type) bool {
	switch t.Kind {
	case types.KindInt, types.KindString, types.KindBool:
		return true
	}
	return false
}

func (tc *TypeChecker) checkIf(n *ast.If, s *scope.Scope, self *types.Type) *types.Type {
	cond := tc.checkExpr(n.Cond, s, self)
	tc.requireUpperBound(cond, tc.ctx.Bool, n.Pos, errors.TC005, "if condition must be Bool, got %s", describe(cond))
	thenType := tc.checkExpr(n.Then, s, self)
	elseType := tc.checkExpr(n.Else, s, self)
	return types.Join(thenType, elseType)
}

func (tc *TypeChecker) checkWhile(n *ast.While, s *scope.Scope, self *types.Type) *types.Type {
	cond := tc.checkExpr(n.Cond, s, self)
	tc.requireUpperBound(cond, tc.ctx.Bool, n.Pos, errors.TC005, "while condition must be Bool, got %s", describe(cond))
	tc.checkExpr(n.Body, s, self)
	return tc.ctx.Object
}

func (tc *TypeChecker) checkBlock(n *ast.Block, s *scope.Scope, self *types.Type) *types.Type {
	result := tc.ctx.Object
	for _, e := range n.Exprs {
		result = tc.checkExpr(e, s, self)
	}
	return result
}

func (tc *TypeChecker) checkLet(n *ast.Let, s *scope.Scope, self *types.Type) *types.Type {
	cur := s
	for _, b := range n.Bindings {
		declared := tc.resolveLetType(b, self)
		if b.Init != nil {
			initType := tc.checkExpr(b.Init, cur, self)
			tc.requireConformsInto(declared, initType, b.Pos, errors.TC013,
				"initializer for %q has type %s, which does not conform to declared type %s",
				b.Name, describe(initType), describe(declared))
		}
		child := cur.CreateChild()
		child.DefineVariable(b.Name, declared)
		cur = child
	}
	return tc.checkExpr(n.Body, cur, self)
}

// resolveLetType resolves a let binding's declared type, allocating (and
// thereafter reusing, keyed by the binding's own AST node) a persistent
// inference id for AUTO_TYPE so repeated TypeChecker passes in the
// inference loop converge on the same slot instead of each minting a fresh
// one (spec.md §4.5's fixed point assumes a stable id per occurrence).
func (tc *TypeChecker) resolveLetType(b *ast.LetBinding, self *types.Type) *types.Type {
	if b.Type == ast.AutoType {
		id, ok := tc.letIDs[b]
		if !ok {
			id = tc.manager.AssignID()
			tc.letIDs[b] = id
		}
		if resolved, done := tc.resolved[id]; done {
			return resolved
		}
		return types.NewAutoType(id)
	}
	t, ok := tc.ctx.ResolveTypeName(b.Type, self)
	if !ok {
		tc.sink.Add(errors.New(errors.KindNameError, errors.TC002, b.Pos, "unknown type %q", b.Type))
		return tc.ctx.Error
	}
	return t
}

func (tc *TypeChecker) checkCase(n *ast.Case, s *scope.Scope, self *types.Type) *types.Type {
	tc.checkExpr(n.Scrutinee, s, self)

	var joined *types.Type
	seen := make(map[string]bool)
	for _, br := range n.Branches {
		if br.Type == ast.SelfTypeName || br.Type == ast.AutoType {
			tc.sink.Add(errors.New(errors.KindTypeError, errors.TC008, br.Pos,
				"case branch type must be a declared class, not %s", br.Type))
			continue
		}
		bt, ok := tc.ctx.GetType(br.Type)
		if !ok {
			tc.sink.Add(errors.New(errors.KindNameError, errors.TC008, br.Pos, "unknown type %q in case branch", br.Type))
			continue
		}
		if seen[br.Type] {
			tc.sink.Add(errors.New(errors.KindTypeError, errors.TC011, br.Pos,
				"duplicate case branch type %q", br.Type))
			continue
		}
		seen[br.Type] = true

		child := s.CreateChild()
		child.DefineVariable(br.Name, bt)
		bodyType := tc.checkExpr(br.Body, child, self)
		if joined == nil {
			joined = bodyType
		} else {
			joined = types.Join(joined, bodyType)
		}
	}
	if joined == nil {
		return tc.ctx.Error
	}
	return joined
}

func (tc *TypeChecker) checkNew(n *ast.New, self *types.Type) *types.Type {
	t, ok := tc.ctx.ResolveTypeName(n.Type, self)
	if !ok {
		tc.sink.Add(errors.New(errors.KindNameError, errors.TC002, n.Pos, "unknown type %q", n.Type))
		return tc.ctx.Error
	}
	return t
}

func (tc *TypeChecker) checkDispatch(n *ast.Dispatch, s *scope.Scope, self *types.Type) *types.Type {
	recv := tc.checkExpr(n.Receiver, s, self)
	concrete := recv.Concrete()
	if concrete.IsAutoType() {
		tc.checkArgs(n.Args, s, self, nil)
		return tc.ctx.Error
	}
	m, ok := concrete.GetMethod(n.Method)
	if !ok {
		tc.sink.Add(errors.New(errors.KindNameError, errors.TC003, n.Pos,
			"%s has no method %q", describe(recv), n.Method))
		tc.checkArgs(n.Args, s, self, nil)
		return tc.ctx.Error
	}
	tc.checkArgs(n.Args, s, self, m.ParamTypes)
	return substituteSelfType(m.ReturnType, recv)
}

func (tc *TypeChecker) checkStaticDispatch(n *ast.StaticDispatch, s *scope.Scope, self *types.Type) *types.Type {
	recv := tc.checkExpr(n.Receiver, s, self)
	target, ok := tc.ctx.GetType(n.Type)
	if !ok {
		tc.sink.Add(errors.New(errors.KindNameError, errors.TC002, n.Pos, "unknown type %q", n.Type))
		tc.checkArgs(n.Args, s, self, nil)
		return tc.ctx.Error
	}
	tc.requireUpperBound(recv, target, n.Pos, errors.TC015,
		"static dispatch receiver %s does not conform to %s", describe(recv), target.Name)

	m, ok := target.GetMethod(n.Method)
	if !ok {
		tc.sink.Add(errors.New(errors.KindNameError, errors.TC003, n.Pos, "%s has no method %q", target.Name, n.Method))
		tc.checkArgs(n.Args, s, self, nil)
		return tc.ctx.Error
	}
	tc.checkArgs(n.Args, s, self, m.ParamTypes)
	return substituteSelfType(m.ReturnType, recv)
}

func (tc *TypeChecker) checkSelfDispatch(n *ast.SelfDispatch, s *scope.Scope, self *types.Type) *types.Type {
	recv := types.SelfTypeOf(self)
	m, ok := self.GetMethod(n.Method)
	if !ok {
		tc.sink.Add(errors.New(errors.KindNameError, errors.TC003, n.Pos, "no method %q in %s", n.Method, self.Name))
		tc.checkArgs(n.Args, s, self, nil)
		return tc.ctx.Error
	}
	tc.checkArgs(n.Args, s, self, m.ParamTypes)
	return substituteSelfType(m.ReturnType, recv)
}

// checkArgs types every argument and, when params is non-nil, checks arity
// and per-argument conformance (spec.md §4.4 dispatch rules). params is nil
// when the method itself could not be resolved, so arguments still get a
// computed type for error containment (spec.md §8 property 7) without a
// spurious arity diagnostic.
func (tc *TypeChecker) checkArgs(args []ast.Expr, s *scope.Scope, self *types.Type, params []*types.Type) {
	for i, a := range args {
		argType := tc.checkExpr(a, s, self)
		if params == nil || i >= len(params) {
			continue
		}
		tc.requireConformsInto(params[i], argType, a.Position(), errors.TC012,
			"argument %d has type %s, which does not conform to parameter type %s",
			i+1, describe(argType), describe(params[i]))
	}
}

// substituteSelfType implements spec.md §4.4's dispatch return rule:
// SELF_TYPE in return position is replaced by the static type of the
// receiver expression, not the defining class.
func substituteSelfType(returnType, receiverStatic *types.Type) *types.Type {
	if returnType.IsSelfType() {
		return receiverStatic
	}
	return returnType
}
