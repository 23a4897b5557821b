package cil

import (
	"fmt"

	"github.com/cool-lang/coolc/internal/ast"
	"github.com/cool-lang/coolc/internal/types"
)

// Lower turns a fully type-checked program (every expression's
// SetComputedType already called by internal/checker) into a Program. It
// assumes prog carries no semantic errors; callers only lower once
// TypeChecker/RunInference have reported a clean pass.
func Lower(prog *ast.Program, ctx *types.Context) *Program {
	l := &lowerer{ctx: ctx, dataIdx: make(map[string]string)}
	assignAttributeIndices(ctx)

	out := &Program{}
	for _, t := range ctx.Types() {
		out.Types = append(out.Types, l.layoutOf(t))
	}
	for _, class := range prog.Classes {
		t, ok := ctx.GetType(class.Name)
		if !ok {
			continue
		}
		out.Functions = append(out.Functions, l.lowerInit(class, t))
		for _, m := range class.Methods {
			out.Functions = append(out.Functions, l.lowerMethod(class, m, t))
		}
	}
	out.Data = l.data
	return out
}

// assignAttributeIndices assigns every attribute a stable storage slot,
// root class first, so a subclass's inherited attributes always land at
// the same offset their ancestor gave them.
func assignAttributeIndices(ctx *types.Context) {
	for _, t := range ctx.Types() {
		for i, a := range t.AllAttributes() {
			if !a.HasIdx {
				a.Idx = i
				a.HasIdx = true
			}
		}
	}
}

func (l *lowerer) layoutOf(t *types.Type) *TypeLayout {
	layout := &TypeLayout{Name: t.Name}
	for _, a := range t.AllAttributes() {
		layout.Attributes = append(layout.Attributes, a.Name)
	}
	for _, m := range t.AllMethods() {
		owner := t.Name
		if m.Owner != nil {
			owner = m.Owner.Name
		}
		layout.Methods = append(layout.Methods, MethodSlot{Name: m.Name, Owner: owner})
	}
	return layout
}

type lowerer struct {
	ctx     *types.Context
	tempN   int
	labelN  int
	localN  int
	data    []*DataDecl
	dataIdx map[string]string
	sink    *[]Instr
}

// env is a lexical chain from source identifier to the lowered local name
// actually holding its value; every let binding and case arm pushes a
// fresh frame so two bindings sharing a source name in nested scopes never
// collide in the flat, non-SSA local namespace CIL functions use.
type env struct {
	parent *env
	vars   map[string]string
}

func newEnv(parent *env) *env { return &env{parent: parent, vars: make(map[string]string)} }

func (e *env) lookup(name string) (string, bool) {
	for cur := e; cur != nil; cur = cur.parent {
		if v, ok := cur.vars[name]; ok {
			return v, true
		}
	}
	return "", false
}

func (l *lowerer) emit(instr Instr) { *l.sink = append(*l.sink, instr) }

func (l *lowerer) newTemp() string {
	l.tempN++
	return fmt.Sprintf("t%d", l.tempN)
}

func (l *lowerer) newLocal(base string) string {
	l.localN++
	return fmt.Sprintf("%s$%d", base, l.localN)
}

func (l *lowerer) newLabel() string {
	l.labelN++
	return fmt.Sprintf("L%d", l.labelN)
}

func (l *lowerer) intern(value string) string {
	if label, ok := l.dataIdx[value]; ok {
		return label
	}
	label := fmt.Sprintf("str_%d", len(l.data))
	l.data = append(l.data, &DataDecl{Name: label, Value: value})
	l.dataIdx[value] = label
	return label
}

func addLocal(fn *Function, name string) {
	for _, existing := range fn.Locals {
		if existing == name {
			return
		}
	}
	fn.Locals = append(fn.Locals, name)
}

func (l *lowerer) lowerInit(class *ast.Class, t *types.Type) *Function {
	fn := &Function{Name: t.Name + ".init"}
	l.sink = &fn.Instrs
	if t.Parent != nil {
		l.emit(&StaticCall{Dest: l.newTemp(), Function: t.Parent.Name + ".init", Obj: "self"})
	}
	for _, attr := range class.Attributes {
		var val string
		if attr.Init != nil {
			val = l.lowerExpr(attr.Init, fn, t, newEnv(nil))
		} else {
			val = l.defaultValue(fn, attr.Type)
		}
		l.emit(&SetAttrib{Obj: "self", Attr: attr.Name, Value: val})
	}
	l.emit(&Return{Value: "self"})
	return fn
}

func (l *lowerer) lowerMethod(class *ast.Class, m *ast.Method, t *types.Type) *Function {
	fn := &Function{Name: t.Name + "." + m.Name}
	top := newEnv(nil)
	for _, f := range m.Formals {
		fn.Params = append(fn.Params, f.Name)
		top.vars[f.Name] = f.Name
	}
	l.sink = &fn.Instrs
	result := l.lowerExpr(m.Body, fn, t, top)
	l.emit(&Return{Value: result})
	return fn
}

// defaultValue produces the zero value COOL assigns to an uninitialized
// attribute or let binding of the given declared type name.
func (l *lowerer) defaultValue(fn *Function, typeName string) string {
	dest := l.newTemp()
	switch typeName {
	case "Int":
		l.emit(&LoadInt{Dest: dest, Value: 0})
	case "Bool":
		l.emit(&LoadBool{Dest: dest, Value: false})
	case "String":
		l.emit(&LoadString{Dest: dest, DataLabel: l.intern("")})
	default:
		l.emit(&Allocate{Dest: dest, Type: "Object"}) // void sentinel
	}
	return dest
}

func (l *lowerer) concreteTypeOf(e ast.Expr) *types.Type {
	t, _ := e.ComputedType().(*types.Type)
	if t == nil {
		return l.ctx.Object
	}
	return t.Concrete()
}

func (l *lowerer) lowerExpr(e ast.Expr, fn *Function, self *types.Type, env *env) string {
	switch n := e.(type) {
	case *ast.IntLit:
		dest := l.newTemp()
		l.emit(&LoadInt{Dest: dest, Value: n.Value})
		return dest
	case *ast.StringLit:
		dest := l.newTemp()
		l.emit(&LoadString{Dest: dest, DataLabel: l.intern(n.Value)})
		return dest
	case *ast.BoolLit:
		dest := l.newTemp()
		l.emit(&LoadBool{Dest: dest, Value: n.Value})
		return dest
	case *ast.Self:
		return "self"
	case *ast.Ident:
		return l.lowerIdent(n, env)
	case *ast.Assign:
		return l.lowerAssign(n, fn, self, env)
	case *ast.BinOp:
		return l.lowerBinOp(n, fn, self, env)
	case *ast.Not:
		dest := l.newTemp()
		v := l.lowerExpr(n.Expr, fn, self, env)
		l.emit(&Not{Dest: dest, Obj: v})
		return dest
	case *ast.Complement:
		dest := l.newTemp()
		v := l.lowerExpr(n.Expr, fn, self, env)
		l.emit(&Complement{Dest: dest, Obj: v})
		return dest
	case *ast.IsVoid:
		dest := l.newTemp()
		v := l.lowerExpr(n.Expr, fn, self, env)
		l.emit(&IsVoid{Dest: dest, Obj: v})
		return dest
	case *ast.If:
		return l.lowerIf(n, fn, self, env)
	case *ast.While:
		return l.lowerWhile(n, fn, self, env)
	case *ast.Block:
		last := "self"
		for _, sub := range n.Exprs {
			last = l.lowerExpr(sub, fn, self, env)
		}
		return last
	case *ast.Let:
		return l.lowerLet(n, fn, self, env)
	case *ast.Case:
		return l.lowerCase(n, fn, self, env)
	case *ast.New:
		return l.lowerNew(n, fn, self, env)
	case *ast.Dispatch:
		return l.lowerDispatch(n, fn, self, env)
	case *ast.StaticDispatch:
		return l.lowerStaticDispatch(n, fn, self, env)
	case *ast.SelfDispatch:
		return l.lowerSelfDispatch(n, fn, self, env)
	}
	dest := l.newTemp()
	l.emit(&Allocate{Dest: dest, Type: "Object"})
	return dest
}

func (l *lowerer) lowerIdent(n *ast.Ident, env *env) string {
	if n.Name == "self" {
		return "self"
	}
	if local, ok := env.lookup(n.Name); ok {
		return local
	}
	dest := l.newTemp()
	l.emit(&GetAttrib{Dest: dest, Obj: "self", Attr: n.Name})
	return dest
}

func (l *lowerer) lowerAssign(n *ast.Assign, fn *Function, self *types.Type, env *env) string {
	val := l.lowerExpr(n.Expr, fn, self, env)
	if local, ok := env.lookup(n.Name); ok {
		l.emit(&Assign{Dest: local, Source: val})
		return local
	}
	l.emit(&SetAttrib{Obj: "self", Attr: n.Name, Value: val})
	return val
}

func (l *lowerer) lowerBinOp(n *ast.BinOp, fn *Function, self *types.Type, env *env) string {
	left := l.lowerExpr(n.Left, fn, self, env)
	right := l.lowerExpr(n.Right, fn, self, env)
	dest := l.newTemp()
	switch n.Op {
	case ast.OpAdd:
		l.emit(&Arith{Op: "+", Dest: dest, Left: left, Right: right})
	case ast.OpSub:
		l.emit(&Arith{Op: "-", Dest: dest, Left: left, Right: right})
	case ast.OpMul:
		l.emit(&Arith{Op: "*", Dest: dest, Left: left, Right: right})
	case ast.OpDiv:
		l.emit(&Arith{Op: "/", Dest: dest, Left: left, Right: right})
	case ast.OpLt:
		l.emit(&Arith{Op: "<", Dest: dest, Left: left, Right: right})
	case ast.OpLe:
		l.emit(&Arith{Op: "<=", Dest: dest, Left: left, Right: right})
	case ast.OpEq:
		if l.concreteTypeOf(n.Left).Kind == types.KindString || l.concreteTypeOf(n.Right).Kind == types.KindString {
			l.emit(&EqualStr{Dest: dest, Left: left, Right: right})
		} else {
			l.emit(&Arith{Op: "=", Dest: dest, Left: left, Right: right})
		}
	}
	return dest
}

func (l *lowerer) lowerIf(n *ast.If, fn *Function, self *types.Type, env *env) string {
	dest := l.newTemp()
	addLocal(fn, dest)
	thenLabel, endLabel := l.newLabel(), l.newLabel()
	cond := l.lowerExpr(n.Cond, fn, self, env)
	l.emit(&GotoIf{Cond: cond, Label: thenLabel})
	elseVal := l.lowerExpr(n.Else, fn, self, env)
	l.emit(&Assign{Dest: dest, Source: elseVal})
	l.emit(&Goto{Label: endLabel})
	l.emit(&Label{Name: thenLabel})
	thenVal := l.lowerExpr(n.Then, fn, self, env)
	l.emit(&Assign{Dest: dest, Source: thenVal})
	l.emit(&Label{Name: endLabel})
	return dest
}

func (l *lowerer) lowerWhile(n *ast.While, fn *Function, self *types.Type, env *env) string {
	startLabel, bodyLabel, endLabel := l.newLabel(), l.newLabel(), l.newLabel()
	l.emit(&Label{Name: startLabel})
	cond := l.lowerExpr(n.Cond, fn, self, env)
	l.emit(&GotoIf{Cond: cond, Label: bodyLabel})
	l.emit(&Goto{Label: endLabel})
	l.emit(&Label{Name: bodyLabel})
	l.lowerExpr(n.Body, fn, self, env)
	l.emit(&Goto{Label: startLabel})
	l.emit(&Label{Name: endLabel})
	dest := l.newTemp()
	l.emit(&Allocate{Dest: dest, Type: "Object"}) // while always evaluates to void
	return dest
}

func (l *lowerer) lowerLet(n *ast.Let, fn *Function, self *types.Type, env *env) string {
	cur := env
	for _, b := range n.Bindings {
		local := l.newLocal(b.Name)
		addLocal(fn, local)
		if b.Init != nil {
			v := l.lowerExpr(b.Init, fn, self, cur)
			l.emit(&Assign{Dest: local, Source: v})
		} else {
			v := l.defaultValue(fn, b.Type)
			l.emit(&Assign{Dest: local, Source: v})
		}
		cur = newEnv(cur)
		cur.vars[b.Name] = local
	}
	return l.lowerExpr(n.Body, fn, self, cur)
}

func (l *lowerer) lowerCase(n *ast.Case, fn *Function, self *types.Type, env *env) string {
	scrutinee := l.lowerExpr(n.Scrutinee, fn, self, env)
	dest := l.newTemp()
	addLocal(fn, dest)

	var arms []CaseArm
	for _, br := range n.Branches {
		local := l.newLocal(br.Name)
		addLocal(fn, local)
		child := newEnv(env)
		child.vars[br.Name] = local

		saved := l.sink
		var armInstrs []Instr
		l.sink = &armInstrs
		l.emit(&Assign{Dest: local, Source: scrutinee})
		result := l.lowerExpr(br.Body, fn, self, child)
		armResult := l.newTemp()
		l.emit(&Assign{Dest: armResult, Source: result})
		l.sink = saved

		arms = append(arms, CaseArm{Type: br.Type, Var: local, Instrs: armInstrs, Result: armResult})
	}
	l.emit(&CaseDispatch{Dest: dest, Scrutinee: scrutinee, Arms: arms})
	return dest
}

func (l *lowerer) lowerNew(n *ast.New, fn *Function, self *types.Type, env *env) string {
	dest := l.newTemp()
	if n.Type == ast.SelfTypeName {
		l.emit(&AllocateDynamic{Dest: dest, Obj: "self"})
		l.emit(&DynamicCall{Dest: l.newTemp(), Type: self.Name, Obj: dest, Method: "init"})
		return dest
	}
	l.emit(&Allocate{Dest: dest, Type: n.Type})
	l.emit(&StaticCall{Dest: l.newTemp(), Function: n.Type + ".init", Obj: dest})
	return dest
}

func (l *lowerer) lowerArgs(args []ast.Expr, fn *Function, self *types.Type, env *env) []string {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = l.lowerExpr(a, fn, self, env)
	}
	return out
}

func (l *lowerer) lowerDispatch(n *ast.Dispatch, fn *Function, self *types.Type, env *env) string {
	recv := l.lowerExpr(n.Receiver, fn, self, env)
	args := l.lowerArgs(n.Args, fn, self, env)
	dest := l.newTemp()
	l.emit(&DynamicCall{Dest: dest, Type: l.concreteTypeOf(n.Receiver).Name, Obj: recv, Method: n.Method, Args: args})
	return dest
}

func (l *lowerer) lowerStaticDispatch(n *ast.StaticDispatch, fn *Function, self *types.Type, env *env) string {
	recv := l.lowerExpr(n.Receiver, fn, self, env)
	args := l.lowerArgs(n.Args, fn, self, env)
	dest := l.newTemp()
	target, _ := l.ctx.GetType(n.Type)
	owner := n.Type
	if target != nil {
		if m, ok := target.GetMethod(n.Method); ok && m.Owner != nil {
			owner = m.Owner.Name
		}
	}
	l.emit(&StaticCall{Dest: dest, Function: owner + "." + n.Method, Obj: recv, Args: args})
	return dest
}

func (l *lowerer) lowerSelfDispatch(n *ast.SelfDispatch, fn *Function, self *types.Type, env *env) string {
	args := l.lowerArgs(n.Args, fn, self, env)
	dest := l.newTemp()
	l.emit(&DynamicCall{Dest: dest, Type: self.Name, Obj: "self", Method: n.Method, Args: args})
	return dest
}
