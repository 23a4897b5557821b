package cil

import (
	"testing"

	"github.com/cool-lang/coolc/internal/ast"
	"github.com/cool-lang/coolc/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func annotate(e ast.Expr, t *types.Type) ast.Expr {
	e.SetComputedType(t)
	return e
}

// TestLowerMethodReturnsArithmeticResult builds `class Main { f(): Int { 1 +
// 2 }; }` by hand (bypassing lexer/parser/checker) and checks the lowered
// function computes and returns a single Arith result.
func TestLowerMethodReturnsArithmeticResult(t *testing.T) {
	ctx := types.NewContext()
	main, err := ctx.CreateType("Main")
	require.NoError(t, err)
	main.Parent = ctx.Object

	left := annotate(&ast.IntLit{Value: 1}, ctx.Int).(*ast.IntLit)
	right := annotate(&ast.IntLit{Value: 2}, ctx.Int).(*ast.IntLit)
	body := annotate(&ast.BinOp{Op: ast.OpAdd, Left: left, Right: right}, ctx.Int)

	method := &ast.Method{Name: "f", ReturnType: "Int", Body: body}
	main.DefineMethod(&types.Method{Name: "f", ReturnType: ctx.Int})

	class := &ast.Class{Name: "Main", Methods: []*ast.Method{method}}
	prog := &ast.Program{Classes: []*ast.Class{class}}

	out := Lower(prog, ctx)

	var fn *Function
	for _, f := range out.Functions {
		if f.Name == "Main.f" {
			fn = f
		}
	}
	require.NotNil(t, fn, "expected a lowered Main.f function")

	var arith *Arith
	var ret *Return
	for _, instr := range fn.Instrs {
		switch v := instr.(type) {
		case *Arith:
			arith = v
		case *Return:
			ret = v
		}
	}
	require.NotNil(t, arith)
	assert.Equal(t, "+", arith.Op)
	require.NotNil(t, ret)
	assert.Equal(t, arith.Dest, ret.Value)
}

// TestLowerAttributeGetAndSet confirms an identifier reference not bound in
// the local environment lowers to a GetAttrib against self, and assignment
// to it lowers to a SetAttrib.
func TestLowerAttributeGetAndSet(t *testing.T) {
	ctx := types.NewContext()
	counter, err := ctx.CreateType("Counter")
	require.NoError(t, err)
	counter.Parent = ctx.Object
	counter.DefineAttribute(&types.Attribute{Name: "n", Type: ctx.Int})

	assign := annotate(&ast.Assign{
		Name: "n",
		Expr: annotate(&ast.IntLit{Value: 5}, ctx.Int),
	}, ctx.Int)
	read := annotate(&ast.Ident{Name: "n"}, ctx.Int)
	body := annotate(&ast.Block{Exprs: []ast.Expr{assign, read}}, ctx.Int)

	method := &ast.Method{Name: "bump", ReturnType: "Int", Body: body}
	counter.DefineMethod(&types.Method{Name: "bump", ReturnType: ctx.Int})

	class := &ast.Class{Name: "Counter", Methods: []*ast.Method{method}}
	prog := &ast.Program{Classes: []*ast.Class{class}}

	out := Lower(prog, ctx)

	var fn *Function
	for _, f := range out.Functions {
		if f.Name == "Counter.bump" {
			fn = f
		}
	}
	require.NotNil(t, fn)

	var set *SetAttrib
	for _, instr := range fn.Instrs {
		if v, ok := instr.(*SetAttrib); ok {
			set = v
		}
	}
	require.NotNil(t, set)
	assert.Equal(t, "self", set.Obj)
	assert.Equal(t, "n", set.Attr)

	var get *GetAttrib
	for _, instr := range fn.Instrs {
		if v, ok := instr.(*GetAttrib); ok {
			get = v
		}
	}
	require.NotNil(t, get)
	assert.Equal(t, "self", get.Obj)
	assert.Equal(t, "n", get.Attr)
}

// TestLowerStringLiteralsAreInterned confirms two identical string literals
// share a single data declaration.
func TestLowerStringLiteralsAreInterned(t *testing.T) {
	ctx := types.NewContext()
	main, err := ctx.CreateType("Main")
	require.NoError(t, err)
	main.Parent = ctx.Object

	block := annotate(&ast.Block{Exprs: []ast.Expr{
		annotate(&ast.StringLit{Value: "hi"}, ctx.String),
		annotate(&ast.StringLit{Value: "hi"}, ctx.String),
	}}, ctx.String)

	method := &ast.Method{Name: "f", ReturnType: "String", Body: block}
	main.DefineMethod(&types.Method{Name: "f", ReturnType: ctx.String})

	class := &ast.Class{Name: "Main", Methods: []*ast.Method{method}}
	prog := &ast.Program{Classes: []*ast.Class{class}}

	out := Lower(prog, ctx)
	assert.Len(t, out.Data, 1, "identical string constants should be interned once")
}

// TestLowerNewSelfTypeAllocatesDynamically confirms `new SELF_TYPE` lowers
// to AllocateDynamic rather than a statically-named Allocate.
func TestLowerNewSelfTypeAllocatesDynamically(t *testing.T) {
	ctx := types.NewContext()
	main, err := ctx.CreateType("Main")
	require.NoError(t, err)
	main.Parent = ctx.Object

	n := annotate(&ast.New{Type: ast.SelfTypeName}, types.SelfTypeOf(main))

	method := &ast.Method{Name: "copy", ReturnType: "SELF_TYPE", Body: n}
	main.DefineMethod(&types.Method{Name: "copy", ReturnType: types.SelfTypeOf(main)})

	class := &ast.Class{Name: "Main", Methods: []*ast.Method{method}}
	prog := &ast.Program{Classes: []*ast.Class{class}}

	out := Lower(prog, ctx)

	var fn *Function
	for _, f := range out.Functions {
		if f.Name == "Main.copy" {
			fn = f
		}
	}
	require.NotNil(t, fn)

	var found bool
	for _, instr := range fn.Instrs {
		if _, ok := instr.(*AllocateDynamic); ok {
			found = true
		}
	}
	assert.True(t, found, "expected an AllocateDynamic instruction")
}
