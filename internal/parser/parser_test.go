package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cool-lang/coolc/internal/ast"
)

func TestParseMinimalClass(t *testing.T) {
	prog, reports := Parse([]byte(`
class Main inherits IO {
	main(): Object { out_string("hi") };
};
`))
	require.Empty(t, reports)
	require.Len(t, prog.Classes, 1)

	c := prog.Classes[0]
	assert.Equal(t, "Main", c.Name)
	assert.True(t, c.HasParent)
	assert.Equal(t, "IO", c.Parent)
	require.Len(t, c.Methods, 1)
	assert.Equal(t, "main", c.Methods[0].Name)
	assert.Equal(t, "Object", c.Methods[0].ReturnType)
}

func TestParseAttributeWithInitializer(t *testing.T) {
	prog, reports := Parse([]byte(`
class A {
	x: Int <- 1;
};
`))
	require.Empty(t, reports)
	require.Len(t, prog.Classes[0].Attributes, 1)
	attr := prog.Classes[0].Attributes[0]
	assert.Equal(t, "x", attr.Name)
	assert.Equal(t, "Int", attr.Type)
	require.NotNil(t, attr.Init)
	lit, ok := attr.Init.(*ast.IntLit)
	require.True(t, ok)
	assert.Equal(t, int32(1), lit.Value)
}

func TestParseLetCaseAndDispatchChain(t *testing.T) {
	prog, reports := Parse([]byte(`
class A {
	f(): Object {
		let x: Int <- 1 in
			case x of
				y: Int => y;
				z: Object => z;
			esac
	};
};
`))
	require.Empty(t, reports)
	body := prog.Classes[0].Methods[0].Body
	let, ok := body.(*ast.Let)
	require.True(t, ok)
	require.Len(t, let.Bindings, 1)
	assert.Equal(t, "x", let.Bindings[0].Name)

	caseExpr, ok := let.Body.(*ast.Case)
	require.True(t, ok)
	require.Len(t, caseExpr.Branches, 2)
	assert.Equal(t, "Int", caseExpr.Branches[0].Type)
	assert.Equal(t, "Object", caseExpr.Branches[1].Type)
}

func TestParseStaticAndSelfDispatch(t *testing.T) {
	prog, reports := Parse([]byte(`
class A {
	f(): Object { self@A.f() };
	g(): Object { f() };
};
`))
	require.Empty(t, reports)
	static, ok := prog.Classes[0].Methods[0].Body.(*ast.StaticDispatch)
	require.True(t, ok)
	assert.Equal(t, "A", static.Type)
	assert.Equal(t, "f", static.Method)

	self, ok := prog.Classes[0].Methods[1].Body.(*ast.SelfDispatch)
	require.True(t, ok)
	assert.Equal(t, "f", self.Method)
}

func TestParseMissingClassKeywordReportsPAR003(t *testing.T) {
	_, reports := Parse([]byte(`not a class`))
	require.NotEmpty(t, reports)
	assert.Equal(t, "PAR003", reports[0].Code)
}

func TestParseUnclosedClassBraceReportsPAR001(t *testing.T) {
	_, reports := Parse([]byte(`class A {`))
	require.NotEmpty(t, reports)
	found := false
	for _, r := range reports {
		if r.Code == "PAR001" {
			found = true
		}
	}
	assert.True(t, found)
}
