package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinHierarchy(t *testing.T) {
	ctx := NewContext()
	assert.True(t, ctx.Int.ConformsTo(ctx.Object))
	assert.True(t, ctx.String.ConformsTo(ctx.Object))
	assert.True(t, ctx.Bool.ConformsTo(ctx.Object))
	assert.True(t, ctx.IO.ConformsTo(ctx.Object))
	assert.False(t, ctx.Object.ConformsTo(ctx.Int))
	assert.False(t, ctx.Int.CanBeInherited)
	assert.False(t, ctx.String.CanBeInherited)
	assert.False(t, ctx.Bool.CanBeInherited)
	assert.True(t, ctx.Object.CanBeInherited)
	assert.True(t, ctx.IO.CanBeInherited)
}

func TestErrorTypeBypassesConformance(t *testing.T) {
	ctx := NewContext()
	assert.True(t, ctx.Error.ConformsTo(ctx.Int))
	assert.True(t, ctx.Int.ConformsTo(ctx.Error))
}

func TestConformsToReflexiveAndTransitive(t *testing.T) {
	ctx := NewContext()
	a, err := ctx.CreateType("A")
	require.NoError(t, err)
	a.Parent = ctx.Object

	b, err := ctx.CreateType("B")
	require.NoError(t, err)
	b.Parent = a

	c, err := ctx.CreateType("C")
	require.NoError(t, err)
	c.Parent = b

	assert.True(t, a.ConformsTo(a))
	assert.True(t, c.ConformsTo(b))
	assert.True(t, b.ConformsTo(a))
	assert.True(t, c.ConformsTo(a), "transitivity: C conforms to B and B conforms to A")
	assert.False(t, a.ConformsTo(c))
}

func TestCreateTypeRejectsDuplicate(t *testing.T) {
	ctx := NewContext()
	_, err := ctx.CreateType("A")
	require.NoError(t, err)

	_, err = ctx.CreateType("A")
	assert.Error(t, err)

	_, err = ctx.CreateType("Object")
	assert.Error(t, err, "builtin names are already installed")
}

func TestJoinDeepestCommonAncestor(t *testing.T) {
	ctx := NewContext()
	a, _ := ctx.CreateType("A")
	a.Parent = ctx.Object
	b, _ := ctx.CreateType("B")
	b.Parent = a
	c, _ := ctx.CreateType("C")
	c.Parent = a
	d, _ := ctx.CreateType("D")
	d.Parent = b

	assert.Same(t, a, Join(b, c))
	assert.Same(t, a, Join(d, c))
	assert.Same(t, b, Join(d, b))
	assert.Same(t, ctx.Object, Join(ctx.Int, ctx.String))
}

func TestJoinWithErrorYieldsOtherOperand(t *testing.T) {
	ctx := NewContext()
	assert.Same(t, ctx.Int, Join(ctx.Error, ctx.Int))
	assert.Same(t, ctx.Int, Join(ctx.Int, ctx.Error))
}

func TestSelfTypeConformsLikeItsClass(t *testing.T) {
	ctx := NewContext()
	main, _ := ctx.CreateType("Main")
	main.Parent = ctx.IO

	self := SelfTypeOf(main)
	assert.True(t, self.ConformsTo(ctx.Object))
	assert.True(t, self.ConformsTo(ctx.IO))
	assert.False(t, self.ConformsTo(ctx.Int))

	other := SelfTypeOf(main)
	assert.True(t, self.Equals(other))
}

func TestAllAttributesOrderedParentFirst(t *testing.T) {
	ctx := NewContext()
	a, _ := ctx.CreateType("A")
	a.Parent = ctx.Object
	a.DefineAttribute(&Attribute{Name: "x", Type: ctx.Int})

	b, _ := ctx.CreateType("B")
	b.Parent = a
	b.DefineAttribute(&Attribute{Name: "y", Type: ctx.String})

	all := b.AllAttributes()
	require.Len(t, all, 2)
	assert.Equal(t, "x", all[0].Name)
	assert.Equal(t, "y", all[1].Name)
}

func TestAllMethodsOverrideReplacesInPlace(t *testing.T) {
	ctx := NewContext()
	a, _ := ctx.CreateType("A")
	a.Parent = ctx.Object
	m1 := &Method{Name: "f", ReturnType: ctx.Int}
	a.DefineMethod(m1)

	b, _ := ctx.CreateType("B")
	b.Parent = a
	m2 := &Method{Name: "f", ReturnType: ctx.Int}
	b.DefineMethod(m2)

	all := b.AllMethods()
	require.Len(t, all, 1)
	assert.Same(t, m2, all[0])
}

func TestSameSignatureSelfTypeCovariance(t *testing.T) {
	ctx := NewContext()
	object := ctx.Object
	a, _ := ctx.CreateType("A")
	a.Parent = object

	self := SelfTypeOf(object)
	parentMethod := &Method{Name: "copy", ReturnType: self}

	selfA := SelfTypeOf(a)
	childMethod := &Method{Name: "copy", ReturnType: selfA}

	assert.True(t, SameSignature(parentMethod, childMethod))
}
