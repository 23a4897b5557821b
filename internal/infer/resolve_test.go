package infer

import (
	"testing"

	"github.com/cool-lang/coolc/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCandidateS4 pins spec.md §8 S4: f(x: AUTO_TYPE): Int { x + 1 };
// main(): Int { f(2) }. Using x in `x + 1` upper-bounds it to Int; calling
// with 2 lower-bounds it to Int; the committed type must be Int.
func TestCandidateS4(t *testing.T) {
	ctx := types.NewContext()
	m := NewManager()
	id := m.AssignID()

	m.AutoToType(id, "Int")
	m.TypeToAuto(id, "Int")

	got, err := Candidate(ctx, m, id)
	require.NoError(t, err)
	assert.Equal(t, "Int", got.Name)
}

// TestCandidateS5 pins spec.md §8 S5: f(x: AUTO_TYPE): Object { x };
// main(): Object { f(self) }, with upper bound {Object} and lower bound
// {Main} (SELF_TYPE(Main) collapses to Main for conformance purposes). The
// spec fixes the expected resolution at Object, not an ambiguity error.
func TestCandidateS5(t *testing.T) {
	ctx := types.NewContext()
	main, err := ctx.CreateType("Main")
	require.NoError(t, err)
	main.Parent = ctx.Object

	m := NewManager()
	id := m.AssignID()
	m.TypeToAuto(id, "Main")

	got, err := Candidate(ctx, m, id)
	require.NoError(t, err)
	assert.Equal(t, "Object", got.Name)
}

func TestCandidateEmptyWhenUpperBoundsIncomparable(t *testing.T) {
	ctx := types.NewContext()
	m := NewManager()
	id := m.AssignID()

	m.AutoToType(id, "Int")
	m.AutoToType(id, "String")

	_, err := Candidate(ctx, m, id)
	assert.Error(t, err)
}

func TestCandidateEmptyWhenLowerBoundDoesNotConform(t *testing.T) {
	ctx := types.NewContext()
	m := NewManager()
	id := m.AssignID()

	m.AutoToType(id, "Int")
	m.TypeToAuto(id, "String")

	_, err := Candidate(ctx, m, id)
	assert.Error(t, err)
}
