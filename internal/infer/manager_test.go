package infer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignIDSeedsObjectUpperBound(t *testing.T) {
	m := NewManager()
	id := m.AssignID()
	assert.Equal(t, 1, m.Count())
	assert.True(t, m.ConformsTo(id)["Object"])
	assert.Empty(t, m.ConformedBy(id))
}

func TestUpdConformsToReportsChange(t *testing.T) {
	m := NewManager()
	id := m.AssignID()

	changed := m.AutoToType(id, "Int")
	assert.True(t, changed)

	changed = m.AutoToType(id, "Int")
	assert.False(t, changed, "re-adding the same bound must report no change, for fixed-point detection")
}

func TestTypeToAutoGrowsLowerBound(t *testing.T) {
	m := NewManager()
	id := m.AssignID()

	require.True(t, m.TypeToAuto(id, "Int"))
	assert.True(t, m.ConformedBy(id)["Int"])
	assert.False(t, m.TypeToAuto(id, "Int"))
}

func TestIndependentIDsDoNotShareState(t *testing.T) {
	m := NewManager()
	a := m.AssignID()
	b := m.AssignID()

	m.AutoToType(a, "Int")
	assert.False(t, m.ConformsTo(b)["Int"])
}
