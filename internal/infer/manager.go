// Package infer implements the InferencerManager (spec.md §3, §4.5): the
// constraint store that resolves AUTO_TYPE placeholders by iterated
// propagation between "conforms-to" (upper bound) and "conformed-by" (lower
// bound) sets until a fixed point is reached.
package infer

// Manager holds the parallel conforms_to/conformed_by sets (spec.md §3).
// For inference id i: every name in ConformsTo[i] is an upper bound (the
// slot must conform to it); every name in ConformedBy[i] is a lower bound
// (it must conform to the slot). Sets only grow, so the fixed-point loop in
// internal/checker terminates (spec.md §5).
type Manager struct {
	conformsTo  []map[string]bool
	conformedBy []map[string]bool
}

// NewManager creates an empty constraint store.
func NewManager() *Manager {
	return &Manager{}
}

// AssignID allocates a new inference slot. The upper-bound set is seeded
// with {Object} and the lower-bound set starts empty (spec.md §3).
func (m *Manager) AssignID() int {
	id := len(m.conformsTo)
	m.conformsTo = append(m.conformsTo, map[string]bool{"Object": true})
	m.conformedBy = append(m.conformedBy, map[string]bool{})
	return id
}

// Count returns the number of inference ids allocated.
func (m *Manager) Count() int { return len(m.conformsTo) }

// ConformsTo returns the upper-bound set for id i (read-only use; callers
// must not mutate the returned map).
func (m *Manager) ConformsTo(i int) map[string]bool { return m.conformsTo[i] }

// ConformedBy returns the lower-bound set for id i (read-only use).
func (m *Manager) ConformedBy(i int) map[string]bool { return m.conformedBy[i] }

// UpdConformsTo adds every name in other to id i's upper-bound set. Returns
// whether the set changed, which the fixed-point loop uses to detect
// convergence (spec.md §4.5).
func (m *Manager) UpdConformsTo(i int, other map[string]bool) bool {
	return union(m.conformsTo[i], other)
}

// UpdConformedBy adds every name in other to id i's lower-bound set.
func (m *Manager) UpdConformedBy(i int, other map[string]bool) bool {
	return union(m.conformedBy[i], other)
}

// AutoToType registers typeName as an upper bound for id i: "id i is used
// where typeName (or a type conforming to typeName) is expected" (spec.md
// §4.4's upd_conforms_to operation with a single name).
func (m *Manager) AutoToType(i int, typeName string) bool {
	return m.UpdConformsTo(i, map[string]bool{typeName: true})
}

// TypeToAuto registers typeName as a lower bound for id i: "id i receives a
// value of type typeName" (spec.md §4.4's type_to_auto operation).
func (m *Manager) TypeToAuto(i int, typeName string) bool {
	return m.UpdConformedBy(i, map[string]bool{typeName: true})
}

func union(dst, src map[string]bool) bool {
	changed := false
	for k := range src {
		if !dst[k] {
			dst[k] = true
			changed = true
		}
	}
	return changed
}
