// Package scope implements the variable-resolution tree (spec.md §3, §4.6):
// a Scope tracks the locals introduced at one lexical level and resolves
// names by walking up to its parent, bounded by the index snapshot taken
// when the child was created.
package scope

import "github.com/cool-lang/coolc/internal/types"

// VariableInfo is a resolved binding: (name, type) per spec.md §3. The
// inference id of an unresolved AUTO_TYPE binding is carried by
// Type.InferenceID (types.Type.IsAutoType()); there is no separate field.
type VariableInfo struct {
	Name string
	Type *types.Type
}

// Scope is a tree node in the variable-resolution tree (spec.md §3, §4.6).
// index is the number of locals Parent held at the moment this Scope was
// created; find lookups into Parent are bounded by it so a scope can never
// see a sibling's locals or locals its parent gained after the scope was
// opened. This is the mechanism spec.md §9 calls out as needing to be
// "preserved verbatim": it is how `let x <- x` sees the *outer* x while
// `let x <- 1 in let x <- x + 1` sees the newly bound x.
type Scope struct {
	locals   []*VariableInfo
	parent   *Scope
	children []*Scope
	index    int
}

// NewRootScope creates the program-level scope with no parent.
func NewRootScope() *Scope {
	return &Scope{}
}

// CreateChild opens a new scope nested under s, snapshotting s's current
// local count as the child's index bound.
func (s *Scope) CreateChild() *Scope {
	child := &Scope{parent: s, index: len(s.locals)}
	s.children = append(s.children, child)
	return child
}

// DefineVariable adds a local binding to s and returns it.
func (s *Scope) DefineVariable(name string, t *types.Type) *VariableInfo {
	info := &VariableInfo{Name: name, Type: t}
	s.locals = append(s.locals, info)
	return info
}

// FindVariable resolves name starting in s's own locals, then recursing
// into the parent scope bounded by s's index (spec.md §4.6, §9 Open
// Question). The Open Question in spec.md §9 flags the original
// implementation's parent-recursion clause as self-contradictory (it only
// recurses when there is *no* parent, i.e. never); this is the corrected
// version: always recurse into the parent when one exists, passing s's own
// index as the bound so the parent lookup ignores anything defined in the
// parent after s was created.
func (s *Scope) FindVariable(name string) *VariableInfo {
	return s.findVariable(name, len(s.locals))
}

// findVariable searches only the first `bound` locals of s, then recurses
// into s.parent using s.index as the new bound.
func (s *Scope) findVariable(name string, bound int) *VariableInfo {
	if bound > len(s.locals) {
		bound = len(s.locals)
	}
	for i := 0; i < bound; i++ {
		if s.locals[i].Name == name {
			return s.locals[i]
		}
	}
	if s.parent != nil {
		return s.parent.findVariable(name, s.index)
	}
	return nil
}

// IsDefined reports whether name resolves anywhere in scope (locally or via
// an ancestor).
func (s *Scope) IsDefined(name string) bool {
	return s.FindVariable(name) != nil
}

// IsLocal reports whether name is bound directly in s, ignoring ancestors.
func (s *Scope) IsLocal(name string) bool {
	for _, v := range s.locals {
		if v.Name == name {
			return true
		}
	}
	return false
}

// Parent returns s's enclosing scope, or nil at the root.
func (s *Scope) Parent() *Scope { return s.parent }
