// Package types implements the COOL class hierarchy model: Type, Attribute,
// Method, and the Context type registry (spec.md §3, §4.1). This is the
// core of the semantic analysis: conformance, join, and the builtin type
// lattice live here and nowhere else.
package types

// Kind tags what a Type represents. Builtins compare equal to any other
// instance of the same Kind (spec.md §4.1): "built-ins override equality to
// also return true for any instance of the same built-in kind".
type Kind int

const (
	KindUser Kind = iota
	KindObject
	KindIO
	KindInt
	KindString
	KindBool
	KindSelfType
	KindAuto
	KindError
)

// Type is a class declaration (spec.md §3). Built-ins share the same
// representation as user classes; only Kind, Bypass, and CanBeInherited
// distinguish them. AUTO_TYPE occurrences are represented as *Type with
// Kind == KindAuto carrying the inference id that identifies their slot in
// the InferencerManager (spec.md §3, §4.3); SELF_TYPE occurrences are
// represented with Kind == KindSelfType and Parent set to the enclosing
// class (spec.md §3, §4.1).
type Type struct {
	Name           string
	Kind           Kind
	Parent         *Type
	CanBeInherited bool
	Bypass         bool

	Attributes []*Attribute
	Methods    []*Method

	// InferenceID identifies this occurrence's slot in the
	// InferencerManager when Kind == KindAuto (spec.md §3, §4.5).
	InferenceID int
}

// Attribute is a class attribute: (name, declared type, optional slot index)
// per spec.md §3. Slot assignment is a CIL-lowering concern and lives on
// Idx, set by internal/cil, not by the semantic passes.
type Attribute struct {
	Name string
	Type *Type
	Init interface{} // ast.Expr; interface{} to avoid an ast<->types import cycle
	Idx  int
	HasIdx bool
}

// Method is a class method: (name, ordered param names, ordered param
// types, return type) per spec.md §3. It has no index fields of its own:
// the inference id of an AUTO_TYPE param or return is carried by that
// Type value's InferenceID.
type Method struct {
	Name        string
	ParamNames  []string
	ParamTypes  []*Type
	ReturnType  *Type
	Body        interface{} // ast.Expr
	Owner       *Type
}

// NewUserType creates a plain, inheritable, non-bypass type — the shape
// every user-declared COOL class has before TypeBuilder sets its parent.
func NewUserType(name string) *Type {
	return &Type{Name: name, Kind: KindUser, CanBeInherited: true}
}

// SelfTypeOf returns the SELF_TYPE value bound to class owner. SELF_TYPE is
// only ever meaningful relative to an enclosing class (spec.md §3), so this
// repository never hands out a single shared SELF_TYPE instance; each call
// site that encounters the `SELF_TYPE` declaration binds it to the class it
// appears in.
func SelfTypeOf(owner *Type) *Type {
	return &Type{Name: "SELF_TYPE", Kind: KindSelfType, Parent: owner}
}

// NewAutoType allocates the Type value that stands in for one AUTO_TYPE
// occurrence, carrying the inference id the InferencerManager uses to track
// its constraint sets.
func NewAutoType(id int) *Type {
	return &Type{Name: "AUTO_TYPE", Kind: KindAuto, Bypass: true, InferenceID: id}
}

// IsSelfType reports whether t is a SELF_TYPE occurrence.
func (t *Type) IsSelfType() bool { return t.Kind == KindSelfType }

// IsAutoType reports whether t is an unresolved AUTO_TYPE occurrence.
func (t *Type) IsAutoType() bool { return t.Kind == KindAuto }

// Concrete returns the type to use for structural operations (attribute and
// method lookup): SELF_TYPE(C) resolves to C, everything else is itself.
func (t *Type) Concrete() *Type {
	if t.Kind == KindSelfType {
		return t.Parent
	}
	return t
}

// Equals implements spec.md §4.1's equality rule: a bypass type
// (AUTO_TYPE, <error>) equals any type; two SELF_TYPE values are equal when
// bound to the identical class; builtins compare equal to any other
// instance sharing their Kind; user types compare equal only by identity,
// which is sound because Context.CreateType rejects duplicate names.
func (t *Type) Equals(other *Type) bool {
	if t == other {
		return true
	}
	if t.Kind == KindSelfType && other.Kind == KindSelfType {
		return t.Parent == other.Parent
	}
	if t.Bypass || other.Bypass {
		return true
	}
	if t.isBuiltinKind() && other.isBuiltinKind() {
		return t.Kind == other.Kind
	}
	return false
}

func (t *Type) isBuiltinKind() bool {
	switch t.Kind {
	case KindObject, KindIO, KindInt, KindString, KindBool:
		return true
	}
	return false
}

// ConformsTo implements spec.md §4.1: A.conforms_to(B) iff B.bypass() ∨
// A == B ∨ (A.parent ≠ ⊥ ∧ A.parent.conforms_to(B)). SELF_TYPE(C) conforms
// to B exactly when C does (SELF_TYPE always denotes a real, eventually
// concrete, runtime type); it is only equal to another SELF_TYPE bound to
// the identical class.
func (t *Type) ConformsTo(other *Type) bool {
	if other.Bypass || t.Bypass {
		return true
	}
	if t.Kind == KindSelfType {
		if other.Kind == KindSelfType && t.Parent == other.Parent {
			return true
		}
		return t.Parent.ConformsTo(other)
	}
	if t.Equals(other) {
		return true
	}
	if t.Parent != nil {
		return t.Parent.ConformsTo(other)
	}
	return false
}

// Join computes the least upper bound used for if/case result typing
// (spec.md §4.1): the deepest common ancestor of a and b. Joining with the
// <error> type (or, degenerately, an unresolved AUTO_TYPE) yields the other
// operand.
func Join(a, b *Type) *Type {
	if a.Bypass {
		return b
	}
	if b.Bypass {
		return a
	}
	if a.Kind == KindSelfType && b.Kind == KindSelfType && a.Parent == b.Parent {
		return a
	}
	ca, cb := a.Concrete(), b.Concrete()

	ancestors := make(map[*Type]bool)
	for n := ca; n != nil; n = n.Parent {
		ancestors[n] = true
	}
	for n := cb; n != nil; n = n.Parent {
		if ancestors[n] {
			return n
		}
	}
	// Unreachable for a well-formed context: every chain terminates at
	// Object, which is always a common ancestor.
	return ca
}

// GetAttribute looks up an attribute by name over the parent chain,
// returning the nearest declaration (spec.md §4.1 all_attributes ordering
// is handled by AllAttributes; GetAttribute is the single-result lookup
// TypeChecker identifier/assignment rules use).
func (t *Type) GetAttribute(name string) (*Attribute, bool) {
	for c := t.Concrete(); c != nil; c = c.Parent {
		for _, a := range c.Attributes {
			if a.Name == name {
				return a, true
			}
		}
	}
	return nil, false
}

// GetMethod looks up a method by name over the parent chain.
func (t *Type) GetMethod(name string) (*Method, bool) {
	for c := t.Concrete(); c != nil; c = c.Parent {
		for _, m := range c.Methods {
			if m.Name == name {
				return m, true
			}
		}
	}
	return nil, false
}

// DefineAttribute adds an attribute declared directly on t. Callers
// (internal/checker's TypeBuilder) are responsible for rejecting
// redeclaration before calling this; DefineAttribute itself does not check.
func (t *Type) DefineAttribute(a *Attribute) {
	t.Attributes = append(t.Attributes, a)
}

// DefineMethod adds a method declared directly on t.
func (t *Type) DefineMethod(m *Method) {
	m.Owner = t
	t.Methods = append(t.Methods, m)
}

// AllAttributes linearizes attributes over the parent chain, root first,
// child declarations following (spec.md §4.1 "child shadows preserved
// insertion order"). A child attribute with the same name as an ancestor's
// is disallowed by TypeBuilder, so no shadowing actually occurs in a
// well-formed program; this order is what TypeChecker uses to build the
// class-level scope (spec.md §4.4).
func (t *Type) AllAttributes() []*Attribute {
	if t.Parent == nil {
		out := make([]*Attribute, len(t.Attributes))
		copy(out, t.Attributes)
		return out
	}
	out := t.Parent.AllAttributes()
	return append(out, t.Attributes...)
}

// AllMethods linearizes methods over the parent chain the same way
// AllAttributes does, with an override replacing (not duplicating) the
// parent's entry at its original position.
func (t *Type) AllMethods() []*Method {
	if t.Parent == nil {
		out := make([]*Method, len(t.Methods))
		copy(out, t.Methods)
		return out
	}
	base := t.Parent.AllMethods()
	byName := make(map[string]int, len(base))
	for i, m := range base {
		byName[m.Name] = i
	}
	for _, m := range t.Methods {
		if i, ok := byName[m.Name]; ok {
			base[i] = m
		} else {
			base = append(base, m)
		}
	}
	return base
}

// SameSignature implements spec.md §4.3's override rule: identical arity,
// identical parameter types, identical return type, with SELF_TYPE in
// return position treated as covariant with the declaring class (i.e. a
// parent method returning SELF_TYPE may be overridden by a child also
// declaring SELF_TYPE as its return type; the two are compared as equal
// return annotations, not resolved to concrete classes, matching the
// original's Method.__eq__ tuple comparison).
func SameSignature(parent, child *Method) bool {
	if len(parent.ParamTypes) != len(child.ParamTypes) {
		return false
	}
	for i := range parent.ParamTypes {
		if !sameTypeAnnotation(parent.ParamTypes[i], child.ParamTypes[i]) {
			return false
		}
	}
	return sameTypeAnnotation(parent.ReturnType, child.ReturnType)
}

func sameTypeAnnotation(a, b *Type) bool {
	if a.Kind == KindSelfType && b.Kind == KindSelfType {
		return true
	}
	if a.Kind == KindSelfType || b.Kind == KindSelfType {
		return false
	}
	return a == b || a.Name == b.Name
}
