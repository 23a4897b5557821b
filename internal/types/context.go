package types

import "fmt"

// Context is the type registry (spec.md §3): a mapping from type name to
// Type, plus insertion order for deterministic diagnostics and deterministic
// dump output (SPEC_FULL.md "RECOVERED FEATURES" -dump-context).
type Context struct {
	byName map[string]*Type
	order  []string

	// Singletons, installed by NewContext. Error is the distinguished
	// <error> type used for recovery throughout the checker.
	Object *Type
	IO     *Type
	Int    *Type
	String *Type
	Bool   *Type
	Error  *Type
}

// NewContext builds a fresh Context with the builtin types installed, per
// spec.md §3: "Built-ins installed up front: Object (root), IO (extends
// Object), Int, String, Bool (extend Object, sealed), plus ... <error>".
func NewContext() *Context {
	c := &Context{byName: make(map[string]*Type)}

	object := &Type{Name: "Object", Kind: KindObject, CanBeInherited: true}
	io := &Type{Name: "IO", Kind: KindIO, Parent: object, CanBeInherited: true}
	intT := &Type{Name: "Int", Kind: KindInt, Parent: object, CanBeInherited: false}
	strT := &Type{Name: "String", Kind: KindString, Parent: object, CanBeInherited: false}
	boolT := &Type{Name: "Bool", Kind: KindBool, Parent: object, CanBeInherited: false}
	errT := &Type{Name: "<error>", Kind: KindError, Bypass: true, CanBeInherited: false}

	c.install(object)
	c.install(io)
	c.install(intT)
	c.install(strT)
	c.install(boolT)
	c.install(errT)

	c.Object, c.IO, c.Int, c.String, c.Bool, c.Error = object, io, intT, strT, boolT, errT
	installBuiltinMethods(object, io, intT, strT)
	return c
}

func (c *Context) install(t *Type) {
	c.byName[t.Name] = t
	c.order = append(c.order, t.Name)
}

// installBuiltinMethods registers the runtime-library signatures every COOL
// program may dispatch on without declaring them: Object's abort/type_name/
// copy, IO's out_string/out_int/in_string/in_int, and String's length/
// concat/substr. These are not spec.md §3 data (it only names the builtin
// Types), but §6 takes an annotated AST through to CIL lowering and MIPS
// emission, and internal/codegen/mips/runtime.go supplies concrete labels
// (Object_abort, IO_out_string, String_concat, ...) for every method of
// this set except type_name, which has no runtime label. TypeChecker's dispatch rule ("type of e must define m") has to be able
// to find them on the builtin types, the same way a real COOL compiler's
// built-in class declarations would.
func installBuiltinMethods(object, io, intT, strT *Type) {
	selfObject := SelfTypeOf(object)
	object.DefineMethod(&Method{Name: "abort", ReturnType: object})
	object.DefineMethod(&Method{Name: "type_name", ReturnType: strT})
	object.DefineMethod(&Method{Name: "copy", ReturnType: selfObject})

	selfIO := SelfTypeOf(io)
	io.DefineMethod(&Method{Name: "out_string", ParamNames: []string{"x"}, ParamTypes: []*Type{strT}, ReturnType: selfIO})
	io.DefineMethod(&Method{Name: "out_int", ParamNames: []string{"x"}, ParamTypes: []*Type{intT}, ReturnType: selfIO})
	io.DefineMethod(&Method{Name: "in_string", ReturnType: strT})
	io.DefineMethod(&Method{Name: "in_int", ReturnType: intT})

	strT.DefineMethod(&Method{Name: "length", ReturnType: intT})
	strT.DefineMethod(&Method{Name: "concat", ParamNames: []string{"s"}, ParamTypes: []*Type{strT}, ReturnType: strT})
	strT.DefineMethod(&Method{Name: "substr", ParamNames: []string{"i", "l"}, ParamTypes: []*Type{intT, intT}, ReturnType: strT})
}

// CreateType declares a new, parentless, inheritable user type. Creating a
// type with an existing name is an error (spec.md §3).
func (c *Context) CreateType(name string) (*Type, error) {
	if _, exists := c.byName[name]; exists {
		return nil, fmt.Errorf("type %q already declared", name)
	}
	t := NewUserType(name)
	c.install(t)
	return t, nil
}

// GetType looks up a declared type by name. SELF_TYPE and AUTO_TYPE are
// deliberately not registered here: both are meaningful only relative to a
// use site (SELF_TYPE binds to the enclosing class, AUTO_TYPE binds to a
// fresh inference id), so callers resolve those two names through
// ResolveTypeName instead of GetType.
func (c *Context) GetType(name string) (*Type, bool) {
	t, ok := c.byName[name]
	return t, ok
}

// Types returns every declared type (including builtins) in declaration
// order.
func (c *Context) Types() []*Type {
	out := make([]*Type, len(c.order))
	for i, name := range c.order {
		out[i] = c.byName[name]
	}
	return out
}

// ResolveTypeName resolves a type name as it appears in a declaration
// position (attribute type, formal type, return type, `new` target, `let`
// binding type) relative to owner, the class the
// declaration appears in. SELF_TYPE resolves to SELF_TYPE(owner); every
// other name is a plain Context lookup. AUTO_TYPE is handled separately by
// TypeBuilder, which must allocate an inference id rather than merely
// resolve a name (spec.md §4.3), so it is intentionally not special-cased
// here.
func (c *Context) ResolveTypeName(name string, owner *Type) (*Type, bool) {
	if name == "SELF_TYPE" {
		return SelfTypeOf(owner), true
	}
	return c.GetType(name)
}
