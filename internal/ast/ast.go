// Package ast defines the position-annotated abstract syntax tree that the
// lexer+parser produce and that the semantic core (internal/checker)
// consumes and annotates with computed types.
package ast

import "fmt"

// Pos is a source location, reported in every diagnostic as (line,column).
type Pos struct {
	Line   int
	Column int
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Node is implemented by every AST node.
type Node interface {
	Position() Pos
}

// Program is the root of a COOL source file: an ordered list of classes.
type Program struct {
	Classes []*Class
	Pos     Pos
}

func (p *Program) Position() Pos { return p.Pos }

// Class is a class declaration: name, optional parent, and features.
type Class struct {
	Name       string
	Parent     string // "" means no explicit parent (defaults to Object)
	HasParent  bool
	Attributes []*Attribute
	Methods    []*Method
	Pos        Pos
}

func (c *Class) Position() Pos { return c.Pos }

// Attribute is a `name : type [<- init]` class feature.
type Attribute struct {
	Name    string
	Type    string
	Init    Expr // nil if no initializer
	Pos     Pos
}

func (a *Attribute) Position() Pos { return a.Pos }

// Formal is a method parameter `name : type`.
type Formal struct {
	Name string
	Type string
	Pos  Pos
}

// Method is a `name(formals) : type { body }` class feature.
type Method struct {
	Name       string
	Formals    []*Formal
	ReturnType string
	Body       Expr
	Pos        Pos
}

func (m *Method) Position() Pos { return m.Pos }

// Expr is implemented by every expression node. ComputedType is filled in by
// the TypeChecker pass (spec §4.4) and read back by CIL lowering; it is left
// nil until the checker visits the node.
type Expr interface {
	Node
	exprNode()
	SetComputedType(t interface{})
	ComputedType() interface{}
}

// exprBase factors the ComputedType bookkeeping shared by every expression
// node. ComputedType is declared as interface{} here (rather than
// *types.Type) to avoid an import cycle between ast and types; the checker
// is the only package that stores and reads concrete *types.Type values.
type exprBase struct {
	Pos  Pos
	Type interface{}
}

func (e *exprBase) Position() Pos                { return e.Pos }
func (e *exprBase) exprNode()                    {}
func (e *exprBase) SetComputedType(t interface{}) { e.Type = t }
func (e *exprBase) ComputedType() interface{}     { return e.Type }

// IntLit is an integer literal.
type IntLit struct {
	exprBase
	Value int32
}

// StringLit is a string literal.
type StringLit struct {
	exprBase
	Value string
}

// BoolLit is a boolean literal.
type BoolLit struct {
	exprBase
	Value bool
}

// Self is the `self` identifier.
type Self struct{ exprBase }

// Ident is an identifier reference.
type Ident struct {
	exprBase
	Name string
}

// Assign is `id <- expr`.
type Assign struct {
	exprBase
	Name string
	Expr Expr
}

// BinOp covers arithmetic, comparison, and equality.
type BinOpKind int

const (
	OpAdd BinOpKind = iota
	OpSub
	OpMul
	OpDiv
	OpLt
	OpLe
	OpEq
)

type BinOp struct {
	exprBase
	Op    BinOpKind
	Left  Expr
	Right Expr
}

// Not is boolean negation.
type Not struct {
	exprBase
	Expr Expr
}

// Complement is integer bitwise/arithmetic complement (`~e`).
type Complement struct {
	exprBase
	Expr Expr
}

// IsVoid is `isvoid e`.
type IsVoid struct {
	exprBase
	Expr Expr
}

// If is `if cond then t else f fi`.
type If struct {
	exprBase
	Cond Expr
	Then Expr
	Else Expr
}

// While is `while cond loop body pool`.
type While struct {
	exprBase
	Cond Expr
	Body Expr
}

// Block is `{ e1; e2; ...; en; }`.
type Block struct {
	exprBase
	Exprs []Expr
}

// LetBinding is one binding in a `let` expression.
type LetBinding struct {
	Name string
	Type string
	Init Expr // nil if no initializer
	Pos  Pos
}

// Let is `let b1, b2, ... in body`.
type Let struct {
	exprBase
	Bindings []*LetBinding
	Body     Expr
}

// CaseBranch is one `id : type => expr` arm of a case expression.
type CaseBranch struct {
	Name string
	Type string
	Body Expr
	Pos  Pos
}

// Case is `case e of branch1; ...; branchn; esac`.
type Case struct {
	exprBase
	Scrutinee Expr
	Branches  []*CaseBranch
}

// New is `new T`.
type New struct {
	exprBase
	Type string
}

// Dispatch is `e.m(a1,...,an)`.
type Dispatch struct {
	exprBase
	Receiver Expr
	Method   string
	Args     []Expr
}

// StaticDispatch is `e@T.m(a1,...,an)`.
type StaticDispatch struct {
	exprBase
	Receiver Expr
	Type     string
	Method   string
	Args     []Expr
}

// SelfDispatch is an unqualified call `m(a1,...,an)`, sugar for `self.m(...)`.
type SelfDispatch struct {
	exprBase
	Method string
	Args   []Expr
}

// AutoType is the sentinel type name used in attribute/parameter/return
// position to request inference; see spec §3 "AUTO_TYPE" and §4.5.
const AutoType = "AUTO_TYPE"

// SelfTypeName is the pseudo-type meaning "the runtime type of self".
const SelfTypeName = "SELF_TYPE"
