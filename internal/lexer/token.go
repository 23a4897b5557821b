package lexer

import "github.com/cool-lang/coolc/internal/ast"

// Kind enumerates COOL's token categories.
type Kind int

const (
	EOF Kind = iota
	TypeID
	ObjectID
	IntLit
	StringLit
	BoolLit

	// Keywords
	KwClass
	KwInherits
	KwIf
	KwThen
	KwElse
	KwFi
	KwWhile
	KwLoop
	KwPool
	KwLet
	KwIn
	KwCase
	KwOf
	KwEsac
	KwNew
	KwIsvoid
	KwNot

	// Symbols
	LBrace
	RBrace
	LParen
	RParen
	Colon
	Semi
	Comma
	Dot
	At
	Plus
	Minus
	Star
	Slash
	Tilde
	Lt
	Le
	Eq
	Assign  // <-
	DArrow  // =>
)

var keywords = map[string]Kind{
	"class":    KwClass,
	"inherits": KwInherits,
	"if":       KwIf,
	"then":     KwThen,
	"else":     KwElse,
	"fi":       KwFi,
	"while":    KwWhile,
	"loop":     KwLoop,
	"pool":     KwPool,
	"let":      KwLet,
	"in":       KwIn,
	"case":     KwCase,
	"of":       KwOf,
	"esac":     KwEsac,
	"new":      KwNew,
	"isvoid":   KwIsvoid,
	"not":      KwNot,
}

// Token is one lexical unit: its kind, the literal text/value it carries,
// and its source position.
type Token struct {
	Kind   Kind
	Text   string
	IntVal int32
	BoolVal bool
	Pos    ast.Pos
}
