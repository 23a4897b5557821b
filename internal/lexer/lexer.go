// Package lexer turns normalized COOL source bytes into a token stream.
// It stands in for the "lexer" spec.md §1 names as an external
// collaborator to the semantic core, kept real (rather than stubbed) so
// the repository is an actual, runnable compiler end to end.
package lexer

import (
	"strings"

	"github.com/cool-lang/coolc/internal/ast"
	"github.com/cool-lang/coolc/internal/errors"
)

// Lexer scans normalized source into Tokens, accumulating diagnostics
// rather than aborting on the first bad character (spec.md §7's recovery
// posture, carried down to this collaborator for consistency).
type Lexer struct {
	src  []byte
	pos  int
	line int
	col  int
	sink *errors.Sink
}

// New creates a Lexer over src, which callers should already have passed
// through Normalize.
func New(src []byte) *Lexer {
	return &Lexer{src: src, line: 1, col: 1, sink: &errors.Sink{}}
}

// Tokens scans the entire input and returns every token (EOF-terminated)
// along with any diagnostics raised along the way.
func (l *Lexer) Tokens() ([]Token, []*errors.Report) {
	var toks []Token
	for {
		t := l.next()
		toks = append(toks, t)
		if t.Kind == EOF {
			break
		}
	}
	return toks, l.sink.Reports()
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *Lexer) peekAt(offset int) byte {
	if l.pos+offset >= len(l.src) {
		return 0
	}
	return l.src[l.pos+offset]
}

func (l *Lexer) advance() byte {
	c := l.src[l.pos]
	l.pos++
	if c == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return c
}

func (l *Lexer) here() ast.Pos {
	return ast.Pos{Line: l.line, Column: l.col}
}

func (l *Lexer) skipTrivia() {
	for l.pos < len(l.src) {
		c := l.peek()
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			l.advance()
		case c == '-' && l.peekAt(1) == '-':
			for l.pos < len(l.src) && l.peek() != '\n' {
				l.advance()
			}
		case c == '(' && l.peekAt(1) == '*':
			l.skipBlockComment()
		default:
			return
		}
	}
}

func (l *Lexer) skipBlockComment() {
	start := l.here()
	l.advance()
	l.advance()
	depth := 1
	for l.pos < len(l.src) && depth > 0 {
		if l.peek() == '(' && l.peekAt(1) == '*' {
			l.advance()
			l.advance()
			depth++
			continue
		}
		if l.peek() == '*' && l.peekAt(1) == ')' {
			l.advance()
			l.advance()
			depth--
			continue
		}
		l.advance()
	}
	if depth > 0 {
		l.sink.Add(errors.New(errors.KindSemanticError, errors.LEX003, start, "unterminated comment"))
	}
}

func (l *Lexer) next() Token {
	l.skipTrivia()
	if l.pos >= len(l.src) {
		return Token{Kind: EOF, Pos: l.here()}
	}

	start := l.here()
	c := l.peek()

	switch {
	case c == '"':
		return l.lexString(start)
	case isDigit(c):
		return l.lexInt(start)
	case isUpper(c):
		return l.lexIdent(start, TypeID)
	case isLower(c) || c == '_':
		return l.lexIdent(start, ObjectID)
	}

	return l.lexSymbol(start)
}

func (l *Lexer) lexString(start ast.Pos) Token {
	l.advance() // opening quote
	var b strings.Builder
	hasNul := false
	for {
		if l.pos >= len(l.src) {
			l.sink.Add(errors.New(errors.KindSemanticError, errors.LEX002, start, "unterminated string literal"))
			return Token{Kind: StringLit, Text: b.String(), Pos: start}
		}
		c := l.peek()
		if c == '"' {
			l.advance()
			break
		}
		if c == '\n' {
			l.sink.Add(errors.New(errors.KindSemanticError, errors.LEX002, start, "unterminated string literal"))
			break
		}
		if c == 0 {
			hasNul = true
			l.advance()
			continue
		}
		if c == '\\' {
			l.advance()
			esc := l.peek()
			l.advance()
			switch esc {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'b':
				b.WriteByte('\b')
			case 'f':
				b.WriteByte('\f')
			case '\n':
				b.WriteByte('\n')
			default:
				b.WriteByte(esc)
			}
			continue
		}
		b.WriteByte(c)
		l.advance()
	}
	if hasNul {
		l.sink.Add(errors.New(errors.KindSemanticError, errors.LEX004, start, "string literal contains a NUL byte"))
	}
	return Token{Kind: StringLit, Text: b.String(), Pos: start}
}

func (l *Lexer) lexInt(start ast.Pos) Token {
	var b strings.Builder
	for l.pos < len(l.src) && isDigit(l.peek()) {
		b.WriteByte(l.peek())
		l.advance()
	}
	text := b.String()
	var v int64
	for _, d := range text {
		v = v*10 + int64(d-'0')
		if v > 1<<31-1 {
			l.sink.Add(errors.New(errors.KindSemanticError, errors.LEX005, start, "integer literal %q out of range", text))
			return Token{Kind: IntLit, Text: text, IntVal: 0, Pos: start}
		}
	}
	return Token{Kind: IntLit, Text: text, IntVal: int32(v), Pos: start}
}

func (l *Lexer) lexIdent(start ast.Pos, kind Kind) Token {
	var b strings.Builder
	for l.pos < len(l.src) && isIdentRune(l.peek()) {
		b.WriteByte(l.peek())
		l.advance()
	}
	text := b.String()
	lower := strings.ToLower(text)
	if kw, ok := keywords[lower]; ok {
		return Token{Kind: kw, Text: text, Pos: start}
	}
	if lower == "true" {
		return Token{Kind: BoolLit, Text: text, BoolVal: true, Pos: start}
	}
	if lower == "false" {
		return Token{Kind: BoolLit, Text: text, BoolVal: false, Pos: start}
	}
	return Token{Kind: kind, Text: text, Pos: start}
}

func (l *Lexer) lexSymbol(start ast.Pos) Token {
	c := l.advance()
	switch c {
	case '{':
		return Token{Kind: LBrace, Pos: start}
	case '}':
		return Token{Kind: RBrace, Pos: start}
	case '(':
		return Token{Kind: LParen, Pos: start}
	case ')':
		return Token{Kind: RParen, Pos: start}
	case ':':
		return Token{Kind: Colon, Pos: start}
	case ';':
		return Token{Kind: Semi, Pos: start}
	case ',':
		return Token{Kind: Comma, Pos: start}
	case '.':
		return Token{Kind: Dot, Pos: start}
	case '@':
		return Token{Kind: At, Pos: start}
	case '+':
		return Token{Kind: Plus, Pos: start}
	case '*':
		return Token{Kind: Star, Pos: start}
	case '/':
		return Token{Kind: Slash, Pos: start}
	case '~':
		return Token{Kind: Tilde, Pos: start}
	case '-':
		return Token{Kind: Minus, Pos: start}
	case '<':
		if l.peek() == '-' {
			l.advance()
			return Token{Kind: Assign, Pos: start}
		}
		if l.peek() == '=' {
			l.advance()
			return Token{Kind: Le, Pos: start}
		}
		return Token{Kind: Lt, Pos: start}
	case '=':
		if l.peek() == '>' {
			l.advance()
			return Token{Kind: DArrow, Pos: start}
		}
		return Token{Kind: Eq, Pos: start}
	}
	l.sink.Add(errors.New(errors.KindSemanticError, errors.LEX001, start, "illegal character %q", string(c)))
	return l.next()
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }
func isLower(c byte) bool { return c >= 'a' && c <= 'z' }
func isIdentRune(c byte) bool {
	return isDigit(c) || isUpper(c) || isLower(c) || c == '_'
}
