package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(toks []Token) []Kind {
	out := make([]Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestTokensClassSkeleton(t *testing.T) {
	toks, reports := New([]byte(`class Main inherits IO { };`)).Tokens()
	require.Empty(t, reports)
	assert.Equal(t, []Kind{KwClass, TypeID, KwInherits, TypeID, LBrace, RBrace, Semi, EOF}, kinds(toks))
}

func TestTokensSkipsLineAndBlockComments(t *testing.T) {
	toks, reports := New([]byte("-- a comment\n(* nested (* block *) comment *) class")).Tokens()
	require.Empty(t, reports)
	assert.Equal(t, []Kind{KwClass, EOF}, kinds(toks))
}

func TestTokensUnterminatedBlockCommentReportsLEX003(t *testing.T) {
	_, reports := New([]byte("(* never closed")).Tokens()
	require.Len(t, reports, 1)
	assert.Equal(t, "LEX003", reports[0].Code)
}

func TestTokensStringEscapes(t *testing.T) {
	toks, reports := New([]byte(`"a\nb\tc"`)).Tokens()
	require.Empty(t, reports)
	require.Equal(t, StringLit, toks[0].Kind)
	assert.Equal(t, "a\nb\tc", toks[0].Text)
}

func TestTokensUnterminatedStringReportsLEX002(t *testing.T) {
	_, reports := New([]byte(`"never closed`)).Tokens()
	require.Len(t, reports, 1)
	assert.Equal(t, "LEX002", reports[0].Code)
}

func TestTokensStringWithNulReportsLEX004(t *testing.T) {
	_, reports := New([]byte("\"a\x00b\"")).Tokens()
	require.Len(t, reports, 1)
	assert.Equal(t, "LEX004", reports[0].Code)
}

func TestTokensIntLiteralOutOfRangeReportsLEX005(t *testing.T) {
	_, reports := New([]byte("99999999999999999999")).Tokens()
	require.Len(t, reports, 1)
	assert.Equal(t, "LEX005", reports[0].Code)
}

func TestTokensIntLiteral(t *testing.T) {
	toks, reports := New([]byte("42")).Tokens()
	require.Empty(t, reports)
	require.Equal(t, IntLit, toks[0].Kind)
	assert.Equal(t, int32(42), toks[0].IntVal)
}

func TestTokensBoolLiterals(t *testing.T) {
	toks, reports := New([]byte("true false")).Tokens()
	require.Empty(t, reports)
	require.Len(t, toks, 3)
	assert.True(t, toks[0].BoolVal)
	assert.False(t, toks[1].BoolVal)
}

func TestTokensAssignAndDArrowAndRelops(t *testing.T) {
	toks, reports := New([]byte("<- => <= < =")).Tokens()
	require.Empty(t, reports)
	assert.Equal(t, []Kind{Assign, DArrow, Le, Lt, Eq, EOF}, kinds(toks))
}

func TestTokensIllegalCharacterReportsLEX001(t *testing.T) {
	_, reports := New([]byte("#")).Tokens()
	require.Len(t, reports, 1)
	assert.Equal(t, "LEX001", reports[0].Code)
}

func TestNormalizeStripsBOM(t *testing.T) {
	src := append([]byte{0xEF, 0xBB, 0xBF}, []byte("class")...)
	assert.Equal(t, []byte("class"), Normalize(src))
}
