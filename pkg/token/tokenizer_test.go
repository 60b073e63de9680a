package token_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacktoolchain/n2t/pkg/token"
)

func tokenize(t *testing.T, src string) []token.Token {
	t.Helper()
	tz := token.NewTokenizer(strings.NewReader(src))
	toks, err := tz.Tokenize()
	require.NoError(t, err)
	return toks
}

func TestKeywordsAndIdentifiers(t *testing.T) {
	toks := tokenize(t, "class Main { field int x; }")

	want := []token.Token{
		{Kind: token.Keyword, Value: "class"},
		{Kind: token.Identifier, Value: "Main"},
		{Kind: token.Symbol, Value: "{"},
		{Kind: token.Keyword, Value: "field"},
		{Kind: token.Keyword, Value: "int"},
		{Kind: token.Identifier, Value: "x"},
		{Kind: token.Symbol, Value: ";"},
		{Kind: token.Symbol, Value: "}"},
	}
	assert.Equal(t, want, toks)
}

func TestIntegerConstants(t *testing.T) {
	toks := tokenize(t, "let x = 32767;")
	assert.Equal(t, token.Token{Kind: token.IntConst, Value: "32767"}, toks[3])
}

func TestStringConstantsPreserveWhitespace(t *testing.T) {
	toks := tokenize(t, `do Output.printString("a  b");`)
	var found bool
	for _, tok := range toks {
		if tok.Kind == token.StringConst {
			assert.Equal(t, "a  b", tok.Value)
			found = true
		}
	}
	assert.True(t, found, "expected a string constant token")
}

func TestLineCommentsStripped(t *testing.T) {
	toks := tokenize(t, "let x = 1; // trailing comment\nlet y = 2;")
	for _, tok := range toks {
		assert.NotContains(t, tok.Value, "trailing")
	}
}

func TestBlockCommentsSpanningLinesStripped(t *testing.T) {
	toks := tokenize(t, "let x /* this\nspans\nmultiple lines */ = 1;")
	want := []token.Token{
		{Kind: token.Keyword, Value: "let"},
		{Kind: token.Identifier, Value: "x"},
		{Kind: token.Symbol, Value: "="},
		{Kind: token.IntConst, Value: "1"},
		{Kind: token.Symbol, Value: ";"},
	}
	assert.Equal(t, want, toks)
}

func TestDocCommentsStripped(t *testing.T) {
	toks := tokenize(t, "/** A doc comment. */\nclass Foo {}")
	want := []token.Token{
		{Kind: token.Keyword, Value: "class"},
		{Kind: token.Identifier, Value: "Foo"},
		{Kind: token.Symbol, Value: "{"},
		{Kind: token.Symbol, Value: "}"},
	}
	assert.Equal(t, want, toks)
}

func TestUnterminatedStringFails(t *testing.T) {
	tz := token.NewTokenizer(strings.NewReader(`let x = "unterminated;`))
	_, err := tz.Tokenize()
	require.Error(t, err)
}

func TestWhitespaceInsensitiveRoundTrip(t *testing.T) {
	a := tokenize(t, "let x=1+2;")
	b := tokenize(t, "let   x \n = \t 1 + 2 ;  // note\n")
	assert.Equal(t, a, b)
}
