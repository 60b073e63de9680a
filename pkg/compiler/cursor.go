package compiler

import (
	"fmt"

	"github.com/jacktoolchain/n2t/pkg/token"
)

// peek returns the token at the cursor without consuming it; past the end
// of the stream it returns the zero Token, which never matches any
// expect*/check* predicate below, turning "ran off the end" into the same
// "unexpected token" error path as a genuine mismatch.
func (g *Generator) peek() token.Token {
	if g.pos >= len(g.tokens) {
		return token.Token{}
	}
	return g.tokens[g.pos]
}

// advance returns the token at the cursor and moves the cursor forward.
func (g *Generator) advance() token.Token {
	tok := g.peek()
	g.pos++
	return tok
}

func (g *Generator) checkKeyword(word string) bool {
	tok := g.peek()
	return tok.Kind == token.Keyword && tok.Value == word
}

func (g *Generator) checkSymbol(sym string) bool {
	tok := g.peek()
	return tok.Kind == token.Symbol && tok.Value == sym
}

// expectSymbol asserts the current token is the given symbol and consumes
// it; every grammar anchor ('{', '}', '(', ')', ';', '=', '[', ']', '.')
// goes through this, so a mismatch anywhere is fatal per spec.
func (g *Generator) expectSymbol(sym string) error {
	if !g.checkSymbol(sym) {
		return fmt.Errorf("expected symbol %q, got %v", sym, g.peek())
	}
	g.advance()
	return nil
}

func (g *Generator) expectKeyword(word string) error {
	if !g.checkKeyword(word) {
		return fmt.Errorf("expected keyword %q, got %v", word, g.peek())
	}
	g.advance()
	return nil
}

func (g *Generator) expectKind(kind token.Kind) (token.Token, error) {
	tok := g.peek()
	if tok.Kind != kind {
		return token.Token{}, fmt.Errorf("expected %s, got %v", kind, tok)
	}
	g.advance()
	return tok, nil
}
