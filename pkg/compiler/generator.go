// Package compiler implements the single-pass recursive-descent Jack
// parser/code-generator: it consumes a token cursor, drives a symtab.Table,
// and emits jackvm.Instruction directly. No AST node is materialized.
package compiler

import (
	"fmt"

	"github.com/jacktoolchain/n2t/pkg/jackvm"
	"github.com/jacktoolchain/n2t/pkg/symtab"
	"github.com/jacktoolchain/n2t/pkg/token"
)

// Generator holds all per-compilation-unit state: the token cursor, the
// current class name, the symbol table, the emitted instruction buffer, and
// the monotonic label counter. All of it lives on the instance (never on a
// package-level var), so compiling one class can never leak state into the
// next — unlike the historical implementation this toolchain descends from,
// where a class-level loop counter was not reset between classes.
type Generator struct {
	tokens []token.Token
	pos    int

	className string
	symbols   *symtab.Table

	instructions []jackvm.Instruction
	labelCounter int
}

// NewGenerator returns a Generator ready to compile a single class from the
// given token stream (typically the output of token.Tokenizer.Tokenize).
func NewGenerator(tokens []token.Token) *Generator {
	return &Generator{tokens: tokens, symbols: symtab.New()}
}

// Compile parses the token stream as a single Jack class and returns the
// emitted VM instruction sequence.
func (g *Generator) Compile() ([]jackvm.Instruction, error) {
	if err := g.expectKeyword("class"); err != nil {
		return nil, err
	}

	nameTok, err := g.expectKind(token.Identifier)
	if err != nil {
		return nil, err
	}
	g.className = nameTok.Value
	g.symbols.DefineClassScope()

	if err := g.expectSymbol("{"); err != nil {
		return nil, err
	}

	for g.checkKeyword("static") || g.checkKeyword("field") {
		if err := g.compileClassVarDec(); err != nil {
			return nil, err
		}
	}

	for g.checkKeyword("constructor") || g.checkKeyword("function") || g.checkKeyword("method") {
		if err := g.compileSubroutine(); err != nil {
			return nil, err
		}
	}

	if err := g.expectSymbol("}"); err != nil {
		return nil, err
	}

	return g.instructions, nil
}

func (g *Generator) emit(inst jackvm.Instruction) {
	g.instructions = append(g.instructions, inst)
}

func (g *Generator) nextLabel() string {
	label := fmt.Sprintf("L%d", g.labelCounter)
	g.labelCounter++
	return label
}

// compileType consumes a single type token: 'int' | 'char' | 'boolean' | a
// user class identifier.
func (g *Generator) compileType() (string, error) {
	tok := g.peek()
	if tok.Kind != token.Keyword && tok.Kind != token.Identifier {
		return "", fmt.Errorf("expected type, got %v", tok)
	}
	g.advance()
	return tok.Value, nil
}

func (g *Generator) compileClassVarDec() error {
	kindTok := g.advance() // 'static' | 'field'

	typ, err := g.compileType()
	if err != nil {
		return err
	}

	nameTok, err := g.expectKind(token.Identifier)
	if err != nil {
		return err
	}
	g.symbols.Add(nameTok.Value, typ, kindTok.Value)

	for g.checkSymbol(",") {
		g.advance()
		nameTok, err := g.expectKind(token.Identifier)
		if err != nil {
			return err
		}
		g.symbols.Add(nameTok.Value, typ, kindTok.Value)
	}

	return g.expectSymbol(";")
}

func segmentFor(kind symtab.Kind) jackvm.Segment {
	switch kind {
	case symtab.Static:
		return jackvm.Static
	case symtab.Field:
		return jackvm.This
	case symtab.Argument:
		return jackvm.Argument
	case symtab.Local:
		return jackvm.Local
	default:
		return ""
	}
}
