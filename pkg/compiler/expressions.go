package compiler

import (
	"fmt"
	"strconv"

	"github.com/jacktoolchain/n2t/pkg/jackvm"
	"github.com/jacktoolchain/n2t/pkg/token"
)

var binOps = map[string]jackvm.ArithOp{
	"+": jackvm.Add,
	"-": jackvm.Sub,
	"&": jackvm.And,
	"|": jackvm.Or,
	"<": jackvm.Lt,
	">": jackvm.Gt,
	"=": jackvm.Eq,
}

func (g *Generator) checkBinOp() (string, bool) {
	tok := g.peek()
	if tok.Kind != token.Symbol {
		return "", false
	}
	switch tok.Value {
	case "+", "-", "*", "/", "&", "|", "<", ">", "=":
		return tok.Value, true
	default:
		return "", false
	}
}

// compileExpression compiles term (op term)* strictly left-to-right: there
// is no operator precedence, matching Jack's grammar exactly.
func (g *Generator) compileExpression() error {
	if err := g.compileTerm(); err != nil {
		return err
	}
	for {
		op, ok := g.checkBinOp()
		if !ok {
			return nil
		}
		g.advance()
		if err := g.compileTerm(); err != nil {
			return err
		}
		g.emitBinOp(op)
	}
}

func (g *Generator) emitBinOp(op string) {
	switch op {
	case "*":
		g.emit(jackvm.Call{Name: "Math.multiply", NArgs: 2})
	case "/":
		g.emit(jackvm.Call{Name: "Math.divide", NArgs: 2})
	default:
		g.emit(jackvm.Arithmetic{Op: binOps[op]})
	}
}

func (g *Generator) compileTerm() error {
	tok := g.peek()

	switch {
	case tok.Kind == token.IntConst:
		g.advance()
		n, err := strconv.ParseUint(tok.Value, 10, 16)
		if err != nil {
			return fmt.Errorf("invalid integer constant %q: %w", tok.Value, err)
		}
		g.emit(jackvm.Push{Segment: jackvm.Constant, Index: uint16(n)})
		return nil

	case tok.Kind == token.StringConst:
		g.advance()
		return g.compileStringConstant(tok.Value)

	case tok.Kind == token.Keyword && (tok.Value == "true" || tok.Value == "false" || tok.Value == "null" || tok.Value == "this"):
		g.advance()
		switch tok.Value {
		case "true":
			g.emit(jackvm.Push{Segment: jackvm.Constant, Index: 0})
			g.emit(jackvm.Arithmetic{Op: jackvm.Not})
		case "false", "null":
			g.emit(jackvm.Push{Segment: jackvm.Constant, Index: 0})
		case "this":
			g.emit(jackvm.Push{Segment: jackvm.Pointer, Index: 0})
		}
		return nil

	case tok.Kind == token.Symbol && tok.Value == "(":
		g.advance()
		if err := g.compileExpression(); err != nil {
			return err
		}
		return g.expectSymbol(")")

	case tok.Kind == token.Symbol && (tok.Value == "-" || tok.Value == "~"):
		g.advance()
		if err := g.compileTerm(); err != nil {
			return err
		}
		if tok.Value == "-" {
			g.emit(jackvm.Arithmetic{Op: jackvm.Neg})
		} else {
			g.emit(jackvm.Arithmetic{Op: jackvm.Not})
		}
		return nil

	case tok.Kind == token.Identifier:
		g.advance()
		return g.compileIdentifierTerm(tok.Value)

	default:
		return fmt.Errorf("unexpected token in expression: %v", tok)
	}
}

// compileIdentifierTerm handles the four shapes an identifier can start once
// already consumed: array access, a bare call, a qualified call, or a plain
// variable read.
func (g *Generator) compileIdentifierTerm(name string) error {
	switch {
	case g.checkSymbol("["):
		g.advance()
		if err := g.compileVariablePush(name); err != nil {
			return err
		}
		if err := g.compileExpression(); err != nil {
			return err
		}
		g.emit(jackvm.Arithmetic{Op: jackvm.Add})
		if err := g.expectSymbol("]"); err != nil {
			return err
		}
		g.emit(jackvm.Pop{Segment: jackvm.Pointer, Index: 1})
		g.emit(jackvm.Push{Segment: jackvm.That, Index: 0})
		return nil

	case g.checkSymbol("("):
		return g.compileCallBare(name)

	case g.checkSymbol("."):
		return g.compileCallQualified(name)

	default:
		return g.compileVariablePush(name)
	}
}

func (g *Generator) compileVariablePush(name string) error {
	sym, ok := g.symbols.Lookup(name)
	if !ok {
		return fmt.Errorf("reference to undeclared variable %q", name)
	}
	g.emit(jackvm.Push{Segment: segmentFor(sym.Kind), Index: sym.Index})
	return nil
}

// compileSubroutineCall compiles the call of a do-statement. Term-position
// calls reach compileCallBare/compileCallQualified through
// compileIdentifierTerm instead, so both positions share the same dispatch.
func (g *Generator) compileSubroutineCall() error {
	nameTok, err := g.expectKind(token.Identifier)
	if err != nil {
		return err
	}
	name := nameTok.Value

	if g.checkSymbol(".") {
		return g.compileCallQualified(name)
	}
	return g.compileCallBare(name)
}

// compileCallBare handles f(...): a call with no explicit receiver, always
// resolved against the current object regardless of the enclosing
// subroutine's own kind.
func (g *Generator) compileCallBare(name string) error {
	if err := g.expectSymbol("("); err != nil {
		return err
	}
	g.emit(jackvm.Push{Segment: jackvm.Pointer, Index: 0})
	nArgs, err := g.compileExpressionList()
	if err != nil {
		return err
	}
	if err := g.expectSymbol(")"); err != nil {
		return err
	}
	g.emit(jackvm.Call{Name: g.className + "." + name, NArgs: nArgs + 1})
	return nil
}

// compileCallQualified handles head.name(...). When head resolves in the
// symbol table it is a variable: push it as the receiver and dispatch on
// its declared type. Otherwise head is a class name — a plain function call
// or a constructor call, both of which compile to the identical
// "call Head.name nArgs" instruction shape, so no whole-program class
// registry is needed to tell them apart here.
func (g *Generator) compileCallQualified(head string) error {
	if err := g.expectSymbol("."); err != nil {
		return err
	}
	nameTok, err := g.expectKind(token.Identifier)
	if err != nil {
		return err
	}
	name := nameTok.Value

	if err := g.expectSymbol("("); err != nil {
		return err
	}

	if sym, ok := g.symbols.Lookup(head); ok {
		g.emit(jackvm.Push{Segment: segmentFor(sym.Kind), Index: sym.Index})
		nArgs, err := g.compileExpressionList()
		if err != nil {
			return err
		}
		if err := g.expectSymbol(")"); err != nil {
			return err
		}
		g.emit(jackvm.Call{Name: sym.Type + "." + name, NArgs: nArgs + 1})
		return nil
	}

	nArgs, err := g.compileExpressionList()
	if err != nil {
		return err
	}
	if err := g.expectSymbol(")"); err != nil {
		return err
	}
	g.emit(jackvm.Call{Name: head + "." + name, NArgs: nArgs})
	return nil
}

func (g *Generator) compileExpressionList() (uint16, error) {
	if g.checkSymbol(")") {
		return 0, nil
	}
	var n uint16
	for {
		if err := g.compileExpression(); err != nil {
			return 0, err
		}
		n++
		if !g.checkSymbol(",") {
			return n, nil
		}
		g.advance()
	}
}

func (g *Generator) compileStringConstant(s string) error {
	g.emit(jackvm.Push{Segment: jackvm.Constant, Index: uint16(len(s))})
	g.emit(jackvm.Call{Name: "String.new", NArgs: 1})
	for _, r := range s {
		g.emit(jackvm.Push{Segment: jackvm.Constant, Index: uint16(r)})
		g.emit(jackvm.Call{Name: "String.appendChar", NArgs: 2})
	}
	return nil
}
