package compiler

import (
	"fmt"

	"github.com/jacktoolchain/n2t/pkg/jackvm"
	"github.com/jacktoolchain/n2t/pkg/token"
)

// compileStatements compiles a (possibly empty) statement* run, stopping at
// the first token that does not start a statement (the enclosing '}').
func (g *Generator) compileStatements() error {
	for {
		switch {
		case g.checkKeyword("let"):
			if err := g.compileLet(); err != nil {
				return err
			}
		case g.checkKeyword("if"):
			if err := g.compileIf(); err != nil {
				return err
			}
		case g.checkKeyword("while"):
			if err := g.compileWhile(); err != nil {
				return err
			}
		case g.checkKeyword("do"):
			if err := g.compileDo(); err != nil {
				return err
			}
		case g.checkKeyword("return"):
			if err := g.compileReturn(); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

func (g *Generator) compileLet() error {
	g.advance() // 'let'
	nameTok, err := g.expectKind(token.Identifier)
	if err != nil {
		return err
	}
	name := nameTok.Value

	if g.checkSymbol("[") {
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

		if err := g.expectSymbol("="); err != nil {
			return err
		}
		if err := g.compileExpression(); err != nil {
			return err
		}
		if err := g.expectSymbol(";"); err != nil {
			return err
		}

		// Two-phase: the array base + index lives under temp/pointer-1 so
		// that the RHS expression is free to read through 'that' itself
		// (e.g. another array access) without clobbering this one.
		g.emit(jackvm.Pop{Segment: jackvm.Temp, Index: 0})
		g.emit(jackvm.Pop{Segment: jackvm.Pointer, Index: 1})
		g.emit(jackvm.Push{Segment: jackvm.Temp, Index: 0})
		g.emit(jackvm.Pop{Segment: jackvm.That, Index: 0})
		return nil
	}

	if err := g.expectSymbol("="); err != nil {
		return err
	}
	if err := g.compileExpression(); err != nil {
		return err
	}
	if err := g.expectSymbol(";"); err != nil {
		return err
	}

	sym, ok := g.symbols.Lookup(name)
	if !ok {
		return fmt.Errorf("assignment to undeclared variable %q", name)
	}
	g.emit(jackvm.Pop{Segment: segmentFor(sym.Kind), Index: sym.Index})
	return nil
}

func (g *Generator) compileIf() error {
	g.advance() // 'if'
	if err := g.expectSymbol("("); err != nil {
		return err
	}
	if err := g.compileExpression(); err != nil {
		return err
	}
	if err := g.expectSymbol(")"); err != nil {
		return err
	}

	labelElse := g.nextLabel()
	labelEnd := g.nextLabel()

	g.emit(jackvm.Arithmetic{Op: jackvm.Not})
	g.emit(jackvm.Goto{Label: labelElse, Jump: jackvm.Conditional})

	if err := g.expectSymbol("{"); err != nil {
		return err
	}
	if err := g.compileStatements(); err != nil {
		return err
	}
	if err := g.expectSymbol("}"); err != nil {
		return err
	}

	g.emit(jackvm.Goto{Label: labelEnd, Jump: jackvm.Unconditional})
	g.emit(jackvm.Label{Name: labelElse})

	if g.checkKeyword("else") {
		g.advance()
		if err := g.expectSymbol("{"); err != nil {
			return err
		}
		if err := g.compileStatements(); err != nil {
			return err
		}
		if err := g.expectSymbol("}"); err != nil {
			return err
		}
	}

	g.emit(jackvm.Label{Name: labelEnd})
	return nil
}

func (g *Generator) compileWhile() error {
	g.advance() // 'while'

	labelTop := g.nextLabel()
	labelEnd := g.nextLabel()

	g.emit(jackvm.Label{Name: labelTop})

	if err := g.expectSymbol("("); err != nil {
		return err
	}
	if err := g.compileExpression(); err != nil {
		return err
	}
	if err := g.expectSymbol(")"); err != nil {
		return err
	}

	g.emit(jackvm.Arithmetic{Op: jackvm.Not})
	g.emit(jackvm.Goto{Label: labelEnd, Jump: jackvm.Conditional})

	if err := g.expectSymbol("{"); err != nil {
		return err
	}
	if err := g.compileStatements(); err != nil {
		return err
	}
	if err := g.expectSymbol("}"); err != nil {
		return err
	}

	g.emit(jackvm.Goto{Label: labelTop, Jump: jackvm.Unconditional})
	g.emit(jackvm.Label{Name: labelEnd})
	return nil
}

func (g *Generator) compileDo() error {
	g.advance() // 'do'
	if err := g.compileSubroutineCall(); err != nil {
		return err
	}
	if err := g.expectSymbol(";"); err != nil {
		return err
	}
	// Discards whatever value the call left on the stack: every subroutine
	// returns something (void subroutines push a 0 stub) and a 'do'
	// statement never uses it, no matter which of the four call forms fired.
	g.emit(jackvm.Pop{Segment: jackvm.Temp, Index: 0})
	return nil
}

func (g *Generator) compileReturn() error {
	g.advance() // 'return'
	if !g.checkSymbol(";") {
		if err := g.compileExpression(); err != nil {
			return err
		}
	} else {
		g.emit(jackvm.Push{Segment: jackvm.Constant, Index: 0})
	}
	if err := g.expectSymbol(";"); err != nil {
		return err
	}
	g.emit(jackvm.Return{})
	return nil
}
