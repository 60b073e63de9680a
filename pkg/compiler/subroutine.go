package compiler

import (
	"github.com/jacktoolchain/n2t/pkg/jackvm"
	"github.com/jacktoolchain/n2t/pkg/symtab"
	"github.com/jacktoolchain/n2t/pkg/token"
)

// compileSubroutine handles 'constructor' | 'function' | 'method'
// declarations. The function's local count is known exactly when all
// parameters and var declarations have been parsed (the Jack grammar always
// places varDec* before any statement), so the 'function name nLocals'
// header and its prelude are emitted right there, before the body statements
// are compiled — no buffering of body instructions is needed.
func (g *Generator) compileSubroutine() error {
	kindTok := g.advance() // 'constructor' | 'function' | 'method'
	kind := kindTok.Value

	if _, err := g.compileType(); err != nil { // return type, or 'void'
		return err
	}

	nameTok, err := g.expectKind(token.Identifier)
	if err != nil {
		return err
	}
	subName := nameTok.Value

	g.symbols.DefineSubroutineScope()

	// The receiver occupies argument slot 0 before any user parameter is
	// registered, so user argument indices start at 1 for methods.
	if kind == "method" {
		g.symbols.Add("this", g.className, "argument")
	}

	if err := g.expectSymbol("("); err != nil {
		return err
	}
	if err := g.compileParameterList(); err != nil {
		return err
	}
	if err := g.expectSymbol(")"); err != nil {
		return err
	}

	if err := g.expectSymbol("{"); err != nil {
		return err
	}
	for g.checkKeyword("var") {
		if err := g.compileVarDec(); err != nil {
			return err
		}
	}

	nLocals := g.symbols.CountOf(symtab.Local)
	g.emit(jackvm.Function{Name: g.className + "." + subName, NLocals: nLocals})

	switch kind {
	case "method":
		g.emit(jackvm.Push{Segment: jackvm.Argument, Index: 0})
		g.emit(jackvm.Pop{Segment: jackvm.Pointer, Index: 0})
	case "constructor":
		nFields := g.symbols.CountOf(symtab.Field)
		g.emit(jackvm.Push{Segment: jackvm.Constant, Index: nFields})
		g.emit(jackvm.Call{Name: "Memory.alloc", NArgs: 1})
		g.emit(jackvm.Pop{Segment: jackvm.Pointer, Index: 0})
	}

	if err := g.compileStatements(); err != nil {
		return err
	}
	return g.expectSymbol("}")
}

func (g *Generator) compileParameterList() error {
	if g.checkSymbol(")") {
		return nil
	}
	for {
		typ, err := g.compileType()
		if err != nil {
			return err
		}
		nameTok, err := g.expectKind(token.Identifier)
		if err != nil {
			return err
		}
		g.symbols.Add(nameTok.Value, typ, "argument")

		if !g.checkSymbol(",") {
			return nil
		}
		g.advance()
	}
}

func (g *Generator) compileVarDec() error {
	g.advance() // 'var'
	typ, err := g.compileType()
	if err != nil {
		return err
	}

	nameTok, err := g.expectKind(token.Identifier)
	if err != nil {
		return err
	}
	g.symbols.Add(nameTok.Value, typ, "var")

	for g.checkSymbol(",") {
		g.advance()
		nameTok, err := g.expectKind(token.Identifier)
		if err != nil {
			return err
		}
		g.symbols.Add(nameTok.Value, typ, "var")
	}

	return g.expectSymbol(";")
}
