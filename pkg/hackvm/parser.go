// Package hackvm parses the textual VM bytecode format (the output of
// pkg/compiler and the input to pkg/translate) into jackvm.Instruction
// values, and renders that same format back out via jackvm.String.
package hackvm

import (
	"fmt"
	"io"
	"os"
	"strconv"

	pc "github.com/prataprc/goparsec"

	"github.com/jacktoolchain/n2t/pkg/jackvm"
)

// ----------------------------------------------------------------------------
// Parser combinator(s)
//
// One combinator per VM instruction shape. Exactly like the Jack tokenizer,
// the AST goparsec builds here is a disposable scaffold: FromAST walks it
// once into a []jackvm.Instruction and the tree is discarded.

var ast = pc.NewAST("vm_module", 0)

var (
	pModule = ast.ManyUntil("module", nil, ast.OrdChoice("node", nil, pComment, pInstruction), pc.End())

	pComment = ast.And("comment", nil, pc.Atom("//", "//"), pc.Token(`(?m).*$`, "COMMENT"))

	pInstruction = ast.OrdChoice("instruction", nil,
		pMemoryOp, pArithmeticOp, pLabelDecl, pGotoOp, pFuncDecl, pFuncCallOp, pReturnOp,
	)

	pMemoryOp     = ast.And("memory_op", nil, pMemOpType, pSegment, pc.Int())
	pArithmeticOp = ast.And("arithmetic_op", nil, pArithOpType)

	pLabelDecl = ast.And("label_decl", nil, pc.Atom("label", "LABEL"), pIdent)
	pGotoOp    = ast.And("goto_op", nil, pJumpType, pIdent)

	pFuncDecl   = ast.And("func_decl", nil, pc.Atom("function", "FUNC"), pIdent, pc.Int())
	pFuncCallOp = ast.And("func_call", nil, pc.Atom("call", "CALL"), pIdent, pc.Int())
	pReturnOp   = ast.And("return_op", nil, pc.Atom("return", "RETURN"))
)

var (
	pIdent = pc.Token(`[A-Za-z_.$:][0-9a-zA-Z_.$:]*`, "IDENT")

	pMemOpType = ast.OrdChoice("mem_op_type", nil, pc.Atom("push", "PUSH"), pc.Atom("pop", "POP"))

	pSegment = ast.OrdChoice("mem_segment", nil,
		pc.Atom("argument", "ARGUMENT"), pc.Atom("local", "LOCAL"),
		pc.Atom("static", "STATIC"), pc.Atom("constant", "CONSTANT"),
		pc.Atom("this", "THIS"), pc.Atom("that", "THAT"),
		pc.Atom("temp", "TEMP"), pc.Atom("pointer", "POINTER"),
	)

	pArithOpType = ast.OrdChoice("operations", nil,
		pc.Atom("eq", "EQ"), pc.Atom("gt", "GT"), pc.Atom("lt", "LT"),
		pc.Atom("add", "ADD"), pc.Atom("sub", "SUB"), pc.Atom("neg", "NEG"),
		pc.Atom("not", "NOT"), pc.Atom("and", "AND"), pc.Atom("or", "OR"),
	)

	pJumpType = ast.OrdChoice("jump_type", nil, pc.Atom("goto", "GOTO"), pc.Atom("if-goto", "IF-GOTO"))
)

// Parser parses a '.vm' file's textual instruction stream.
type Parser struct{ reader io.Reader }

// NewParser returns a Parser reading from r.
func NewParser(r io.Reader) Parser { return Parser{reader: r} }

// Parse reads the whole input and returns its instruction sequence.
func (p *Parser) Parse() ([]jackvm.Instruction, error) {
	content, err := io.ReadAll(p.reader)
	if err != nil {
		return nil, fmt.Errorf("cannot read from 'io.Reader': %w", err)
	}

	root, ok := p.FromSource(content)
	if !ok {
		return nil, fmt.Errorf("failed to parse AST from input content")
	}

	return p.FromAST(root)
}

func (p *Parser) FromSource(source []byte) (pc.Queryable, bool) {
	if os.Getenv("PARSEC_DEBUG") != "" {
		ast.SetDebug()
	}

	root, _ := ast.Parsewith(pModule, pc.NewScanner(source))
	if os.Getenv("PRINT_AST") != "" {
		ast.Prettyprint()
	}
	return root, root != nil
}

// FromAST walks the flat 'module' node into a jackvm.Instruction slice; the
// tree itself is never retained past this call.
func (p *Parser) FromAST(root pc.Queryable) ([]jackvm.Instruction, error) {
	if root.GetName() != "module" {
		return nil, fmt.Errorf("expected node 'module', found %q", root.GetName())
	}

	var insts []jackvm.Instruction
	for _, child := range root.GetChildren() {
		switch child.GetName() {
		case "memory_op":
			op, err := handleMemoryOp(child)
			if err != nil {
				return nil, err
			}
			insts = append(insts, op)
		case "arithmetic_op":
			op, err := handleArithmeticOp(child)
			if err != nil {
				return nil, err
			}
			insts = append(insts, op)
		case "label_decl":
			insts = append(insts, jackvm.Label{Name: child.GetChildren()[1].GetValue()})
		case "goto_op":
			insts = append(insts, jackvm.Goto{
				Jump:  jackvm.Jump(child.GetChildren()[0].GetValue()),
				Label: child.GetChildren()[1].GetValue(),
			})
		case "func_decl":
			n, err := parseUint16(child.GetChildren()[2].GetValue())
			if err != nil {
				return nil, err
			}
			insts = append(insts, jackvm.Function{Name: child.GetChildren()[1].GetValue(), NLocals: n})
		case "func_call":
			n, err := parseUint16(child.GetChildren()[2].GetValue())
			if err != nil {
				return nil, err
			}
			insts = append(insts, jackvm.Call{Name: child.GetChildren()[1].GetValue(), NArgs: n})
		case "return_op":
			insts = append(insts, jackvm.Return{})
		case "comment":
			continue
		default:
			return nil, fmt.Errorf("unrecognized node %q", child.GetName())
		}
	}

	return insts, nil
}

func handleMemoryOp(node pc.Queryable) (jackvm.Instruction, error) {
	if len(node.GetChildren()) != 3 {
		return nil, fmt.Errorf("expected 'memory_op' with 3 children, got %d", len(node.GetChildren()))
	}
	seg := jackvm.Segment(node.GetChildren()[1].GetValue())
	index, err := parseUint16(node.GetChildren()[2].GetValue())
	if err != nil {
		return nil, err
	}

	switch node.GetChildren()[0].GetValue() {
	case "push":
		return jackvm.Push{Segment: seg, Index: index}, nil
	case "pop":
		return jackvm.Pop{Segment: seg, Index: index}, nil
	default:
		return nil, fmt.Errorf("unrecognized memory op %q", node.GetChildren()[0].GetValue())
	}
}

func handleArithmeticOp(node pc.Queryable) (jackvm.Instruction, error) {
	if len(node.GetChildren()) != 1 {
		return nil, fmt.Errorf("expected 'arithmetic_op' with 1 child, got %d", len(node.GetChildren()))
	}
	return jackvm.Arithmetic{Op: jackvm.ArithOp(node.GetChildren()[0].GetValue())}, nil
}

func parseUint16(s string) (uint16, error) {
	n, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid numeric operand %q: %w", s, err)
	}
	return uint16(n), nil
}
