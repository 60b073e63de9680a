// Package hackasm models Hack assembly statements and renders them to text.
// The VM translator (pkg/translate) is the only producer of these
// instructions; there is no assembler-side parser here, since nothing in
// this toolchain consumes hand-written assembly back in.
package hackasm

import (
	"fmt"
)

// Statement is the shared type of every Hack assembly line.
type Statement interface{}

// LabelDecl declares a jump target: '(NAME)'.
type LabelDecl struct {
	Name string
}

// AInstruction loads an address or constant into the A register: '@LOCATION'.
// Location is either a raw decimal offset, a built-in symbol (SP, LCL, ...),
// or a user/generated label — the text format does not distinguish them.
type AInstruction struct {
	Location string
}

// CInstruction computes comp, optionally storing into dest and/or jumping.
type CInstruction struct {
	Comp string
	Dest string
	Jump string
}

// BuiltInTable holds the Hack platform's predefined symbols, reserved so
// user/generated labels can never collide with them.
var BuiltInTable = map[string]uint16{
	"SP": 0, "LCL": 1, "ARG": 2, "THIS": 3, "THAT": 4,
	"R0": 0, "R1": 1, "R2": 2, "R3": 3, "R4": 4, "R5": 5, "R6": 6, "R7": 7,
	"R8": 8, "R9": 9, "R10": 10, "R11": 11, "R12": 12, "R13": 13, "R14": 14, "R15": 15,
	"SCREEN": 16384, "KBD": 24576,
}

// A builds an A-instruction for location (a number, built-in symbol or label).
func A(location string) AInstruction { return AInstruction{Location: location} }

// C renders a computation instruction; dest and/or jump may be empty.
func C(comp, dest, jump string) CInstruction { return CInstruction{Comp: comp, Dest: dest, Jump: jump} }

// CodeGenerator renders a Hack assembly program to text lines.
type CodeGenerator struct{ program []Statement }

// NewCodeGenerator returns a CodeGenerator over program.
func NewCodeGenerator(program []Statement) CodeGenerator {
	return CodeGenerator{program: program}
}

// Generate renders every statement to its textual line, in order.
func (cg CodeGenerator) Generate() ([]string, error) {
	lines := make([]string, 0, len(cg.program))

	for _, stmt := range cg.program {
		var line string
		var err error

		switch s := stmt.(type) {
		case AInstruction:
			line, err = cg.generateAInst(s)
		case CInstruction:
			line, err = cg.generateCInst(s)
		case LabelDecl:
			line, err = cg.generateLabelDecl(s)
		default:
			err = fmt.Errorf("unrecognized statement %T", stmt)
		}

		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}

	return lines, nil
}

func (CodeGenerator) generateAInst(stmt AInstruction) (string, error) {
	if stmt.Location == "" {
		return "", fmt.Errorf("unable to produce empty A-instruction")
	}
	return fmt.Sprintf("@%s", stmt.Location), nil
}

func (CodeGenerator) generateCInst(stmt CInstruction) (string, error) {
	if stmt.Comp == "" {
		return "", fmt.Errorf("expected 'comp' field in C-instruction")
	}
	switch {
	case stmt.Dest != "" && stmt.Jump == "":
		return fmt.Sprintf("%s=%s", stmt.Dest, stmt.Comp), nil
	case stmt.Jump != "" && stmt.Dest == "":
		return fmt.Sprintf("%s;%s", stmt.Comp, stmt.Jump), nil
	case stmt.Dest != "" && stmt.Jump != "":
		return fmt.Sprintf("%s=%s;%s", stmt.Dest, stmt.Comp, stmt.Jump), nil
	default:
		return "", fmt.Errorf("expected either 'dest' or 'jump' in C-instruction")
	}
}

func (CodeGenerator) generateLabelDecl(stmt LabelDecl) (string, error) {
	if _, reserved := BuiltInTable[stmt.Name]; reserved {
		return "", fmt.Errorf("unable to override built-in symbol %q", stmt.Name)
	}
	if stmt.Name == "" {
		return "", fmt.Errorf("unable to produce empty label declaration")
	}
	return fmt.Sprintf("(%s)", stmt.Name), nil
}
