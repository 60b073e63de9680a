// Package jackvm models the stack-based VM intermediate language that the
// Jack compiler emits and the VM translator consumes: memory operations
// over eight segments, arithmetic/logical ops, branching, and the
// function/call/return calling convention.
package jackvm

import "fmt"

// Segment names one of the eight memory segments addressable by push/pop.
type Segment string

const (
	Constant Segment = "constant"
	Local    Segment = "local"
	Argument Segment = "argument"
	This     Segment = "this"
	That     Segment = "that"
	Pointer  Segment = "pointer"
	Temp     Segment = "temp"
	Static   Segment = "static"
)

// ArithOp is an arithmetic/logical/comparison opcode.
type ArithOp string

const (
	Add ArithOp = "add"
	Sub ArithOp = "sub"
	Neg ArithOp = "neg"
	Eq  ArithOp = "eq"
	Gt  ArithOp = "gt"
	Lt  ArithOp = "lt"
	And ArithOp = "and"
	Or  ArithOp = "or"
	Not ArithOp = "not"
)

// Jump distinguishes unconditional ('goto') from conditional ('if-goto')
// control transfers.
type Jump string

const (
	Unconditional Jump = "goto"
	Conditional   Jump = "if-goto"
)

// Instruction is the shared type of every VM instruction variant below.
type Instruction interface{ vmInstruction() }

// Push loads a value from seg[index] onto the stack.
type Push struct {
	Segment Segment
	Index   uint16
}

// Pop stores the stack top into seg[index].
type Pop struct {
	Segment Segment
	Index   uint16
}

// Arithmetic applies one of the unary/binary/comparison opcodes to the
// stack top (and, for binary ops, the element below it).
type Arithmetic struct{ Op ArithOp }

// Label declares a jump target, unique within the compilation unit that
// produced it (the Jack generator numbers these L0, L1, ...).
type Label struct{ Name string }

// Goto transfers control to Label, unconditionally or conditionally on the
// (popped) stack top.
type Goto struct {
	Label string
	Jump  Jump
}

// Function declares a subroutine entry point together with its local
// variable count (the VM translator pushes that many zeroed locals).
type Function struct {
	Name    string
	NLocals uint16
}

// Call invokes Name, having already pushed NArgs arguments onto the stack.
type Call struct {
	Name  string
	NArgs uint16
}

// Return pops the caller's frame and transfers control back to it.
type Return struct{}

func (Push) vmInstruction()       {}
func (Pop) vmInstruction()        {}
func (Arithmetic) vmInstruction() {}
func (Label) vmInstruction()      {}
func (Goto) vmInstruction()       {}
func (Function) vmInstruction()   {}
func (Call) vmInstruction()       {}
func (Return) vmInstruction()     {}

// MaxTempIndex is the highest valid 'temp' segment offset: the Hack
// platform reserves only RAM[5..12] (8 slots) for it.
const MaxTempIndex = 7

// MaxPointerIndex is the highest valid 'pointer' segment offset (0 = this,
// 1 = that).
const MaxPointerIndex = 1

// String renders an Instruction in the canonical one-line VM text format.
func String(inst Instruction) (string, error) {
	switch i := inst.(type) {
	case Push:
		if err := checkBounds(i.Segment, i.Index); err != nil {
			return "", err
		}
		return fmt.Sprintf("push %s %d", i.Segment, i.Index), nil
	case Pop:
		if i.Segment == Constant {
			return "", fmt.Errorf("cannot pop into the 'constant' segment")
		}
		if err := checkBounds(i.Segment, i.Index); err != nil {
			return "", err
		}
		return fmt.Sprintf("pop %s %d", i.Segment, i.Index), nil
	case Arithmetic:
		return string(i.Op), nil
	case Label:
		if i.Name == "" {
			return "", fmt.Errorf("unable to produce empty label declaration")
		}
		return fmt.Sprintf("label %s", i.Name), nil
	case Goto:
		if i.Label == "" {
			return "", fmt.Errorf("unable to produce empty jump label")
		}
		return fmt.Sprintf("%s %s", i.Jump, i.Label), nil
	case Function:
		if i.Name == "" {
			return "", fmt.Errorf("unable to produce empty function declaration")
		}
		return fmt.Sprintf("function %s %d", i.Name, i.NLocals), nil
	case Call:
		if i.Name == "" {
			return "", fmt.Errorf("unable to produce empty function call")
		}
		return fmt.Sprintf("call %s %d", i.Name, i.NArgs), nil
	case Return:
		return "return", nil
	default:
		return "", fmt.Errorf("unrecognized instruction %T", inst)
	}
}

func checkBounds(seg Segment, index uint16) error {
	if seg == Pointer && index > MaxPointerIndex {
		return fmt.Errorf("invalid 'pointer' offset, got %d", index)
	}
	if seg == Temp && index > MaxTempIndex {
		return fmt.Errorf("invalid 'temp' offset %d, only 8 slots (0-7) are available", index)
	}
	return nil
}
