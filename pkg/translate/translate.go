// Package translate lowers jackvm.Instruction sequences into Hack assembly
// (pkg/hackasm.Statement), implementing the full calling convention: memory
// segment addressing, branch-based comparisons, function/call/return frame
// management, and the Sys.init bootstrap.
package translate

import (
	"fmt"

	"github.com/jacktoolchain/n2t/pkg/hackasm"
	"github.com/jacktoolchain/n2t/pkg/jackvm"
)

// segmentBase names the Hack built-in symbol backing each relocatable
// segment's base pointer; 'constant', 'temp', 'pointer' and 'static' are
// addressed directly and have no entry here.
var segmentBase = map[jackvm.Segment]string{
	jackvm.Local:    "LCL",
	jackvm.Argument: "ARG",
	jackvm.This:     "THIS",
	jackvm.That:     "THAT",
}

// Translator lowers one translation unit's worth of VM instructions into
// Hack assembly. A translation unit spans every '.vm' file fed to a single
// run, since labels and the comparison counter must stay unique across the
// whole program, not per file.
type Translator struct {
	module       string // current source file's module name, used for 'static' addressing
	currentFn    string // fully-qualified name of the enclosing function, used for label scoping
	cmpCounter   int    // monotonic counter backing SET_TRUEk/ENDk label uniqueness
	callCounter  int    // monotonic counter backing fn$ret.N return-address labels
	instructions []hackasm.Statement
}

// New returns an empty Translator.
func New() *Translator { return &Translator{} }

// SetModule updates the current module name, used to resolve 'static i' to
// 'module.i'. Call this before translating each '.vm' file's instructions.
func (tr *Translator) SetModule(name string) { tr.module = name }

// Bootstrap emits the standard Hack bootstrap sequence: initialize SP to
// 256 and call Sys.init. Emit this once, before any translation unit, when
// assembling a whole program (directory mode); omit it when translating a
// single file in isolation.
func (tr *Translator) Bootstrap() {
	tr.emit(hackasm.A("256"))
	tr.emit(hackasm.C("A", "D", ""))
	tr.emit(hackasm.A("SP"))
	tr.emit(hackasm.C("D", "M", ""))
	tr.translateCall(jackvm.Call{Name: "Sys.init", NArgs: 0})
}

// Translate lowers a single instruction, appending to the accumulated
// assembly program.
func (tr *Translator) Translate(inst jackvm.Instruction) error {
	switch i := inst.(type) {
	case jackvm.Push:
		return tr.translatePush(i)
	case jackvm.Pop:
		return tr.translatePop(i)
	case jackvm.Arithmetic:
		return tr.translateArithmetic(i)
	case jackvm.Label:
		tr.emit(hackasm.LabelDecl{Name: tr.scopedLabel(i.Name)})
		return nil
	case jackvm.Goto:
		return tr.translateGoto(i)
	case jackvm.Function:
		tr.translateFunction(i)
		return nil
	case jackvm.Call:
		tr.translateCall(i)
		return nil
	case jackvm.Return:
		tr.translateReturn()
		return nil
	default:
		return fmt.Errorf("unrecognized instruction %T", inst)
	}
}

// Statements returns the accumulated Hack assembly program.
func (tr *Translator) Statements() []hackasm.Statement { return tr.instructions }

func (tr *Translator) emit(stmt hackasm.Statement) {
	tr.instructions = append(tr.instructions, stmt)
}

// scopedLabel prefixes a label/goto target with the enclosing function name
// so that 'while'/'if' labels generated independently by two different
// functions (both named e.g. "L0") never collide in the assembled program.
func (tr *Translator) scopedLabel(name string) string {
	if tr.currentFn == "" {
		return name
	}
	return tr.currentFn + "$" + name
}

func (tr *Translator) pushD() {
	tr.emit(hackasm.A("SP"))
	tr.emit(hackasm.C("M", "A", ""))
	tr.emit(hackasm.C("D", "M", ""))
	tr.emit(hackasm.A("SP"))
	tr.emit(hackasm.C("M+1", "M", ""))
}

// popToD decrements SP and leaves the popped value in D.
func (tr *Translator) popToD() {
	tr.emit(hackasm.A("SP"))
	tr.emit(hackasm.C("M-1", "AM", ""))
	tr.emit(hackasm.C("M", "D", ""))
}

func (tr *Translator) translatePush(i jackvm.Push) error {
	switch i.Segment {
	case jackvm.Constant:
		tr.emit(hackasm.A(fmt.Sprint(i.Index)))
		tr.emit(hackasm.C("A", "D", ""))

	case jackvm.Temp:
		if i.Index > jackvm.MaxTempIndex {
			return fmt.Errorf("invalid 'temp' offset %d", i.Index)
		}
		tr.emit(hackasm.A(fmt.Sprint(5 + i.Index)))
		tr.emit(hackasm.C("M", "D", ""))

	case jackvm.Pointer:
		if i.Index > jackvm.MaxPointerIndex {
			return fmt.Errorf("invalid 'pointer' offset %d", i.Index)
		}
		tr.emit(hackasm.A(pointerTarget(i.Index)))
		tr.emit(hackasm.C("M", "D", ""))

	case jackvm.Static:
		tr.emit(hackasm.A(fmt.Sprintf("%s.%d", tr.module, i.Index)))
		tr.emit(hackasm.C("M", "D", ""))

	default:
		base, ok := segmentBase[i.Segment]
		if !ok {
			return fmt.Errorf("unrecognized segment %q", i.Segment)
		}
		tr.emit(hackasm.A(fmt.Sprint(i.Index)))
		tr.emit(hackasm.C("A", "D", ""))
		tr.emit(hackasm.A(base))
		tr.emit(hackasm.C("D+M", "A", ""))
		tr.emit(hackasm.C("M", "D", ""))
	}

	tr.pushD()
	return nil
}

func (tr *Translator) translatePop(i jackvm.Pop) error {
	if i.Segment == jackvm.Constant {
		return fmt.Errorf("cannot pop into the 'constant' segment")
	}

	switch i.Segment {
	case jackvm.Temp:
		if i.Index > jackvm.MaxTempIndex {
			return fmt.Errorf("invalid 'temp' offset %d", i.Index)
		}
		tr.popToD()
		tr.emit(hackasm.A(fmt.Sprint(5 + i.Index)))
		tr.emit(hackasm.C("D", "M", ""))

	case jackvm.Pointer:
		if i.Index > jackvm.MaxPointerIndex {
			return fmt.Errorf("invalid 'pointer' offset %d", i.Index)
		}
		tr.popToD()
		tr.emit(hackasm.A(pointerTarget(i.Index)))
		tr.emit(hackasm.C("D", "M", ""))

	case jackvm.Static:
		tr.popToD()
		tr.emit(hackasm.A(fmt.Sprintf("%s.%d", tr.module, i.Index)))
		tr.emit(hackasm.C("D", "M", ""))

	default:
		base, ok := segmentBase[i.Segment]
		if !ok {
			return fmt.Errorf("unrecognized segment %q", i.Segment)
		}
		// Stage the target address in R13 before popping, since popping
		// overwrites D with the value to store.
		tr.emit(hackasm.A(fmt.Sprint(i.Index)))
		tr.emit(hackasm.C("A", "D", ""))
		tr.emit(hackasm.A(base))
		tr.emit(hackasm.C("D+M", "D", ""))
		tr.emit(hackasm.A("R13"))
		tr.emit(hackasm.C("D", "M", ""))
		tr.popToD()
		tr.emit(hackasm.A("R13"))
		tr.emit(hackasm.C("M", "A", ""))
		tr.emit(hackasm.C("D", "M", ""))
	}

	return nil
}

func pointerTarget(index uint16) string {
	if index == 0 {
		return "THIS"
	}
	return "THAT"
}

func (tr *Translator) translateArithmetic(i jackvm.Arithmetic) error {
	switch i.Op {
	case jackvm.Neg, jackvm.Not:
		tr.popToD()
		if i.Op == jackvm.Neg {
			tr.emit(hackasm.C("-D", "D", ""))
		} else {
			tr.emit(hackasm.C("!D", "D", ""))
		}
		tr.pushD()
		return nil

	case jackvm.Add, jackvm.Sub, jackvm.And, jackvm.Or:
		tr.popToD()
		// A already addresses the just-freed top slot (the new SP value);
		// stepping back one more lands on the element below it, which is
		// where the binary result is written in place — the net stack
		// effect of two pops + one push needs no further SP adjustment.
		tr.emit(hackasm.A("SP"))
		tr.emit(hackasm.C("M-1", "A", ""))
		switch i.Op {
		case jackvm.Add:
			tr.emit(hackasm.C("D+M", "D", ""))
		case jackvm.Sub:
			tr.emit(hackasm.C("M-D", "D", ""))
		case jackvm.And:
			tr.emit(hackasm.C("D&M", "D", ""))
		case jackvm.Or:
			tr.emit(hackasm.C("D|M", "D", ""))
		}
		tr.emit(hackasm.C("D", "M", ""))
		return nil

	case jackvm.Eq, jackvm.Gt, jackvm.Lt:
		return tr.translateComparison(i.Op)

	default:
		return fmt.Errorf("unrecognized arithmetic op %q", i.Op)
	}
}

// translateComparison implements eq/gt/lt the only way the Hack ALU
// allows: subtract, then branch on the sign of the difference into one of
// two uniquely-numbered labels that set D to true (-1) or false (0).
func (tr *Translator) translateComparison(op jackvm.ArithOp) error {
	n := tr.cmpCounter
	tr.cmpCounter++

	setTrue := fmt.Sprintf("SET_TRUE%d", n)
	end := fmt.Sprintf("END%d", n)

	tr.popToD()
	tr.emit(hackasm.A("SP"))
	tr.emit(hackasm.C("M-1", "A", ""))
	tr.emit(hackasm.C("M-D", "D", ""))

	tr.emit(hackasm.A(setTrue))
	switch op {
	case jackvm.Eq:
		tr.emit(hackasm.C("D", "", "JEQ"))
	case jackvm.Gt:
		tr.emit(hackasm.C("D", "", "JGT"))
	case jackvm.Lt:
		tr.emit(hackasm.C("D", "", "JLT"))
	}

	tr.emit(hackasm.C("0", "D", ""))
	tr.emit(hackasm.A(end))
	tr.emit(hackasm.C("0", "", "JMP"))

	tr.emit(hackasm.LabelDecl{Name: setTrue})
	tr.emit(hackasm.C("-1", "D", ""))

	tr.emit(hackasm.LabelDecl{Name: end})
	// A was clobbered by the branch above; SP itself was never touched
	// since popToD, so recompute the result's target address from it.
	tr.emit(hackasm.A("SP"))
	tr.emit(hackasm.C("M-1", "A", ""))
	tr.emit(hackasm.C("D", "M", ""))
	return nil
}

func (tr *Translator) translateGoto(i jackvm.Goto) error {
	switch i.Jump {
	case jackvm.Unconditional:
		tr.emit(hackasm.A(tr.scopedLabel(i.Label)))
		tr.emit(hackasm.C("0", "", "JMP"))
	case jackvm.Conditional:
		tr.popToD()
		tr.emit(hackasm.A(tr.scopedLabel(i.Label)))
		tr.emit(hackasm.C("D", "", "JNE"))
	default:
		return fmt.Errorf("unrecognized jump kind %q", i.Jump)
	}
	return nil
}
