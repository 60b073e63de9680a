package translate

import (
	"fmt"

	"github.com/jacktoolchain/n2t/pkg/hackasm"
	"github.com/jacktoolchain/n2t/pkg/jackvm"
)

// translateFunction emits the function entry label and zero-initializes
// its local variables; it also establishes currentFn so that any label/goto
// inside the body scopes correctly.
func (tr *Translator) translateFunction(i jackvm.Function) {
	tr.currentFn = i.Name
	tr.emit(hackasm.LabelDecl{Name: i.Name})

	for n := uint16(0); n < i.NLocals; n++ {
		tr.emit(hackasm.C("0", "D", ""))
		tr.pushD()
	}
}

// translateCall implements the Hack calling convention: save the caller's
// frame, reposition ARG/LCL for the callee, and jump to it. The
// return-address label is scoped to the calling function and numbered
// uniquely so two calls to the same callee from the same caller never
// collide.
func (tr *Translator) translateCall(i jackvm.Call) {
	n := tr.callCounter
	tr.callCounter++
	retLabel := fmt.Sprintf("%s$ret.%d", callerLabel(tr.currentFn), n)

	tr.emit(hackasm.A(retLabel))
	tr.emit(hackasm.C("A", "D", ""))
	tr.pushD()

	for _, seg := range []string{"LCL", "ARG", "THIS", "THAT"} {
		tr.emit(hackasm.A(seg))
		tr.emit(hackasm.C("M", "D", ""))
		tr.pushD()
	}

	// ARG = SP - 5 - nArgs
	tr.emit(hackasm.A("SP"))
	tr.emit(hackasm.C("M", "D", ""))
	tr.emit(hackasm.A(fmt.Sprint(5 + i.NArgs)))
	tr.emit(hackasm.C("D-A", "D", ""))
	tr.emit(hackasm.A("ARG"))
	tr.emit(hackasm.C("D", "M", ""))

	// LCL = SP
	tr.emit(hackasm.A("SP"))
	tr.emit(hackasm.C("M", "D", ""))
	tr.emit(hackasm.A("LCL"))
	tr.emit(hackasm.C("D", "M", ""))

	tr.emit(hackasm.A(i.Name))
	tr.emit(hackasm.C("0", "", "JMP"))

	tr.emit(hackasm.LabelDecl{Name: retLabel})
}

// callerLabel falls back to "boot" when a call is emitted outside any
// function (the bootstrap's call to Sys.init).
func callerLabel(currentFn string) string {
	if currentFn == "" {
		return "boot"
	}
	return currentFn
}

// translateReturn implements the standard frame teardown: stash the frame
// base and return address in R13/R14 before overwriting ARG (the caller's
// argument 0 is where the return value lands), then restore the caller's
// segment pointers and jump back.
func (tr *Translator) translateReturn() {
	// R13 = FRAME = LCL
	tr.emit(hackasm.A("LCL"))
	tr.emit(hackasm.C("M", "D", ""))
	tr.emit(hackasm.A("R13"))
	tr.emit(hackasm.C("D", "M", ""))

	// R14 = RET = *(FRAME-5)
	tr.emit(hackasm.A("5"))
	tr.emit(hackasm.C("D-A", "A", ""))
	tr.emit(hackasm.C("M", "D", ""))
	tr.emit(hackasm.A("R14"))
	tr.emit(hackasm.C("D", "M", ""))

	// *ARG = pop()
	tr.popToD()
	tr.emit(hackasm.A("ARG"))
	tr.emit(hackasm.C("M", "A", ""))
	tr.emit(hackasm.C("D", "M", ""))

	// SP = ARG + 1
	tr.emit(hackasm.A("ARG"))
	tr.emit(hackasm.C("M+1", "D", ""))
	tr.emit(hackasm.A("SP"))
	tr.emit(hackasm.C("D", "M", ""))

	// THAT = *(FRAME-1), THIS = *(FRAME-2), ARG = *(FRAME-3), LCL = *(FRAME-4)
	for offset, target := range []string{"THAT", "THIS", "ARG", "LCL"} {
		tr.emit(hackasm.A("R13"))
		tr.emit(hackasm.C("M", "D", ""))
		tr.emit(hackasm.A(fmt.Sprint(offset + 1)))
		tr.emit(hackasm.C("D-A", "A", ""))
		tr.emit(hackasm.C("M", "D", ""))
		tr.emit(hackasm.A(target))
		tr.emit(hackasm.C("D", "M", ""))
	}

	tr.emit(hackasm.A("R14"))
	tr.emit(hackasm.C("M", "A", ""))
	tr.emit(hackasm.C("0", "", "JMP"))
}
