package translate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacktoolchain/n2t/pkg/hackasm"
	"github.com/jacktoolchain/n2t/pkg/jackvm"
	"github.com/jacktoolchain/n2t/pkg/translate"
)

func render(t *testing.T, insts ...jackvm.Instruction) []string {
	t.Helper()
	tr := translate.New()
	tr.SetModule("Main")
	for _, inst := range insts {
		require.NoError(t, tr.Translate(inst))
	}
	cg := hackasm.NewCodeGenerator(tr.Statements())
	out, err := cg.Generate()
	require.NoError(t, err)
	return out
}

func TestPushConstant(t *testing.T) {
	lines := render(t, jackvm.Push{Segment: jackvm.Constant, Index: 17})
	assert.Equal(t, []string{
		"@17", "D=A",
		"@SP", "A=M", "M=D",
		"@SP", "M=M+1",
	}, lines)
}

func TestPushPopLocal(t *testing.T) {
	pushLines := render(t, jackvm.Push{Segment: jackvm.Local, Index: 2})
	assert.Equal(t, []string{
		"@2", "D=A",
		"@LCL", "A=D+M", "D=M",
		"@SP", "A=M", "M=D",
		"@SP", "M=M+1",
	}, pushLines)

	popLines := render(t, jackvm.Pop{Segment: jackvm.Local, Index: 2})
	assert.Equal(t, []string{
		"@2", "D=A",
		"@LCL", "D=D+M",
		"@R13", "M=D",
		"@SP", "AM=M-1", "D=M",
		"@R13", "A=M", "M=D",
	}, popLines)
}

func TestStaticAddressingUsesModulePrefix(t *testing.T) {
	lines := render(t, jackvm.Pop{Segment: jackvm.Static, Index: 3})
	assert.Contains(t, lines, "@Main.3")
}

func TestArithmeticAddDoesNotOverGrowStack(t *testing.T) {
	lines := render(t,
		jackvm.Push{Segment: jackvm.Constant, Index: 2},
		jackvm.Push{Segment: jackvm.Constant, Index: 3},
		jackvm.Arithmetic{Op: jackvm.Add},
	)
	// one "M=M+1" per push (two of them); add must not emit a third.
	count := 0
	for _, l := range lines {
		if l == "M=M+1" {
			count++
		}
	}
	assert.Equal(t, 2, count)
}

func TestComparisonEmitsUniquelyNumberedLabels(t *testing.T) {
	lines := render(t,
		jackvm.Push{Segment: jackvm.Constant, Index: 1},
		jackvm.Push{Segment: jackvm.Constant, Index: 2},
		jackvm.Arithmetic{Op: jackvm.Lt},
		jackvm.Push{Segment: jackvm.Constant, Index: 1},
		jackvm.Push{Segment: jackvm.Constant, Index: 2},
		jackvm.Arithmetic{Op: jackvm.Eq},
	)
	assert.Contains(t, lines, "(SET_TRUE0)")
	assert.Contains(t, lines, "(END0)")
	assert.Contains(t, lines, "(SET_TRUE1)")
	assert.Contains(t, lines, "(END1)")
}

func TestLabelsAreScopedToEnclosingFunction(t *testing.T) {
	lines := render(t,
		jackvm.Function{Name: "Main.main", NLocals: 0},
		jackvm.Label{Name: "L0"},
		jackvm.Goto{Label: "L0", Jump: jackvm.Unconditional},
	)
	assert.Contains(t, lines, "(Main.main$L0)")
	assert.Contains(t, lines, "@Main.main$L0")
}

func TestCallPushesFourSavedSegmentsAndReturnAddress(t *testing.T) {
	lines := render(t, jackvm.Call{Name: "Math.multiply", NArgs: 2})
	assert.Contains(t, lines, "@LCL")
	assert.Contains(t, lines, "@ARG")
	assert.Contains(t, lines, "@THIS")
	assert.Contains(t, lines, "@THAT")
	assert.Contains(t, lines, "@Math.multiply")
	found := false
	for _, l := range lines {
		if l == "(boot$ret.0)" {
			found = true
		}
	}
	assert.True(t, found, "expected a scoped return-address label")
}

func TestBootstrapInitializesStackAndCallsSysInit(t *testing.T) {
	tr := translate.New()
	tr.Bootstrap()
	cg := hackasm.NewCodeGenerator(tr.Statements())
	out, err := cg.Generate()
	require.NoError(t, err)
	assert.Equal(t, "@256", out[0])
	assert.Contains(t, out, "@Sys.init")
}

func TestReturnRestoresCallerSegments(t *testing.T) {
	lines := render(t, jackvm.Return{})
	assert.Contains(t, lines, "@LCL")
	assert.Contains(t, lines, "@ARG")
	assert.Contains(t, lines, "@R13")
	assert.Contains(t, lines, "@R14")
}
