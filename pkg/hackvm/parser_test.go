package hackvm_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacktoolchain/n2t/pkg/hackvm"
	"github.com/jacktoolchain/n2t/pkg/jackvm"
)

func parse(t *testing.T, src string) []jackvm.Instruction {
	t.Helper()
	p := hackvm.NewParser(strings.NewReader(src))
	insts, err := p.Parse()
	require.NoError(t, err)
	return insts
}

func TestParsesMemoryOps(t *testing.T) {
	insts := parse(t, "push constant 7\npop local 2\n")
	assert.Equal(t, []jackvm.Instruction{
		jackvm.Push{Segment: jackvm.Constant, Index: 7},
		jackvm.Pop{Segment: jackvm.Local, Index: 2},
	}, insts)
}

func TestParsesArithmeticOps(t *testing.T) {
	insts := parse(t, "add\nneg\neq\n")
	assert.Equal(t, []jackvm.Instruction{
		jackvm.Arithmetic{Op: jackvm.Add},
		jackvm.Arithmetic{Op: jackvm.Neg},
		jackvm.Arithmetic{Op: jackvm.Eq},
	}, insts)
}

func TestParsesLabelAndGoto(t *testing.T) {
	insts := parse(t, "label LOOP\ngoto LOOP\nif-goto LOOP\n")
	assert.Equal(t, []jackvm.Instruction{
		jackvm.Label{Name: "LOOP"},
		jackvm.Goto{Jump: jackvm.Unconditional, Label: "LOOP"},
		jackvm.Goto{Jump: jackvm.Conditional, Label: "LOOP"},
	}, insts)
}

func TestParsesFunctionCallReturn(t *testing.T) {
	insts := parse(t, "function Main.main 2\ncall Math.multiply 2\nreturn\n")
	assert.Equal(t, []jackvm.Instruction{
		jackvm.Function{Name: "Main.main", NLocals: 2},
		jackvm.Call{Name: "Math.multiply", NArgs: 2},
		jackvm.Return{},
	}, insts)
}

func TestCommentsAreSkipped(t *testing.T) {
	insts := parse(t, "// a comment\npush constant 1\n// trailing\n")
	assert.Equal(t, []jackvm.Instruction{
		jackvm.Push{Segment: jackvm.Constant, Index: 1},
	}, insts)
}

func TestRoundTripsThroughString(t *testing.T) {
	insts := parse(t, "push argument 0\nadd\nreturn\n")
	for i, want := range []string{"push argument 0", "add", "return"} {
		got, err := jackvm.String(insts[i])
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}
