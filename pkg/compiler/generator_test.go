package compiler_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jacktoolchain/n2t/pkg/compiler"
	"github.com/jacktoolchain/n2t/pkg/jackvm"
	"github.com/jacktoolchain/n2t/pkg/token"
)

func compile(t *testing.T, src string) []string {
	t.Helper()
	tz := token.NewTokenizer(strings.NewReader(src))
	toks, err := tz.Tokenize()
	require.NoError(t, err)

	insts, err := compiler.NewGenerator(toks).Compile()
	require.NoError(t, err)

	lines := make([]string, len(insts))
	for i, inst := range insts {
		s, err := jackvm.String(inst)
		require.NoError(t, err)
		lines[i] = s
	}
	return lines
}

func TestScalarLetAssignment(t *testing.T) {
	src := `
	class Main {
		function void main() {
			var int x;
			let x = 1;
			return;
		}
	}`
	got := compile(t, src)
	require.Equal(t, []string{
		"function Main.main 1",
		"push constant 1",
		"pop local 0",
		"push constant 0",
		"return",
	}, got)
}

func TestMethodBindsThisAndReadsField(t *testing.T) {
	src := `
	class Point {
		field int x;
		method int getX() {
			return x;
		}
	}`
	got := compile(t, src)
	require.Equal(t, []string{
		"function Point.getX 0",
		"push argument 0",
		"pop pointer 0",
		"push this 0",
		"return",
	}, got)
}

func TestArrayAssignment(t *testing.T) {
	src := `
	class Main {
		function void main() {
			var Array a;
			let a[1] = 2;
			return;
		}
	}`
	got := compile(t, src)
	require.Equal(t, []string{
		"function Main.main 1",
		"push local 0",
		"push constant 1",
		"add",
		"push constant 2",
		"pop temp 0",
		"pop pointer 1",
		"push temp 0",
		"pop that 0",
		"push constant 0",
		"return",
	}, got)
}

func TestWhileLoopLabels(t *testing.T) {
	src := `
	class Main {
		function void main() {
			var int i;
			while (i) {
				let i = 0;
			}
			return;
		}
	}`
	got := compile(t, src)
	require.Equal(t, []string{
		"function Main.main 1",
		"label L0",
		"push local 0",
		"not",
		"if-goto L1",
		"push constant 0",
		"pop local 0",
		"goto L0",
		"label L1",
		"push constant 0",
		"return",
	}, got)
}

func TestConstructorWithFields(t *testing.T) {
	src := `
	class Point {
		field int x, y;
		constructor Point new() {
			return this;
		}
	}`
	got := compile(t, src)
	require.Equal(t, []string{
		"function Point.new 0",
		"push constant 2",
		"call Memory.alloc 1",
		"pop pointer 0",
		"push pointer 0",
		"return",
	}, got)
}

func TestDoCallDiscardsReturnValueForEveryForm(t *testing.T) {
	src := `
	class Main {
		function void main() {
			var Point p;
			do Output.println();
			do draw();
			do p.move(1);
			return;
		}
	}`
	got := compile(t, src)
	require.Equal(t, []string{
		"function Main.main 1",
		"call Output.println 0",
		"pop temp 0",
		"push pointer 0",
		"call Main.draw 1",
		"pop temp 0",
		"push local 0",
		"push constant 1",
		"call Point.move 2",
		"pop temp 0",
		"push constant 0",
		"return",
	}, got)
}

func TestIfElseClaimsTwoLabelsRegardless(t *testing.T) {
	src := `
	class Main {
		function void main() {
			if (true) {
				return;
			}
			return;
		}
	}`
	got := compile(t, src)
	require.Equal(t, []string{
		"function Main.main 0",
		"push constant 0",
		"not",
		"not",
		"if-goto L0",
		"push constant 0",
		"return",
		"goto L1",
		"label L0",
		"label L1",
		"push constant 0",
		"return",
	}, got)
}
