package symtab_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jacktoolchain/n2t/pkg/symtab"
)

func TestIndicesAreContiguousPerKind(t *testing.T) {
	table := symtab.New()

	table.Add("x", "int", "field")
	table.Add("y", "int", "field")
	table.Add("count", "int", "static")

	sx, _ := table.Lookup("x")
	sy, _ := table.Lookup("y")
	sc, _ := table.Lookup("count")

	assert.Equal(t, uint16(0), sx.Index)
	assert.Equal(t, uint16(1), sy.Index)
	assert.Equal(t, uint16(0), sc.Index)
	assert.Equal(t, symtab.Field, sx.Kind)
	assert.Equal(t, symtab.Static, sc.Kind)
}

func TestVarKindNormalizesToLocal(t *testing.T) {
	table := symtab.New()
	sym := table.Add("i", "int", "var")
	assert.Equal(t, symtab.Local, sym.Kind)
}

func TestSubroutineScopeResetsBetweenSubroutines(t *testing.T) {
	table := symtab.New()
	table.DefineSubroutineScope()
	table.Add("a", "int", "argument")

	table.DefineSubroutineScope()
	_, found := table.Lookup("a")
	assert.False(t, found, "subroutine scope should be cleared")
}

func TestSubroutineScopeIsSearchedBeforeClassScope(t *testing.T) {
	table := symtab.New()
	table.Add("shared", "int", "field")
	table.DefineSubroutineScope()
	table.Add("shared", "int", "local")

	sym, ok := table.Lookup("shared")
	assert.True(t, ok)
	assert.Equal(t, symtab.Local, sym.Kind, "local shadows field with the same name")
}

func TestClassScopeResetPerCompilationUnit(t *testing.T) {
	table := symtab.New()
	table.Add("x", "int", "field")
	table.DefineClassScope()

	_, found := table.Lookup("x")
	assert.False(t, found)
}

func TestCountOf(t *testing.T) {
	table := symtab.New()
	table.Add("a", "int", "local")
	table.Add("b", "int", "local")
	table.Add("c", "int", "argument")

	assert.Equal(t, uint16(2), table.CountOf(symtab.Local))
	assert.Equal(t, uint16(1), table.CountOf(symtab.Argument))
}
