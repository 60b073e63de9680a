// Package symtab implements the two-scope Jack symbol table: class scope
// (static, field) and subroutine scope (argument, local), each with
// per-kind running indices.
package symtab

import "github.com/jacktoolchain/n2t/pkg/container"

// Kind enumerates the four symbol kinds the Jack language distinguishes.
type Kind string

const (
	Static   Kind = "static"
	Field    Kind = "field"
	Argument Kind = "argument"
	Local    Kind = "local"
)

// Symbol is the (name, type, kind, index) 4-tuple of the data model.
type Symbol struct {
	Name  string
	Type  string // "int" | "char" | "boolean" | a user class name
	Kind  Kind
	Index uint16
}

// Table holds the class scope and the current subroutine scope.
type Table struct {
	class      container.OrderedMap[string, Symbol]
	subroutine container.OrderedMap[string, Symbol]
	counts     map[Kind]uint16
}

// New returns an empty, ready-to-use Table.
func New() *Table {
	t := &Table{}
	t.DefineClassScope()
	t.DefineSubroutineScope()
	return t
}

// DefineClassScope resets the class scope (static, field); called once per
// compilation unit.
func (t *Table) DefineClassScope() {
	t.class = container.NewOrderedMap[string, Symbol]()
	t.resetCounts(Static, Field)
}

// DefineSubroutineScope clears the subroutine scope (argument, local);
// called at the start of each subroutine.
func (t *Table) DefineSubroutineScope() {
	t.subroutine = container.NewOrderedMap[string, Symbol]()
	t.resetCounts(Argument, Local)
}

func (t *Table) resetCounts(kinds ...Kind) {
	if t.counts == nil {
		t.counts = map[Kind]uint16{}
	}
	for _, k := range kinds {
		t.counts[k] = 0
	}
}

// normalizeKind maps the source keyword 'var' onto the Local kind; every
// other kind word is already canonical.
func normalizeKind(kindWord string) Kind {
	if kindWord == "var" {
		return Local
	}
	return Kind(kindWord)
}

// Add appends a symbol with the next running index for its kind in the
// appropriate scope (class scope for static/field, subroutine scope for
// argument/local).
func (t *Table) Add(name, typ, kindWord string) Symbol {
	kind := normalizeKind(kindWord)
	sym := Symbol{Name: name, Type: typ, Kind: kind, Index: t.counts[kind]}
	t.counts[kind]++

	switch kind {
	case Static, Field:
		t.class.Set(name, sym)
	case Argument, Local:
		t.subroutine.Set(name, sym)
	}
	return sym
}

// Lookup searches the subroutine scope first, then the class scope.
func (t *Table) Lookup(name string) (Symbol, bool) {
	if sym, ok := t.subroutine.Get(name); ok {
		return sym, true
	}
	return t.class.Get(name)
}

// CountOf returns the number of symbols of the given kind currently defined
// (used for 'function nLocals' and constructor field-count allocation).
func (t *Table) CountOf(kind Kind) uint16 { return t.counts[kind] }
