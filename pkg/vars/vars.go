// Package vars provides the long-lived variable/reference table shared
// between the notebook host and the lexer. Entries are ordered by the line
// that declared them; the table is read-only during a tokenize pass and
// mutated by the host between passes.
package vars

import (
	"sync"
)

// MaxLineCount is the maximum number of lines a notebook document may have.
const MaxLineCount = 256

// SumIndex is the reserved slot for the running sum pseudo-variable.
const SumIndex = MaxLineCount

// Variable is a named slot. Value holds the evaluated result when Err is
// nil; neither is inspected by the lexer.
type Variable struct {
	Name  []rune
	Value interface{}
	Err   error
}

// Table holds one slot per declaration line plus the reserved sum slot.
// Slots may be nil. Reads during a pass and host mutations between passes
// are guarded by the RWMutex; hosts must still serialize "evaluate line N"
// before "tokenize line N+1" when forward references could be seen.
type Table struct {
	mu      sync.RWMutex
	entries [MaxLineCount + 1]*Variable
}

// New creates an empty table.
func New() *Table {
	return &Table{}
}

// Set stores a variable at the given declaration line. The reserved sum
// slot is addressed with SumIndex.
func (t *Table) Set(line int, v *Variable) {
	if line < 0 || line > SumIndex {
		return
	}
	t.mu.Lock()
	t.entries[line] = v
	t.mu.Unlock()
}

// Get returns the variable declared at the given line, or nil.
func (t *Table) Get(line int) *Variable {
	if line < 0 || line > SumIndex {
		return nil
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.entries[line]
}

// Clear empties the slot at the given line.
func (t *Table) Clear(line int) {
	if line < 0 || line > SumIndex {
		return
	}
	t.mu.Lock()
	t.entries[line] = nil
	t.mu.Unlock()
}

// Len returns the number of addressable slots, sum slot included.
func (t *Table) Len() int {
	return len(t.entries)
}
