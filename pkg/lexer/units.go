package lexer

import (
	"unicode"

	"github.com/lemonberrylabs/calcpad/pkg/token"
)

// UnitName is the descriptor produced by NameSet.
type UnitName string

// String returns the unit's name.
func (u UnitName) String() string { return string(u) }

// NameSet is a minimal UnitParser that recognizes bare names from a fixed
// set, longest name first. It carries no conversion semantics; hosts that
// need the full unit algebra plug in their own grammar.
type NameSet map[string]bool

// NewNameSet builds a NameSet from unit names.
func NewNameSet(names ...string) NameSet {
	set := make(NameSet, len(names))
	for _, name := range names {
		set[name] = true
	}
	return set
}

// Parse recognizes the longest set member prefixing chars whose next
// character is not alphanumeric. The mode does not influence matching.
func (s NameSet) Parse(chars []rune, mode UnitMode) (token.Unit, int) {
	best := 0
	for name := range s {
		n := runeLen(chars, name)
		if n == 0 || n <= best {
			continue
		}
		if n < len(chars) && (unicode.IsLetter(chars[n]) || unicode.IsDigit(chars[n])) {
			continue
		}
		best = n
	}
	if best == 0 {
		return nil, 0
	}
	return UnitName(chars[:best]), best
}

// runeLen returns the rune length of name when it prefixes chars, else 0.
func runeLen(chars []rune, name string) int {
	i := 0
	for _, ch := range name {
		if i >= len(chars) || chars[i] != ch {
			return 0
		}
		i++
	}
	return i
}
