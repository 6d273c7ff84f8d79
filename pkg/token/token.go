// Package token defines the lexical token model for calcpad notebook lines
// and the operator precedence/associativity contract consumed by the
// shunting-yard parser.
package token

import (
	"github.com/shopspring/decimal"
)

// Type represents the kind of a lexical token.
type Type int

const (
	StringLiteral Type = iota // free text or whitespace run
	Header                    // whole line starting with '#'
	Variable                  // reference to a named variable
	LineReference             // reference to an earlier line's result
	NumberLiteral             // exact decimal value
	NumberErr                 // malformed or overflowing numeral
	OperatorToken             // operator, see OpKind
	UnitToken                 // standalone unit, e.g. after "in"
)

// Unit is an opaque unit descriptor produced by the unit grammar.
// The lexer never inspects it beyond embedding it into tokens.
type Unit interface {
	String() string
}

// Token represents a single classified span of a notebook line.
// Ptr aliases the line's rune slice; concatenating the spans of a fully
// tokenized line reproduces the line exactly.
type Token struct {
	Ptr      []rune
	Type     Type
	Num      decimal.Decimal // NumberLiteral value
	VarIndex int             // Variable / LineReference table index
	Op       Operator        // OperatorToken payload
	Unit     Unit            // UnitToken descriptor
	HasError bool
}

// IsNumber reports whether the token is a parsed number literal.
func (t *Token) IsNumber() bool {
	return t.Type == NumberLiteral
}

// IsString reports whether the token is a string literal.
func (t *Token) IsString() bool {
	return t.Type == StringLiteral
}

// IsWhitespace reports whether the token is a whitespace-only string literal.
func (t *Token) IsWhitespace() bool {
	return t.Type == StringLiteral && len(t.Ptr) > 0 && isWhitespace(t.Ptr[0])
}

// Text returns the token's span as a string.
func (t *Token) Text() string {
	return string(t.Ptr)
}

func isWhitespace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\v' || r == '\f' || r == '\r'
}

// String returns a debug-friendly representation of the token.
func (t Token) String() string {
	switch t.Type {
	case NumberLiteral:
		return "NUMBER(" + t.Num.String() + ")"
	case OperatorToken:
		return t.Op.Kind.String()
	default:
		return t.Type.String() + "(" + t.Text() + ")"
	}
}

// String returns a debug-friendly representation of the token type.
func (t Type) String() string {
	switch t {
	case StringLiteral:
		return "STRING"
	case Header:
		return "HEADER"
	case Variable:
		return "VARIABLE"
	case LineReference:
		return "LINEREF"
	case NumberLiteral:
		return "NUMBER"
	case NumberErr:
		return "NUMBER_ERR"
	case OperatorToken:
		return "OPERATOR"
	case UnitToken:
		return "UNIT"
	default:
		return "UNKNOWN"
	}
}
