package token

// OpKind identifies an operator. Matrix and Fn markers are synthesized by
// the shunting-yard parser but belong to the same closed set.
type OpKind int

const (
	Comma OpKind = iota // ,
	Semicolon           // ;
	Add                 // +
	Sub                 // -
	UnaryPlus           // prefix +
	UnaryMinus          // prefix -
	Mult                // *
	Div                 // /
	Perc                // %
	Pow                 // ^
	BinAnd              // AND
	BinOr               // OR
	BinXor              // XOR
	BinNot              // NOT
	ShiftLeft           // <<
	ShiftRight          // >>
	Assign              // =
	UnitConverter       // in
	ParenOpen           // (
	ParenClose          // )
	BracketOpen         // [
	BracketClose        // ]
	ApplyUnit           // attach unit to the preceding value
	Matrix              // matrix marker with row/col counts
	Fn                  // function marker with arity
)

// Operator is the payload of an operator token. Only the fields relevant
// to Kind are set: Unit for ApplyUnit, RowCount/ColCount for Matrix,
// ArgCount and Func for Fn.
type Operator struct {
	Kind     OpKind
	Unit     Unit
	RowCount int
	ColCount int
	ArgCount int
	Func     FnType
}

// Assoc is an operator's associativity.
type Assoc int

const (
	AssocLeft Assoc = iota
	AssocRight
)

// Precedence returns the operator's binding tier. Higher binds tighter.
// The table is global and invariant across all parses.
func (k OpKind) Precedence() int {
	switch k {
	case Perc, Pow:
		return 6
	case ApplyUnit:
		return 5
	case UnaryPlus, UnaryMinus, BinNot:
		return 4
	case Mult, Div:
		return 3
	case Add, Sub:
		return 2
	default:
		// BinAnd/BinOr/BinXor, shifts, assign, unit-converter,
		// comma/semicolon, parens/brackets, matrix/fn markers
		return 0
	}
}

// Assoc returns the operator's associativity. Pow is right-associative;
// comma and semicolon are right-associative so one separator does not
// replace another on the operator stack.
func (k OpKind) Assoc() Assoc {
	switch k {
	case Pow, Comma, Semicolon:
		return AssocRight
	default:
		return AssocLeft
	}
}

// String returns a debug-friendly representation of the operator kind.
func (k OpKind) String() string {
	switch k {
	case Comma:
		return "COMMA"
	case Semicolon:
		return "SEMICOLON"
	case Add:
		return "ADD"
	case Sub:
		return "SUB"
	case UnaryPlus:
		return "UNARY_PLUS"
	case UnaryMinus:
		return "UNARY_MINUS"
	case Mult:
		return "MULT"
	case Div:
		return "DIV"
	case Perc:
		return "PERC"
	case Pow:
		return "POW"
	case BinAnd:
		return "AND"
	case BinOr:
		return "OR"
	case BinXor:
		return "XOR"
	case BinNot:
		return "NOT"
	case ShiftLeft:
		return "SHIFT_LEFT"
	case ShiftRight:
		return "SHIFT_RIGHT"
	case Assign:
		return "ASSIGN"
	case UnitConverter:
		return "UNIT_CONVERTER"
	case ParenOpen:
		return "PAREN_OPEN"
	case ParenClose:
		return "PAREN_CLOSE"
	case BracketOpen:
		return "BRACKET_OPEN"
	case BracketClose:
		return "BRACKET_CLOSE"
	case ApplyUnit:
		return "APPLY_UNIT"
	case Matrix:
		return "MATRIX"
	case Fn:
		return "FN"
	default:
		return "UNKNOWN"
	}
}
