// Package lexer turns one line of notebook text into a flat, position-
// tracked token stream. Ambiguous spans (unit vs word, sign vs
// subtraction, exponent marker vs variable) are resolved with one pass,
// bounded lookahead and a small unit-context state machine.
package lexer

import (
	"unicode"

	"github.com/lemonberrylabs/calcpad/pkg/token"
	"github.com/lemonberrylabs/calcpad/pkg/vars"
)

// UnitMode tells the unit grammar how a match at the current position
// would be interpreted.
type UnitMode int

const (
	// UnitNot disables unit scanning at the current position.
	UnitNot UnitMode = iota
	// UnitApplyToPrev means a match binds to the preceding value,
	// e.g. the "kg" in "200kg".
	UnitApplyToPrev
	// UnitStandInItself means a match is a standalone unit operand,
	// e.g. the "m" in "45min in m".
	UnitStandInItself
)

// UnitParser recognizes a unit-expression prefix of chars. It returns the
// unit descriptor and the consumed length; a length of 0 means no match.
type UnitParser interface {
	Parse(chars []rune, mode UnitMode) (token.Unit, int)
}

// Lexer tokenizes a single notebook line.
type Lexer struct {
	line      []rune
	pos       int
	mode      UnitMode
	vars      *vars.Table
	lineIndex int
	units     UnitParser
	tokens    []token.Token
}

// Tokenize scans line into an ordered token sequence. It never fails:
// malformed numerals degrade to NumberErr tokens and an unrecognizable
// position truncates the result to the tokens produced so far. Variables
// declared on lines >= lineIndex are invisible. units may be nil when no
// unit grammar is available.
func Tokenize(line []rune, table *vars.Table, lineIndex int, units UnitParser) []token.Token {
	l := &Lexer{
		line:      line,
		mode:      UnitNot,
		vars:      table,
		lineIndex: lineIndex,
		units:     units,
	}

	if len(line) > 0 && line[0] == '#' {
		return []token.Token{{Ptr: line, Type: token.Header}}
	}

	for l.pos < len(l.line) {
		rest := l.line[l.pos:]
		tok, ok := l.next(rest)
		if !ok {
			break
		}
		l.updateMode(&tok)
		l.pos += len(tok.Ptr)
		l.tokens = append(l.tokens, tok)
	}
	return l.tokens
}

// next tries the scanners in fixed priority order; first success wins.
func (l *Lexer) next(rest []rune) (token.Token, bool) {
	if tok, ok := scanComment(rest); ok {
		return tok, true
	}
	if tok, ok := l.scanVariable(rest); ok {
		return tok, true
	}
	if tok, ok := l.scanUnit(rest); ok {
		return tok, true
	}
	if tok, ok := scanOperator(rest); ok {
		return tok, true
	}
	if tok, ok := scanNumber(rest); ok {
		return tok, true
	}
	return scanString(rest)
}

// updateMode advances the unit-context state machine after a token.
func (l *Lexer) updateMode(tok *token.Token) {
	switch tok.Type {
	case token.StringLiteral:
		if !tok.IsWhitespace() {
			l.mode = UnitNot
		}
	case token.NumberLiteral, token.NumberErr:
		l.mode = UnitApplyToPrev
	case token.UnitToken:
		l.mode = UnitNot
	case token.OperatorToken:
		switch tok.Op.Kind {
		case token.ParenClose:
			// keep the mode so "(12/year)" still sees the unit
		case token.UnitConverter, token.Div:
			l.mode = UnitStandInItself
		default:
			l.mode = UnitNot
		}
	case token.Variable, token.LineReference:
		l.mode = UnitNot
	}
}

// scanComment turns "//" and everything after it into one string literal.
func scanComment(rest []rune) (token.Token, bool) {
	if len(rest) >= 2 && rest[0] == '/' && rest[1] == '/' {
		return token.Token{Ptr: rest, Type: token.StringLiteral}, true
	}
	return token.Token{}, false
}

// scanUnit delegates to the unit grammar when the mode allows it. Trailing
// whitespace is trimmed from the match; the token becomes ApplyUnit or a
// standalone unit depending on the mode.
func (l *Lexer) scanUnit(rest []rune) (token.Token, bool) {
	if l.units == nil || l.mode == UnitNot || isWhitespace(rest[0]) {
		return token.Token{}, false
	}
	unit, parsedLen := l.units.Parse(rest, l.mode)
	if parsedLen == 0 {
		return token.Token{}, false
	}
	i := parsedLen
	for i > 0 && isWhitespace(rest[i-1]) {
		i--
	}
	if i == 0 {
		return token.Token{}, false
	}
	if l.mode == UnitApplyToPrev {
		return token.Token{
			Ptr:  rest[:i],
			Type: token.OperatorToken,
			Op:   token.Operator{Kind: token.ApplyUnit, Unit: unit},
		}, true
	}
	return token.Token{Ptr: rest[:i], Type: token.UnitToken, Unit: unit}, true
}

// scanVariable matches the longest declared variable name at the cursor.
// The reserved "sum" literal is checked first. A name matches only when
// the following character is neither '(' nor alphanumeric, so "b0" is
// never read as variable "b" plus a digit, and "b(2)" stays a call-shaped
// string. Names declared on or after the current line are skipped.
func (l *Lexer) scanVariable(rest []rune) (token.Token, bool) {
	if startsWith(rest, "sum") && (len(rest) == 3 || rest[3] == ' ') {
		return token.Token{Ptr: rest[:3], Type: token.Variable, VarIndex: vars.SumIndex}, true
	}
	if l.vars == nil {
		return token.Token{}, false
	}

	longestMatch := 0
	longestMatchIndex := 0
	limit := l.lineIndex
	if limit > vars.MaxLineCount {
		limit = vars.MaxLineCount
	}
	// Backward scan: on equal lengths the later-declared entry wins.
	for varIndex := limit - 1; varIndex >= 0; varIndex-- {
		v := l.vars.Get(varIndex)
		if v == nil {
			continue
		}
		if !matchesName(rest, v.Name) {
			continue
		}
		next := len(v.Name)
		if next < len(rest) {
			if rest[next] == '(' {
				continue
			}
			if unicode.IsLetter(rest[next]) || unicode.IsDigit(rest[next]) {
				continue
			}
		}
		if len(v.Name) > longestMatch {
			longestMatch = len(v.Name)
			longestMatchIndex = varIndex
		}
	}
	if longestMatch == 0 {
		return token.Token{}, false
	}

	typ := token.Variable
	if longestMatch > 2 && rest[0] == '&' && rest[1] == '[' {
		// consecutive line references need a separator between them
		if l.prevWasLineRef() {
			return token.Token{}, false
		}
		typ = token.LineReference
	}
	return token.Token{Ptr: rest[:longestMatch], Type: typ, VarIndex: longestMatchIndex}, true
}

func (l *Lexer) prevWasLineRef() bool {
	if len(l.tokens) == 0 {
		return false
	}
	return l.tokens[len(l.tokens)-1].Type == token.LineReference
}

func matchesName(rest, name []rune) bool {
	if len(name) == 0 || len(rest) < len(name) {
		return false
	}
	for i, ch := range name {
		if rest[i] != ch {
			return false
		}
	}
	return true
}

// scanOperator recognizes fixed-symbol and keyword operators. Keyword
// forms require a non-alphabetic boundary; "NOT(" consumes only "NOT",
// leaving the paren for the next round.
func scanOperator(rest []rune) (token.Token, bool) {
	op := func(kind token.OpKind, length int) (token.Token, bool) {
		return token.Token{
			Ptr:  rest[:length],
			Type: token.OperatorToken,
			Op:   token.Operator{Kind: kind},
		}, true
	}
	switch rest[0] {
	case '=':
		return op(token.Assign, 1)
	case '+':
		return op(token.Add, 1)
	case '-':
		return op(token.Sub, 1)
	case '*':
		return op(token.Mult, 1)
	case '/':
		return op(token.Div, 1)
	case '%':
		return op(token.Perc, 1)
	case '^':
		return op(token.Pow, 1)
	case '(':
		return op(token.ParenOpen, 1)
	case ')':
		return op(token.ParenClose, 1)
	case '[':
		return op(token.BracketOpen, 1)
	case ']':
		return op(token.BracketClose, 1)
	case ',':
		return op(token.Comma, 1)
	case ';':
		return op(token.Semicolon, 1)
	}
	switch {
	case startsWith(rest, "in "):
		return op(token.UnitConverter, 2)
	case startsWith(rest, "AND") && boundaryAt(rest, 3):
		return op(token.BinAnd, 3)
	case startsWith(rest, "OR") && boundaryAt(rest, 2):
		return op(token.BinOr, 2)
	case startsWith(rest, "NOT("):
		return op(token.BinNot, 3)
	case startsWith(rest, "XOR") && boundaryAt(rest, 3):
		return op(token.BinXor, 3)
	case startsWith(rest, "<<"):
		return op(token.ShiftLeft, 2)
	case startsWith(rest, ">>"):
		return op(token.ShiftRight, 2)
	}
	return token.Token{}, false
}

// boundaryAt reports that the rune at i, if any, is not alphabetic.
func boundaryAt(rest []rune, i int) bool {
	return i >= len(rest) || !unicode.IsLetter(rest[i])
}

// scanString is the fallback: either a run of characters containing no
// operator symbol and no whitespace, or a run of whitespace.
func scanString(rest []rune) (token.Token, bool) {
	i := 0
	for _, ch := range rest {
		if isOperatorChar(ch) || isWhitespace(ch) {
			break
		}
		i++
	}
	if i > 0 {
		return token.Token{Ptr: rest[:i], Type: token.StringLiteral}, true
	}
	for _, ch := range rest {
		if !isWhitespace(ch) {
			break
		}
		i++
	}
	if i > 0 {
		return token.Token{Ptr: rest[:i], Type: token.StringLiteral}, true
	}
	return token.Token{}, false
}

func isOperatorChar(ch rune) bool {
	switch ch {
	case '=', '%', '/', '+', '-', '*', '^', '(', ')', '[', ']':
		return true
	}
	return false
}

func isWhitespace(ch rune) bool {
	switch ch {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

func startsWith(rest []rune, prefix string) bool {
	i := 0
	for _, ch := range prefix {
		if i >= len(rest) || rest[i] != ch {
			return false
		}
		i++
	}
	return true
}
