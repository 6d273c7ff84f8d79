// Package shunting linearizes an infix token stream into postfix order
// using the operator precedence/associativity table from pkg/token.
// String literals are display-only and skipped, except a word that names a
// builtin function directly before '(' which becomes an Fn marker; bracket
// scopes become Matrix markers carrying their row/column counts.
package shunting

import (
	"github.com/lemonberrylabs/calcpad/pkg/token"
)

// scope tracks one open paren or bracket: separator counts for arity and
// the output position at open time, so empty scopes are detectable.
type scope struct {
	bracket      bool
	fn           bool
	fnType       token.FnType
	commas       int
	semicolons   int
	rowCommas    int
	firstRowCols int
	outMark      int
}

type parser struct {
	output  []token.Token
	ops     []token.Token
	scopes  []*scope
	prev    *token.Token
	pending *token.FnType
}

// Parse returns the postfix form of tokens. Prefix '+'/'-' are rewritten
// to UnaryPlus/UnaryMinus. Unbalanced closers are dropped; unbalanced
// openers are flushed at the end.
func Parse(tokens []token.Token) []token.Token {
	p := &parser{}
	for i := range tokens {
		p.feed(tokens, i)
	}
	p.flush()
	return p.output
}

func (p *parser) feed(tokens []token.Token, i int) {
	t := &tokens[i]
	switch t.Type {
	case token.Header:
		return
	case token.StringLiteral:
		if t.IsWhitespace() {
			return
		}
		// function-call shape: word immediately followed by '('
		if fn, ok := token.ParseFn(t.Text()); ok && i+1 < len(tokens) &&
			tokens[i+1].Type == token.OperatorToken &&
			tokens[i+1].Op.Kind == token.ParenOpen {
			p.pending = &fn
		}
		return
	case token.NumberLiteral, token.NumberErr, token.Variable, token.LineReference, token.UnitToken:
		p.output = append(p.output, *t)
		p.prev = t
		return
	case token.OperatorToken:
		p.operator(t)
		p.prev = t
	}
}

func (p *parser) operator(t *token.Token) {
	switch t.Op.Kind {
	case token.ParenOpen:
		p.openScope(t, false)
	case token.BracketOpen:
		p.openScope(t, true)
	case token.ParenClose:
		p.closeScope(false)
	case token.BracketClose:
		p.closeScope(true)
	case token.Comma:
		p.separator(false)
	case token.Semicolon:
		p.separator(true)
	case token.Add, token.Sub:
		if !p.prevIsOperand() {
			unary := token.UnaryPlus
			if t.Op.Kind == token.Sub {
				unary = token.UnaryMinus
			}
			// prefix operators never pop, they wait for their operand
			p.push(token.Token{Ptr: t.Ptr, Type: token.OperatorToken, Op: token.Operator{Kind: unary}})
			return
		}
		p.binary(t)
	case token.BinNot:
		p.push(*t)
	default:
		p.binary(t)
	}
}

// binary pops while the stack top binds at least as tightly, honoring
// associativity, then pushes the operator.
func (p *parser) binary(t *token.Token) {
	prec := t.Op.Kind.Precedence()
	for len(p.ops) > 0 {
		top := p.ops[len(p.ops)-1].Op.Kind
		if top == token.ParenOpen || top == token.BracketOpen {
			break
		}
		if top.Precedence() > prec || (top.Precedence() == prec && t.Op.Kind.Assoc() == token.AssocLeft) {
			p.popToOutput()
			continue
		}
		break
	}
	p.push(*t)
}

func (p *parser) openScope(t *token.Token, bracket bool) {
	s := &scope{bracket: bracket, outMark: len(p.output)}
	if !bracket && p.pending != nil {
		s.fn = true
		s.fnType = *p.pending
	}
	p.pending = nil
	p.scopes = append(p.scopes, s)
	p.push(*t)
}

func (p *parser) closeScope(bracket bool) {
	for len(p.ops) > 0 {
		top := p.ops[len(p.ops)-1].Op.Kind
		if top == token.ParenOpen || top == token.BracketOpen {
			break
		}
		p.popToOutput()
	}
	if len(p.ops) == 0 || len(p.scopes) == 0 {
		return // unbalanced closer, drop it
	}
	opener := p.ops[len(p.ops)-1].Op.Kind
	if (bracket && opener != token.BracketOpen) || (!bracket && opener != token.ParenOpen) {
		return
	}
	p.ops = p.ops[:len(p.ops)-1]
	s := p.scopes[len(p.scopes)-1]
	p.scopes = p.scopes[:len(p.scopes)-1]

	empty := len(p.output) == s.outMark
	switch {
	case bracket:
		rows, cols := 0, 0
		if !empty {
			rows = s.semicolons + 1
			cols = s.rowCommas + 1
			if s.firstRowCols > 0 {
				cols = s.firstRowCols
			}
		}
		p.output = append(p.output, token.Token{
			Type: token.OperatorToken,
			Op:   token.Operator{Kind: token.Matrix, RowCount: rows, ColCount: cols},
		})
	case s.fn:
		args := 0
		if !empty {
			args = s.commas + 1
		}
		p.output = append(p.output, token.Token{
			Type: token.OperatorToken,
			Op:   token.Operator{Kind: token.Fn, ArgCount: args, Func: s.fnType},
		})
	}
}

// separator pops the current scope's pending operators and counts the
// comma or semicolon toward the enclosing arity.
func (p *parser) separator(semicolon bool) {
	for len(p.ops) > 0 {
		top := p.ops[len(p.ops)-1].Op.Kind
		if top == token.ParenOpen || top == token.BracketOpen {
			break
		}
		p.popToOutput()
	}
	if len(p.scopes) == 0 {
		return
	}
	s := p.scopes[len(p.scopes)-1]
	if semicolon {
		if s.semicolons == 0 {
			s.firstRowCols = s.rowCommas + 1
		}
		s.semicolons++
		s.rowCommas = 0
	} else {
		s.commas++
		s.rowCommas++
	}
}

func (p *parser) flush() {
	for len(p.ops) > 0 {
		top := p.ops[len(p.ops)-1].Op.Kind
		if top == token.ParenOpen || top == token.BracketOpen {
			p.ops = p.ops[:len(p.ops)-1]
			continue
		}
		p.popToOutput()
	}
}

func (p *parser) push(t token.Token) {
	p.ops = append(p.ops, t)
}

func (p *parser) popToOutput() {
	top := p.ops[len(p.ops)-1]
	p.ops = p.ops[:len(p.ops)-1]
	p.output = append(p.output, top)
}

// prevIsOperand reports whether the previous meaningful token can act as
// the left operand of a binary operator; otherwise +/- are prefix signs.
func (p *parser) prevIsOperand() bool {
	if p.prev == nil {
		return false
	}
	switch p.prev.Type {
	case token.NumberLiteral, token.NumberErr, token.Variable, token.LineReference, token.UnitToken:
		return true
	case token.OperatorToken:
		switch p.prev.Op.Kind {
		case token.ParenClose, token.BracketClose, token.ApplyUnit, token.Perc:
			return true
		}
	}
	return false
}
