package shunting

import (
	"fmt"
	"strings"
	"testing"

	"github.com/lemonberrylabs/calcpad/pkg/lexer"
	"github.com/lemonberrylabs/calcpad/pkg/token"
	"github.com/lemonberrylabs/calcpad/pkg/vars"
)

type namedUnit string

func (u namedUnit) String() string { return string(u) }

// nameUnits recognizes a fixed set of bare unit names, enough to drive
// the lexer for these tests.
type nameUnits struct{}

func (nameUnits) Parse(chars []rune, mode lexer.UnitMode) (token.Unit, int) {
	for _, name := range []string{"degree", "min", "km", "m", "h", "s"} {
		if !strings.HasPrefix(string(chars), name) {
			continue
		}
		if len(chars) > len(name) {
			next := chars[len(name)]
			if next >= 'a' && next <= 'z' {
				continue
			}
		}
		return namedUnit(name), len(name)
	}
	return nil, 0
}

// signature renders a postfix token compactly for comparison.
func signature(t *token.Token) string {
	switch t.Type {
	case token.NumberLiteral:
		return t.Num.String()
	case token.NumberErr:
		return "ERR"
	case token.Variable:
		return "var:" + t.Text()
	case token.LineReference:
		return "ref:" + t.Text()
	case token.UnitToken:
		return "unit:" + t.Unit.String()
	case token.OperatorToken:
		switch t.Op.Kind {
		case token.Matrix:
			return fmt.Sprintf("MATRIX(%dx%d)", t.Op.RowCount, t.Op.ColCount)
		case token.Fn:
			return fmt.Sprintf("FN(%s/%d)", t.Op.Func, t.Op.ArgCount)
		default:
			return t.Op.Kind.String()
		}
	}
	return "?"
}

func postfix(t *testing.T, input string, table *vars.Table) []string {
	t.Helper()
	if table == nil {
		table = vars.New()
	}
	tokens := lexer.Tokenize([]rune(input), table, 10, nameUnits{})
	out := Parse(tokens)
	sigs := make([]string, len(out))
	for i := range out {
		sigs[i] = signature(&out[i])
	}
	return sigs
}

func checkPostfix(t *testing.T, input string, want []string) {
	t.Helper()
	got := postfix(t, input, nil)
	if len(got) != len(want) {
		t.Fatalf("%q: got %v, want %v", input, got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("%q: got %v, want %v", input, got, want)
		}
	}
}

func TestPrecedence(t *testing.T) {
	checkPostfix(t, "2 + 3 * 4", []string{"2", "3", "4", "MULT", "ADD"})
	checkPostfix(t, "2 * 3 + 4", []string{"2", "3", "MULT", "4", "ADD"})
	checkPostfix(t, "(2 + 3) * 4", []string{"2", "3", "ADD", "4", "MULT"})
	checkPostfix(t, "2 - 3 - 4", []string{"2", "3", "SUB", "4", "SUB"})
	checkPostfix(t, "2 / 3 * 4", []string{"2", "3", "DIV", "4", "MULT"})
}

func TestRightAssociativePow(t *testing.T) {
	checkPostfix(t, "2^3^2", []string{"2", "3", "2", "POW", "POW"})
	checkPostfix(t, "(2^3)^2", []string{"2", "3", "POW", "2", "POW"})
}

func TestUnaryOperators(t *testing.T) {
	checkPostfix(t, "-2 + 3", []string{"2", "UNARY_MINUS", "3", "ADD"})
	checkPostfix(t, "+2 - 3", []string{"2", "UNARY_PLUS", "3", "SUB"})
	checkPostfix(t, "2^-2", []string{"2", "2", "UNARY_MINUS", "POW"})
	checkPostfix(t, "-(2 + 3)", []string{"2", "3", "ADD", "UNARY_MINUS"})
	checkPostfix(t, "2 - -3", []string{"2", "3", "UNARY_MINUS", "SUB"})
	// unary binds tighter than '*', looser than '^'
	checkPostfix(t, "-2 * 3", []string{"2", "UNARY_MINUS", "3", "MULT"})
	checkPostfix(t, "-2^2", []string{"2", "2", "POW", "UNARY_MINUS"})
}

func TestPercent(t *testing.T) {
	checkPostfix(t, "5%", []string{"5", "PERC"})
	checkPostfix(t, "50 - 10%", []string{"50", "10", "PERC", "SUB"})
	// a percent result can be the left operand of a binary operator
	checkPostfix(t, "10% + 1", []string{"10", "PERC", "1", "ADD"})
}

func TestBitwise(t *testing.T) {
	checkPostfix(t, "0xFF AND 0b11", []string{"255", "3", "AND"})
	checkPostfix(t, "NOT(0xFF)", []string{"255", "NOT"})
	checkPostfix(t, "1 << 4 >> 2", []string{"1", "4", "SHIFT_LEFT", "2", "SHIFT_RIGHT"})
	checkPostfix(t, "0xFF XOR 0xF0 OR 1", []string{"255", "240", "XOR", "1", "OR"})
}

func TestFunctionCalls(t *testing.T) {
	checkPostfix(t, "sin(60 degree)", []string{"60", "APPLY_UNIT", "FN(sin/1)"})
	checkPostfix(t, "nth([5,6,7],1)", []string{
		"5", "6", "7", "MATRIX(1x3)", "1", "FN(nth/2)",
	})
	checkPostfix(t, "abs(1 - 2)", []string{"1", "2", "SUB", "FN(abs/1)"})
	checkPostfix(t, "round(1.5) + 1", []string{"1.5", "FN(round/1)", "1", "ADD"})
	// unknown names are display text, their parens still group
	checkPostfix(t, "foo(1 + 2)", []string{"1", "2", "ADD"})
	// a known name without '(' is display text too
	checkPostfix(t, "sin 60", []string{"60"})
}

func TestMatrices(t *testing.T) {
	checkPostfix(t, "[]", []string{"MATRIX(0x0)"})
	checkPostfix(t, "[1]", []string{"1", "MATRIX(1x1)"})
	checkPostfix(t, "[1, 2]", []string{"1", "2", "MATRIX(1x2)"})
	checkPostfix(t, "[1, 2; 3, 4]", []string{
		"1", "2", "3", "4", "MATRIX(2x2)",
	})
	checkPostfix(t, "[1 + 2, 3]", []string{"1", "2", "ADD", "3", "MATRIX(1x2)"})
	checkPostfix(t, "[[1],[2]]", []string{
		"1", "MATRIX(1x1)", "2", "MATRIX(1x1)", "MATRIX(1x2)",
	})
	checkPostfix(t, "transpose([1, 2])", []string{
		"1", "2", "MATRIX(1x2)", "FN(transpose/1)",
	})
}

func TestUnits(t *testing.T) {
	checkPostfix(t, "45min in m", []string{"45", "APPLY_UNIT", "unit:m", "UNIT_CONVERTER"})
	checkPostfix(t, "2m + 3m", []string{
		"2", "APPLY_UNIT", "3", "APPLY_UNIT", "ADD",
	})
	// the unit binds tighter than multiplication
	checkPostfix(t, "2 * 3m", []string{"2", "3", "APPLY_UNIT", "MULT"})
}

func TestAssignment(t *testing.T) {
	// the target name is display text for the notebook host; only the
	// right-hand side survives into postfix, under the assign marker
	checkPostfix(t, "x = 2 + 3", []string{"2", "3", "ADD", "ASSIGN"})
}

func TestHeadersAndTextSkipped(t *testing.T) {
	checkPostfix(t, "# title", nil)
	checkPostfix(t, "some words only", nil)
	checkPostfix(t, "2 apples + 3 pears", []string{"2", "3", "ADD"})
}

func TestUnbalanced(t *testing.T) {
	checkPostfix(t, "2 + (3", []string{"2", "3", "ADD"})
	checkPostfix(t, ")2", []string{"2"})
	checkPostfix(t, "[1, 2", []string{"1", "2"})
	checkPostfix(t, "nth(1, 2", []string{"1", "2"})
}

func TestVariablesAndLineRefs(t *testing.T) {
	table := vars.New()
	table.Set(0, &vars.Variable{Name: []rune("price")})
	table.Set(1, &vars.Variable{Name: []rune("&[1]")})
	got := postfix(t, "price * 2 + &[1]", table)
	want := []string{"var:price", "2", "MULT", "ref:&[1]", "ADD"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
