package token

import (
	"testing"
)

func TestPrecedenceTiers(t *testing.T) {
	tiers := []struct {
		prec  int
		kinds []OpKind
	}{
		{6, []OpKind{Perc, Pow}},
		{5, []OpKind{ApplyUnit}},
		{4, []OpKind{UnaryPlus, UnaryMinus, BinNot}},
		{3, []OpKind{Mult, Div}},
		{2, []OpKind{Add, Sub}},
		{0, []OpKind{
			Comma, Semicolon, BinAnd, BinOr, BinXor, ShiftLeft,
			ShiftRight, Assign, UnitConverter, ParenOpen, ParenClose,
			BracketOpen, BracketClose, Matrix, Fn,
		}},
	}
	for _, tier := range tiers {
		for _, k := range tier.kinds {
			if got := k.Precedence(); got != tier.prec {
				t.Errorf("%s: precedence %d, want %d", k, got, tier.prec)
			}
		}
	}
}

func TestPrecedenceOrdering(t *testing.T) {
	// the orderings the notebook language depends on
	pairs := []struct {
		tighter, looser OpKind
	}{
		{Pow, ApplyUnit},
		{ApplyUnit, UnaryMinus},
		{UnaryMinus, Mult},
		{Mult, Add},
		{Add, Assign},
		{Perc, Mult},
	}
	for _, p := range pairs {
		if p.tighter.Precedence() <= p.looser.Precedence() {
			t.Errorf("%s should bind tighter than %s", p.tighter, p.looser)
		}
	}
}

func TestAssociativity(t *testing.T) {
	for _, k := range []OpKind{Pow, Comma, Semicolon} {
		if k.Assoc() != AssocRight {
			t.Errorf("%s: want right associativity", k)
		}
	}
	for _, k := range []OpKind{Add, Sub, Mult, Div, Perc, ShiftLeft, ShiftRight, Assign} {
		if k.Assoc() != AssocLeft {
			t.Errorf("%s: want left associativity", k)
		}
	}
}

func TestParseFn(t *testing.T) {
	for name, want := range map[string]FnType{
		"sin": FnSin, "nth": FnNth, "transpose": FnTranspose, "abs": FnAbs,
	} {
		got, ok := ParseFn(name)
		if !ok || got != want {
			t.Errorf("ParseFn(%q) = %v, %v", name, got, ok)
		}
	}
	if _, ok := ParseFn("sinus"); ok {
		t.Error("ParseFn should not match unknown names")
	}
	if _, ok := ParseFn("SIN"); ok {
		t.Error("ParseFn should be case sensitive")
	}
}

func TestFnTypeString(t *testing.T) {
	if got := FnNth.String(); got != "nth" {
		t.Errorf("got %q, want %q", got, "nth")
	}
	if got, _ := ParseFn(FnRound.String()); got != FnRound {
		t.Error("String and ParseFn should round-trip")
	}
}

func TestTokenHelpers(t *testing.T) {
	ws := Token{Ptr: []rune("  \t"), Type: StringLiteral}
	if !ws.IsWhitespace() || !ws.IsString() {
		t.Error("whitespace literal misclassified")
	}
	word := Token{Ptr: []rune("alma"), Type: StringLiteral}
	if word.IsWhitespace() {
		t.Error("word literal classified as whitespace")
	}
	if word.Text() != "alma" {
		t.Errorf("Text() = %q", word.Text())
	}
	num := Token{Ptr: []rune("12"), Type: NumberLiteral}
	if !num.IsNumber() || num.IsString() {
		t.Error("number literal misclassified")
	}
}
