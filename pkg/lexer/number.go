package lexer

import (
	"strconv"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/lemonberrylabs/calcpad/pkg/token"
)

// pi is the 28-significant-digit constant emitted for the 'π' character.
var pi = decimal.RequireFromString("3.1415926535897932384626433833")

// maxMagnitude bounds a literal's absolute value; beyond it the numeral
// degrades to NumberErr instead of silently losing precision. minScale
// bounds the fractional digits the same way.
var maxMagnitude = decimal.RequireFromString("79228162514264337593543950335")

const minScale = -28

// scanNumber recognizes π, binary, hex and decimal/scientific literals,
// including SI-suffixed ("1k", "2M") and whitespace-separated forms
// ("12 34" is one numeral). Whitespace between digits is transparent but
// never part of the trailing span. Malformed or out-of-range decimals
// yield a NumberErr token covering the consumed span; binary and hex
// literals that overflow 64 bits are treated as no match.
func scanNumber(str []rune) (token.Token, bool) {
	var numStr []rune
	i := 0
	// a minus is part of the number only when a non-space follows it
	if str[0] == '-' && len(str) > 1 && !isWhitespace(str[1]) {
		numStr = append(numStr, '-')
		i = 1
	}

	if str[0] == 'π' {
		return token.Token{Ptr: str[:1], Type: token.NumberLiteral, Num: pi}, true
	}

	switch {
	case startsWith(str[i:], "0b"):
		return scanRadix(str, i+2, numStr, 2)
	case startsWith(str[i:], "0x"):
		return scanRadix(str, i+2, numStr, 16)
	case isASCIIDigit(str[0]) || str[0] == '.' || str[0] == '-':
		return scanDecimal(str, i, numStr)
	}
	return token.Token{}, false
}

// scanRadix handles the 0b and 0x families. Binary digits may be
// separated by whitespace, hex digits by underscores; a hex digit is only
// taken when the character after it is a hex digit, '_' or non-alphabetic,
// so "0xFF B" stays "0xFF" followed by the unit "B".
func scanRadix(str []rune, start int, numStr []rune, base int) (token.Token, bool) {
	i := start
	end := i
	for i < len(str) {
		ch := str[i]
		switch {
		case base == 2 && (ch == '0' || ch == '1'):
			end = i + 1
			numStr = append(numStr, ch)
		case base == 2 && isWhitespace(ch):
			// transparent
		case base == 16 && isHexDigit(ch) && hexDigitBoundary(str, i):
			end = i + 1
			numStr = append(numStr, ch)
		case base == 16 && ch == '_':
			// transparent
		default:
			i = len(str) // break out
			continue
		}
		i++
	}
	i = end
	if i <= start {
		return token.Token{}, false
	}
	n, err := strconv.ParseInt(string(numStr), base, 64)
	if err != nil {
		return token.Token{}, false
	}
	return token.Token{Ptr: str[:i], Type: token.NumberLiteral, Num: decimal.NewFromInt(n)}, true
}

func hexDigitBoundary(str []rune, i int) bool {
	if i+1 >= len(str) {
		return true
	}
	next := str[i+1]
	return isHexDigit(next) || next == '_' || !unicode.IsLetter(next)
}

// scanDecimal handles plain, fractional, scientific and SI-suffixed
// decimal literals. At most one decimal point and one exponent marker are
// consumed; the exponent's digits are reassembled into normalized
// scientific form before parsing. Interior whitespace is skipped.
func scanDecimal(str []rune, i int, numStr []rune) (token.Token, bool) {
	decimalPointCount := 0
	digitCount := 0
	eCount := 0
	end := 0
	eNeg := false
	eAdded := false
	multiplier := int64(0)

loop:
	for i < len(str) {
		ch := str[i]
		switch {
		case ch == '.' && decimalPointCount < 1 && eCount < 1:
			decimalPointCount++
			end = i + 1
			numStr = append(numStr, ch)
		case ch == '-' && eCount == 1:
			if eNeg || eAdded {
				break loop
			}
			eNeg = true
		case ch == 'e' && eCount < 1 && i > 0 && !isWhitespace(str[i-1]):
			// whitespace before 'e' would make it a word, not an exponent
			eCount++
		case (ch == 'k' || ch == 'M') && eCount < 1 && i > 0 && !isWhitespace(str[i-1]) && boundaryAt(str, i+1):
			if ch == 'k' {
				multiplier = 1_000
			} else {
				multiplier = 1_000_000
			}
			end = i + 1
			break loop
		case isASCIIDigit(ch):
			if eCount > 0 && !eAdded {
				numStr = append(numStr, 'e')
				if eNeg {
					numStr = append(numStr, '-')
				}
				numStr = append(numStr, ch)
				end = i + 1
				eAdded = true
			} else {
				digitCount++
				end = i + 1
				numStr = append(numStr, ch)
			}
		case isWhitespace(ch):
			// transparent
		default:
			break loop
		}
		i++
	}
	i = end
	if digitCount == 0 {
		return token.Token{}, false
	}

	num, err := decimal.NewFromString(normalizeDecimal(numStr))
	if err != nil || outOfRange(num) {
		return token.Token{Ptr: str[:i], Type: token.NumberErr, HasError: true}, true
	}
	if multiplier != 0 {
		num = num.Mul(decimal.NewFromInt(multiplier))
		if outOfRange(num) {
			return token.Token{Ptr: str[:i], Type: token.NumberErr, HasError: true}, true
		}
	}
	return token.Token{Ptr: str[:i], Type: token.NumberLiteral, Num: num}, true
}

// normalizeDecimal pads bare leading/trailing decimal points (".1", "2.")
// into parseable form without changing the value.
func normalizeDecimal(numStr []rune) string {
	s := string(numStr)
	if len(s) > 0 && s[0] == '.' {
		s = "0" + s
	} else if len(s) > 1 && s[0] == '-' && s[1] == '.' {
		s = "-0" + s[1:]
	}
	if len(s) > 0 && s[len(s)-1] == '.' {
		s += "0"
	}
	return s
}

func outOfRange(d decimal.Decimal) bool {
	return d.Exponent() < minScale || d.Abs().Cmp(maxMagnitude) > 0
}

func isASCIIDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch rune) bool {
	return isASCIIDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}
