package compiler

import (
	"math"
	"math/big"
	"strconv"
	"strings"
	"unicode/utf8"
)

// isIntegerText reports whether s is an optionally negative run of digits.
func isIntegerText(s string) bool {
	s = strings.TrimPrefix(s, "-")
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(rune(s[i])) {
			return false
		}
	}
	return true
}

// isDecimalText reports whether s is an optionally negative run of digits
// holding exactly one decimal point.
func isDecimalText(s string) bool {
	s = strings.TrimPrefix(s, "-")
	digits, dots := 0, 0
	for i := 0; i < len(s); i++ {
		switch {
		case isDigit(rune(s[i])):
			digits++
		case s[i] == '.':
			dots++
		default:
			return false
		}
	}
	return digits > 0 && dots == 1
}

// isNumericText is the operand shape constant folding applies to.
func isNumericText(s string) bool {
	return isIntegerText(s) || isDecimalText(s)
}

func isBoolText(s string) bool {
	return s == "true" || s == "false"
}

func isQuotedText(s string) bool {
	return len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"'
}

// foldable reports whether "left op right" can be evaluated at compile time.
// Boolean and string literals never fold.
func foldable(left, right string) bool {
	return isNumericText(left) && isNumericText(right)
}

// fold evaluates "left op right" for two numeric literal texts. Relational
// operators yield 1 or 0. Two integer operands are evaluated exactly; the
// result stays integer text unless a division leaves a remainder. Any decimal
// operand makes the result a decimal that always carries a point.
func fold(op TokenType, left, right string) (string, error) {
	if isIntegerText(left) && isIntegerText(right) {
		return foldIntegers(op, left, right)
	}

	l, err := parseDecimal(left)
	if err != nil {
		return "", err
	}
	r, err := parseDecimal(right)
	if err != nil {
		return "", err
	}

	var res float64
	switch op {
	case PLUS:
		res = l + r
	case MINUS:
		res = l - r
	case STAR:
		res = l * r
	case SLASH:
		if r == 0 {
			return "", &SemanticError{Kind: ErrDivisionByZero}
		}
		res = l / r
	default:
		holds, ok := relation(op, compareFloats(l, r))
		if !ok {
			return "", &SyntaxError{Expected: "operator", Found: op.Describe()}
		}
		res = boolValue(holds)
	}
	return decimalResult(res, left+" "+op.Describe()+" "+right)
}

// foldIntegers evaluates two integer literal texts without loss of precision.
func foldIntegers(op TokenType, left, right string) (string, error) {
	l, ok := new(big.Int).SetString(left, 10)
	if !ok {
		return "", &SemanticError{Kind: ErrNumberOutOfRange, Value: left}
	}
	r, ok := new(big.Int).SetString(right, 10)
	if !ok {
		return "", &SemanticError{Kind: ErrNumberOutOfRange, Value: right}
	}

	switch op {
	case PLUS:
		return new(big.Int).Add(l, r).String(), nil
	case MINUS:
		return new(big.Int).Sub(l, r).String(), nil
	case STAR:
		return new(big.Int).Mul(l, r).String(), nil
	case SLASH:
		if r.Sign() == 0 {
			return "", &SemanticError{Kind: ErrDivisionByZero}
		}
		q, m := new(big.Int).QuoRem(l, r, new(big.Int))
		if m.Sign() == 0 {
			return q.String(), nil
		}
		f, _ := new(big.Rat).SetFrac(l, r).Float64()
		return decimalResult(f, left+" / "+right)
	}

	holds, ok := relation(op, l.Cmp(r))
	if !ok {
		return "", &SyntaxError{Expected: "operator", Found: op.Describe()}
	}
	if holds {
		return "1", nil
	}
	return "0", nil
}

// relation applies a relational operator to a comparison result (-1, 0, +1).
func relation(op TokenType, cmp int) (holds, ok bool) {
	switch op {
	case EQUALS:
		return cmp == 0, true
	case NOT_EQ:
		return cmp != 0, true
	case LESS:
		return cmp < 0, true
	case GREATER:
		return cmp > 0, true
	case LESS_EQ:
		return cmp <= 0, true
	case GREATER_EQ:
		return cmp >= 0, true
	}
	return false, false
}

func compareFloats(l, r float64) int {
	switch {
	case l < r:
		return -1
	case l > r:
		return 1
	}
	return 0
}

// parseDecimal reads numeric literal text. Text that passed the shape checks
// can only fail by exceeding the float64 range.
func parseDecimal(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &SemanticError{Kind: ErrNumberOutOfRange, Value: s}
	}
	return v, nil
}

func decimalResult(v float64, expr string) (string, error) {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return "", &SemanticError{Kind: ErrNumberOutOfRange, Value: expr}
	}
	return formatDecimal(v), nil
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// formatDecimal renders v with at most 15 significant digits, so that 5.2 * 3
// prints as 15.6, and always keeps a decimal point.
func formatDecimal(v float64) string {
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(v, 'e', 14, 64), 64)
	if err == nil {
		v = rounded
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if strings.Contains(s, ".") {
		return s
	}
	return s + ".0"
}

// compatible reports whether a value with the given text may be stored in a
// variable of type want. The check looks at the text only: temporaries are
// always accepted, identifiers never match a literal rule.
func compatible(want DataType, value string) bool {
	if IsTemp(value) {
		return true
	}

	switch want {
	case TypeInt:
		return isIntegerText(value)
	case TypeFloat, TypeDouble:
		return isIntegerText(value) || isDecimalText(value)
	case TypeBool:
		return isBoolText(value)
	case TypeString:
		return isQuotedText(value)
	case TypeChar:
		return isQuotedText(value) && utf8.RuneCountInString(value[1:len(value)-1]) == 1
	}
	return false
}
