package recipe

import (
	"bufio"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// DefaultUnit is used for ingredient lines written without a quantity.
const DefaultUnit = "unit"

// ingredientLine splits "2 lbs Beef" into quantity, optional unit and name.
var ingredientLine = regexp.MustCompile(`^([\d./]+)\s*([a-zA-Z]+)?\s+(.+)$`)

// ParseError reports a quantity or ingredient line that could not be read.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %q: %s", e.Input, e.Reason)
}

// ParseQuantity reads a plain decimal ("2", "0.5", ".5") or a simple fraction
// ("1/2", "1.5/2"). Everything else is rejected, including "1/2/3", signs,
// exponents and embedded spaces. The result is always positive.
func ParseQuantity(s string) (float64, error) {
	num, den, isFraction := strings.Cut(s, "/")
	if strings.Contains(den, "/") {
		return 0, &ParseError{Input: s, Reason: "more than one '/'"}
	}

	n, err := parseDecimal(num)
	if err != nil {
		return 0, &ParseError{Input: s, Reason: err.Error()}
	}
	q := n
	if isFraction {
		d, err := parseDecimal(den)
		if err != nil {
			return 0, &ParseError{Input: s, Reason: "denominator " + err.Error()}
		}
		if d == 0 {
			return 0, &ParseError{Input: s, Reason: "division by zero"}
		}
		q = n / d
	}
	if q <= 0 {
		return 0, &ParseError{Input: s, Reason: "quantity must be positive"}
	}
	return q, nil
}

// parseDecimal accepts digits with at most one inner or leading '.'.
func parseDecimal(s string) (float64, error) {
	if s == "" {
		return 0, fmt.Errorf("is empty")
	}
	digits, dots := 0, 0
	for i, c := range s {
		switch {
		case c >= '0' && c <= '9':
			digits++
		case c == '.':
			dots++
			if dots > 1 || i == len(s)-1 {
				return 0, fmt.Errorf("is not a decimal number")
			}
		default:
			return 0, fmt.Errorf("contains invalid character %q", c)
		}
	}
	if digits == 0 {
		return 0, fmt.Errorf("has no digits")
	}
	return strconv.ParseFloat(s, 64)
}

// ParseIngredientLine turns one free-text line into an ingredient.
// Lines without a leading quantity become one DefaultUnit of the whole text.
func ParseIngredientLine(line string) (Ingredient, error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return Ingredient{}, &ParseError{Input: line, Reason: "empty line"}
	}

	m := ingredientLine.FindStringSubmatch(trimmed)
	if m == nil {
		return Ingredient{Name: trimmed, Quantity: 1, Unit: DefaultUnit}, nil
	}

	q, err := ParseQuantity(m[1])
	if err != nil {
		return Ingredient{}, err
	}
	return Ingredient{
		Name:     strings.TrimSpace(m[3]),
		Quantity: q,
		Unit:     m[2],
	}, nil
}

// ParseIngredients reads one ingredient per non-blank line.
func ParseIngredients(text string) ([]Ingredient, error) {
	var out []Ingredient
	sc := bufio.NewScanner(strings.NewReader(text))
	lineNo := 0
	for sc.Scan() {
		lineNo++
		if strings.TrimSpace(sc.Text()) == "" {
			continue
		}
		ing, err := ParseIngredientLine(sc.Text())
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		out = append(out, ing)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ingredients: %w", err)
	}
	return out, nil
}
