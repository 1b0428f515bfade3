package condition

import (
	"fmt"
	"log"
	"strconv"
	"strings"
)

// Kind discriminates term variants
type Kind int

const (
	// KindIdentifier tests truthiness of a context key
	KindIdentifier Kind = iota
	// KindEquality compares a context key with a literal
	KindEquality
	// KindMembership tests a context key against a list of literals
	KindMembership
	// KindSubstring tests a context key for a substring literal
	KindSubstring
)

// Join connects adjacent terms
type Join string

const (
	// JoinAnd is the AND connective
	JoinAnd Join = "AND"
	// JoinOr is the OR connective
	JoinOr Join = "OR"
)

// Term represents a single predicate over one context key
type Term struct {
	Kind    Kind
	Key     string
	Negated bool          // equality only: != instead of ==
	Value   interface{}   // equality and substring operand
	Values  []interface{} // membership candidates
}

// Expr is a flat boolean expression: terms joined left to right with
// equal precedence, mirroring the declaration grammar.
type Expr struct {
	Source string
	Terms  []*Term
	Joins  []Join
}

// EvaluationError reports a malformed condition expression
type EvaluationError struct {
	Expression string
	Err        error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("invalid condition %q: %v", e.Expression, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	return e.Err
}

// Eval evaluates the expression against a merged key/value context.
// An absent key is falsy and never equals a non-empty literal.
func (e *Expr) Eval(context map[string]interface{}) bool {
	if e == nil || len(e.Terms) == 0 {
		return true
	}
	result := e.Terms[0].eval(context)
	for i, join := range e.Joins {
		next := e.Terms[i+1].eval(context)
		if join == JoinAnd {
			result = result && next
		} else {
			result = result || next
		}
	}
	return result
}

func (t *Term) eval(context map[string]interface{}) bool {
	value, ok := context[t.Key]
	if !ok || value == nil {
		value = nil
	}
	switch t.Kind {
	case KindEquality:
		equal := looseEqual(value, t.Value)
		if t.Negated {
			return !equal
		}
		return equal
	case KindMembership:
		for _, candidate := range t.Values {
			if looseEqual(value, candidate) {
				return true
			}
		}
		return false
	case KindSubstring:
		needle := toString(t.Value)
		switch actual := value.(type) {
		case string:
			return strings.Contains(actual, needle)
		case []string:
			for _, item := range actual {
				if item == needle {
					return true
				}
			}
		case []interface{}:
			for _, item := range actual {
				if toString(item) == needle {
					return true
				}
			}
		}
		return false
	default:
		return isTruthy(value)
	}
}

// Evaluate parses and evaluates an expression in one call. A malformed
// expression never fails the caller: it logs a warning and yields false.
// An empty expression is unconditionally true.
func Evaluate(expression string, context map[string]interface{}) bool {
	if strings.TrimSpace(expression) == "" {
		return true
	}
	expr, err := Parse(expression)
	if err != nil {
		log.Printf("[WARN] condition: %v", err)
		return false
	}
	return expr.Eval(context)
}

// looseEqual compares a context value with a literal using loose
// coercion: numbers compare numerically, everything else as strings.
// A nil value equals nothing.
func looseEqual(value, literal interface{}) bool {
	if value == nil {
		return false
	}
	if literalFloat, ok := toFloat(literal); ok {
		valueFloat, ok := toFloat(value)
		return ok && valueFloat == literalFloat
	}
	if literalBool, ok := literal.(bool); ok {
		if valueBool, ok := value.(bool); ok {
			return valueBool == literalBool
		}
		return false
	}
	return toString(value) == toString(literal)
}

func isTruthy(value interface{}) bool {
	switch actual := value.(type) {
	case nil:
		return false
	case bool:
		return actual
	case string:
		return strings.TrimSpace(actual) != ""
	case int:
		return actual != 0
	case int64:
		return actual != 0
	case float32:
		return actual != 0
	case float64:
		return actual != 0
	case []interface{}:
		return len(actual) > 0
	case []string:
		return len(actual) > 0
	case map[string]interface{}:
		return len(actual) > 0
	default:
		return true
	}
}

func toFloat(value interface{}) (float64, bool) {
	switch actual := value.(type) {
	case int:
		return float64(actual), true
	case int32:
		return float64(actual), true
	case int64:
		return float64(actual), true
	case uint:
		return float64(actual), true
	case float32:
		return float64(actual), true
	case float64:
		return actual, true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(actual), 64)
		return parsed, err == nil
	}
	return 0, false
}

func toString(value interface{}) string {
	switch actual := value.(type) {
	case string:
		return actual
	case float64:
		return strconv.FormatFloat(actual, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(actual), 'f', -1, 32)
	default:
		return fmt.Sprintf("%v", value)
	}
}
