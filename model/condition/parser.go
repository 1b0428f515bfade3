package condition

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/viant/parsly"
)

// Parse parses a flat boolean expression in the format:
// term (AND|OR term)* where term is one of
// key == 'literal', key != 'literal', key IN ['a','b'], key CONTAINS 'a', key
func Parse(input string) (*Expr, error) {
	expr := &Expr{Source: input}
	cursor := parsly.NewCursor("", []byte(input), 0)

	term, err := parseTerm(cursor)
	if err != nil {
		return nil, &EvaluationError{Expression: input, Err: err}
	}
	expr.Terms = append(expr.Terms, term)

	for {
		matched := cursor.MatchAfterOptional(whitespaceToken, identifierToken)
		if matched.Code == identifierToken.Code {
			join := matched.Text(cursor)
			switch join {
			case string(JoinAnd), string(JoinOr):
			default:
				return nil, &EvaluationError{Expression: input, Err: fmt.Errorf("expected AND or OR, had %q", join)}
			}
			term, err = parseTerm(cursor)
			if err != nil {
				return nil, &EvaluationError{Expression: input, Err: err}
			}
			expr.Terms = append(expr.Terms, term)
			expr.Joins = append(expr.Joins, Join(join))
			continue
		}
		if cursor.Pos >= cursor.InputSize || strings.TrimSpace(string(cursor.Input[cursor.Pos:])) == "" {
			return expr, nil
		}
		return nil, &EvaluationError{Expression: input, Err: cursor.NewError(identifierToken)}
	}
}

func parseTerm(cursor *parsly.Cursor) (*Term, error) {
	matched := cursor.MatchAfterOptional(whitespaceToken, identifierToken)
	if matched.Code != identifierToken.Code {
		return nil, cursor.NewError(identifierToken)
	}
	key := matched.Text(cursor)
	switch key {
	case string(JoinAnd), string(JoinOr), "IN", "CONTAINS":
		return nil, fmt.Errorf("keyword %q cannot start a term", key)
	}

	anchor := cursor.Pos
	matched = cursor.MatchAfterOptional(whitespaceToken, operatorToken)
	if matched.Code == operatorToken.Code {
		operator := matched.Text(cursor)
		value, err := parseLiteral(cursor)
		if err != nil {
			return nil, err
		}
		return &Term{Kind: KindEquality, Key: key, Negated: operator == "!=", Value: value}, nil
	}

	cursor.Pos = anchor
	matched = cursor.MatchAfterOptional(whitespaceToken, identifierToken)
	if matched.Code != identifierToken.Code {
		cursor.Pos = anchor
		return &Term{Kind: KindIdentifier, Key: key}, nil
	}
	switch keyword := matched.Text(cursor); keyword {
	case "IN":
		values, err := parseList(cursor)
		if err != nil {
			return nil, err
		}
		return &Term{Kind: KindMembership, Key: key, Values: values}, nil
	case "CONTAINS":
		value, err := parseLiteral(cursor)
		if err != nil {
			return nil, err
		}
		return &Term{Kind: KindSubstring, Key: key, Value: value}, nil
	case string(JoinAnd), string(JoinOr):
		// Bare identifier term, leave the connective to the caller
		cursor.Pos = anchor
		return &Term{Kind: KindIdentifier, Key: key}, nil
	default:
		return nil, fmt.Errorf("unexpected token %q after %q", keyword, key)
	}
}

func parseList(cursor *parsly.Cursor) ([]interface{}, error) {
	matched := cursor.MatchAfterOptional(whitespaceToken, openSquareBracketToken)
	if matched.Code != openSquareBracketToken.Code {
		return nil, cursor.NewError(openSquareBracketToken)
	}
	var values []interface{}
	for {
		matched = cursor.MatchAfterOptional(whitespaceToken, closeSquareBracketToken)
		if matched.Code == closeSquareBracketToken.Code {
			return values, nil
		}
		if len(values) > 0 {
			matched = cursor.MatchAfterOptional(whitespaceToken, commaToken)
			if matched.Code != commaToken.Code {
				return nil, cursor.NewError(commaToken)
			}
		}
		value, err := parseLiteral(cursor)
		if err != nil {
			return nil, err
		}
		values = append(values, value)
	}
}

func parseLiteral(cursor *parsly.Cursor) (interface{}, error) {
	matched := cursor.MatchAfterOptional(whitespaceToken, stringToken)
	if matched.Code == stringToken.Code {
		return unquote(matched.Text(cursor)), nil
	}
	matched = cursor.MatchAfterOptional(whitespaceToken, numberToken)
	if matched.Code == numberToken.Code {
		parsed, err := strconv.ParseFloat(matched.Text(cursor), 64)
		if err != nil {
			return nil, err
		}
		return parsed, nil
	}
	matched = cursor.MatchAfterOptional(whitespaceToken, identifierToken)
	if matched.Code == identifierToken.Code {
		switch text := matched.Text(cursor); text {
		case "true":
			return true, nil
		case "false":
			return false, nil
		case "null", "nil":
			return nil, nil
		default:
			// Unquoted literal
			return text, nil
		}
	}
	return nil, cursor.NewError(stringToken)
}

func unquote(text string) string {
	if len(text) < 2 {
		return text
	}
	quote := text[0]
	body := text[1 : len(text)-1]
	if !strings.ContainsRune(body, '\\') {
		return body
	}
	var builder strings.Builder
	for i := 0; i < len(body); i++ {
		if body[i] == '\\' && i+1 < len(body) && (body[i+1] == quote || body[i+1] == '\\') {
			i++
		}
		builder.WriteByte(body[i])
	}
	return builder.String()
}
