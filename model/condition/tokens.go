package condition

import (
	"github.com/viant/parsly"
	"github.com/viant/parsly/matcher"
)

// Token codes
const (
	whitespaceCode = iota
	identifierCode
	operatorCode
	stringCode
	numberCode
	openSquareBracketCode
	closeSquareBracketCode
	commaCode
)

// Token definitions
var (
	whitespaceToken         = parsly.NewToken(whitespaceCode, "Whitespace", matcher.NewWhiteSpace())
	identifierToken         = parsly.NewToken(identifierCode, "Identifier", newIdentifierMatcher())
	operatorToken           = parsly.NewToken(operatorCode, "Operator", newOperatorMatcher())
	stringToken             = parsly.NewToken(stringCode, "String", newStringMatcher())
	numberToken             = parsly.NewToken(numberCode, "Number", newNumberMatcher())
	openSquareBracketToken  = parsly.NewToken(openSquareBracketCode, "[", matcher.NewByte('['))
	closeSquareBracketToken = parsly.NewToken(closeSquareBracketCode, "]", matcher.NewByte(']'))
	commaToken              = parsly.NewToken(commaCode, ",", matcher.NewByte(','))
)

// Custom matchers
func newIdentifierMatcher() parsly.Matcher {
	return &identifierMatcher{}
}

func newOperatorMatcher() parsly.Matcher {
	return &operatorMatcher{}
}

func newStringMatcher() parsly.Matcher {
	return &stringMatcher{}
}

func newNumberMatcher() parsly.Matcher {
	return &numberMatcher{}
}

// identifierMatcher matches context keys and bare keywords
type identifierMatcher struct{}

func (m *identifierMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos
	size := cursor.InputSize

	if pos >= size {
		return 0
	}

	// First character must be a letter or underscore
	if !isLetter(input[pos]) && input[pos] != '_' {
		return 0
	}

	matched := 1
	for i := pos + 1; i < size; i++ {
		if isLetter(input[i]) || isDigit(input[i]) || input[i] == '_' || input[i] == '.' {
			matched++
			continue
		}
		break
	}

	return matched
}

// operatorMatcher matches the == and != comparison operators
type operatorMatcher struct{}

func (m *operatorMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos
	size := cursor.InputSize

	if pos+1 >= size {
		return 0
	}
	if (input[pos] == '=' || input[pos] == '!') && input[pos+1] == '=' {
		return 2
	}
	return 0
}

// stringMatcher matches single or double quoted literals
type stringMatcher struct{}

func (m *stringMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos
	size := cursor.InputSize

	if pos >= size {
		return 0
	}
	quote := input[pos]
	if quote != '\'' && quote != '"' {
		return 0
	}

	for i := pos + 1; i < size; i++ {
		if input[i] == '\\' {
			i++
			continue
		}
		if input[i] == quote {
			return i - pos + 1
		}
	}
	// Unterminated literal
	return 0
}

// numberMatcher matches integer and decimal literals, optionally signed
type numberMatcher struct{}

func (m *numberMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos
	size := cursor.InputSize

	if pos >= size {
		return 0
	}

	matched := 0
	i := pos
	if input[i] == '-' || input[i] == '+' {
		i++
		matched++
	}
	digits := 0
	for ; i < size; i++ {
		if isDigit(input[i]) {
			digits++
			matched++
			continue
		}
		if input[i] == '.' && digits > 0 {
			matched++
			continue
		}
		break
	}
	if digits == 0 {
		return 0
	}
	return matched
}

// Helper functions
func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
