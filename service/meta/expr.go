package meta

import (
	"os"
	"strings"
	"unicode"
)

const envExprPrefix = "${env."

// expandEnvExpr substitutes every ${env.KEY} occurrence with the value of
// the KEY environment variable, empty when unset. A prefix without a
// closing brace is kept literal; a key with illegal characters keeps the
// prefix literal and rescans the remainder so nested expressions still
// expand.
func expandEnvExpr(value string) string {
	var expanded strings.Builder
	offset := 0
	for {
		next := strings.Index(value[offset:], envExprPrefix)
		if next < 0 {
			expanded.WriteString(value[offset:])
			break
		}
		expanded.WriteString(value[offset : offset+next])
		keyStart := offset + next + len(envExprPrefix)

		keyEnd := strings.IndexByte(value[keyStart:], '}')
		if keyEnd < 0 {
			expanded.WriteString(value[offset+next:])
			break
		}
		key := value[keyStart : keyStart+keyEnd]
		if !validEnvKey(key) {
			expanded.WriteString(envExprPrefix)
			offset = keyStart
			continue
		}
		expanded.WriteString(os.Getenv(key))
		offset = keyStart + keyEnd + 1
	}
	return expanded.String()
}

// validEnvKey permits letters, digits and underscores; an empty key is
// tolerated and expands to nothing.
func validEnvKey(key string) bool {
	for _, r := range key {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}
	return true
}
