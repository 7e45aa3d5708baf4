// Package sqlguard rewrites and guards LLM-generated SQL before execution:
// it scans for restricted operations over a token stream and deterministically
// replaces the projection and claim-granularity handling of the query.
package sqlguard

import "strings"

// FindRestrictedOperation scans sql as a token stream and returns the first
// restricted keyword found. Words inside string literals, quoted identifiers
// and comments are never matched, and a keyword embedded in a larger
// identifier (DROP_RATE) is a single token that matches nothing.
func FindRestrictedOperation(sql string, restricted []string) (string, bool) {
	set := make(map[string]struct{}, len(restricted))
	for _, op := range restricted {
		set[strings.ToUpper(op)] = struct{}{}
	}

	i, n := 0, len(sql)
	for i < n {
		c := sql[i]
		switch {
		case c == '\'':
			i = skipQuoted(sql, i, '\'')
		case c == '"':
			i = skipQuoted(sql, i, '"')
		case c == '-' && i+1 < n && sql[i+1] == '-':
			i = skipLineComment(sql, i)
		case c == '/' && i+1 < n && sql[i+1] == '*':
			i = skipBlockComment(sql, i)
		case isWordByte(c):
			start := i
			for i < n && isWordByte(sql[i]) {
				i++
			}
			word := strings.ToUpper(sql[start:i])
			if _, found := set[word]; found {
				return word, true
			}
		default:
			i++
		}
	}
	return "", false
}

// ContainsRestrictedOperations reports whether sql holds any restricted
// keyword token.
func ContainsRestrictedOperations(sql string, restricted []string) bool {
	_, found := FindRestrictedOperation(sql, restricted)
	return found
}

// skipQuoted advances past a quoted region starting at i. A doubled quote
// inside the region is an escape, not a terminator.
func skipQuoted(sql string, i int, quote byte) int {
	i++ // opening quote
	n := len(sql)
	for i < n {
		if sql[i] == quote {
			if i+1 < n && sql[i+1] == quote {
				i += 2
				continue
			}
			return i + 1
		}
		i++
	}
	return n
}

func skipLineComment(sql string, i int) int {
	for i < len(sql) && sql[i] != '\n' {
		i++
	}
	return i
}

func skipBlockComment(sql string, i int) int {
	i += 2
	for i+1 < len(sql) {
		if sql[i] == '*' && sql[i+1] == '/' {
			return i + 2
		}
		i++
	}
	return len(sql)
}

func isWordByte(c byte) bool {
	return c == '_' || c == '$' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
