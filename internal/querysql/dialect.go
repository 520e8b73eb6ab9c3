package querysql

import (
	"fmt"
	"strconv"
	"strings"
)

// Dialect selects placeholder style and dialect-specific rendering.
type Dialect string

const (
	SQLite    Dialect = "sqlite"    // ? placeholders, FTS5
	SQLServer Dialect = "sqlserver" // @pN placeholders, CONTAINS/FREETEXT
	Postgres  Dialect = "postgres"  // $N placeholders, tsvector
)

// Dialects lists the supported dialects.
var Dialects = []Dialect{SQLite, SQLServer, Postgres}

// ParseDialect parses a dialect name (case-insensitive).
func ParseDialect(s string) (Dialect, error) {
	d := Dialect(strings.ToLower(s))
	for _, known := range Dialects {
		if d == known {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown dialect %q: must be one of %v", s, Dialects)
}

// Placeholder returns the placeholder for the n-th parameter (1-based).
func (d Dialect) Placeholder(n int) string {
	switch d {
	case Postgres:
		return "$" + strconv.Itoa(n)
	case SQLServer:
		return "@p" + strconv.Itoa(n)
	default:
		return "?"
	}
}

// Placeholder is a parameter reference found in SQL text.
type Placeholder struct {
	Start int // Byte offset of the first placeholder character
	End   int // Byte offset just past the placeholder
	Index int // 0-based parameter index
}

// Placeholders returns the parameter references in sql, in text order,
// skipping anything inside single-quoted literals.
func (d Dialect) Placeholders(sql string) []Placeholder {
	var out []Placeholder
	next := 0
	inQuote := false

	for i := 0; i < len(sql); i++ {
		c := sql[i]
		if c == '\'' {
			// '' inside a literal is an escaped quote and toggles twice.
			inQuote = !inQuote
			continue
		}
		if inQuote {
			continue
		}

		switch d {
		case Postgres:
			if c == '$' {
				if n, end, ok := digitsAt(sql, i+1); ok {
					out = append(out, Placeholder{Start: i, End: end, Index: n - 1})
					i = end - 1
				}
			}
		case SQLServer:
			if c == '@' && i+1 < len(sql) && sql[i+1] == 'p' {
				if n, end, ok := digitsAt(sql, i+2); ok {
					out = append(out, Placeholder{Start: i, End: end, Index: n - 1})
					i = end - 1
				}
			}
		default:
			if c == '?' {
				out = append(out, Placeholder{Start: i, End: i + 1, Index: next})
				next++
			}
		}
	}

	return out
}

// digitsAt parses a positive decimal number starting at i.
func digitsAt(s string, i int) (n int, end int, ok bool) {
	end = i
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == i {
		return 0, i, false
	}
	n, err := strconv.Atoi(s[i:end])
	if err != nil || n < 1 {
		return 0, i, false
	}
	return n, end, true
}

// orderSuffix is appended to the ORDER BY key.
// COLLATE BINARY ensures deterministic text ordering across SQLite versions.
func (d Dialect) orderSuffix() string {
	if d == SQLite {
		return " COLLATE BINARY ASC"
	}
	return " ASC"
}

// escapeLike escapes LIKE metacharacters with a backslash, for use with
// ESCAPE '\'. SQL Server also treats '[' as a metacharacter.
func (d Dialect) escapeLike(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 8)
	for _, r := range s {
		switch r {
		case '%', '_', '\\':
			b.WriteByte('\\')
		case '[':
			if d == SQLServer {
				b.WriteByte('\\')
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}

// UnescapeLike reverses escapeLike: a backslash makes the next character
// literal.
func UnescapeLike(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	escaped := false
	for _, r := range s {
		if !escaped && r == '\\' {
			escaped = true
			continue
		}
		escaped = false
		b.WriteRune(r)
	}
	return b.String()
}

// QuoteLiteral renders s as a single-quoted SQL string literal.
func QuoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
