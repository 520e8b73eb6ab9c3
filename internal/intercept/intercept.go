// Package intercept rewrites generated SQL so that tagged substring tests
// become native full-text clauses.
//
// The SQL compiler renders every substring test as
//
//	<target> LIKE <placeholder> ESCAPE '\'
//
// with the parameter '%' + escaped value + '%'. When that value is a tagged
// payload built by package fulltext, the interceptor replaces the clause
// and its parameter:
//
//	sqlserver  CONTAINS(Title, @p1)                    'fox'
//	sqlite     docs MATCH ?                            'Title : (fox)'
//	postgres   to_tsvector(Title) @@ to_tsquery($1)    'fox'
//
// Commands without tagged parameters pass through untouched.
package intercept

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/roach88/ftsearch/internal/fulltext"
	"github.com/roach88/ftsearch/internal/querysql"
)

// ErrUntranslated is returned when a parameter carries a full-text payload
// but no LIKE clause in the command refers to it. Executing such a command
// would silently run a substring search for the sentinel text.
var ErrUntranslated = errors.New("tagged full-text payload outside a rewritable LIKE clause")

// likeClause matches a compiled substring test. Group 1 is the target
// (column or the quoted wildcard), group 2 the placeholder.
var likeClause = regexp.MustCompile(`([A-Za-z_][A-Za-z0-9_.]*|'\*') LIKE (\?|\$\d+|@p\d+) ` + regexp.QuoteMeta(querysql.LikeEscape))

// fromTable finds the queried table for dialects whose native clause
// names it.
var fromTable = regexp.MustCompile(`(?i)\bFROM\s+([A-Za-z_][A-Za-z0-9_]*)`)

// Interceptor rewrites commands for one dialect. It holds no mutable
// state and is safe for concurrent use.
type Interceptor struct {
	Dialect querysql.Dialect
	Logger  *slog.Logger
}

// New creates an Interceptor. A nil logger uses slog.Default().
func New(d querysql.Dialect, logger *slog.Logger) *Interceptor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Interceptor{Dialect: d, Logger: logger}
}

// Rewrite returns sql and args with every tagged substring test replaced
// by the native full-text clause. args is never modified; a new slice is
// returned when anything changes.
func (ic *Interceptor) Rewrite(sql string, args []any) (string, []any, error) {
	if !anyTagged(args) {
		return sql, args, nil
	}

	placeholders := make(map[int]querysql.Placeholder)
	for _, ph := range ic.Dialect.Placeholders(sql) {
		placeholders[ph.Start] = ph
	}

	out := append([]any(nil), args...)
	rewritten := make(map[int]bool)

	var b strings.Builder
	b.Grow(len(sql))
	last := 0

	for _, m := range likeClause.FindAllStringSubmatchIndex(sql, -1) {
		ph, ok := placeholders[m[4]]
		if !ok || ph.Index >= len(args) {
			continue
		}
		arg, ok := args[ph.Index].(string)
		if !ok {
			continue
		}
		payload, ok := decodeArg(arg)
		if !ok {
			continue
		}

		target := sql[m[2]:m[3]]
		clause, native, err := ic.native(sql, target, sql[m[4]:m[5]], payload)
		if err != nil {
			return "", nil, err
		}

		b.WriteString(sql[last:m[0]])
		b.WriteString(clause)
		last = m[1]
		out[ph.Index] = native
		rewritten[ph.Index] = true

		ic.Logger.Debug("full-text clause rewritten",
			"dialect", string(ic.Dialect),
			"mode", payload.Mode.String(),
			"target", target,
			"param", ph.Index+1,
		)
	}
	b.WriteString(sql[last:])

	for i, a := range args {
		if s, ok := a.(string); ok && fulltext.Detect(s) && !rewritten[i] {
			return "", nil, fmt.Errorf("parameter %d: %w", i+1, ErrUntranslated)
		}
	}

	return b.String(), out, nil
}

func anyTagged(args []any) bool {
	for _, a := range args {
		if s, ok := a.(string); ok && fulltext.Detect(s) {
			return true
		}
	}
	return false
}

// decodeArg recovers a tagged payload from a LIKE parameter.
func decodeArg(arg string) (fulltext.Payload, bool) {
	if len(arg) < 2 || arg[0] != '%' || arg[len(arg)-1] != '%' {
		return fulltext.Payload{}, false
	}
	return fulltext.Decode(querysql.UnescapeLike(arg[1 : len(arg)-1]))
}

// native builds the replacement clause and parameter value.
func (ic *Interceptor) native(sql, target, placeholder string, p fulltext.Payload) (string, string, error) {
	wildcard := target == querysql.QuoteLiteral(fulltext.WildcardMarker)
	column := target
	if i := strings.LastIndexByte(column, '.'); i >= 0 {
		column = column[i+1:]
	}

	switch ic.Dialect {
	case querysql.SQLServer:
		fn := "CONTAINS"
		if p.Mode == fulltext.ModeFreeText {
			fn = "FREETEXT"
		}
		col := target
		if wildcard {
			col = fulltext.WildcardMarker
		}
		return fmt.Sprintf("%s(%s, %s)", fn, col, placeholder), p.Predicate, nil

	case querysql.SQLite:
		tbl, err := tableOf(sql)
		if err != nil {
			return "", "", err
		}
		query, err := fts5Query(p)
		if err != nil {
			return "", "", err
		}
		if !wildcard {
			query = column + " : " + query
		}
		return fmt.Sprintf("%s MATCH %s", tbl, placeholder), query, nil

	case querysql.Postgres:
		fn := "to_tsquery"
		if p.Mode == fulltext.ModeFreeText {
			fn = "plainto_tsquery"
		}
		doc := target
		if wildcard {
			tbl, err := tableOf(sql)
			if err != nil {
				return "", "", err
			}
			doc = tbl + "::text"
		}
		return fmt.Sprintf("to_tsvector(%s) @@ %s(%s)", doc, fn, placeholder), p.Predicate, nil

	default:
		return "", "", fmt.Errorf("unsupported dialect %q", ic.Dialect)
	}
}

func tableOf(sql string) (string, error) {
	m := fromTable.FindStringSubmatch(sql)
	if m == nil {
		return "", fmt.Errorf("cannot find table in command: %w", ErrUntranslated)
	}
	return m[1], nil
}

// fts5Query renders a payload as an FTS5 query expression. CONTAINS text
// is native FTS5 syntax already and is passed through in parentheses;
// FREETEXT matches any of its words.
func fts5Query(p fulltext.Payload) (string, error) {
	if p.Mode == fulltext.ModeContains {
		return "(" + p.Predicate + ")", nil
	}

	words := strings.Fields(p.Predicate)
	if len(words) == 0 {
		return "", fmt.Errorf("freetext predicate %q has no words", p.Predicate)
	}
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = `"` + strings.ReplaceAll(w, `"`, `""`) + `"`
	}
	return "(" + strings.Join(quoted, " OR ") + ")", nil
}
