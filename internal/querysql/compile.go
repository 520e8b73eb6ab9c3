package querysql

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/ftsearch/internal/ir"
	"github.com/roach88/ftsearch/internal/queryir"
)

// LikeEscape is the ESCAPE clause attached to every substring test.
const LikeEscape = `ESCAPE '\'`

// SQLCompiler compiles QueryIR to parameterized SQL.
//
// CRITICAL: ALL queries include ORDER BY for deterministic results.
// CRITICAL: All values are parameterized (never interpolated). The only
// inline literals are queryir.Const operands, which come from code.
type SQLCompiler struct {
	Dialect Dialect

	params []any
}

// NewSQLCompiler creates a new SQLCompiler for dialect d.
func NewSQLCompiler(d Dialect) *SQLCompiler {
	return &SQLCompiler{Dialect: d}
}

// Compile converts a QueryIR query to parameterized SQL.
// Returns (sql, params, error) tuple.
func (c *SQLCompiler) Compile(q queryir.Query) (string, []any, error) {
	if q == nil {
		return "", nil, fmt.Errorf("cannot compile nil query")
	}
	c.params = nil

	switch query := q.(type) {
	case queryir.Select:
		return c.compileSelect(query)
	case *queryir.Select:
		return c.compileSelect(*query)
	default:
		return "", nil, fmt.Errorf("unsupported query type: %T", q)
	}
}

func (c *SQLCompiler) compileSelect(q queryir.Select) (string, []any, error) {
	if q.From == "" {
		return "", nil, fmt.Errorf("select has no table")
	}

	selectClause := "*"
	if len(q.Columns) > 0 {
		selectClause = strings.Join(q.Columns, ", ")
	}

	var whereClause string
	if q.Filter != nil {
		filterSQL, err := c.compilePredicate(q.Filter)
		if err != nil {
			return "", nil, fmt.Errorf("compile filter: %w", err)
		}
		whereClause = " WHERE " + filterSQL
	}

	orderKey := q.OrderBy
	if orderKey == "" {
		orderKey = "id"
	}

	sql := fmt.Sprintf("SELECT %s FROM %s%s ORDER BY %s%s",
		selectClause,
		q.From,
		whereClause,
		orderKey,
		c.Dialect.orderSuffix())

	return sql, c.params, nil
}

// arg records a parameter and returns its placeholder.
func (c *SQLCompiler) arg(v any) string {
	c.params = append(c.params, v)
	return c.Dialect.Placeholder(len(c.params))
}

func (c *SQLCompiler) compilePredicate(p queryir.Predicate) (string, error) {
	if p == nil {
		return "1 = 1", nil // Always true
	}

	switch pred := p.(type) {
	case queryir.Equals:
		return c.compileEquals(pred)
	case *queryir.Equals:
		return c.compileEquals(*pred)
	case queryir.Contains:
		return c.compileContains(pred)
	case *queryir.Contains:
		return c.compileContains(*pred)
	case queryir.And:
		return c.compileAnd(pred)
	case *queryir.And:
		return c.compileAnd(*pred)
	default:
		return "", fmt.Errorf("unsupported predicate type: %T", p)
	}
}

func (c *SQLCompiler) compileEquals(eq queryir.Equals) (string, error) {
	param, err := ir.ToParam(eq.Value)
	if err != nil {
		return "", fmt.Errorf("convert value: %w", err)
	}
	return fmt.Sprintf("%s = %s", eq.Field, c.arg(param)), nil
}

// compileContains renders a substring test as "<operand> LIKE <ph> ESCAPE '\'".
// The parameter is '%' + escaped value + '%', so the value itself, tagged
// payloads included, is recoverable from the parameter by UnescapeLike.
func (c *SQLCompiler) compileContains(ct queryir.Contains) (string, error) {
	operand, err := c.compileOperand(ct.Target)
	if err != nil {
		return "", err
	}
	ph := c.arg("%" + c.Dialect.escapeLike(ct.Value) + "%")
	return fmt.Sprintf("%s LIKE %s %s", operand, ph, LikeEscape), nil
}

func (c *SQLCompiler) compileOperand(o queryir.Operand) (string, error) {
	switch op := o.(type) {
	case queryir.Column:
		return columnName(op.Name)
	case *queryir.Column:
		return columnName(op.Name)
	case queryir.Const:
		return QuoteLiteral(op.Value), nil
	case *queryir.Const:
		return QuoteLiteral(op.Value), nil
	default:
		return "", fmt.Errorf("unsupported operand type: %T", o)
	}
}

func columnName(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("empty column name")
	}
	return name, nil
}

func (c *SQLCompiler) compileAnd(and queryir.And) (string, error) {
	if len(and.Predicates) == 0 {
		return "1 = 1", nil // Always true (vacuous truth)
	}

	sqlParts := make([]string, 0, len(and.Predicates))
	for _, pred := range and.Predicates {
		sql, err := c.compilePredicate(pred)
		if err != nil {
			return "", err
		}
		sqlParts = append(sqlParts, sql)
	}

	return strings.Join(sqlParts, " AND "), nil
}

// Inline substitutes params into sql as literals. The result is for
// display (explain output, logs) only; never execute it.
func (d Dialect) Inline(sql string, params []any) (string, error) {
	var b strings.Builder
	b.Grow(len(sql) + 16*len(params))

	last := 0
	for _, ph := range d.Placeholders(sql) {
		if ph.Index < 0 || ph.Index >= len(params) {
			return "", fmt.Errorf("placeholder %s refers to missing parameter %d", sql[ph.Start:ph.End], ph.Index+1)
		}
		lit, err := d.literal(params[ph.Index])
		if err != nil {
			return "", err
		}
		b.WriteString(sql[last:ph.Start])
		b.WriteString(lit)
		last = ph.End
	}
	b.WriteString(sql[last:])

	return b.String(), nil
}

func (d Dialect) literal(v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return "NULL", nil
	case string:
		return QuoteLiteral(val), nil
	case int64:
		return strconv.FormatInt(val, 10), nil
	case int:
		return strconv.Itoa(val), nil
	case bool:
		if d == Postgres {
			return strconv.FormatBool(val), nil
		}
		if val {
			return "1", nil
		}
		return "0", nil
	default:
		return "", fmt.Errorf("unsupported parameter type: %T", v)
	}
}
