package queryir

import "github.com/roach88/ftsearch/internal/ir"

// Query represents an abstract query in the QueryIR.
//
// This is a sealed interface - only types in this package implement it.
// The marker method pattern prevents external implementations and enables
// exhaustive type switches in backend compilers.
type Query interface {
	queryNode() // Marker method - seals interface to this package
}

// Predicate represents a filter condition in the QueryIR.
//
// This is a sealed interface - only types in this package implement it.
//
// Predicate types:
//   - Equals: column = literal_value
//   - Contains: operand contains a substring (LIKE '%...%')
//   - And: all predicates must be true
type Predicate interface {
	predicateNode() // Marker method - seals interface to this package
}

// Operand is the left-hand side of a Contains predicate.
//
// Operand types:
//   - Column: a column of the queried table
//   - Const: a constant literal (the "*" wildcard marker)
type Operand interface {
	operandNode() // Marker method - seals interface to this package
}

// Select represents a basic table access query with filtering.
//
// Semantics:
//
//	SELECT <columns> FROM <from> WHERE <filter> ORDER BY <order_by>
//
// Columns are scanned in the order given. OrderBy defaults to "id" when
// empty; every compiled query is ordered.
type Select struct {
	From    string    // Table name (e.g., "docs")
	Columns []string  // Selected columns, in scan order
	OrderBy string    // Stable order key column
	Filter  Predicate // WHERE conditions (nil = no filter)
}

func (Select) queryNode() {}

// Equals represents a column-equals-literal predicate.
//
//	Equals{Field: "status", Value: ir.IRString("active")}
//
// Translates to SQL:
//
//	status = ?
type Equals struct {
	Field string     // Column name in current query source
	Value ir.IRValue // Literal value
}

func (Equals) predicateNode() {}

// Contains represents a substring-membership test.
//
// Semantics:
//
//	<target> LIKE '%' || <value> || '%'
//
// Value is matched literally: LIKE metacharacters are escaped by the
// compiler, so the operand text survives verbatim into the parameter.
// Full-text search reuses this node and tags Value with a sentinel that
// the interception layer later rewrites into a native clause.
type Contains struct {
	Target Operand // Column or constant being searched
	Value  string  // Substring to look for
}

func (Contains) predicateNode() {}

// And represents a conjunction of predicates (all must be true).
// An empty And is vacuously true.
type And struct {
	Predicates []Predicate
}

func (And) predicateNode() {}

// Column references a column of the queried table.
type Column struct {
	Name string
}

func (Column) operandNode() {}

// Const is a constant operand rendered inline as a quoted literal.
// Only code-supplied constants belong here, never user input.
type Const struct {
	Value string
}

func (Const) operandNode() {}

// Where folds p into q's filter and returns the resulting query.
//
// An existing filter is conjoined with p. q itself is never modified: the
// returned Select owns a fresh And slice, so filtering the same source twice
// yields two independent queries.
func Where(q Select, p Predicate) Select {
	out := q
	out.Columns = append([]string(nil), q.Columns...)

	switch existing := q.Filter.(type) {
	case nil:
		out.Filter = p
	case And:
		preds := make([]Predicate, 0, len(existing.Predicates)+1)
		preds = append(preds, existing.Predicates...)
		out.Filter = And{Predicates: append(preds, p)}
	case *And:
		preds := make([]Predicate, 0, len(existing.Predicates)+1)
		preds = append(preds, existing.Predicates...)
		out.Filter = And{Predicates: append(preds, p)}
	default:
		out.Filter = And{Predicates: []Predicate{existing, p}}
	}

	return out
}
