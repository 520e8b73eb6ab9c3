// Package queryir provides an abstract query intermediate representation (IR)
// for composing filtered table reads.
//
// QueryIR is the abstraction boundary between query composition (typed
// tables, full-text search builders) and SQL text generation:
//
//	[table.Query[T]] → [Query IR] → [querysql] → [intercept] → database
//
// SEALED INTERFACES:
//
// Query, Predicate and Operand are sealed interfaces using the marker method
// pattern. Only types in this package can implement them, which keeps type
// switches in backends exhaustive:
//
//	switch p := pred.(type) {
//	case Equals:
//	case Contains:
//	case And:
//	}
//
// COMPOSITION:
//
// Where(q, p) is the only way filters are added. It conjoins p with any
// existing filter and returns a new Select; the source query is a value and
// is never modified.
//
// SUBSTRING TESTS:
//
// Contains is the one text operator the IR knows. Full-text search does not
// add a node kind of its own: it builds a Contains whose Value carries a
// sentinel-tagged payload, and the interception layer swaps the generated
// LIKE clause for CONTAINS/FREETEXT/MATCH once the SQL text exists.
package queryir
