// Package table maps Go row structs onto queryir selects.
//
// A Query[T] is an immutable, composable read of one table whose rows scan
// into T. Columns come from T's exported fields:
//
//	type Doc struct {
//	    ID    int64  `db:"id,key"`
//	    Title string // column "Title"
//	    Body  string `db:"body"`
//	    Cache string `db:"-"` // not mapped
//	}
//
// The column tagged ",key" is the stable order key; without one, the first
// column is used.
package table

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/roach88/ftsearch/internal/queryir"
)

// Column describes one mapped struct field.
type Column struct {
	Name   string       // Column name in SQL
	Field  string       // Go field name
	Index  int          // Field index in T
	Offset uintptr      // Field offset in T
	Type   reflect.Type // Field type
}

// Query is a composable, filtered read of a table whose rows are T.
// The zero Query is not usable; build one with From.
type Query[T any] struct {
	sel     queryir.Select
	columns []Column
}

// From builds an unfiltered query over table name with rows of type T.
// T must be a struct with at least one mapped exported field.
func From[T any](name string) (Query[T], error) {
	if name == "" {
		return Query[T]{}, fmt.Errorf("table name is required")
	}

	rowType := reflect.TypeOf((*T)(nil)).Elem()
	if rowType.Kind() != reflect.Struct {
		return Query[T]{}, fmt.Errorf("row type %s is not a struct", rowType)
	}

	var columns []Column
	key := ""
	for i := 0; i < rowType.NumField(); i++ {
		f := rowType.Field(i)
		if !f.IsExported() || f.Anonymous {
			continue
		}

		colName, isKey, skip := parseTag(f)
		if skip {
			continue
		}
		if isKey {
			if key != "" {
				return Query[T]{}, fmt.Errorf("row type %s has more than one key column", rowType)
			}
			key = colName
		}

		columns = append(columns, Column{
			Name:   colName,
			Field:  f.Name,
			Index:  i,
			Offset: f.Offset,
			Type:   f.Type,
		})
	}

	if len(columns) == 0 {
		return Query[T]{}, fmt.Errorf("row type %s has no mapped columns", rowType)
	}
	if key == "" {
		key = columns[0].Name
	}

	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = c.Name
	}

	return Query[T]{
		sel: queryir.Select{
			From:    name,
			Columns: names,
			OrderBy: key,
		},
		columns: columns,
	}, nil
}

// parseTag reads the `db` struct tag of f.
func parseTag(f reflect.StructField) (name string, key bool, skip bool) {
	tag, ok := f.Tag.Lookup("db")
	if !ok {
		return f.Name, false, false
	}
	if tag == "-" {
		return "", false, true
	}

	parts := strings.Split(tag, ",")
	name = parts[0]
	if name == "" {
		name = f.Name
	}
	for _, opt := range parts[1:] {
		if opt == "key" {
			key = true
		}
	}
	return name, key, false
}

// Table returns the table name.
func (q Query[T]) Table() string {
	return q.sel.From
}

// Columns returns the mapped columns in scan order.
func (q Query[T]) Columns() []Column {
	return append([]Column(nil), q.columns...)
}

// Select returns the underlying IR query.
func (q Query[T]) Select() queryir.Select {
	return q.sel
}

// Valid reports whether q was built by From.
func (q Query[T]) Valid() bool {
	return q.sel.From != ""
}

// Where returns a new query filtered by p in addition to q's filters.
func (q Query[T]) Where(p queryir.Predicate) Query[T] {
	return Query[T]{
		sel:     queryir.Where(q.sel, p),
		columns: q.columns,
	}
}

// FieldColumn returns the column whose field sits at offset with type typ.
// Offsets alone are ambiguous (a struct's first field shares its address),
// so the type must match too.
func (q Query[T]) FieldColumn(offset uintptr, typ reflect.Type) (Column, bool) {
	for _, c := range q.columns {
		if c.Offset == offset && c.Type == typ {
			return c, true
		}
	}
	return Column{}, false
}

// ScanTargets returns pointers to row's mapped fields in column order,
// suitable for (*sql.Rows).Scan.
func (q Query[T]) ScanTargets(row *T) []any {
	v := reflect.ValueOf(row).Elem()
	targets := make([]any, len(q.columns))
	for i, c := range q.columns {
		targets[i] = v.Field(c.Index).Addr().Interface()
	}
	return targets
}
