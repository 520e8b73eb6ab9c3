package fulltext

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/roach88/ftsearch/internal/queryir"
	"github.com/roach88/ftsearch/internal/table"
)

// WildcardMarker is the column target meaning "every full-text indexed column".
const WildcardMarker = "*"

// Selector identifies what a full-text predicate searches.
//
// This is a sealed interface:
//   - Wildcard: the whole row
//   - Field: one column
//   - Composite: several columns (always rejected)
type Selector interface {
	selectorNode()
}

// Wildcard searches the whole row.
type Wildcard struct{}

func (Wildcard) selectorNode() {}

// Field searches a single column.
type Field struct {
	Name string
}

func (Field) selectorNode() {}

// Composite names several columns. Multi-column predicates are not
// supported; Composite exists so the shape can be recognized and rejected.
type Composite struct {
	Names []string
}

func (Composite) selectorNode() {}

// ParseSelector parses a textual selector: "*" is the wildcard, a
// comma-separated list is a composite, anything else names one column.
func ParseSelector(s string) Selector {
	s = strings.TrimSpace(s)
	if s == WildcardMarker {
		return Wildcard{}
	}
	if strings.Contains(s, ",") {
		parts := strings.Split(s, ",")
		names := make([]string, 0, len(parts))
		for _, p := range parts {
			names = append(names, strings.TrimSpace(p))
		}
		return Composite{Names: names}
	}
	return Field{Name: s}
}

// ResolveSelector turns a projection over T into a Selector.
//
// fn is called once with a pointer to a zero row. It must return one of:
//   - the row pointer itself, the row value, or the literal "*": Wildcard
//   - a pointer to a mapped top-level field (&r.Title): Field
//
// Value copies (r.Title), nested fields, nil and aggregates of several
// field pointers cannot be attributed to a single column and are rejected.
func ResolveSelector[T any](q table.Query[T], fn func(*T) any) (Selector, error) {
	if fn == nil {
		return nil, unsupportedSelector("nil selector")
	}

	row := new(T)
	out := fn(row)

	switch v := out.(type) {
	case nil:
		return nil, unsupportedSelector("selector returned nil")
	case string:
		if v == WildcardMarker {
			return Wildcard{}, nil
		}
		return nil, unsupportedSelector(fmt.Sprintf("constant %q; only %q is allowed", v, WildcardMarker))
	case *T:
		if v == row {
			return Wildcard{}, nil
		}
		return nil, unsupportedSelector("row pointer other than the selector argument")
	case T:
		return Wildcard{}, nil
	}

	rv := reflect.ValueOf(out)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return nil, unsupportedSelector("selector returned a nil pointer")
		}
		base := reflect.ValueOf(row).Pointer()
		addr := rv.Pointer()
		size := reflect.TypeOf((*T)(nil)).Elem().Size()
		if addr < base || addr >= base+size {
			return nil, unsupportedSelector("pointer does not address a field of the row")
		}
		col, ok := q.FieldColumn(addr-base, rv.Type().Elem())
		if !ok {
			return nil, unsupportedSelector("field is not a mapped top-level column")
		}
		return Field{Name: col.Name}, nil

	case reflect.Slice, reflect.Array, reflect.Struct, reflect.Map:
		return nil, unsupportedSelector("multi-column selectors are not supported")

	default:
		return nil, unsupportedSelector(fmt.Sprintf(
			"selector returned a %s value; return a field pointer such as &r.Title", rv.Type()))
	}
}

// target converts a selector into the operand the substring test runs on.
func target(sel Selector) (queryir.Operand, error) {
	switch s := sel.(type) {
	case Wildcard, *Wildcard:
		return queryir.Const{Value: WildcardMarker}, nil
	case Field:
		return fieldOperand(s.Name)
	case *Field:
		return fieldOperand(s.Name)
	case Composite, *Composite:
		return nil, unsupportedSelector("multi-column selectors are not supported")
	case nil:
		return nil, unsupportedSelector("nil selector")
	default:
		return nil, unsupportedSelector(fmt.Sprintf("%T", sel))
	}
}

func fieldOperand(name string) (queryir.Operand, error) {
	if name == "" {
		return nil, unsupportedSelector("empty column name")
	}
	if name == WildcardMarker {
		return queryir.Const{Value: WildcardMarker}, nil
	}
	return queryir.Column{Name: name}, nil
}
