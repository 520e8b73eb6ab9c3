package fulltext

import (
	"github.com/roach88/ftsearch/internal/queryir"
	"github.com/roach88/ftsearch/internal/table"
)

// Contains filters source with a CONTAINS full-text search of predicate
// against the column (or whole row) chosen by selector.
//
//	q, err = fulltext.Contains(q, func(d *Doc) any { return &d.Title }, "fox")
//	q, err = fulltext.Contains(q, func(d *Doc) any { return d }, "fox") // wildcard
//
// The returned query carries an ordinary substring test whose operand is a
// tagged payload; it only turns into CONTAINS(...) once the generated SQL
// passes through the interceptor. source is not modified. On error the zero
// Query is returned.
func Contains[T any](source table.Query[T], selector func(*T) any, predicate string) (table.Query[T], error) {
	return search(source, ModeContains, selector, &predicate)
}

// FreeText is Contains for FREETEXT searches.
func FreeText[T any](source table.Query[T], selector func(*T) any, predicate string) (table.Query[T], error) {
	return search(source, ModeFreeText, selector, &predicate)
}

func search[T any](source table.Query[T], mode Mode, selector func(*T) any, predicate *string) (table.Query[T], error) {
	if err := checkPredicate(predicate); err != nil {
		return table.Query[T]{}, err
	}

	sel, err := ResolveSelector(source, selector)
	if err != nil {
		return table.Query[T]{}, err
	}

	pred, err := buildPredicate(mode, sel, *predicate)
	if err != nil {
		return table.Query[T]{}, err
	}

	return source.Where(pred), nil
}

// Search is the untyped form of Contains and FreeText.
//
// A nil predicate means the caller never supplied one and fails with
// MISSING_PREDICATE; an empty one fails with EMPTY_PREDICATE. Both are
// checked before sel is looked at.
func Search(source queryir.Select, mode Mode, sel Selector, predicate *string) (queryir.Select, error) {
	if err := checkPredicate(predicate); err != nil {
		return queryir.Select{}, err
	}

	pred, err := buildPredicate(mode, sel, *predicate)
	if err != nil {
		return queryir.Select{}, err
	}

	return queryir.Where(source, pred), nil
}

func checkPredicate(predicate *string) error {
	if predicate == nil {
		return missingPredicate()
	}
	if *predicate == "" {
		return emptyPredicate()
	}
	return nil
}

// buildPredicate impersonates a substring test: target LIKE '%<payload>%'.
func buildPredicate(mode Mode, sel Selector, predicate string) (queryir.Predicate, error) {
	operand, err := target(sel)
	if err != nil {
		return nil, err
	}

	return queryir.Contains{
		Target: operand,
		Value:  Encode(mode, predicate),
	}, nil
}
