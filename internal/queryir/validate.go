package queryir

import (
	"fmt"

	"github.com/roach88/ftsearch/internal/ir"
)

// ValidationResult contains portability analysis of a query.
//
// A portable query means the same thing on every dialect when executed as
// plain SQL. Non-portable queries still compile; they rely on a later stage
// (such as the full-text interceptor) or on dialect-specific behavior.
type ValidationResult struct {
	// IsPortable indicates if the query executes as intended without any
	// rewriting of the generated SQL.
	IsPortable bool

	// Warnings lists non-portable features used in the query.
	// Empty when IsPortable is true.
	Warnings []string
}

// Validate checks a query for constructs that only make sense after
// rewriting or that are almost certainly mistakes.
//
// Rules:
//  1. Explicit columns - no SELECT *
//  2. No NULL comparisons - "= NULL" never matches
//  3. Substring tests against a constant need the full-text interceptor
//  4. Empty substrings match every row
//
// Validate is a pure function with no side effects.
func Validate(query Query) ValidationResult {
	v := &validator{
		warnings: []string{},
	}
	v.validateQuery(query)

	return ValidationResult{
		IsPortable: len(v.warnings) == 0,
		Warnings:   v.warnings,
	}
}

// validator accumulates warnings during traversal.
type validator struct {
	warnings []string
}

func (v *validator) addWarning(format string, args ...any) {
	v.warnings = append(v.warnings, fmt.Sprintf(format, args...))
}

func (v *validator) validateQuery(q Query) {
	if q == nil {
		v.addWarning("nil query")
		return
	}

	switch query := q.(type) {
	case Select:
		v.validateSelect(query)
	case *Select:
		v.validateSelect(*query)
	default:
		v.addWarning("Unknown query type: %T - portability cannot be verified", q)
	}
}

func (v *validator) validateSelect(sel Select) {
	if sel.From == "" {
		v.addWarning("Missing table name")
	}
	if len(sel.Columns) == 0 {
		v.addWarning("Empty columns (SELECT *) - explicit column selection required")
	}

	if sel.Filter != nil {
		v.validatePredicate(sel.Filter)
	}
}

func (v *validator) validatePredicate(p Predicate) {
	if p == nil {
		return // nil predicates are valid (no filter)
	}

	switch pred := p.(type) {
	case Equals:
		v.validateEquals(pred)
	case *Equals:
		v.validateEquals(*pred)
	case Contains:
		v.validateContains(pred)
	case *Contains:
		v.validateContains(*pred)
	case And:
		v.validateAnd(pred)
	case *And:
		v.validateAnd(*pred)
	default:
		v.addWarning("Unknown predicate type: %T - portability cannot be verified", p)
	}
}

func (v *validator) validateEquals(eq Equals) {
	if _, isNull := eq.Value.(ir.IRNull); isNull {
		v.addWarning("Field '%s' compared to NULL - never matches", eq.Field)
	}
}

func (v *validator) validateContains(c Contains) {
	switch target := c.Target.(type) {
	case Column:
		if target.Name == "" {
			v.addWarning("Substring test against an unnamed column")
		}
	case *Column:
		if target.Name == "" {
			v.addWarning("Substring test against an unnamed column")
		}
	case Const, *Const:
		v.addWarning("Substring test against a constant - requires full-text interception")
	default:
		v.addWarning("Unknown operand type: %T - portability cannot be verified", c.Target)
	}

	if c.Value == "" {
		v.addWarning("Empty substring matches every row")
	}
}

func (v *validator) validateAnd(and And) {
	for _, subPred := range and.Predicates {
		v.validatePredicate(subPred)
	}
}
