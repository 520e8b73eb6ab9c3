package queryir

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/ftsearch/internal/ir"
)

func TestValidate_PortableSelect(t *testing.T) {
	q := Select{
		From:    "docs",
		Columns: []string{"Id", "Title"},
		Filter: And{Predicates: []Predicate{
			Equals{Field: "lang", Value: ir.IRString("en")},
			Contains{Target: Column{Name: "Title"}, Value: "fox"},
		}},
	}

	result := Validate(q)

	assert.True(t, result.IsPortable)
	assert.Empty(t, result.Warnings)
}

func TestValidate_PointerSelect(t *testing.T) {
	q := &Select{From: "docs", Columns: []string{"Id"}}

	result := Validate(q)

	assert.True(t, result.IsPortable)
}

func TestValidate_Warnings(t *testing.T) {
	tests := []struct {
		name    string
		query   Query
		warning string
	}{
		{
			name:    "nil query",
			query:   nil,
			warning: "nil query",
		},
		{
			name:    "select star",
			query:   Select{From: "docs"},
			warning: "SELECT *",
		},
		{
			name:    "missing table",
			query:   Select{Columns: []string{"Id"}},
			warning: "Missing table name",
		},
		{
			name: "null comparison",
			query: Select{
				From:    "docs",
				Columns: []string{"Id"},
				Filter:  Equals{Field: "lang", Value: ir.IRNull{}},
			},
			warning: "compared to NULL",
		},
		{
			name: "constant operand",
			query: Select{
				From:    "docs",
				Columns: []string{"Id"},
				Filter:  Contains{Target: Const{Value: "*"}, Value: "fox"},
			},
			warning: "requires full-text interception",
		},
		{
			name: "empty substring",
			query: Select{
				From:    "docs",
				Columns: []string{"Id"},
				Filter:  &Contains{Target: Column{Name: "Title"}},
			},
			warning: "matches every row",
		},
		{
			name: "unnamed column",
			query: Select{
				From:    "docs",
				Columns: []string{"Id"},
				Filter:  Contains{Target: &Column{}, Value: "fox"},
			},
			warning: "unnamed column",
		},
		{
			name: "nested in and",
			query: Select{
				From:    "docs",
				Columns: []string{"Id"},
				Filter: &And{Predicates: []Predicate{
					Contains{Target: Const{Value: "*"}, Value: "fox"},
				}},
			},
			warning: "constant",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(tt.query)

			assert.False(t, result.IsPortable)
			assert.NotEmpty(t, result.Warnings)
			found := false
			for _, w := range result.Warnings {
				if strings.Contains(w, tt.warning) {
					found = true
				}
			}
			assert.True(t, found, "expected warning containing %q, got %v", tt.warning, result.Warnings)
		})
	}
}

func TestValidate_AccumulatesWarnings(t *testing.T) {
	q := Select{
		From: "docs",
		Filter: And{Predicates: []Predicate{
			Contains{Target: Const{Value: "*"}, Value: ""},
			Equals{Field: "lang", Value: ir.IRNull{}},
		}},
	}

	result := Validate(q)

	assert.False(t, result.IsPortable)
	assert.Len(t, result.Warnings, 4)
}
