package querysql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ftsearch/internal/ir"
	"github.com/roach88/ftsearch/internal/queryir"
)

func TestCompile_SimpleSelect(t *testing.T) {
	compiler := NewSQLCompiler(SQLite)

	query := queryir.Select{
		From:    "docs",
		Columns: []string{"Id", "Title"},
		OrderBy: "Id",
		Filter: queryir.Equals{
			Field: "lang",
			Value: ir.IRString("en"),
		},
	}

	sql, params, err := compiler.Compile(query)
	require.NoError(t, err)

	assert.Equal(t, "SELECT Id, Title FROM docs WHERE lang = ? ORDER BY Id COLLATE BINARY ASC", sql)

	// Verify parameterized query (no interpolation)
	assert.NotContains(t, sql, "en'")
	assert.Equal(t, []any{"en"}, params)
}

func TestCompile_SimpleSelectPointer(t *testing.T) {
	compiler := NewSQLCompiler(SQLite)

	query := &queryir.Select{
		From:    "docs",
		Columns: []string{"Id"},
		Filter:  &queryir.Equals{Field: "lang", Value: ir.IRString("en")},
	}

	sql, params, err := compiler.Compile(query)
	require.NoError(t, err)

	assert.Contains(t, sql, "FROM docs")
	assert.Contains(t, sql, "WHERE lang = ?")
	assert.Equal(t, []any{"en"}, params)
}

func TestCompile_NoFilter(t *testing.T) {
	sql, params, err := NewSQLCompiler(SQLite).Compile(queryir.Select{From: "docs"})
	require.NoError(t, err)

	assert.Equal(t, "SELECT * FROM docs ORDER BY id COLLATE BINARY ASC", sql)
	assert.Empty(t, params)
}

func TestCompile_OrderByPerDialect(t *testing.T) {
	q := queryir.Select{From: "docs", Columns: []string{"Id"}, OrderBy: "Id"}

	tests := []struct {
		dialect Dialect
		want    string
	}{
		{SQLite, "SELECT Id FROM docs ORDER BY Id COLLATE BINARY ASC"},
		{SQLServer, "SELECT Id FROM docs ORDER BY Id ASC"},
		{Postgres, "SELECT Id FROM docs ORDER BY Id ASC"},
	}

	for _, tt := range tests {
		t.Run(string(tt.dialect), func(t *testing.T) {
			sql, _, err := NewSQLCompiler(tt.dialect).Compile(q)
			require.NoError(t, err)
			assert.Equal(t, tt.want, sql)
		})
	}
}

func TestCompile_ContainsColumn(t *testing.T) {
	q := queryir.Select{
		From:    "docs",
		Columns: []string{"Id"},
		OrderBy: "Id",
		Filter:  queryir.Contains{Target: queryir.Column{Name: "Title"}, Value: "fox"},
	}

	sql, params, err := NewSQLCompiler(SQLite).Compile(q)
	require.NoError(t, err)

	assert.Equal(t, `SELECT Id FROM docs WHERE Title LIKE ? ESCAPE '\' ORDER BY Id COLLATE BINARY ASC`, sql)
	assert.Equal(t, []any{"%fox%"}, params)
}

func TestCompile_ContainsConst(t *testing.T) {
	q := queryir.Select{
		From:    "docs",
		Columns: []string{"Id"},
		Filter:  &queryir.Contains{Target: &queryir.Const{Value: "*"}, Value: "fox"},
	}

	sql, _, err := NewSQLCompiler(SQLServer).Compile(q)
	require.NoError(t, err)

	assert.Contains(t, sql, `WHERE '*' LIKE @p1 ESCAPE '\'`)
}

func TestCompile_ContainsEscapesLikeMetacharacters(t *testing.T) {
	q := queryir.Select{
		From:    "docs",
		Columns: []string{"Id"},
		Filter:  queryir.Contains{Target: queryir.Column{Name: "Title"}, Value: `50% off_[x]\`},
	}

	_, params, err := NewSQLCompiler(SQLite).Compile(q)
	require.NoError(t, err)
	assert.Equal(t, []any{`%50\% off\_[x]\\%`}, params)

	_, params, err = NewSQLCompiler(SQLServer).Compile(q)
	require.NoError(t, err)
	assert.Equal(t, []any{`%50\% off\_\[x]\\%`}, params)
}

func TestCompile_AndPlaceholdersNumbered(t *testing.T) {
	q := queryir.Select{
		From:    "docs",
		Columns: []string{"Id"},
		OrderBy: "Id",
		Filter: queryir.And{Predicates: []queryir.Predicate{
			queryir.Equals{Field: "lang", Value: ir.IRString("en")},
			queryir.Equals{Field: "draft", Value: ir.IRBool(false)},
			queryir.Contains{Target: queryir.Column{Name: "Title"}, Value: "fox"},
		}},
	}

	sql, params, err := NewSQLCompiler(Postgres).Compile(q)
	require.NoError(t, err)

	assert.Equal(t, `SELECT Id FROM docs WHERE lang = $1 AND draft = $2 AND Title LIKE $3 ESCAPE '\' ORDER BY Id ASC`, sql)
	assert.Equal(t, []any{"en", false, "%fox%"}, params)
}

func TestCompile_EmptyAnd(t *testing.T) {
	q := queryir.Select{From: "docs", Columns: []string{"Id"}, Filter: queryir.And{}}

	sql, _, err := NewSQLCompiler(SQLite).Compile(q)
	require.NoError(t, err)
	assert.Contains(t, sql, "WHERE 1 = 1")
}

func TestCompile_ParamsResetBetweenCalls(t *testing.T) {
	c := NewSQLCompiler(SQLServer)
	q := queryir.Select{
		From:    "docs",
		Columns: []string{"Id"},
		Filter:  queryir.Equals{Field: "lang", Value: ir.IRString("en")},
	}

	_, _, err := c.Compile(q)
	require.NoError(t, err)
	sql, params, err := c.Compile(q)
	require.NoError(t, err)

	assert.Contains(t, sql, "lang = @p1")
	assert.Len(t, params, 1)
}

func TestCompile_Errors(t *testing.T) {
	c := NewSQLCompiler(SQLite)

	tests := []struct {
		name  string
		query queryir.Query
	}{
		{"nil query", nil},
		{"no table", queryir.Select{Columns: []string{"Id"}}},
		{"empty column operand", queryir.Select{
			From:   "docs",
			Filter: queryir.Contains{Target: queryir.Column{}, Value: "fox"},
		}},
		{"nil operand", queryir.Select{
			From:   "docs",
			Filter: queryir.Contains{Value: "fox"},
		}},
		{"nil value", queryir.Select{
			From:   "docs",
			Filter: queryir.Equals{Field: "lang"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := c.Compile(tt.query)
			assert.Error(t, err)
		})
	}
}

func TestInline(t *testing.T) {
	tests := []struct {
		name    string
		dialect Dialect
		sql     string
		params  []any
		want    string
	}{
		{
			name:    "question marks",
			dialect: SQLite,
			sql:     `SELECT Id FROM docs WHERE lang = ? AND Title LIKE ? ESCAPE '\'`,
			params:  []any{"en", "%it's%"},
			want:    `SELECT Id FROM docs WHERE lang = 'en' AND Title LIKE '%it''s%' ESCAPE '\'`,
		},
		{
			name:    "question mark inside literal is not a placeholder",
			dialect: SQLite,
			sql:     `SELECT Id FROM docs WHERE note = '?' AND n = ?`,
			params:  []any{int64(3)},
			want:    `SELECT Id FROM docs WHERE note = '?' AND n = 3`,
		},
		{
			name:    "dollar placeholders",
			dialect: Postgres,
			sql:     `SELECT Id FROM docs WHERE a = $2 AND b = $1 AND c = $10`,
			params:  []any{"x", true, nil, nil, nil, nil, nil, nil, nil, nil},
			want:    `SELECT Id FROM docs WHERE a = true AND b = 'x' AND c = NULL`,
		},
		{
			name:    "sql server placeholders",
			dialect: SQLServer,
			sql:     `SELECT Id FROM docs WHERE a = @p1 AND b = @p2`,
			params:  []any{false, 7},
			want:    `SELECT Id FROM docs WHERE a = 0 AND b = 7`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.dialect.Inline(tt.sql, tt.params)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInline_MissingParameter(t *testing.T) {
	_, err := SQLServer.Inline("SELECT 1 WHERE a = @p2", []any{"x"})
	assert.Error(t, err)
}

func TestParseDialect(t *testing.T) {
	d, err := ParseDialect("SQLServer")
	require.NoError(t, err)
	assert.Equal(t, SQLServer, d)

	_, err = ParseDialect("oracle")
	assert.Error(t, err)
}

func TestUnescapeLike(t *testing.T) {
	assert.Equal(t, "fox", UnescapeLike("fox"))
	assert.Equal(t, `50% off_[x]\`, UnescapeLike(`50\% off\_\[x]\\`))
}
