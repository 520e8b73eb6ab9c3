package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/ftsearch/internal/table"
)

// doc is a row of the docs FTS5 table.
type doc struct {
	ID    int64 `db:"rowid,key"`
	Title string
	Body  string
}

var seedDocs = []doc{
	{1, "The quick brown fox", "jumps over the lazy dog"},
	{2, "Lazy afternoon", "a fox sleeps in the sun"},
	{3, "Quick thinking", "nothing to see here"},
}

// createTestStore opens a sqlite store in a temp directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(context.Background(), Config{Driver: DriverSQLite, DSN: path})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// createDocsStore opens a store with a seeded docs FTS5 table and a plain
// notes table holding the same text.
func createDocsStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()
	s := createTestStore(t)

	_, err := s.Exec(ctx, `CREATE VIRTUAL TABLE docs USING fts5(Title, Body)`)
	require.NoError(t, err)
	_, err = s.Exec(ctx, `CREATE TABLE notes (id INTEGER PRIMARY KEY, Title TEXT NOT NULL, Body TEXT NOT NULL)`)
	require.NoError(t, err)

	for _, d := range seedDocs {
		_, err := s.Exec(ctx, `INSERT INTO docs (rowid, Title, Body) VALUES (?, ?, ?)`, d.ID, d.Title, d.Body)
		require.NoError(t, err)
		_, err = s.Exec(ctx, `INSERT INTO notes (id, Title, Body) VALUES (?, ?, ?)`, d.ID, d.Title, d.Body)
		require.NoError(t, err)
	}

	return s
}

func docsTable(t *testing.T) table.Query[doc] {
	t.Helper()
	q, err := table.From[doc]("docs")
	require.NoError(t, err)
	return q
}

func ids(docs []doc) []int64 {
	out := make([]int64, len(docs))
	for i, d := range docs {
		out[i] = d.ID
	}
	return out
}
