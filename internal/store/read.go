package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/ftsearch/internal/ir"
	"github.com/roach88/ftsearch/internal/queryir"
	"github.com/roach88/ftsearch/internal/table"
)

// Find runs q and scans each row into a T.
// Results are in q's key order.
//
// Returns an empty slice (not nil) if nothing matches.
func Find[T any](ctx context.Context, s *Store, q table.Query[T]) ([]T, error) {
	if !q.Valid() {
		return nil, fmt.Errorf("find: query was not built with table.From")
	}

	rows, cmd, err := s.query(ctx, q.Select())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		var row T
		if err := rows.Scan(q.ScanTargets(&row)...); err != nil {
			return nil, fmt.Errorf("scan %s row: %w", q.Table(), err)
		}
		out = append(out, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s rows: %w", q.Table(), err)
	}

	s.logger.Debug("query complete", "query_id", cmd.ID, "rows", len(out))

	// Return empty slice instead of nil
	if out == nil {
		out = []T{}
	}

	return out, nil
}

// QueryRows runs q and returns each row keyed by column name.
// Used where no row struct exists, such as ad-hoc CLI searches.
func (s *Store) QueryRows(ctx context.Context, q queryir.Select) ([]ir.Row, error) {
	cmd, err := s.Prepare(q)
	if err != nil {
		return nil, err
	}
	return s.RunRows(ctx, cmd)
}

// RunRows executes a command from Prepare and returns each row keyed by
// column name. The command runs as prepared; its ID is the one logged.
func (s *Store) RunRows(ctx context.Context, cmd Command) ([]ir.Row, error) {
	rows, err := s.run(ctx, cmd)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	out := []ir.Row{}
	for rows.Next() {
		row, err := scanRow(rows, columns)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows of %s: %w", cmd.ID, err)
	}

	s.logger.Debug("query complete", "query_id", cmd.ID, "rows", len(out))

	return out, nil
}

func scanRow(rows *sql.Rows, columns []string) (ir.Row, error) {
	values := make([]any, len(columns))
	targets := make([]any, len(columns))
	for i := range values {
		targets[i] = &values[i]
	}

	if err := rows.Scan(targets...); err != nil {
		return nil, fmt.Errorf("scan row: %w", err)
	}

	row := make(ir.Row, len(columns))
	for i, name := range columns {
		v, err := ir.FromColumn(values[i])
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", name, err)
		}
		row[name] = v
	}
	return row, nil
}
