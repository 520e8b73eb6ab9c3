package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/roach88/ftsearch/internal/intercept"
	"github.com/roach88/ftsearch/internal/queryir"
	"github.com/roach88/ftsearch/internal/querysql"
)

// Supported drivers.
const (
	DriverSQLite = "sqlite"
	DriverPgx    = "pgx"
)

// Config selects the database to open.
type Config struct {
	Driver string       // DriverSQLite or DriverPgx
	DSN    string       // File path or ":memory:" for sqlite, connection string for pgx
	Logger *slog.Logger // Defaults to slog.Default()
}

// Store runs full-text queries against a SQL database.
// Every command passes through the interceptor before execution.
type Store struct {
	db          *sql.DB
	dialect     querysql.Dialect
	interceptor *intercept.Interceptor
	logger      *slog.Logger
}

// Open connects to the database described by cfg.
//
// SQLite databases are configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
//
// SQLite uses the pure-Go modernc.org/sqlite driver, which ships FTS5.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var (
		db      *sql.DB
		dialect querysql.Dialect
	)

	switch cfg.Driver {
	case DriverSQLite, "":
		if cfg.DSN == "" {
			return nil, fmt.Errorf("sqlite: dsn is required")
		}
		var err error
		db, err = sql.Open("sqlite", cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		// SQLite only supports one writer at a time, and an in-memory
		// database exists per connection.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		dialect = querysql.SQLite

	case DriverPgx:
		pgCfg, err := pgx.ParseConfig(cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("parse postgres dsn: %w", err)
		}
		db = stdlib.OpenDB(*pgCfg)
		dialect = querysql.Postgres

	default:
		return nil, fmt.Errorf("unknown driver %q: must be %q or %q", cfg.Driver, DriverSQLite, DriverPgx)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if dialect == querysql.SQLite {
		if err := applyPragmas(ctx, db); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply pragmas: %w", err)
		}
	}

	return &Store{
		db:          db,
		dialect:     dialect,
		interceptor: intercept.New(dialect, logger),
		logger:      logger,
	}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB returns the underlying sql.DB for direct queries.
// Commands sent through it bypass interception.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Dialect returns the SQL dialect of the open database.
func (s *Store) Dialect() querysql.Dialect {
	return s.dialect
}

// Exec runs a statement that returns no rows (schema, inserts).
func (s *Store) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return s.db.ExecContext(ctx, query, args...)
}

// Command is a compiled query ready to execute.
type Command struct {
	ID     string // Correlates log lines for one query
	SQL    string // Native SQL after interception
	Args   []any
	Source string // SQL before interception
}

// Prepare compiles q for the store's dialect and rewrites any full-text
// payloads into native clauses.
func (s *Store) Prepare(q queryir.Select) (Command, error) {
	sqlText, params, err := querysql.NewSQLCompiler(s.dialect).Compile(q)
	if err != nil {
		return Command{}, fmt.Errorf("compile query: %w", err)
	}

	native, args, err := s.interceptor.Rewrite(sqlText, params)
	if err != nil {
		return Command{}, fmt.Errorf("intercept query: %w", err)
	}

	return Command{
		ID:     uuid.Must(uuid.NewV7()).String(),
		SQL:    native,
		Args:   args,
		Source: sqlText,
	}, nil
}

// query prepares and runs q. Callers must close the returned rows.
func (s *Store) query(ctx context.Context, q queryir.Select) (*sql.Rows, Command, error) {
	cmd, err := s.Prepare(q)
	if err != nil {
		return nil, Command{}, err
	}

	rows, err := s.run(ctx, cmd)
	if err != nil {
		return nil, Command{}, err
	}
	return rows, cmd, nil
}

// run executes a prepared command. Callers must close the returned rows.
func (s *Store) run(ctx context.Context, cmd Command) (*sql.Rows, error) {
	s.logger.Debug("executing query",
		"query_id", cmd.ID,
		"sql", cmd.SQL,
	)

	rows, err := s.db.QueryContext(ctx, cmd.SQL, cmd.Args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", cmd.ID, err)
	}
	return rows, nil
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// verifyPragma checks that a pragma is set to the expected value.
// Used for testing.
func (s *Store) verifyPragma(name, expected string) error {
	var value string
	query := fmt.Sprintf("PRAGMA %s", name)
	if err := s.db.QueryRow(query).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
