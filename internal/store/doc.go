// Package store executes full-text queries against SQLite or PostgreSQL.
//
// Every read goes through the same pipeline:
//
//	queryir.Select -> querysql.Compile -> intercept.Rewrite -> database/sql
//
// so tagged substring tests built by package fulltext reach the database as
// native clauses (FTS5 MATCH on SQLite, tsquery on PostgreSQL). Commands
// sent through DB() skip the rewrite and run the tagged LIKE test as is.
//
// # Drivers
//
//   - sqlite: modernc.org/sqlite (pure Go, FTS5 built in). Searched tables
//     must be FTS5 virtual tables.
//   - pgx: github.com/jackc/pgx/v5 through its database/sql adapter.
//
// # Database Configuration (sqlite)
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//
// Results are ordered by the query's key column; SQLite orders with
// COLLATE BINARY so text keys sort identically across versions.
//
// Each executed query gets a UUIDv7 id that appears on all of its log lines.
package store
