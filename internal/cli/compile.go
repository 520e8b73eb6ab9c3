package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/ftsearch/internal/intercept"
	"github.com/roach88/ftsearch/internal/queryir"
	"github.com/roach88/ftsearch/internal/querysql"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Table   string
	Columns []string
	OrderBy string
	Select  string
	Mode    string
	Dialect string
	Native  bool
}

// CompileResult is the SQL generated for one search.
type CompileResult struct {
	Dialect  string         `json:"dialect"`
	SQL      string         `json:"sql"`
	Params   []any          `json:"params"`
	Explain  string         `json:"explain"`
	Native   *NativeCommand `json:"native,omitempty"`
	Warnings []string       `json:"warnings,omitempty"`
}

// NativeCommand is the command after full-text interception.
type NativeCommand struct {
	SQL    string `json:"sql"`
	Params []any  `json:"params"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <predicate>",
		Short: "Show the SQL generated for a full-text search",
		Long: `Build a CONTAINS or FREETEXT search and print the generated SQL.

The plain command carries the tagged payload inside a LIKE test. With
--native the command is also passed through the interceptor and the
rewritten native clause is printed.

Example:
  ftsearch compile --table docs --select Title fox
  ftsearch compile --table docs --mode freetext --dialect sqlserver --native "quick fox"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Table, "table", "", "table to search (required)")
	cmd.Flags().StringSliceVar(&opts.Columns, "columns", nil, "columns to return (default all)")
	cmd.Flags().StringVar(&opts.OrderBy, "order-by", "", "order key column (default id)")
	cmd.Flags().StringVar(&opts.Select, "select", "*", `column to search, or "*" for all full-text columns`)
	cmd.Flags().StringVar(&opts.Mode, "mode", "contains", "search mode (contains|freetext)")
	cmd.Flags().StringVar(&opts.Dialect, "dialect", string(querysql.SQLite), "SQL dialect (sqlite|sqlserver|postgres)")
	cmd.Flags().BoolVar(&opts.Native, "native", false, "also print the intercepted native command")
	_ = cmd.MarkFlagRequired("table")

	return cmd
}

func runCompile(opts *CompileOptions, predicate string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	dialect, err := querysql.ParseDialect(opts.Dialect)
	if err != nil {
		return outputCompileError(formatter, ErrCodeInvalidRequest, err.Error(), nil)
	}

	req := SearchRequest{
		Name:      "compile",
		Table:     opts.Table,
		Columns:   opts.Columns,
		OrderBy:   opts.OrderBy,
		Select:    opts.Select,
		Mode:      opts.Mode,
		Predicate: &predicate,
	}

	q, err := req.Build()
	if err != nil {
		code, details := classify(err)
		return outputCompileError(formatter, code, err.Error(), details)
	}

	result, err := compileSearch(q, dialect, opts.Native, newLogger(opts.RootOptions, formatter.GetErrWriter()))
	if err != nil {
		code := ErrCodeCompileFailed
		if errors.Is(err, intercept.ErrUntranslated) {
			code = ErrCodeUntranslated
		}
		return outputCompileError(formatter, code, err.Error(), nil)
	}

	for _, w := range result.Warnings {
		formatter.VerboseLog("warning: %s", w)
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	writeCompileText(formatter.Writer, result)
	return nil
}

// compileSearch renders q for dialect and, when native is set, rewrites it.
func compileSearch(q queryir.Select, dialect querysql.Dialect, native bool, logger *slog.Logger) (*CompileResult, error) {
	sqlText, params, err := querysql.NewSQLCompiler(dialect).Compile(q)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	explain, err := dialect.Inline(sqlText, params)
	if err != nil {
		return nil, fmt.Errorf("explain: %w", err)
	}

	result := &CompileResult{
		Dialect:  string(dialect),
		SQL:      sqlText,
		Params:   params,
		Explain:  explain,
		Warnings: queryir.Validate(q).Warnings,
	}

	if native {
		nativeSQL, nativeParams, err := intercept.New(dialect, logger).Rewrite(sqlText, params)
		if err != nil {
			return nil, err
		}
		result.Native = &NativeCommand{SQL: nativeSQL, Params: nativeParams}
	}

	return result, nil
}

// writeCompileText prints a compile result in human-readable form.
func writeCompileText(w io.Writer, result *CompileResult) {
	fmt.Fprintf(w, "dialect: %s\n", result.Dialect)
	fmt.Fprintf(w, "sql: %s\n", result.SQL)
	for i, p := range result.Params {
		fmt.Fprintf(w, "param %d: %v\n", i+1, p)
	}
	fmt.Fprintf(w, "explain: %s\n", result.Explain)

	if result.Native != nil {
		fmt.Fprintf(w, "native: %s\n", result.Native.SQL)
		for i, p := range result.Native.Params {
			fmt.Fprintf(w, "native param %d: %v\n", i+1, p)
		}
	}
}

// outputCompileError outputs a single compile error.
func outputCompileError(formatter *OutputFormatter, code, message string, details interface{}) error {
	_ = formatter.Error(code, message, details)
	// Compile errors are command-level errors (exit code 2)
	return WrapExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message), nil)
}
