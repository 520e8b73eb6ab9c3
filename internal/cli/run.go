package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/roach88/ftsearch/internal/intercept"
	"github.com/roach88/ftsearch/internal/ir"
	"github.com/roach88/ftsearch/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Driver string
	DSN    string

	// TraceID overrides the generated run id (for testing).
	// If empty, a UUIDv7 is generated.
	TraceID string
}

// RunResult is the outcome of a request file.
type RunResult struct {
	Searches []SearchResult `json:"searches"`
	Failed   int            `json:"failed"`
}

// SearchResult is the outcome of one search.
type SearchResult struct {
	Name  string    `json:"name"`
	SQL   string    `json:"sql,omitempty"`
	Rows  []ir.Row  `json:"rows"`
	Error *CLIError `json:"error,omitempty"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <requests.yaml>",
		Short: "Execute the searches in a request file",
		Long: `Execute full-text searches against a database.

The request file may list setup statements, run before any search,
followed by the searches themselves. Each search is compiled,
intercepted and executed; failures are reported per search and do not
stop the remaining ones.

Example:
  ftsearch run --dsn ./docs.db requests.yaml
  ftsearch run --driver pgx --dsn postgres://localhost/docs requests.yaml --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearches(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Driver, "driver", store.DriverSQLite, "database driver (sqlite|pgx)")
	cmd.Flags().StringVar(&opts.DSN, "dsn", "", "database file or connection string (required)")
	_ = cmd.MarkFlagRequired("dsn")

	return cmd
}

func runSearches(opts *RunOptions, path string, cmd *cobra.Command) error {
	traceID := opts.TraceID
	if traceID == "" {
		traceID = uuid.Must(uuid.NewV7()).String()
	}

	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
		TraceID:   traceID,
	}
	logger := newLogger(opts.RootOptions, formatter.GetErrWriter()).With("trace_id", traceID)

	file, err := LoadRequests(path)
	if err != nil {
		code, details := classify(err)
		_ = formatter.Error(code, err.Error(), details)
		return WrapExitError(ExitCommandError, "failed to load requests", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	logger.Debug("opening database", "driver", opts.Driver)
	st, err := store.Open(ctx, store.Config{Driver: opts.Driver, DSN: opts.DSN, Logger: logger})
	if err != nil {
		_ = formatter.Error(ErrCodeDatabase, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Error("error closing database", "error", closeErr)
		}
	}()

	for i, stmt := range file.Setup {
		if _, err := st.Exec(ctx, stmt); err != nil {
			_ = formatter.Error(ErrCodeDatabase, fmt.Sprintf("setup statement %d: %v", i+1, err), nil)
			return WrapExitError(ExitCommandError, "setup failed", err)
		}
	}

	result := RunResult{Searches: make([]SearchResult, 0, len(file.Searches))}
	for _, req := range file.Searches {
		res := runSearch(ctx, st, req, logger)
		if res.Error != nil {
			result.Failed++
		}
		result.Searches = append(result.Searches, res)
	}

	if formatter.Format == "json" {
		if err := formatter.Success(result); err != nil {
			return err
		}
	} else {
		writeRunText(formatter.Writer, result)
	}

	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d search(es) failed", result.Failed, len(result.Searches)))
	}
	return nil
}

// runSearch executes one request. Errors are recorded on the result.
func runSearch(ctx context.Context, st *store.Store, req SearchRequest, logger *slog.Logger) SearchResult {
	res := SearchResult{Name: req.Name, Rows: []ir.Row{}}

	fail := func(code string, err error, details interface{}) SearchResult {
		logger.Debug("search failed", "search", req.Name, "code", code, "error", err)
		res.Error = &CLIError{Code: code, Message: err.Error(), Details: details}
		return res
	}

	q, err := req.Build()
	if err != nil {
		code, details := classify(err)
		return fail(code, err, details)
	}

	cmd, err := st.Prepare(q)
	if errors.Is(err, intercept.ErrUntranslated) {
		return fail(ErrCodeUntranslated, err, nil)
	}
	if err != nil {
		return fail(ErrCodeCompileFailed, err, nil)
	}
	res.SQL = cmd.SQL

	rows, err := st.RunRows(ctx, cmd)
	if err != nil {
		return fail(ErrCodeDatabase, err, nil)
	}
	res.Rows = rows

	return res
}

// writeRunText prints run results in human-readable form.
func writeRunText(w io.Writer, result RunResult) {
	for _, s := range result.Searches {
		if s.Error != nil {
			fmt.Fprintf(w, "✗ %s\n", s.Name)
			fmt.Fprintf(w, "  %s: %s\n", s.Error.Code, s.Error.Message)
			continue
		}

		fmt.Fprintf(w, "✓ %s (%d row(s))\n", s.Name, len(s.Rows))
		for _, row := range s.Rows {
			line, err := json.Marshal(row)
			if err != nil {
				fmt.Fprintf(w, "  <unprintable row: %v>\n", err)
				continue
			}
			fmt.Fprintf(w, "  %s\n", line)
		}
	}

	fmt.Fprintf(w, "\n%d search(es), %d failed\n", len(result.Searches), result.Failed)
}
