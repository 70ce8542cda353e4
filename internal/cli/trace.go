package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tensile-ml/tensile/internal/store"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
	Token    string
	Limit    int
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Inspect the dispatch log",
		Long: `List logged resolves, or dump one resolve's per-candidate attempts.

Example:
  tensile trace --db ./dispatch.db
  tensile trace --db ./dispatch.db --token 0190d5b2-...`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showTrace(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite dispatch log (required)")
	cmd.Flags().StringVar(&opts.Token, "token", "", "dump attempts for one resolve token")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum resolves to list")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

// ResolveListing is the trace command's list payload.
type ResolveListing struct {
	Resolves []store.ResolveRecord `json:"resolves"`
}

func (l ResolveListing) String() string {
	if len(l.Resolves) == 0 {
		return "no resolves logged"
	}
	var b strings.Builder
	for i, r := range l.Resolves {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s  %s.%s  nargs=%d nin=%d  %s", r.Token, r.UFunc, r.Method, r.NArgs, r.NIn, r.Outcome)
		if r.ErrorCode != "" {
			fmt.Fprintf(&b, " [%s]", r.ErrorCode)
		}
	}
	return b.String()
}

// ResolveDetail is the trace command's single-resolve payload.
type ResolveDetail struct {
	Resolve  store.ResolveRecord   `json:"resolve"`
	Attempts []store.AttemptRecord `json:"attempts"`
}

func (d ResolveDetail) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s.%s  nargs=%d nin=%d  %s", d.Resolve.Token, d.Resolve.UFunc, d.Resolve.Method,
		d.Resolve.NArgs, d.Resolve.NIn, d.Resolve.Outcome)
	if d.Resolve.Error != "" {
		fmt.Fprintf(&b, "\n  error: %s", d.Resolve.Error)
	}
	for _, a := range d.Attempts {
		fmt.Fprintf(&b, "\n  seq=%d %s", a.Seq, a.Status)
		if a.Position >= 0 {
			fmt.Fprintf(&b, " operand=%d", a.Position)
		}
		if a.Class != "" {
			fmt.Fprintf(&b, " class=%s", a.Class)
		}
		if a.Detail != "" {
			fmt.Fprintf(&b, " (%s)", a.Detail)
		}
	}
	return b.String()
}

func showTrace(cmd *cobra.Command, opts *TraceOptions) error {
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}

	st, err := store.Open(opts.Database)
	if err != nil {
		formatter.Error("E001", "open dispatch log", err.Error())
		return WrapExitError(ExitCommandError, "open dispatch log", err)
	}
	defer st.Close()

	ctx := cmd.Context()

	if opts.Token != "" {
		rec, err := st.ReadResolve(ctx, opts.Token)
		if err != nil {
			formatter.Error("E002", "read resolve", err.Error())
			return WrapExitError(ExitCommandError, "read resolve", err)
		}
		attempts, err := st.ReadAttempts(ctx, opts.Token)
		if err != nil {
			formatter.Error("E002", "read attempts", err.Error())
			return WrapExitError(ExitCommandError, "read attempts", err)
		}
		if err := formatter.Success(ResolveDetail{Resolve: rec, Attempts: attempts}); err != nil {
			return WrapExitError(ExitCommandError, "write output", err)
		}
		return nil
	}

	recs, err := st.ListResolves(ctx, opts.Limit)
	if err != nil {
		formatter.Error("E002", "list resolves", err.Error())
		return WrapExitError(ExitCommandError, "list resolves", err)
	}
	if err := formatter.Success(ResolveListing{Resolves: recs}); err != nil {
		return WrapExitError(ExitCommandError, "write output", err)
	}
	return nil
}
