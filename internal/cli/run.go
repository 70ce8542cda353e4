package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tensile-ml/tensile/internal/dispatch"
	"github.com/tensile-ml/tensile/internal/harness"
	"github.com/tensile-ml/tensile/internal/store"
	"github.com/tensile-ml/tensile/internal/trace"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Database string
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Execute a dispatch scenario and check its expectations",
		Long: `Execute a dispatch conformance scenario.

The scenario is schema-validated, executed against a real dispatcher with
tracing enabled, and its expectations are checked. With --db, the resolve
and its per-candidate attempts are appended to the dispatch log.

Example:
  tensile run scenarios/subclass-precedence.yaml
  tensile run scenarios/decline-chain.yaml --db ./dispatch.db --verbose`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite dispatch log (optional)")

	return cmd
}

// RunReport is the run command's output payload.
type RunReport struct {
	Scenario string                 `json:"scenario"`
	Outcome  string                 `json:"outcome"`
	Result   string                 `json:"result,omitempty"`
	Error    string                 `json:"error,omitempty"`
	Calls    []harness.ExpectedCall `json:"calls,omitempty"`
	Failures []string               `json:"failures,omitempty"`
	Token    string                 `json:"token,omitempty"`
}

func (r RunReport) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "scenario: %s\n", r.Scenario)
	fmt.Fprintf(&b, "outcome:  %s\n", r.Outcome)
	if r.Result != "" {
		fmt.Fprintf(&b, "result:   %s\n", r.Result)
	}
	if r.Error != "" {
		fmt.Fprintf(&b, "error:    %s\n", r.Error)
	}
	for _, c := range r.Calls {
		fmt.Fprintf(&b, "call:     operand %d %s\n", c.Position, c.Status)
	}
	if r.Token != "" {
		fmt.Fprintf(&b, "token:    %s\n", r.Token)
	}
	if len(r.Failures) == 0 {
		b.WriteString("expectations: ok")
	} else {
		fmt.Fprintf(&b, "expectations: %d failure(s)", len(r.Failures))
		for _, f := range r.Failures {
			fmt.Fprintf(&b, "\n  - %s", f)
		}
	}
	return b.String()
}

func runScenario(cmd *cobra.Command, opts *RunOptions, path string) error {
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}

	sc, err := harness.LoadScenario(path)
	if err != nil {
		formatter.Error("E001", "scenario failed validation", err.Error())
		return WrapExitError(ExitCommandError, "load scenario", err)
	}

	slog.Debug("scenario loaded", "name", sc.Name, "ufunc", sc.UFunc, "method", sc.Method, "operands", len(sc.Operands))

	res, err := harness.Run(sc)
	if err != nil {
		formatter.Error("E002", "scenario is broken", err.Error())
		return WrapExitError(ExitCommandError, "run scenario", err)
	}

	report := RunReport{
		Scenario: sc.Name,
		Outcome:  harness.OutcomeLabel(res),
		Calls:    harness.CallsFromTrace(res.Trace),
		Failures: harness.CheckExpectations(res),
	}
	if res.Err != nil {
		report.Error = res.Err.Error()
	} else if res.Outcome.Overridden {
		report.Result = fmt.Sprintf("%v", res.Outcome.Result)
	}

	if opts.Database != "" {
		token, err := persistRun(cmd.Context(), opts.Database, res)
		if err != nil {
			formatter.Error("E003", "persist dispatch log", err.Error())
			return WrapExitError(ExitCommandError, "persist dispatch log", err)
		}
		report.Token = token
		slog.Info("dispatch logged", "db", opts.Database, "token", token)
	}

	if err := formatter.Success(report); err != nil {
		return WrapExitError(ExitCommandError, "write output", err)
	}

	if len(report.Failures) > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d expectation failure(s)", len(report.Failures)))
	}
	return nil
}

// persistRun appends the resolve and its trace to the dispatch log under a
// fresh UUIDv7 token (scenario runs all share a fixed token for golden
// stability, which cannot be a primary key).
func persistRun(ctx context.Context, dbPath string, res *harness.Result) (string, error) {
	st, err := store.Open(dbPath)
	if err != nil {
		return "", err
	}
	defer st.Close()

	token := trace.UUIDv7Generator{}.Generate()

	rec := store.ResolveRecord{
		Token:   token,
		UFunc:   res.Scenario.UFunc,
		Method:  res.Scenario.Method,
		NArgs:   len(res.Scenario.Operands),
		NIn:     res.NIn,
		Outcome: harness.OutcomeLabel(res),
		// Log ordering only; dispatch itself never uses wall time.
		CreatedSeq: time.Now().UnixNano(),
	}
	if res.Err != nil {
		rec.ErrorCode = string(dispatch.CodeOf(res.Err))
		rec.Error = res.Err.Error()
	}

	attempts := make([]store.AttemptRecord, 0, len(res.Trace))
	for _, ev := range res.Trace {
		attempts = append(attempts, store.AttemptRecord{
			ResolveToken: token,
			Position:     ev.Position,
			Class:        ev.Class,
			Status:       string(ev.Kind),
			Seq:          ev.Seq,
			Detail:       ev.Detail,
		})
	}

	if err := st.WriteResolve(ctx, rec, attempts); err != nil {
		return "", err
	}
	return token, nil
}
