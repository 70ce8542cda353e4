package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tensile-ml/tensile/internal/harness"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <scenario.yaml>...",
		Short: "Validate dispatch scenarios against the schema",
		Long: `Validate scenario files against the embedded CUE schema without
executing them. All files are checked; the command fails if any violates
the schema.

Example:
  tensile validate scenarios/*.yaml`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return validateScenarios(cmd, rootOpts, args)
		},
	}
	return cmd
}

// ValidationReport is the validate command's output payload.
type ValidationReport struct {
	Checked  int      `json:"checked"`
	Valid    int      `json:"valid"`
	Problems []string `json:"problems,omitempty"`
}

func (r ValidationReport) String() string {
	if len(r.Problems) == 0 {
		return fmt.Sprintf("%d scenario(s) valid", r.Checked)
	}
	out := fmt.Sprintf("%d of %d scenario(s) valid", r.Valid, r.Checked)
	for _, p := range r.Problems {
		out += "\n  - " + p
	}
	return out
}

func validateScenarios(cmd *cobra.Command, rootOpts *RootOptions, paths []string) error {
	formatter := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout(), Verbose: rootOpts.Verbose}

	report := ValidationReport{Checked: len(paths)}
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			formatter.Error("E001", "read scenario", err.Error())
			return WrapExitError(ExitCommandError, "read scenario", err)
		}
		if err := harness.ValidateScenarioBytes(data); err != nil {
			report.Problems = append(report.Problems, fmt.Sprintf("%s: %v", path, err))
			continue
		}
		report.Valid++
	}

	if err := formatter.Success(report); err != nil {
		return WrapExitError(ExitCommandError, "write output", err)
	}

	if len(report.Problems) > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) invalid", len(report.Problems)))
	}
	return nil
}
