package harness

import (
	"fmt"

	"github.com/tensile-ml/tensile/internal/dispatch"
	"github.com/tensile-ml/tensile/internal/trace"
)

// CheckExpectations compares a result against its scenario's expectations.
// Returns one message per violated expectation; empty means conformant.
func CheckExpectations(res *Result) []string {
	var failures []string
	exp := res.Scenario.Expect

	if got := OutcomeLabel(res); got != exp.Outcome {
		detail := ""
		if res.Err != nil {
			detail = fmt.Sprintf(" (%v)", res.Err)
		}
		failures = append(failures, fmt.Sprintf("outcome: expected %q, got %q%s", exp.Outcome, got, detail))
	}

	if exp.Outcome == "result" && res.Err == nil && res.Outcome.Overridden && exp.Value != "" {
		if got, ok := res.Outcome.Result.(string); !ok || got != exp.Value {
			failures = append(failures, fmt.Sprintf("value: expected %q, got %v", exp.Value, res.Outcome.Result))
		}
	}

	if exp.Outcome == "error" && res.Err != nil && exp.ErrorCode != "" {
		if got := string(dispatch.CodeOf(res.Err)); got != exp.ErrorCode {
			failures = append(failures, fmt.Sprintf("error code: expected %s, got %s (%v)", exp.ErrorCode, got, res.Err))
		}
	}

	if exp.Calls != nil {
		got := CallsFromTrace(res.Trace)
		if len(got) != len(exp.Calls) {
			failures = append(failures, fmt.Sprintf("calls: expected %d hook invocation(s), got %d", len(exp.Calls), len(got)))
		} else {
			for i := range got {
				if got[i] != exp.Calls[i] {
					failures = append(failures, fmt.Sprintf("call %d: expected %+v, got %+v", i, exp.Calls[i], got[i]))
				}
			}
		}
	}

	return failures
}

// CallsFromTrace projects the trace down to the hook invocation sequence.
// "failed" covers both lookup failures and hook errors - either way that
// candidate's turn ended the resolution.
func CallsFromTrace(events []trace.Event) []ExpectedCall {
	var calls []ExpectedCall
	for _, ev := range events {
		switch ev.Kind {
		case trace.KindDeclined:
			calls = append(calls, ExpectedCall{Position: ev.Position, Status: "declined"})
		case trace.KindAccepted:
			calls = append(calls, ExpectedCall{Position: ev.Position, Status: "accepted"})
		case trace.KindFailed:
			calls = append(calls, ExpectedCall{Position: ev.Position, Status: "failed"})
		}
	}
	return calls
}
