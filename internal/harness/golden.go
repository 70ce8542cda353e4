package harness

import (
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/tensile-ml/tensile/internal/trace"
)

// Snapshot renders a result as canonical JSON for golden comparison.
//
// The snapshot carries the scenario name, the outcome label, the result
// value or error text, and every trace event. Values are rendered as
// strings so float formatting can never destabilize golden files.
func Snapshot(res *Result) ([]byte, error) {
	events := make([]any, len(res.Trace))
	for i, ev := range res.Trace {
		m := map[string]any{
			"seq":      ev.Seq,
			"token":    ev.Token,
			"kind":     string(ev.Kind),
			"ufunc":    ev.UFunc,
			"method":   ev.Method,
			"position": ev.Position,
		}
		if ev.Class != "" {
			m["class"] = ev.Class
		}
		if ev.Detail != "" {
			m["detail"] = ev.Detail
		}
		events[i] = m
	}

	top := map[string]any{
		"scenario": res.Scenario.Name,
		"outcome":  OutcomeLabel(res),
		"trace":    events,
	}
	if res.Err != nil {
		top["error"] = res.Err.Error()
	}
	if res.Err == nil && res.Outcome.Overridden {
		top["result"] = fmt.Sprintf("%v", res.Outcome.Result)
	}

	return trace.MarshalCanonical(top)
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/golden/{name}.golden. Regenerate with:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, sc *Scenario) (*Result, error) {
	t.Helper()

	res, err := Run(sc)
	if err != nil {
		return nil, err
	}

	snapshot, err := Snapshot(res)
	if err != nil {
		return nil, err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, sc.Name, snapshot)

	return res, nil
}
