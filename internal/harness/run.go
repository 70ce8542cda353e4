package harness

import (
	"fmt"

	"github.com/tensile-ml/tensile/internal/dispatch"
	"github.com/tensile-ml/tensile/internal/object"
	"github.com/tensile-ml/tensile/internal/trace"
	"github.com/tensile-ml/tensile/internal/ufunc"
)

// ResolveToken is the fixed token all scenario runs use, so golden traces
// are byte-stable.
const ResolveToken = "resolve-0001"

// Result is the outcome of executing one scenario.
type Result struct {
	Scenario *Scenario

	// NIn is the input count actually passed to the dispatcher.
	NIn int

	// Outcome and Err are the dispatcher's answer.
	Outcome dispatch.Outcome
	Err     error

	// Trace is every recorded dispatch event, in seq order.
	Trace []trace.Event

	// Observed lists hook invocations as the hooks themselves saw them.
	Observed []ObservedCall
}

// Run executes a scenario against a real dispatcher with deterministic
// tracing. A returned error means the scenario itself is broken (unknown
// ufunc, dangling class reference); dispatch failures land in Result.Err.
func Run(sc *Scenario) (*Result, error) {
	u, ok := ufunc.Lookup(sc.UFunc)
	if !ok {
		return nil, fmt.Errorf("unknown ufunc %q", sc.UFunc)
	}

	classes := make(map[string]*object.Class, len(sc.Classes))
	for _, cd := range sc.Classes {
		if _, dup := classes[cd.Name]; dup {
			return nil, fmt.Errorf("duplicate class %q", cd.Name)
		}
		var parent *object.Class
		if cd.Parent != "" {
			parent = classes[cd.Parent]
			if parent == nil {
				// Parents must be declared before children.
				return nil, fmt.Errorf("class %q: unknown parent %q", cd.Name, cd.Parent)
			}
		}
		classes[cd.Name] = object.NewSubclass(cd.Name, parent)
	}

	result := &Result{Scenario: sc}

	args := make([]any, 0, len(sc.Operands))
	for i, od := range sc.Operands {
		op, err := buildOperand(od, classes, &result.Observed)
		if err != nil {
			return nil, fmt.Errorf("operand %d: %w", i, err)
		}
		args = append(args, op)
	}

	var kwds map[string]any
	if len(sc.Keywords) > 0 {
		kwds = make(map[string]any, len(sc.Keywords))
		for k, v := range sc.Keywords {
			kwds[k] = v
		}
	}

	nin := u.NIn()
	if sc.Method == ufunc.MethodReduce {
		nin = 1
	}
	if sc.NIn != nil {
		nin = *sc.NIn
	}
	result.NIn = nin

	recorder := trace.NewMemory()
	d := dispatch.New(
		dispatch.WithRecorder(recorder),
		dispatch.WithClock(trace.NewClock()),
		dispatch.WithTokens(trace.NewFixedGenerator(ResolveToken)),
	)

	result.Outcome, result.Err = d.Resolve(u, sc.Method, args, kwds, nin)
	result.Trace = recorder.Events()
	return result, nil
}

// OutcomeLabel classifies a result as "result", "no-override", or "error".
// The same labels are used by expectations and the dispatch log.
func OutcomeLabel(res *Result) string {
	switch {
	case res.Err != nil:
		return "error"
	case res.Outcome.Overridden:
		return "result"
	default:
		return "no-override"
	}
}
