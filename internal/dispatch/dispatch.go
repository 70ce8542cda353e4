package dispatch

import (
	"fmt"

	"github.com/tensile-ml/tensile/internal/object"
	"github.com/tensile-ml/tensile/internal/trace"
)

// Dispatcher resolves ufunc overrides.
//
// A Dispatcher is immutable after construction and safe for concurrent
// use: every Resolve call owns its candidate list, normalized call, and
// loop state exclusively. The zero-ish default configuration binds the
// native predicates and oracle from internal/object and a nop recorder.
type Dispatcher struct {
	isNativeArray  func(any) bool
	isNativeScalar func(any) bool
	oracle         TypeOracle
	classNames     func(any) string

	recorder trace.Recorder
	clock    *trace.Clock
	tokens   trace.TokenGenerator
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithNativeArray overrides the exact-native-array predicate.
func WithNativeArray(fn func(any) bool) Option {
	return func(d *Dispatcher) { d.isNativeArray = fn }
}

// WithNativeScalar overrides the native-scalar predicate.
func WithNativeScalar(fn func(any) bool) Option {
	return func(d *Dispatcher) { d.isNativeScalar = fn }
}

// WithOracle overrides the type-relationship oracle.
func WithOracle(o TypeOracle) Option {
	return func(d *Dispatcher) { d.oracle = o }
}

// WithClassNames overrides the operand display-name function used in
// traces.
func WithClassNames(fn func(any) string) Option {
	return func(d *Dispatcher) { d.classNames = fn }
}

// WithRecorder attaches a trace recorder.
func WithRecorder(r trace.Recorder) Option {
	return func(d *Dispatcher) { d.recorder = r }
}

// WithClock sets the logical clock stamping trace events.
func WithClock(c *trace.Clock) Option {
	return func(d *Dispatcher) { d.clock = c }
}

// WithTokens sets the resolve-token generator.
func WithTokens(g trace.TokenGenerator) Option {
	return func(d *Dispatcher) { d.tokens = g }
}

// New creates a Dispatcher bound to the host object model, with tracing
// disabled unless a recorder is supplied.
func New(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		isNativeArray:  object.IsNative,
		isNativeScalar: object.IsScalar,
		oracle:         object.Oracle{},
		classNames:     object.ClassName,
		recorder:       trace.Nop{},
		clock:          trace.NewClock(),
		tokens:         trace.UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Resolve runs override resolution for one ufunc application.
//
// ufunc is an opaque identity handed through to any invoked hook; method
// is the ufunc method name; args is the full positional argument list
// (inputs followed by output slots); kwds may be nil; nin is the count of
// true inputs.
//
// Returns (Outcome{Overridden: false}, nil) when no operand supplies an
// override - the designed "proceed with the native kernel" outcome, not an
// error. All failures are *Error values with an ErrorCode.
func (d *Dispatcher) Resolve(ufunc any, method string, args []any, kwds map[string]any, nin int) (Outcome, error) {
	name := displayName(ufunc)

	if args == nil {
		return Outcome{}, usageError(name, method, "internal error: resolve called with nil argument list")
	}
	if len(args) > MaxOperands {
		return Outcome{}, usageError(name, method, "internal error: too many operands (%d > %d)", len(args), MaxOperands)
	}
	if nin < 0 || nin > len(args) {
		return Outcome{}, usageError(name, method, "internal error: nin %d out of range for %d argument(s)", nin, len(args))
	}

	cands := d.discover(args)
	if len(cands) == 0 {
		// Fast path: every operand is native, nothing to do.
		return Outcome{}, nil
	}

	// Tracing state is only materialized past the fast path.
	token := d.tokens.Generate()
	for _, c := range cands {
		d.record(trace.Event{
			Seq:      d.clock.Next(),
			Token:    token,
			Kind:     trace.KindCandidate,
			UFunc:    name,
			Method:   method,
			Position: c.position,
			Class:    d.classNames(c.value),
		})
	}

	call, err := normalizeCall(args, kwds, nin)
	if err != nil {
		return Outcome{}, badCallError(name, method, err)
	}
	d.record(trace.Event{
		Seq:      d.clock.Next(),
		Token:    token,
		Kind:     trace.KindNormalized,
		UFunc:    name,
		Method:   method,
		Position: -1,
		Detail:   call.outDetail(),
	})

	for {
		idx := selectCandidate(cands, d.oracle)
		if idx < 0 {
			d.record(trace.Event{
				Seq:      d.clock.Next(),
				Token:    token,
				Kind:     trace.KindExhausted,
				UFunc:    name,
				Method:   method,
				Position: -1,
			})
			return Outcome{}, allDeclinedError(name, method)
		}

		c := &cands[idx]
		c.tried = true
		d.record(trace.Event{
			Seq:      d.clock.Next(),
			Token:    token,
			Kind:     trace.KindSelected,
			UFunc:    name,
			Method:   method,
			Position: c.position,
			Class:    d.classNames(c.value),
		})

		hook, err := resolveHook(c.value)
		if err != nil {
			lookupErr := hookLookupError(name, method, c.position, err)
			d.recordFailure(token, name, method, c, lookupErr)
			return Outcome{}, lookupErr
		}

		result, handled, err := hook(ufunc, method, c.position, call.inputs, call.keywords)
		if err != nil {
			failure := overrideFailedError(name, method, c.position, err)
			d.recordFailure(token, name, method, c, failure)
			return Outcome{}, failure
		}
		if !handled {
			d.record(trace.Event{
				Seq:      d.clock.Next(),
				Token:    token,
				Kind:     trace.KindDeclined,
				UFunc:    name,
				Method:   method,
				Position: c.position,
				Class:    d.classNames(c.value),
			})
			continue
		}

		d.record(trace.Event{
			Seq:      d.clock.Next(),
			Token:    token,
			Kind:     trace.KindAccepted,
			UFunc:    name,
			Method:   method,
			Position: c.position,
			Class:    d.classNames(c.value),
		})
		return Outcome{Overridden: true, Result: result}, nil
	}
}

// resolveHook obtains the candidate's override hook. Discovery already
// established the capability; a provider that errors, or hands back a nil
// hook, is a lookup failure.
func resolveHook(v any) (OverrideFunc, error) {
	ov, ok := v.(Overrider)
	if !ok {
		// Unreachable for discovered candidates; guarded anyway so a
		// hand-built candidate list cannot panic the dispatcher.
		return nil, fmt.Errorf("operand %T does not expose the override capability", v)
	}
	hook, err := ov.UFuncOverride()
	if err != nil {
		return nil, err
	}
	if hook == nil {
		return nil, fmt.Errorf("operand %T returned a nil override hook", v)
	}
	return hook, nil
}

func (d *Dispatcher) record(ev trace.Event) {
	d.recorder.Record(ev)
}

func (d *Dispatcher) recordFailure(token, name, method string, c *candidate, err error) {
	d.record(trace.Event{
		Seq:      d.clock.Next(),
		Token:    token,
		Kind:     trace.KindFailed,
		UFunc:    name,
		Method:   method,
		Position: c.position,
		Class:    d.classNames(c.value),
		Detail:   err.Error(),
	})
}
