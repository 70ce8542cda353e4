package dispatch

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tensile-ml/tensile/internal/object"
	"github.com/tensile-ml/tensile/internal/testutil"
	"github.com/tensile-ml/tensile/internal/trace"
)

// fakeUFunc stands in for the opaque ufunc identity.
type fakeUFunc struct {
	name string
}

func (f fakeUFunc) Name() string { return f.name }

// stubOperand is an override-capable operand with scripted behavior.
type stubOperand struct {
	class   *object.Class
	hook    OverrideFunc
	hookErr error

	calls int // times the hook ran
}

func (s *stubOperand) Class() *object.Class { return s.class }

func (s *stubOperand) UFuncOverride() (OverrideFunc, error) {
	if s.hookErr != nil {
		return nil, s.hookErr
	}
	return func(uf any, method string, pos int, inputs []any, kw map[string]any) (any, bool, error) {
		s.calls++
		return s.hook(uf, method, pos, inputs, kw)
	}, nil
}

func accepting(class *object.Class, result any) *stubOperand {
	return &stubOperand{
		class: class,
		hook: func(any, string, int, []any, map[string]any) (any, bool, error) {
			return result, true, nil
		},
	}
}

func declining(class *object.Class) *stubOperand {
	return &stubOperand{
		class: class,
		hook: func(any, string, int, []any, map[string]any) (any, bool, error) {
			return nil, false, nil
		},
	}
}

func failing(class *object.Class, err error) *stubOperand {
	return &stubOperand{
		class: class,
		hook: func(any, string, int, []any, map[string]any) (any, bool, error) {
			return nil, false, err
		},
	}
}

func TestResolve_NoCandidatesIsNoOp(t *testing.T) {
	recorder := trace.NewMemory()
	d := New(WithRecorder(recorder))

	args := []any{
		object.MustArray([]float64{1, 2, 3}),
		2.5,
		object.MustArray([]float64{0, 0, 0}),
	}

	outcome, err := d.Resolve(fakeUFunc{"add"}, "__call__", args, nil, 2)
	require.NoError(t, err)
	assert.False(t, outcome.Overridden)
	assert.Nil(t, outcome.Result)
	assert.Empty(t, recorder.Events(), "fast path must record nothing")
}

func TestResolve_PlainOperandWithoutCapabilityIgnored(t *testing.T) {
	d := New()

	// Non-native, but no override capability: not a candidate.
	type opaque struct{ id int }
	outcome, err := d.Resolve(fakeUFunc{"add"}, "__call__", []any{opaque{1}, opaque{2}}, nil, 2)
	require.NoError(t, err)
	assert.False(t, outcome.Overridden)
}

func TestResolve_SingleCandidateAccepts(t *testing.T) {
	d := New()
	cls := object.NewClass("Masked")

	var gotMethod string
	var gotPos int
	var gotInputs []any
	op := &stubOperand{
		class: cls,
		hook: func(_ any, method string, pos int, inputs []any, _ map[string]any) (any, bool, error) {
			gotMethod, gotPos, gotInputs = method, pos, inputs
			return "masked-result", true, nil
		},
	}

	a := object.MustArray([]float64{1, 2})
	outcome, err := d.Resolve(fakeUFunc{"add"}, "__call__", []any{a, op}, nil, 2)
	require.NoError(t, err)
	assert.True(t, outcome.Overridden)
	assert.Equal(t, "masked-result", outcome.Result)

	assert.Equal(t, "__call__", gotMethod)
	assert.Equal(t, 1, gotPos, "hook receives the operand's original position")
	require.Len(t, gotInputs, 2)
	assert.Same(t, a, gotInputs[0])
	assert.Equal(t, 1, op.calls)
}

func TestResolve_DeclineChaining(t *testing.T) {
	d := New()
	a := declining(object.NewClass("Logging"))
	b := accepting(object.NewClass("Masked"), "masked-sum")

	outcome, err := d.Resolve(fakeUFunc{"add"}, "__call__", []any{a, b}, nil, 2)
	require.NoError(t, err)
	assert.True(t, outcome.Overridden)
	assert.Equal(t, "masked-sum", outcome.Result)
	assert.Equal(t, 1, a.calls, "declining hook runs exactly once")
	assert.Equal(t, 1, b.calls)
}

func TestResolve_SubclassPrecedence(t *testing.T) {
	parentCls := object.NewClass("Parent")
	childCls := object.NewSubclass("Child", parentCls)

	t.Run("subclass to the right wins", func(t *testing.T) {
		d := New()
		parent := accepting(parentCls, "parent-result")
		child := accepting(childCls, "child-result")

		outcome, err := d.Resolve(fakeUFunc{"add"}, "__call__", []any{parent, child}, nil, 2)
		require.NoError(t, err)
		assert.Equal(t, "child-result", outcome.Result)
		assert.Equal(t, 0, parent.calls, "superclass hook must not run")
	})

	t.Run("subclass to the left wins by tie-break", func(t *testing.T) {
		d := New()
		parent := accepting(parentCls, "parent-result")
		child := accepting(childCls, "child-result")

		outcome, err := d.Resolve(fakeUFunc{"add"}, "__call__", []any{child, parent}, nil, 2)
		require.NoError(t, err)
		assert.Equal(t, "child-result", outcome.Result)
	})

	t.Run("declining subclass falls back to superclass", func(t *testing.T) {
		d := New()
		parent := accepting(parentCls, "parent-result")
		child := declining(childCls)

		outcome, err := d.Resolve(fakeUFunc{"add"}, "__call__", []any{parent, child}, nil, 2)
		require.NoError(t, err)
		assert.Equal(t, "parent-result", outcome.Result)
		assert.Equal(t, 1, child.calls)
		assert.Equal(t, 1, parent.calls)
	})

	t.Run("grandchild precedes across a three-level chain", func(t *testing.T) {
		d := New()
		grandCls := object.NewSubclass("Grandchild", childCls)
		parent := accepting(parentCls, "parent-result")
		child := accepting(childCls, "child-result")
		grand := accepting(grandCls, "grandchild-result")

		outcome, err := d.Resolve(fakeUFunc{"add"}, "__call__", []any{parent, child, grand}, nil, 3)
		require.NoError(t, err)
		assert.Equal(t, "grandchild-result", outcome.Result)
	})
}

func TestResolve_AllDecline(t *testing.T) {
	d := New()
	ops := []*stubOperand{
		declining(object.NewClass("Sparse")),
		declining(object.NewClass("Lazy")),
		declining(object.NewClass("Unit")),
	}

	_, err := d.Resolve(fakeUFunc{"add"}, "__call__", []any{ops[0], ops[1], ops[2]}, nil, 3)
	require.Error(t, err)
	assert.True(t, IsAllDeclined(err))
	assert.Contains(t, err.Error(), "add")
	assert.Contains(t, err.Error(), "__call__")
	for i, op := range ops {
		assert.Equalf(t, 1, op.calls, "operand %d must be invoked exactly once", i)
	}
}

func TestResolve_OutNormalization(t *testing.T) {
	cls := object.NewClass("Masked")

	t.Run("one trailing arg stored directly", func(t *testing.T) {
		d := New()
		var gotOut any
		op := &stubOperand{
			class: cls,
			hook: func(_ any, _ string, _ int, _ []any, kw map[string]any) (any, bool, error) {
				gotOut = kw["out"]
				return "done", true, nil
			},
		}
		out := object.MustArray([]float64{0, 0})

		_, err := d.Resolve(fakeUFunc{"add"}, "__call__",
			[]any{op, object.MustArray([]float64{1, 2}), out}, nil, 2)
		require.NoError(t, err)
		assert.Same(t, out, gotOut, "single output is the value itself, not a sequence")
	})

	t.Run("several trailing args stored as a sequence", func(t *testing.T) {
		d := New()
		var gotOut any
		op := &stubOperand{
			class: cls,
			hook: func(_ any, _ string, _ int, _ []any, kw map[string]any) (any, bool, error) {
				gotOut = kw["out"]
				return "done", true, nil
			},
		}
		out1 := object.MustArray([]float64{0})
		out2 := object.MustArray([]float64{0})

		_, err := d.Resolve(fakeUFunc{"add"}, "__call__",
			[]any{op, object.MustArray([]float64{1}), out1, out2}, nil, 2)
		require.NoError(t, err)
		outs, ok := gotOut.([]any)
		require.True(t, ok, "multiple outputs become a sequence")
		require.Len(t, outs, 2)
		assert.Same(t, out1, outs[0])
		assert.Same(t, out2, outs[1])
	})

	t.Run("no trailing args means no out entry", func(t *testing.T) {
		d := New()
		var hasOut bool
		op := &stubOperand{
			class: cls,
			hook: func(_ any, _ string, _ int, _ []any, kw map[string]any) (any, bool, error) {
				_, hasOut = kw["out"]
				return "done", true, nil
			},
		}

		_, err := d.Resolve(fakeUFunc{"add"}, "__call__", []any{op, 1.0}, nil, 2)
		require.NoError(t, err)
		assert.False(t, hasOut)
	})
}

func TestResolve_KeywordsCopiedNotMutated(t *testing.T) {
	d := New()
	op := accepting(object.NewClass("Masked"), "done")
	kwds := map[string]any{"where": "mask"}

	_, err := d.Resolve(fakeUFunc{"add"}, "__call__",
		[]any{op, 1.0, object.MustArray([]float64{0})}, kwds, 2)
	require.NoError(t, err)

	assert.NotContains(t, kwds, "out", "caller's keyword map must not be mutated")
	assert.Len(t, kwds, 1)
}

func TestResolve_ExplicitOutConflict(t *testing.T) {
	d := New()
	op := accepting(object.NewClass("Masked"), "done")
	kwds := map[string]any{"out": object.MustArray([]float64{0})}

	_, err := d.Resolve(fakeUFunc{"add"}, "__call__",
		[]any{op, 1.0, object.MustArray([]float64{0})}, kwds, 2)
	require.Error(t, err)
	assert.Equal(t, CodeBadCall, CodeOf(err))
	assert.Equal(t, 0, op.calls, "no hook runs when construction fails")
}

func TestResolve_HookErrorShortCircuits(t *testing.T) {
	d := New()
	sentinel := errors.New("distributed backend unavailable")
	first := failing(object.NewClass("Broken"), sentinel)
	second := accepting(object.NewClass("Masked"), "never-used")

	_, err := d.Resolve(fakeUFunc{"add"}, "__call__", []any{first, second}, nil, 2)
	require.Error(t, err)
	assert.True(t, IsOverrideFailure(err))
	assert.ErrorIs(t, err, sentinel, "the hook's error is preserved verbatim")
	assert.Equal(t, 0, second.calls, "no further candidate is tried after a failure")
}

func TestResolve_HookLookupFailure(t *testing.T) {
	d := New()
	op := &stubOperand{
		class:   object.NewClass("Corrupt"),
		hookErr: errors.New("hook table corrupted"),
	}

	_, err := d.Resolve(fakeUFunc{"add"}, "__call__", []any{op, 1.0}, nil, 2)
	require.Error(t, err)
	assert.Equal(t, CodeHookLookup, CodeOf(err))
}

func TestResolve_NilHookIsLookupFailure(t *testing.T) {
	d := New()
	op := &nilHookOperand{}

	_, err := d.Resolve(fakeUFunc{"add"}, "__call__", []any{op, 1.0}, nil, 2)
	require.Error(t, err)
	assert.Equal(t, CodeHookLookup, CodeOf(err))
}

type nilHookOperand struct{}

func (*nilHookOperand) UFuncOverride() (OverrideFunc, error) { return nil, nil }

func TestResolve_InvalidUsage(t *testing.T) {
	d := New()
	op := accepting(object.NewClass("Masked"), "unreachable")

	tests := []struct {
		name string
		args []any
		nin  int
	}{
		{"nil argument list", nil, 0},
		{"negative nin", []any{op}, -1},
		{"nin beyond argument count", []any{op}, 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := d.Resolve(fakeUFunc{"add"}, "__call__", tc.args, nil, tc.nin)
			require.Error(t, err)
			assert.True(t, IsInvalidUsage(err))
		})
	}

	t.Run("too many operands", func(t *testing.T) {
		args := make([]any, MaxOperands+1)
		for i := range args {
			args[i] = 1.0
		}
		_, err := d.Resolve(fakeUFunc{"add"}, "__call__", args, nil, 2)
		require.Error(t, err)
		assert.True(t, IsInvalidUsage(err))
	})

	assert.Equal(t, 0, op.calls)
}

func TestResolve_ArrayWrapperIsCandidate(t *testing.T) {
	// A type embedding the native array is NOT the native array: the
	// exact-type skip must not swallow it.
	d := New()
	wrapped := &wrapperOperand{Array: object.MustArray([]float64{1, 2})}

	outcome, err := d.Resolve(fakeUFunc{"add"}, "__call__",
		[]any{wrapped, object.MustArray([]float64{3, 4})}, nil, 2)
	require.NoError(t, err)
	assert.True(t, outcome.Overridden)
	assert.Equal(t, "wrapped", outcome.Result)
}

type wrapperOperand struct {
	*object.Array
}

func (*wrapperOperand) UFuncOverride() (OverrideFunc, error) {
	return func(any, string, int, []any, map[string]any) (any, bool, error) {
		return "wrapped", true, nil
	}, nil
}

func TestResolve_TraceEventOrder(t *testing.T) {
	recorder := trace.NewMemory()
	d := New(
		WithRecorder(recorder),
		WithClock(trace.NewClock()),
		WithTokens(testutil.Tokens(1)),
	)

	a := declining(object.NewClass("Logging"))
	b := accepting(object.NewClass("Masked"), "masked-sum")

	_, err := d.Resolve(fakeUFunc{"add"}, "__call__", []any{a, b}, nil, 2)
	require.NoError(t, err)

	events := recorder.Events()
	kinds := make([]trace.EventKind, len(events))
	for i, ev := range events {
		kinds[i] = ev.Kind
		assert.Equal(t, testutil.Token(1), ev.Token)
		assert.Equal(t, int64(i+1), ev.Seq)
	}
	assert.Equal(t, []trace.EventKind{
		trace.KindCandidate,
		trace.KindCandidate,
		trace.KindNormalized,
		trace.KindSelected,
		trace.KindDeclined,
		trace.KindSelected,
		trace.KindAccepted,
	}, kinds)
}

func TestResolve_ReentrantHook(t *testing.T) {
	// A hook may re-enter the dispatcher; nothing is shared between calls.
	d := New()
	inner := accepting(object.NewClass("Inner"), "inner-result")

	outer := &stubOperand{
		class: object.NewClass("Outer"),
		hook: func(any, string, int, []any, map[string]any) (any, bool, error) {
			nested, err := d.Resolve(fakeUFunc{"multiply"}, "__call__", []any{inner, 2.0}, nil, 2)
			if err != nil {
				return nil, false, err
			}
			return fmt.Sprintf("outer(%v)", nested.Result), true, nil
		},
	}

	outcome, err := d.Resolve(fakeUFunc{"add"}, "__call__", []any{outer, 1.0}, nil, 2)
	require.NoError(t, err)
	assert.Equal(t, "outer(inner-result)", outcome.Result)
}

func TestCodeOf_NonDispatchError(t *testing.T) {
	assert.Equal(t, ErrorCode(""), CodeOf(errors.New("plain")))
	assert.False(t, IsAllDeclined(errors.New("plain")))
	assert.False(t, IsAllDeclined(nil))
}
