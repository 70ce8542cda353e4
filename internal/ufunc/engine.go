package ufunc

import (
	"fmt"

	"github.com/tensile-ml/tensile/internal/dispatch"
	"github.com/tensile-ml/tensile/internal/kernels"
	"github.com/tensile-ml/tensile/internal/object"
)

// Engine applies ufuncs: override dispatch first, native kernels second.
//
// Engine is stateless between applications and safe for concurrent use.
type Engine struct {
	d *dispatch.Dispatcher
}

// NewEngine creates an engine with its own dispatcher. Dispatch options
// (tracing, alternate oracles) are passed through.
func NewEngine(opts ...dispatch.Option) *Engine {
	return &Engine{d: dispatch.New(opts...)}
}

// Dispatcher exposes the engine's dispatcher for direct resolution.
func (e *Engine) Dispatcher() *dispatch.Dispatcher {
	return e.d
}

// Call applies u to args. args holds the nin inputs, optionally followed
// by output arrays; kwds may be nil.
//
// If a non-native operand claims the operation, its result is returned
// unchanged. Otherwise the native kernel runs over arrays and scalars.
func (e *Engine) Call(u *UFunc, args []any, kwds map[string]any) (any, error) {
	if len(args) < u.nin || len(args) > u.nin+u.nout {
		return nil, fmt.Errorf("%w: %s takes %d input(s) and up to %d output(s), got %d argument(s)",
			ErrBadArity, u.name, u.nin, u.nout, len(args))
	}

	outcome, err := e.d.Resolve(u, MethodCall, args, kwds, u.nin)
	if err != nil {
		return nil, err
	}
	if outcome.Overridden {
		return outcome.Result, nil
	}

	return e.callNative(u, args)
}

// Reduce folds a one-dimensional view of arg with u's binary kernel.
//
// Reduction has a single true input; an override-capable operand claims it
// through the "reduce" method before the native fold runs.
func (e *Engine) Reduce(u *UFunc, arg any, kwds map[string]any) (any, error) {
	if u.nin != 2 {
		return nil, fmt.Errorf("%w: reduce requires a binary ufunc, %s has nin=%d", ErrBadArity, u.name, u.nin)
	}

	outcome, err := e.d.Resolve(u, MethodReduce, []any{arg}, kwds, 1)
	if err != nil {
		return nil, err
	}
	if outcome.Overridden {
		return outcome.Result, nil
	}

	arr, ok := arg.(*object.Array)
	if !ok {
		return nil, fmt.Errorf("%w: cannot reduce %T", ErrUnsupportedOperand, arg)
	}
	acc, ok := kernels.Reduce(u.op, arr.Data())
	if !ok {
		return nil, fmt.Errorf("%w: %s over %d element(s)", ErrEmptyReduce, u.name, arr.Len())
	}
	return acc, nil
}

// callNative runs the kernel over native operands.
func (e *Engine) callNative(u *UFunc, args []any) (any, error) {
	switch u.nin {
	case 1:
		return e.applyUnary(u, args)
	case 2:
		return e.applyBinary(u, args)
	default:
		return nil, fmt.Errorf("%w: no native path for nin=%d", ErrUnsupportedOperand, u.nin)
	}
}

func (e *Engine) applyUnary(u *UFunc, args []any) (*object.Array, error) {
	fn := kernels.Unary[u.op]
	if fn == nil {
		return nil, fmt.Errorf("%w: %s has no unary kernel", ErrUnsupportedOperand, u.name)
	}

	a, err := asArray(args[0])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", u.name, err)
	}
	out, err := outputFor(args, u.nin, a.Len(), a.Shape())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", u.name, err)
	}

	fn(out.Data(), a.Data())
	return out, nil
}

func (e *Engine) applyBinary(u *UFunc, args []any) (*object.Array, error) {
	fn := kernels.Binary[u.op]
	if fn == nil {
		return nil, fmt.Errorf("%w: %s has no binary kernel", ErrUnsupportedOperand, u.name)
	}

	a, b, err := alignOperands(args[0], args[1])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", u.name, err)
	}
	out, err := outputFor(args, u.nin, a.Len(), a.Shape())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", u.name, err)
	}

	fn(out.Data(), a.Data(), b.Data())
	return out, nil
}

// asArray coerces a native operand to an array, broadcasting scalars to a
// single element.
func asArray(v any) (*object.Array, error) {
	if arr, ok := v.(*object.Array); ok {
		return arr, nil
	}
	if s, ok := object.ScalarValue(v); ok {
		return object.MustArray([]float64{s}), nil
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupportedOperand, v)
}

// alignOperands coerces two native operands to equal-length arrays,
// broadcasting a scalar against the other operand's shape.
func alignOperands(av, bv any) (*object.Array, *object.Array, error) {
	aArr, aIsArr := av.(*object.Array)
	bArr, bIsArr := bv.(*object.Array)

	switch {
	case aIsArr && bIsArr:
		if !aArr.SameShape(bArr) {
			return nil, nil, fmt.Errorf("%w: %v vs %v", ErrShapeMismatch, aArr.Shape(), bArr.Shape())
		}
		return aArr, bArr, nil

	case aIsArr:
		s, ok := object.ScalarValue(bv)
		if !ok {
			return nil, nil, fmt.Errorf("%w: %T", ErrUnsupportedOperand, bv)
		}
		return aArr, broadcastScalar(s, aArr), nil

	case bIsArr:
		s, ok := object.ScalarValue(av)
		if !ok {
			return nil, nil, fmt.Errorf("%w: %T", ErrUnsupportedOperand, av)
		}
		return broadcastScalar(s, bArr), bArr, nil

	default:
		sa, okA := object.ScalarValue(av)
		sb, okB := object.ScalarValue(bv)
		if !okA || !okB {
			return nil, nil, fmt.Errorf("%w: %T and %T", ErrUnsupportedOperand, av, bv)
		}
		return object.MustArray([]float64{sa}), object.MustArray([]float64{sb}), nil
	}
}

func broadcastScalar(s float64, like *object.Array) *object.Array {
	data := make([]float64, like.Len())
	for i := range data {
		data[i] = s
	}
	return object.MustArray(data, like.Shape()...)
}

// outputFor returns the trailing output array if one was supplied, else
// allocates a fresh one. A supplied output must be a native array of the
// right size.
func outputFor(args []any, nin, n int, shape []int) (*object.Array, error) {
	if len(args) <= nin {
		return object.Zeros(shape...), nil
	}
	out, ok := args[nin].(*object.Array)
	if !ok {
		return nil, fmt.Errorf("%w: output must be a native array, got %T", ErrUnsupportedOperand, args[nin])
	}
	if out.Len() != n {
		return nil, fmt.Errorf("%w: output has %d element(s), need %d", ErrShapeMismatch, out.Len(), n)
	}
	return out, nil
}
