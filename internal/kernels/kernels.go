// Package kernels provides the elementwise float64 compute kernels backing
// the native ufunc implementations.
//
// Kernels come in two shapes: binary kernels combine two equal-length input
// slices into an output slice, unary kernels transform one. All kernels are
// pure loops over pre-sized slices - allocation and broadcast decisions are
// made by the caller (internal/ufunc).
//
// Kernels are registered in opcode-indexed catalogs for runtime dispatch.
package kernels

import "math"

// BinaryFn combines a and b elementwise into dst.
// All three slices have the same length; dst may alias a or b.
type BinaryFn func(dst, a, b []float64)

// UnaryFn transforms a elementwise into dst.
// Both slices have the same length; dst may alias a.
type UnaryFn func(dst, a []float64)

// Kernel operation codes.
const (
	OpNoop = iota
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMin
	OpMax
	OpNeg
	OpAbs

	numOps
)

// Binary maps opcodes to binary kernels. Nil entries are unary-only ops.
var Binary = [numOps]BinaryFn{
	OpAdd: add,
	OpSub: sub,
	OpMul: mul,
	OpDiv: div,
	OpMin: minimum,
	OpMax: maximum,
}

// Unary maps opcodes to unary kernels. Nil entries are binary-only ops.
var Unary = [numOps]UnaryFn{
	OpNeg: neg,
	OpAbs: abs,
}

func add(dst, a, b []float64) {
	for i := range dst {
		dst[i] = a[i] + b[i]
	}
}

func sub(dst, a, b []float64) {
	for i := range dst {
		dst[i] = a[i] - b[i]
	}
}

func mul(dst, a, b []float64) {
	for i := range dst {
		dst[i] = a[i] * b[i]
	}
}

// div follows IEEE 754: x/0 is ±Inf, 0/0 is NaN. No error path.
func div(dst, a, b []float64) {
	for i := range dst {
		dst[i] = a[i] / b[i]
	}
}

func minimum(dst, a, b []float64) {
	for i := range dst {
		dst[i] = math.Min(a[i], b[i])
	}
}

func maximum(dst, a, b []float64) {
	for i := range dst {
		dst[i] = math.Max(a[i], b[i])
	}
}

func neg(dst, a []float64) {
	for i := range dst {
		dst[i] = -a[i]
	}
}

func abs(dst, a []float64) {
	for i := range dst {
		dst[i] = math.Abs(a[i])
	}
}

// Reduce folds a with the binary kernel for op, left to right, starting
// from a[0]. Returns false for empty input or a non-binary opcode.
func Reduce(op int, a []float64) (float64, bool) {
	if op < 0 || op >= numOps || Binary[op] == nil || len(a) == 0 {
		return 0, false
	}
	fn := Binary[op]
	acc := []float64{a[0]}
	cur := make([]float64, 1)
	for _, x := range a[1:] {
		cur[0] = x
		fn(acc, acc, cur)
	}
	return acc[0], true
}
