package kernels

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBinaryKernels(t *testing.T) {
	a := []float64{1, -2, 3}
	b := []float64{4, 5, -6}

	tests := []struct {
		name string
		op   int
		want []float64
	}{
		{"add", OpAdd, []float64{5, 3, -3}},
		{"sub", OpSub, []float64{-3, -7, 9}},
		{"mul", OpMul, []float64{4, -10, -18}},
		{"min", OpMin, []float64{1, -2, -6}},
		{"max", OpMax, []float64{4, 5, 3}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fn := Binary[tc.op]
			require.NotNil(t, fn)
			dst := make([]float64, len(a))
			fn(dst, a, b)
			assert.Equal(t, tc.want, dst)
		})
	}
}

func TestDivFollowsIEEE(t *testing.T) {
	dst := make([]float64, 3)
	Binary[OpDiv](dst, []float64{1, -1, 0}, []float64{0, 0, 0})
	assert.True(t, math.IsInf(dst[0], 1))
	assert.True(t, math.IsInf(dst[1], -1))
	assert.True(t, math.IsNaN(dst[2]))
}

func TestUnaryKernels(t *testing.T) {
	a := []float64{1, -2, 0}

	dst := make([]float64, len(a))
	Unary[OpNeg](dst, a)
	assert.Equal(t, []float64{-1, 2, 0}, dst)

	Unary[OpAbs](dst, a)
	assert.Equal(t, []float64{1, 2, 0}, dst)
}

func TestBinaryKernelsAllowAliasing(t *testing.T) {
	a := []float64{1, 2, 3}
	Binary[OpAdd](a, a, a)
	assert.Equal(t, []float64{2, 4, 6}, a)
}

func TestCatalogCoverage(t *testing.T) {
	// Every opcode except noop has exactly one kernel shape.
	for op := OpAdd; op < numOps; op++ {
		hasBinary := Binary[op] != nil
		hasUnary := Unary[op] != nil
		assert.Truef(t, hasBinary != hasUnary, "opcode %d must be binary or unary, not both", op)
	}
	assert.Nil(t, Binary[OpNoop])
	assert.Nil(t, Unary[OpNoop])
}

func TestReduce(t *testing.T) {
	t.Run("left fold", func(t *testing.T) {
		got, ok := Reduce(OpAdd, []float64{1, 2, 3, 4})
		require.True(t, ok)
		assert.Equal(t, 10.0, got)

		got, ok = Reduce(OpSub, []float64{10, 1, 2})
		require.True(t, ok)
		assert.Equal(t, 7.0, got, "subtraction folds left to right")
	})

	t.Run("single element", func(t *testing.T) {
		got, ok := Reduce(OpMul, []float64{5})
		require.True(t, ok)
		assert.Equal(t, 5.0, got)
	})

	t.Run("empty input", func(t *testing.T) {
		_, ok := Reduce(OpAdd, nil)
		assert.False(t, ok)
	})

	t.Run("non-binary opcode", func(t *testing.T) {
		_, ok := Reduce(OpNeg, []float64{1, 2})
		assert.False(t, ok)
		_, ok = Reduce(-1, []float64{1})
		assert.False(t, ok)
		_, ok = Reduce(numOps, []float64{1})
		assert.False(t, ok)
	})
}
