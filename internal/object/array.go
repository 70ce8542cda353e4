package object

import (
	"fmt"
	"slices"
)

// Array is the native dense array type: float64 elements in C (row-major)
// order with an explicit shape.
//
// Array values are mutable; the dispatch layer never mutates them, but
// native kernels write results in-place into freshly allocated outputs.
type Array struct {
	shape []int
	data  []float64
}

// NewArray creates an array from data and an optional shape.
// With no shape, the array is one-dimensional with len(data) elements.
// The element count must match the shape's volume.
func NewArray(data []float64, shape ...int) (*Array, error) {
	if len(shape) == 0 {
		shape = []int{len(data)}
	}
	n := 1
	for _, dim := range shape {
		if dim < 0 {
			return nil, fmt.Errorf("negative dimension %d in shape %v", dim, shape)
		}
		n *= dim
	}
	if n != len(data) {
		return nil, fmt.Errorf("shape %v requires %d elements, got %d", shape, n, len(data))
	}
	return &Array{
		shape: slices.Clone(shape),
		data:  slices.Clone(data),
	}, nil
}

// MustArray is NewArray that panics on error. For fixtures and literals.
func MustArray(data []float64, shape ...int) *Array {
	a, err := NewArray(data, shape...)
	if err != nil {
		panic(err)
	}
	return a
}

// Zeros creates an all-zero array with the given shape.
func Zeros(shape ...int) *Array {
	n := 1
	for _, dim := range shape {
		n *= dim
	}
	return &Array{shape: slices.Clone(shape), data: make([]float64, n)}
}

// Shape returns the array's shape. The returned slice is a copy.
func (a *Array) Shape() []int {
	return slices.Clone(a.shape)
}

// Len returns the total element count.
func (a *Array) Len() int {
	return len(a.data)
}

// Data returns the backing element slice in C order.
// The slice is shared with the array; callers that need isolation
// should use Clone.
func (a *Array) Data() []float64 {
	return a.data
}

// Clone returns a deep copy.
func (a *Array) Clone() *Array {
	return &Array{shape: slices.Clone(a.shape), data: slices.Clone(a.data)}
}

// SameShape reports whether b has the identical shape.
func (a *Array) SameShape(b *Array) bool {
	return slices.Equal(a.shape, b.shape)
}

// String renders a compact debug form.
func (a *Array) String() string {
	return fmt.Sprintf("Array(shape=%v, data=%v)", a.shape, a.data)
}

// IsNative reports whether v is the native array type itself.
//
// The test is exact: a type that embeds or wraps Array does not pass.
// This is what exposes array-likes to override dispatch - only true
// native arrays are handled by the built-in kernels unconditionally.
func IsNative(v any) bool {
	_, ok := v.(*Array)
	return ok
}
