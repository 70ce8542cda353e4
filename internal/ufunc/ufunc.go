// Package ufunc defines the runtime's vectorized operations and their
// native execution path.
//
// A UFunc is a named operation with a fixed input/output arity backed by a
// kernel opcode. Applying a ufunc always consults override dispatch first:
// any non-native operand may claim the operation. Only when no operand
// claims it does the native kernel run, and then only over native arrays
// and scalars.
package ufunc

import (
	"errors"
	"fmt"
)

// Native execution errors.
var (
	// ErrBadArity indicates a wrong number of positional arguments.
	ErrBadArity = errors.New("wrong number of arguments")

	// ErrUnsupportedOperand indicates an operand the native kernels
	// cannot handle and that no override claimed.
	ErrUnsupportedOperand = errors.New("unsupported operand type")

	// ErrShapeMismatch indicates incompatible array shapes.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrEmptyReduce indicates a reduction over a zero-size array.
	ErrEmptyReduce = errors.New("reduction over zero-size array")
)

// Method names understood by the dispatch protocol.
const (
	MethodCall   = "__call__"
	MethodReduce = "reduce"
)

// UFunc is a vectorized operation. The UFunc value itself is the opaque
// identity handed to override hooks.
type UFunc struct {
	name string
	nin  int
	nout int
	op   int
}

// New creates a ufunc with the given name, arity, and kernel opcode.
func New(name string, nin, nout, op int) *UFunc {
	return &UFunc{name: name, nin: nin, nout: nout, op: op}
}

// Name returns the operation name.
func (u *UFunc) Name() string { return u.name }

// NIn returns the number of true inputs.
func (u *UFunc) NIn() int { return u.nin }

// NOut returns the number of outputs.
func (u *UFunc) NOut() int { return u.nout }

func (u *UFunc) String() string {
	return fmt.Sprintf("<ufunc %q>", u.name)
}
