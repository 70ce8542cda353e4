// Package object implements the host object model of the Tensile runtime.
//
// The runtime is duck-typed: operands passed to a ufunc are plain Go values,
// and the behaviors the dispatch layer cares about are expressed as
// predicates and capabilities over those values rather than as a closed
// type hierarchy.
//
// The package provides:
//
//   - Array: the native dense float64 array. Array is the ONLY type that
//     passes IsNative - wrappers and array-likes deliberately do not, which
//     is what makes them visible to override dispatch.
//   - IsScalar: the native-scalar predicate (Go numeric and bool values).
//   - Class/Classed: an explicit runtime class hierarchy for operand types
//     that participate in subclass precedence. Go has no inheritance, so
//     class chains are data, not language structure.
//   - Oracle: the default type-relationship oracle consumed by the dispatch
//     selection algorithm. Classed operands are compared by class chain;
//     everything else falls back to Go type identity.
//
// No state in this package is shared between dispatch calls.
package object
