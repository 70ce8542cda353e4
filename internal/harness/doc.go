// Package harness provides conformance testing for override dispatch.
//
// A scenario describes one dispatch call - the ufunc, the method, the
// operand line-up (native arrays, scalars, plain objects, and scripted
// override operands with class relationships) - and what must happen: the
// outcome, the winning value, and the exact order in which override hooks
// are invoked. The harness executes the scenario against a real dispatcher
// with a memory trace recorder and deterministic tokens, then checks the
// expectations and optionally compares the canonical trace snapshot
// against a golden file.
//
// # Scenario Format
//
// Scenarios are YAML documents validated against an embedded CUE schema:
//
//	name: subclass-precedence
//	description: "Child override wins over Parent regardless of position"
//	ufunc: add
//	method: __call__
//	classes:
//	  - name: Parent
//	  - name: Child
//	    parent: Parent
//	operands:
//	  - kind: override
//	    class: Parent
//	    behavior: accept
//	    result: parent-result
//	  - kind: override
//	    class: Child
//	    behavior: accept
//	    result: child-result
//	expect:
//	  outcome: result
//	  value: child-result
//	  calls:
//	    - position: 1
//	      status: accepted
//
// # Operand Kinds
//
//   - array: a native array (skipped by discovery)
//   - scalar: a native scalar (skipped by discovery)
//   - plain: a non-native object without the override capability
//   - override: a scripted operand with a class, a behavior
//     (accept|decline|fail), and optionally a broken hook whose lookup
//     fails
package harness
