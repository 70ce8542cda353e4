// Package dispatch implements operator-override resolution for ufuncs.
//
// When a ufunc is applied to operands that are not the native array type,
// any operand may claim the operation by exposing an override hook. The
// dispatcher decides whether such a claim exists, which single hook wins
// when several operands claim, how the call arguments are normalized for
// the hook, and how the hook's answer - including a cooperative decline -
// is interpreted.
//
// PROTOCOL:
//
// Candidates are the non-native, non-scalar operands that expose the
// override capability, in left-to-right argument order. Hooks are tried
// subclasses before superclasses, otherwise left to right; each hook is
// invoked at most once per Resolve. The first hook that neither declines
// nor fails determines the result. If every hook declines, resolution
// fails with CodeAllDeclined - a different outcome from "no candidates at
// all", which is not an error and means the native kernel should proceed.
//
// Trailing positional arguments beyond the declared input count are output
// slots by convention: they are moved into the "out" keyword of the
// normalized call (a single value for one slot, a slice for several). The
// dispatcher does not validate that they are output-shaped; fixing nin
// correctly is the caller's contract.
//
// CONCURRENCY:
//
// Resolve is strictly synchronous and owns all of its transient state.
// There is no queueing, no cancellation, and nothing shared between calls;
// concurrent Resolve calls on one Dispatcher cannot contend. A hook may
// re-enter the runtime (and hence the dispatcher) freely.
//
// The selection algorithm is a pure function over the candidate list and
// an injectable type-relationship oracle, so precedence behavior is
// testable without any concrete operand types.
package dispatch
