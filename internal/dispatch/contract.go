package dispatch

import "fmt"

// MaxOperands caps the operand count of a single dispatch call.
// Exceeding it is a caller-contract error, not a storage constraint:
// the candidate list is dynamically sized.
const MaxOperands = 32

// OverrideFunc is the signature of an operand's override hook.
//
// The hook receives the opaque ufunc identity, the method name, the
// overriding operand's position in the ORIGINAL argument list, the
// normalized inputs (outputs excluded), and the normalized keywords
// (including any synthesized "out" entry).
//
// The return is three-variant: (value, true, nil) accepts and supplies the
// operation's result; (_, false, nil) cooperatively declines so resolution
// continues with the next candidate; a non-nil error aborts resolution
// immediately.
type OverrideFunc func(ufunc any, method string, pos int, inputs []any, kw map[string]any) (result any, handled bool, err error)

// Overrider is the override capability. An operand exposes it by
// implementing this interface; resolving the hook is a separate step that
// may fail (a misconfigured provider returns an error or a nil hook).
type Overrider interface {
	UFuncOverride() (OverrideFunc, error)
}

// TypeOracle answers the two type-relationship questions the selection
// algorithm needs. Tokens returned by TypeOf must be comparable; identity
// of tokens is type identity.
type TypeOracle interface {
	// TypeOf returns a comparable token for v's runtime type.
	TypeOf(v any) any

	// IsInstance reports whether v is an instance of the type token typ,
	// including subclass instances.
	IsInstance(v any, typ any) bool
}

// Outcome is the result of a Resolve call that did not fail.
//
// Overridden false means no operand claimed the operation and the native
// kernel should proceed; Result is nil in that case. Overridden true means
// Result holds whatever the winning hook returned.
type Outcome struct {
	Overridden bool
	Result     any
}

// displayName extracts a printable operation name from the opaque ufunc
// identity for traces and error messages. The identity is never inspected
// beyond this probe.
func displayName(ufunc any) string {
	if n, ok := ufunc.(interface{ Name() string }); ok {
		return n.Name()
	}
	if s, ok := ufunc.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", ufunc)
}
