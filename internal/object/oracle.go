package object

import "reflect"

// Oracle is the default type-relationship oracle for the runtime.
//
// The dispatch selection algorithm only needs two questions answered:
// "what is this operand's runtime type" and "is this operand an instance
// of that type". For Classed operands the answers come from the class
// chain; for everything else they degrade to Go type identity, which has
// no subtyping and therefore never reorders candidates.
//
// Oracle is stateless and safe for concurrent use.
type Oracle struct{}

// TypeOf returns a comparable token for v's runtime type: its *Class when
// v is Classed, otherwise its reflect.Type.
func (Oracle) TypeOf(v any) any {
	if c, ok := v.(Classed); ok && c.Class() != nil {
		return c.Class()
	}
	return reflect.TypeOf(v)
}

// IsInstance reports whether v is an instance of the type token typ.
//
// For class tokens the class chain is walked, so an instance of a subclass
// is an instance of every ancestor class. For reflect.Type tokens the test
// is plain identity.
func (Oracle) IsInstance(v any, typ any) bool {
	switch t := typ.(type) {
	case *Class:
		c, ok := v.(Classed)
		return ok && c.Class() != nil && c.Class().DerivesFrom(t)
	case reflect.Type:
		return reflect.TypeOf(v) == t
	default:
		return false
	}
}
