package object

import "fmt"

// Class is a runtime class in the host object model.
//
// Go has no inheritance, so operand types that need subclass semantics
// (masked arrays deriving from logging arrays, and so on) carry an explicit
// class chain as data. A Class is identified by pointer: two classes with
// the same name are still distinct classes.
type Class struct {
	name   string
	parent *Class
}

// NewClass creates a root class.
func NewClass(name string) *Class {
	return &Class{name: name}
}

// NewSubclass creates a class deriving from parent.
// A nil parent is equivalent to NewClass.
func NewSubclass(name string, parent *Class) *Class {
	return &Class{name: name, parent: parent}
}

// Name returns the class name.
func (c *Class) Name() string {
	return c.name
}

// Parent returns the immediate superclass, or nil for a root class.
func (c *Class) Parent() *Class {
	return c.parent
}

// DerivesFrom reports whether c is other or a descendant of other.
func (c *Class) DerivesFrom(other *Class) bool {
	if other == nil {
		return false
	}
	for cur := c; cur != nil; cur = cur.parent {
		if cur == other {
			return true
		}
	}
	return false
}

func (c *Class) String() string {
	if c.parent != nil {
		return fmt.Sprintf("class %s(%s)", c.name, c.parent.name)
	}
	return fmt.Sprintf("class %s", c.name)
}

// Classed is implemented by operands that belong to the runtime class
// hierarchy. Operands without a class are compared by Go type identity
// instead.
type Classed interface {
	Class() *Class
}

// ClassName returns the class name of v if it is Classed, else the Go
// type name. Used for trace output and error messages.
func ClassName(v any) string {
	if c, ok := v.(Classed); ok && c.Class() != nil {
		return c.Class().Name()
	}
	return fmt.Sprintf("%T", v)
}
