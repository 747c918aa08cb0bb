// Package types implements Chalcedony's static type system: the tagged
// union of value types, implicit numeric widening, and the soft-equality
// comparison used for overload resolution. Grounded in shape on the
// teacher's own primitive-type handling in internal/semantic, but the
// lattice itself (Int/Uint/Float widening, Any wildcard, an Exception type
// for caught exceptions) is specific to Chalcedony. Neither this package
// nor the compiler restricts where Exception is written: it is accepted as
// the declared type of a variable, argument or member as well.
package types

import "fmt"

// Tag identifies which member of the Type union a Type value holds.
type Tag int

const (
	TagInt Tag = iota
	TagUint
	TagFloat
	TagStr
	TagBool
	TagAny
	TagVoid
	TagException
	TagCustom // class instance; Name holds the class name
	TagList   // Elem holds the element Type
)

var tagNames = map[Tag]string{
	TagInt:       "int",
	TagUint:      "uint",
	TagFloat:     "float",
	TagStr:       "str",
	TagBool:      "bool",
	TagAny:       "any",
	TagVoid:      "void",
	TagException: "exception",
	TagCustom:    "custom",
	TagList:      "list",
}

// Type is Chalcedony's value-type tagged union: Int | Uint | Float | Str |
// Bool | Any | Void | Exception | Custom(class_name) | List(Type).
type Type struct {
	Tag  Tag
	Name string // populated only for TagCustom: the class name
	Elem *Type  // populated only for TagList: the element type
}

var (
	Int       = Type{Tag: TagInt}
	Uint      = Type{Tag: TagUint}
	Float     = Type{Tag: TagFloat}
	Str       = Type{Tag: TagStr}
	Bool      = Type{Tag: TagBool}
	Any       = Type{Tag: TagAny}
	Void      = Type{Tag: TagVoid}
	Exception = Type{Tag: TagException}
)

// Custom builds a named-class instance type.
func Custom(name string) Type { return Type{Tag: TagCustom, Name: name} }

// List builds a homogeneous list type over elem.
func List(elem Type) Type { return Type{Tag: TagList, Elem: &elem} }

// String renders the type the way error messages and bytecode dumps do.
func (t Type) String() string {
	switch t.Tag {
	case TagCustom:
		return t.Name
	case TagList:
		return fmt.Sprintf("List(%s)", t.Elem.String())
	default:
		return tagNames[t.Tag]
	}
}

// Equal is strict structural equality — no widening, no Any wildcard.
func (t Type) Equal(other Type) bool {
	if t.Tag != other.Tag {
		return false
	}
	switch t.Tag {
	case TagCustom:
		return t.Name == other.Name
	case TagList:
		return t.Elem.Equal(*other.Elem)
	default:
		return true
	}
}

// IsNumeric reports whether t is one of Int, Uint, Float.
func (t Type) IsNumeric() bool {
	return t.Tag == TagInt || t.Tag == TagUint || t.Tag == TagFloat
}

// SoftEqual is the comparison §4.6 uses to pick among overloads: Any
// matches anything on the parameter (expected) side, and Int accepts Uint.
// It is not symmetric — SoftEqual(expected, received).
func SoftEqual(expected, received Type) bool {
	if expected.Tag == TagAny {
		return true
	}
	if expected.Tag == TagInt && received.Tag == TagUint {
		return true
	}
	return expected.Equal(received)
}

// Cast names the implicit numeric conversion verify() must emit, or
// CastNone when no conversion is needed.
type Cast int

const (
	CastNone Cast = iota
	CastToInt
	CastToFloat
)

// Verify implements §4.6's verify(expected, received, emit_into): it
// decides whether a value of type received may be used where expected is
// required, and if so which implicit cast (if any) the compiler must emit.
// ok is false when no widening rule applies.
func Verify(expected, received Type) (cast Cast, ok bool) {
	if expected.Tag == TagAny || expected.Equal(received) {
		return CastNone, true
	}
	if expected.Tag == TagInt && received.Tag == TagUint {
		return CastToInt, true
	}
	if expected.Tag == TagFloat && (received.Tag == TagUint || received.Tag == TagInt) {
		return CastToFloat, true
	}
	return CastNone, false
}
