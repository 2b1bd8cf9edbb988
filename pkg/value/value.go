package value

import (
	"fmt"
	"reflect"
)

// Kind identifies the active variant of a [Value].
type Kind uint8

// The closed set of value kinds.
const (
	KindUndefined Kind = iota
	KindLiteral
	KindNumber
	KindString
	KindArray
	KindObject
)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case KindUndefined:
		return "undefined"
	case KindLiteral:
		return "literal"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Literal is one of the three JSON keyword values.
type Literal uint8

// The JSON literals. Null is the zero value, so an uninitialized Literal
// is a valid null rather than garbage.
const (
	Null Literal = iota
	True
	False
)

// String returns the JSON spelling of the literal.
func (l Literal) String() string {
	switch l {
	case Null:
		return "null"
	case True:
		return "true"
	case False:
		return "false"
	}
	return fmt.Sprintf("literal(%d)", uint8(l))
}

// Value is a tagged union over the JSON-representable payloads. The zero
// Value is undefined. Exactly one payload field is meaningful at a time,
// selected by the kind tag.
type Value struct {
	kind    Kind
	literal Literal
	number  float64
	text    string
	array   []Value
	object  map[string]Value
}

// Undefined returns the undefined Value. It is identical to the zero Value
// and exists for call sites where the intent deserves a name.
func Undefined() Value { return Value{} }

// OfLiteral returns a literal Value. The literal itself is not validated
// here; an out-of-range Literal surfaces as a conversion failure when the
// value is serialized.
func OfLiteral(l Literal) Value {
	return Value{kind: KindLiteral, literal: l}
}

// OfBool returns the literal true or false.
func OfBool(b bool) Value {
	if b {
		return OfLiteral(True)
	}
	return OfLiteral(False)
}

// OfNumber returns a number Value.
func OfNumber(f float64) Value {
	return Value{kind: KindNumber, number: f}
}

// OfString returns a string Value.
func OfString(s string) Value {
	return Value{kind: KindString, text: s}
}

// OfStringPtr returns a string Value, treating a nil pointer as the empty
// string rather than as undefined or null.
func OfStringPtr(p *string) Value {
	if p == nil {
		return OfString("")
	}
	return OfString(*p)
}

// OfArray returns an array Value. The elements are copied, so later
// mutation of the caller's slice does not affect the value.
func OfArray(elems ...Value) Value {
	v := Value{kind: KindArray}
	if len(elems) > 0 {
		v.array = make([]Value, len(elems))
		copy(v.array, elems)
	}
	return v
}

// OfObject returns an object Value. The entries are copied, so later
// mutation of the caller's map does not affect the value.
func OfObject(fields map[string]Value) Value {
	v := Value{kind: KindObject, object: make(map[string]Value, len(fields))}
	for k, f := range fields {
		v.object[k] = f
	}
	return v
}

// Of builds a Value from any supported source type. Supported sources are
// Value itself, [Literal], bool, string, *string (nil means empty), every
// integer, unsigned, and float type (widened to float64), []Value,
// map[string]Value, and named types whose underlying kind is boolean,
// numeric, or string. The second result reports whether the source was
// supported; on false the returned Value is undefined.
func Of(src any) (Value, bool) {
	switch s := src.(type) {
	case Value:
		return s, true
	case Literal:
		return OfLiteral(s), true
	case bool:
		return OfBool(s), true
	case string:
		return OfString(s), true
	case *string:
		return OfStringPtr(s), true
	case []Value:
		return OfArray(s...), true
	case map[string]Value:
		return OfObject(s), true
	case float64:
		return OfNumber(s), true
	case float32:
		return OfNumber(float64(s)), true
	case int:
		return OfNumber(float64(s)), true
	case int8:
		return OfNumber(float64(s)), true
	case int16:
		return OfNumber(float64(s)), true
	case int32:
		return OfNumber(float64(s)), true
	case int64:
		return OfNumber(float64(s)), true
	case uint:
		return OfNumber(float64(s)), true
	case uint8:
		return OfNumber(float64(s)), true
	case uint16:
		return OfNumber(float64(s)), true
	case uint32:
		return OfNumber(float64(s)), true
	case uint64:
		return OfNumber(float64(s)), true
	case uintptr:
		return OfNumber(float64(s)), true
	}

	// Named scalar types fall through to their underlying kind.
	rv := reflect.ValueOf(src)
	if !rv.IsValid() {
		return Value{}, false
	}
	switch rv.Kind() {
	case reflect.Bool:
		return OfBool(rv.Bool()), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return OfNumber(float64(rv.Int())), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return OfNumber(float64(rv.Uint())), true
	case reflect.Float32, reflect.Float64:
		return OfNumber(rv.Float()), true
	case reflect.String:
		return OfString(rv.String()), true
	}
	return Value{}, false
}

// ConvertibleType reports whether [Of] accepts values of type t. It is the
// type-level capability check used to decide whether a type serializes via
// the implicit conversion path.
func ConvertibleType(t reflect.Type) bool {
	if t == nil {
		return false
	}
	switch t {
	case reflect.TypeFor[Value](),
		reflect.TypeFor[Literal](),
		reflect.TypeFor[*string](),
		reflect.TypeFor[[]Value](),
		reflect.TypeFor[map[string]Value]():
		return true
	}
	switch t.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// Kind returns the active variant tag.
func (v Value) Kind() Kind { return v.kind }

// IsUndefined reports whether the value has no payload.
func (v Value) IsUndefined() bool { return v.kind == KindUndefined }

// Literal returns the literal payload. The second result is false when the
// value is not a literal.
func (v Value) Literal() (Literal, bool) {
	return v.literal, v.kind == KindLiteral
}

// Number returns the numeric payload. The second result is false when the
// value is not a number.
func (v Value) Number() (float64, bool) {
	return v.number, v.kind == KindNumber
}

// Text returns the string payload. The second result is false when the
// value is not a string.
func (v Value) Text() (string, bool) {
	return v.text, v.kind == KindString
}

// Array returns the element slice. The slice is shared with the value and
// must not be modified. The second result is false when the value is not
// an array.
func (v Value) Array() ([]Value, bool) {
	return v.array, v.kind == KindArray
}

// Object returns the entry map. The map is shared with the value and must
// not be modified. The second result is false when the value is not an
// object.
func (v Value) Object() (map[string]Value, bool) {
	return v.object, v.kind == KindObject
}

// Take moves the value out of v, leaving v undefined. The returned Value
// carries the original kind and payload.
func (v *Value) Take() Value {
	out := *v
	*v = Value{}
	return out
}
