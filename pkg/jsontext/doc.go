// Package jsontext converts Go values into JSON text through a process-wide
// type capability registry.
//
// # Overview
//
// The package answers one question per type: can values of this type become
// JSON text, and if so, how? Types gain the capability one of two ways:
//
//   - Direct registration: [Register] stores a conversion function for the
//     type. The five builtin payload variants of [value.Value], and Value
//     itself, are registered this way at package init; user-defined types
//     use the same mechanism.
//   - Implicit conversion: a type that is not registered but that
//     [value.Of] accepts (booleans, numeric and string types, and friends)
//     serializes by first building a value.Value from it and then encoding
//     that.
//
// Direct registration always wins when both paths apply, so a type's own
// conversion takes precedence over accidental structural convertibility.
// [IsSerializable] reports whether either path exists for a type.
//
// # Serialization
//
// [Serialize] is the only entry point:
//
//	text := jsontext.Serialize(value.OfArray(
//		value.OfBool(true),
//		value.OfString("test"),
//	))
//	// text == `[ true, "test" ]`
//
// It never returns an error and never panics. A conversion that fails, a
// conversion that panics, or a type with no conversion path all produce
// the empty string, plus a diagnostic on the package logger (see
// [SetLogger]). Empty output for a valid input means exactly one of:
// the value's kind is undefined, or its conversion signaled failure.
//
// # Container semantics
//
// Arrays and objects serialize each child through [Serialize], so every
// child has its own failure boundary and one bad element never aborts the
// document. Children are dropped from the output when their kind is
// undefined (checked up front, no diagnostic) or when their conversion
// fails (detected by the empty result, diagnostic already emitted). A
// dropped object entry loses its key entirely. Output is therefore always
// valid JSON. Object entry order follows map iteration and carries no
// meaning.
//
// # Undefined versus null
//
// An undefined value serializes to nothing, not to "null". The null
// literal appears in output only when the caller put [value.Null] there
// explicitly.
//
// # Concurrency
//
// Registration normally happens in init functions or early in main.
// Lookups are guarded, so serializing concurrently with late registration
// is safe; serializing distinct values from multiple goroutines needs no
// synchronization at all.
package jsontext
