// Package value provides the tagged union at the heart of quill: a closed
// set of JSON-representable payloads plus an explicit "undefined" state.
//
// # Overview
//
// A [Value] holds exactly one of: a literal (null, true, false), a number,
// a string, an array of values, an object mapping strings to values, or
// nothing at all. The active variant is reported by [Value.Kind]. There is
// deliberately no open extension point: JSON has six shapes and so does
// this package.
//
// The zero Value is undefined. Undefined is not null: null is a literal the
// caller asked for, while undefined means "no payload here". The encoding
// layer renders undefined values as empty text and drops them from arrays
// and objects entirely.
//
// # Construction
//
// Build values with the Of* constructors, or with [Of], which accepts any
// supported source type and widens it into the model:
//
//	v := value.OfArray(
//		value.OfBool(true),
//		value.OfNumber(3.14),
//		value.OfString("test"),
//	)
//
// [Of] also handles named types whose underlying kind is boolean, numeric,
// or string, which is what lets arbitrary scalar-like types serialize
// without explicit registration. All numeric inputs collapse into a single
// float64 representation; the model intentionally does not distinguish
// integer from floating input.
//
// # Ownership and moves
//
// Arrays and objects own their children: the constructors copy the slices
// and maps they are given. Assignment copies a Value. [Value.Take] is the
// move analog: it returns the value and resets the source to undefined, so
// a taken-from Value behaves exactly like the zero Value afterwards.
//
// # Concurrency
//
// Values are plain data. Distinct values may be used from multiple
// goroutines freely; a shared value is safe for concurrent reads as long
// as no goroutine mutates it.
package value
