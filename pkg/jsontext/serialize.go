package jsontext

import (
	"reflect"

	"github.com/dwestra/quill/pkg/value"
)

var valueType = reflect.TypeFor[value.Value]()

// Serialize converts v into JSON text. It resolves the conversion path for
// T (direct registration first, then implicit conversion through
// [value.Of]), invokes it, and returns the result.
//
// Serialize never fails from the caller's point of view: conversion
// errors, conversion panics, and unsupported types all yield the empty
// string, with a diagnostic written to the package logger. When T is an
// interface type the conversion path is resolved from the dynamic value.
func Serialize[T any](v T) string {
	t := reflect.TypeFor[T]()
	if t.Kind() == reflect.Interface {
		t = reflect.TypeOf(v)
		if t == nil {
			diag().Error("type is not serializable", "type", reflect.TypeFor[T]().String())
			return ""
		}
	}
	if fn, ok := lookup(t); ok {
		return invoke(t, fn, v)
	}
	if converted, ok := value.Of(v); ok {
		fn, ok := lookup(valueType)
		if !ok {
			diag().Error("value conversion is not registered", "type", t.String())
			return ""
		}
		return invoke(valueType, fn, converted)
	}
	diag().Error("type is not serializable", "type", t.String())
	return ""
}

// invoke runs a conversion inside the failure boundary: errors and panics
// are logged and collapsed into empty text, and never reach the caller.
func invoke(t reflect.Type, fn func(any) (string, error), v any) (out string) {
	defer func() {
		if r := recover(); r != nil {
			diag().Error("conversion panicked", "type", t.String(), "panic", r)
			out = ""
		}
	}()

	text, err := fn(v)
	if err != nil {
		diag().Error("conversion failed", "type", t.String(), "err", err)
		return ""
	}
	return text
}
