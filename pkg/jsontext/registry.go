package jsontext

import (
	"reflect"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/dwestra/quill/pkg/value"
)

// ConvertFunc produces the JSON text for a single value of type T, or an
// error when the value cannot be represented. Returned text must be a
// complete JSON fragment; it is embedded verbatim in enclosing arrays and
// objects.
type ConvertFunc[T any] func(T) (string, error)

var (
	registryMu  sync.RWMutex
	conversions = make(map[reflect.Type]func(any) (string, error))
)

// Register marks T as serializable and stores its conversion function.
// Registration is process-wide and permanent; there is no unregister.
//
// Register panics when fn is nil or when T already has a conversion, both
// of which are programming errors best caught at process start. Types that
// only need the implicit conversion path (anything [value.Of] accepts) do
// not need to register at all.
func Register[T any](fn ConvertFunc[T]) {
	if fn == nil {
		panic("jsontext: Register called with nil conversion")
	}
	t := reflect.TypeFor[T]()

	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := conversions[t]; dup {
		panic("jsontext: conversion already registered for " + t.String())
	}
	conversions[t] = func(v any) (string, error) {
		return fn(v.(T))
	}
}

// IsSerializable reports whether values of type T can be serialized,
// either through a registered conversion or through the implicit path via
// [value.Of].
func IsSerializable[T any]() bool {
	t := reflect.TypeFor[T]()
	if _, ok := lookup(t); ok {
		return true
	}
	return value.ConvertibleType(t)
}

func lookup(t reflect.Type) (func(any) (string, error), bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	fn, ok := conversions[t]
	return fn, ok
}

var (
	loggerMu sync.RWMutex
	logger   = log.Default()
)

// SetLogger replaces the diagnostic logger that [Serialize] writes to when
// a conversion fails. The default logger writes to stderr. A nil argument
// is ignored.
func SetLogger(l *log.Logger) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	if l != nil {
		logger = l
	}
}

func diag() *log.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return logger
}
