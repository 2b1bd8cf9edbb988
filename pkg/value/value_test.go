package value

import (
	"reflect"
	"testing"
)

type (
	fahrenheit float64
	count      uint16
	label      string
	flag       bool
)

func TestZeroValueIsUndefined(t *testing.T) {
	var v Value
	if got := v.Kind(); got != KindUndefined {
		t.Errorf("zero Value kind = %v, want %v", got, KindUndefined)
	}
	if !v.IsUndefined() {
		t.Error("zero Value IsUndefined() = false, want true")
	}
	if !reflect.DeepEqual(v, Undefined()) {
		t.Error("zero Value differs from Undefined()")
	}
}

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindUndefined, "undefined"},
		{KindLiteral, "literal"},
		{KindNumber, "number"},
		{KindString, "string"},
		{KindArray, "array"},
		{KindObject, "object"},
		{Kind(42), "kind(42)"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestLiteralString(t *testing.T) {
	tests := []struct {
		lit  Literal
		want string
	}{
		{Null, "null"},
		{True, "true"},
		{False, "false"},
		{Literal(9), "literal(9)"},
	}
	for _, tt := range tests {
		if got := tt.lit.String(); got != tt.want {
			t.Errorf("Literal(%d).String() = %q, want %q", tt.lit, got, tt.want)
		}
	}
}

func TestOf(t *testing.T) {
	str := "hello"
	tests := []struct {
		name     string
		src      any
		wantKind Kind
		wantOK   bool
	}{
		{"value", OfNumber(1), KindNumber, true},
		{"literal", Null, KindLiteral, true},
		{"bool", true, KindLiteral, true},
		{"string", "test", KindString, true},
		{"string pointer", &str, KindString, true},
		{"nil string pointer", (*string)(nil), KindString, true},
		{"float64", 3.14, KindNumber, true},
		{"float32", float32(2.5), KindNumber, true},
		{"int", 3, KindNumber, true},
		{"int8", int8(-4), KindNumber, true},
		{"int64", int64(1 << 40), KindNumber, true},
		{"uint", uint(3), KindNumber, true},
		{"uint8", uint8(255), KindNumber, true},
		{"uintptr", uintptr(8), KindNumber, true},
		{"value slice", []Value{OfBool(true)}, KindArray, true},
		{"value map", map[string]Value{"k": OfBool(true)}, KindObject, true},
		{"named float", fahrenheit(98.6), KindNumber, true},
		{"named uint", count(7), KindNumber, true},
		{"named string", label("x"), KindString, true},
		{"named bool", flag(true), KindLiteral, true},
		{"nil", nil, KindUndefined, false},
		{"struct", struct{ X int }{1}, KindUndefined, false},
		{"string slice", []string{"a"}, KindUndefined, false},
		{"string map", map[string]string{"a": "b"}, KindUndefined, false},
		{"channel", make(chan int), KindUndefined, false},
		{"func", func() {}, KindUndefined, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := Of(tt.src)
			if ok != tt.wantOK {
				t.Fatalf("Of(%v) ok = %v, want %v", tt.src, ok, tt.wantOK)
			}
			if got := v.Kind(); got != tt.wantKind {
				t.Errorf("Of(%v) kind = %v, want %v", tt.src, got, tt.wantKind)
			}
		})
	}
}

func TestOfPayloads(t *testing.T) {
	if v, _ := Of(uint(3)); v.number != 3 {
		t.Errorf("Of(uint(3)) number = %v, want 3", v.number)
	}
	if v, _ := Of(fahrenheit(98.6)); v.number != 98.6 {
		t.Errorf("Of(fahrenheit(98.6)) number = %v, want 98.6", v.number)
	}
	if v, _ := Of(label("x")); v.text != "x" {
		t.Errorf("Of(label(%q)) text = %q, want %q", "x", v.text, "x")
	}
	if v, _ := Of(false); v.literal != False {
		t.Errorf("Of(false) literal = %v, want %v", v.literal, False)
	}
	if v, _ := Of((*string)(nil)); v.text != "" {
		t.Errorf("Of(nil *string) text = %q, want empty", v.text)
	}
}

func TestOfArrayCopiesElements(t *testing.T) {
	elems := []Value{OfBool(true), OfString("a")}
	v := OfArray(elems...)
	elems[0] = OfString("mutated")

	arr, ok := v.Array()
	if !ok {
		t.Fatal("OfArray result is not an array")
	}
	if lit, ok := arr[0].Literal(); !ok || lit != True {
		t.Errorf("array element changed after caller mutation: %+v", arr[0])
	}
}

func TestOfObjectCopiesEntries(t *testing.T) {
	fields := map[string]Value{"a": OfBool(true)}
	v := OfObject(fields)
	fields["a"] = OfString("mutated")
	fields["b"] = OfString("added")

	obj, ok := v.Object()
	if !ok {
		t.Fatal("OfObject result is not an object")
	}
	if len(obj) != 1 {
		t.Fatalf("object has %d entries, want 1", len(obj))
	}
	if lit, ok := obj["a"].Literal(); !ok || lit != True {
		t.Errorf("object entry changed after caller mutation: %+v", obj["a"])
	}
}

func TestTake(t *testing.T) {
	v := OfArray(OfBool(true), OfNumber(3.14))
	taken := v.Take()

	if !v.IsUndefined() {
		t.Errorf("taken-from value kind = %v, want undefined", v.Kind())
	}
	arr, ok := taken.Array()
	if !ok || len(arr) != 2 {
		t.Fatalf("taken value lost its payload: kind=%v len=%d", taken.Kind(), len(arr))
	}
	// A second take yields undefined again.
	if again := v.Take(); !again.IsUndefined() {
		t.Errorf("second Take() = %v, want undefined", again.Kind())
	}
}

func TestAccessorMismatch(t *testing.T) {
	v := OfString("text")
	if _, ok := v.Number(); ok {
		t.Error("Number() on a string value reported ok")
	}
	if _, ok := v.Literal(); ok {
		t.Error("Literal() on a string value reported ok")
	}
	if _, ok := v.Array(); ok {
		t.Error("Array() on a string value reported ok")
	}
	if _, ok := v.Object(); ok {
		t.Error("Object() on a string value reported ok")
	}
	if got, ok := v.Text(); !ok || got != "text" {
		t.Errorf("Text() = %q, %v, want %q, true", got, ok, "text")
	}
}

func TestConvertibleType(t *testing.T) {
	tests := []struct {
		name string
		typ  reflect.Type
		want bool
	}{
		{"value", reflect.TypeFor[Value](), true},
		{"literal", reflect.TypeFor[Literal](), true},
		{"bool", reflect.TypeFor[bool](), true},
		{"string", reflect.TypeFor[string](), true},
		{"string pointer", reflect.TypeFor[*string](), true},
		{"float64", reflect.TypeFor[float64](), true},
		{"uint32", reflect.TypeFor[uint32](), true},
		{"value slice", reflect.TypeFor[[]Value](), true},
		{"value map", reflect.TypeFor[map[string]Value](), true},
		{"named scalar", reflect.TypeFor[fahrenheit](), true},
		{"struct", reflect.TypeFor[struct{ X int }](), false},
		{"string slice", reflect.TypeFor[[]string](), false},
		{"int pointer", reflect.TypeFor[*int](), false},
		{"any", reflect.TypeFor[any](), false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ConvertibleType(tt.typ); got != tt.want {
				t.Errorf("ConvertibleType(%v) = %v, want %v", tt.typ, got, tt.want)
			}
		})
	}
}
