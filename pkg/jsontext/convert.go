package jsontext

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dwestra/quill/pkg/value"
)

// Conversion failures for the builtin variants. They surface only as
// diagnostics: the dispatcher converts them into empty output.
var (
	// ErrUndefined is reported when a standalone undefined value is
	// serialized. Containers drop undefined children before this point.
	ErrUndefined = errors.New("cannot serialize undefined value")

	// ErrInvalidLiteral is reported for a literal outside null/true/false.
	// Normal construction cannot produce one; this guards corrupted state.
	ErrInvalidLiteral = errors.New("invalid literal")

	// ErrNonFiniteNumber is reported for NaN and infinities, which JSON
	// cannot represent.
	ErrNonFiniteNumber = errors.New("non-finite number")
)

// The builtin payload conversions register here. Container conversions
// recurse through Serialize, so each child gets its own failure boundary.
func init() {
	Register[value.Literal](convertLiteral)
	Register[float64](convertNumber)
	Register[string](convertString)
	Register[[]value.Value](convertArray)
	Register[map[string]value.Value](convertObject)
	Register[value.Value](convertValue)
}

func convertLiteral(l value.Literal) (string, error) {
	switch l {
	case value.Null:
		return "null", nil
	case value.True:
		return "true", nil
	case value.False:
		return "false", nil
	}
	return "", fmt.Errorf("%w: %d", ErrInvalidLiteral, uint8(l))
}

// convertNumber renders the shortest decimal text that round-trips back to
// the same float64. Integral values render without a decimal point.
func convertNumber(f float64) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", fmt.Errorf("%w: %v", ErrNonFiniteNumber, f)
	}
	return strconv.FormatFloat(f, 'g', -1, 64), nil
}

func convertString(s string) (string, error) {
	return Quote(s), nil
}

func convertArray(elems []value.Value) (string, error) {
	var b strings.Builder
	b.WriteByte('[')
	first := true
	for _, elem := range elems {
		if elem.Kind() == value.KindUndefined {
			continue
		}
		text := Serialize(elem)
		if text == "" {
			// Child conversion failed; it already logged why.
			continue
		}
		if !first {
			b.WriteByte(',')
		}
		b.WriteByte(' ')
		b.WriteString(text)
		first = false
	}
	b.WriteString(" ]")
	return b.String(), nil
}

func convertObject(fields map[string]value.Value) (string, error) {
	var b strings.Builder
	b.WriteByte('{')
	first := true
	for key, field := range fields {
		if field.Kind() == value.KindUndefined {
			continue
		}
		text := Serialize(field)
		if text == "" {
			continue
		}
		if !first {
			b.WriteByte(',')
		}
		b.WriteByte(' ')
		b.WriteString(Quote(key))
		b.WriteString(" : ")
		b.WriteString(text)
		first = false
	}
	b.WriteString(" }")
	return b.String(), nil
}

func convertValue(v value.Value) (string, error) {
	switch v.Kind() {
	case value.KindLiteral:
		l, _ := v.Literal()
		return convertLiteral(l)
	case value.KindNumber:
		f, _ := v.Number()
		return convertNumber(f)
	case value.KindString:
		s, _ := v.Text()
		return convertString(s)
	case value.KindArray:
		a, _ := v.Array()
		return convertArray(a)
	case value.KindObject:
		o, _ := v.Object()
		return convertObject(o)
	case value.KindUndefined:
		return "", ErrUndefined
	}
	return "", fmt.Errorf("invalid value kind %d", uint8(v.Kind()))
}
