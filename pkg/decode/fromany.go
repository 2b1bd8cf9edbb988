package decode

import (
	"time"

	"github.com/dwestra/quill/pkg/errors"
	"github.com/dwestra/quill/pkg/value"
)

// FromAny maps a decoded document node into the value model. It accepts
// the shapes the format libraries produce when unmarshaling into any:
// nil (an explicit null), booleans, the integer and float widths the
// parsers emit, strings, timestamps (rendered as RFC 3339 text), slices
// ([]any, plus the []map[string]any that TOML arrays of tables decode
// to), and string-keyed maps. Map keys must be strings; JSON objects
// allow nothing else.
func FromAny(src any) (value.Value, error) {
	switch s := src.(type) {
	case nil:
		return value.OfLiteral(value.Null), nil
	case bool:
		return value.OfBool(s), nil
	case string:
		return value.OfString(s), nil
	case int:
		return value.OfNumber(float64(s)), nil
	case int64:
		return value.OfNumber(float64(s)), nil
	case uint64:
		return value.OfNumber(float64(s)), nil
	case float64:
		return value.OfNumber(s), nil
	case time.Time:
		return value.OfString(s.Format(time.RFC3339)), nil
	case []any:
		elems := make([]value.Value, 0, len(s))
		for i, item := range s {
			v, err := FromAny(item)
			if err != nil {
				return value.Value{}, errors.Wrap(errors.ErrCodeInvalidDocument, err, "element %d", i)
			}
			elems = append(elems, v)
		}
		return value.OfArray(elems...), nil
	case []map[string]any:
		items := make([]any, len(s))
		for i, item := range s {
			items[i] = item
		}
		return FromAny(items)
	case map[string]any:
		fields := make(map[string]value.Value, len(s))
		for k, item := range s {
			v, err := FromAny(item)
			if err != nil {
				return value.Value{}, errors.Wrap(errors.ErrCodeInvalidDocument, err, "key %q", k)
			}
			fields[k] = v
		}
		return value.OfObject(fields), nil
	case map[any]any:
		fields := make(map[string]value.Value, len(s))
		for k, item := range s {
			key, ok := k.(string)
			if !ok {
				return value.Value{}, errors.New(errors.ErrCodeInvalidDocument, "object key %v is not a string", k)
			}
			v, err := FromAny(item)
			if err != nil {
				return value.Value{}, errors.Wrap(errors.ErrCodeInvalidDocument, err, "key %q", key)
			}
			fields[key] = v
		}
		return value.OfObject(fields), nil
	}
	return value.Value{}, errors.New(errors.ErrCodeInvalidDocument, "cannot represent %T as a json value", src)
}
