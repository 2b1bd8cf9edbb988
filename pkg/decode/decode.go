// Package decode turns structured input documents (TOML, YAML) into the
// value model so they can be serialized as JSON text.
//
// # Architecture
//
// Each input format implements [Format]: a name for --from flags and API
// parameters, a filename predicate for detection, and the decode step
// itself. Decoders parse into plain Go values with their own libraries and
// then funnel everything through [FromAny], so the mapping into the value
// model lives in exactly one place.
//
// # Usage
//
// Detect a format from a path and decode:
//
//	format, err := decode.Detect("config.toml", decode.All()...)
//	if err != nil {
//	    return err
//	}
//	doc, err := format.Decode(data)
//
// Or pick one explicitly, as the --from flag does:
//
//	format, err := decode.Find("yaml", decode.All()...)
//
// Decoded documents distinguish an explicit null (the null literal) from
// an absent value: nothing a decoder produces is ever undefined, so every
// decoded node appears in the serialized output.
package decode

import (
	"path/filepath"

	"github.com/dwestra/quill/pkg/errors"
	"github.com/dwestra/quill/pkg/value"
)

// Format decodes documents of one input format into the value model.
type Format interface {
	// Name returns the format identifier (e.g. "toml", "yaml").
	Name() string
	// Supports reports whether this format handles the given filename.
	Supports(filename string) bool
	// Decode parses data into a value.
	Decode(data []byte) (value.Value, error)
}

// All returns the supported input formats.
func All() []Format {
	return []Format{&TOML{}, &YAML{}}
}

// Detect finds a format that supports the given file path.
// Returns an error if no format matches.
func Detect(path string, formats ...Format) (Format, error) {
	name := filepath.Base(path)
	for _, f := range formats {
		if f.Supports(name) {
			return f, nil
		}
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "unsupported document format: %s", name)
}

// Find returns the format with the given name.
// Returns an error if the name is malformed or unknown.
func Find(name string, formats ...Format) (Format, error) {
	if err := errors.ValidateFormatName(name); err != nil {
		return nil, err
	}
	for _, f := range formats {
		if f.Name() == name {
			return f, nil
		}
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown input format: %q", name)
}

// ext returns the filename extension including the dot.
func ext(filename string) string {
	return filepath.Ext(filename)
}
