package decode

import (
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/dwestra/quill/pkg/errors"
	"github.com/dwestra/quill/pkg/value"
)

// TOML decodes TOML documents. The top level of a TOML document is always
// a table, so decoded values are always objects.
type TOML struct{}

func (d *TOML) Name() string { return "toml" }

func (d *TOML) Supports(filename string) bool {
	return strings.EqualFold(ext(filename), ".toml")
}

func (d *TOML) Decode(data []byte) (value.Value, error) {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return value.Value{}, errors.Wrap(errors.ErrCodeInvalidDocument, err, "parse toml document")
	}
	return FromAny(raw)
}
