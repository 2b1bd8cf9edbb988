package decode

import (
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dwestra/quill/pkg/errors"
	"github.com/dwestra/quill/pkg/value"
)

// YAML decodes YAML documents. An empty document decodes to the null
// literal, matching how the YAML spec treats an empty stream.
type YAML struct{}

func (d *YAML) Name() string { return "yaml" }

func (d *YAML) Supports(filename string) bool {
	switch strings.ToLower(ext(filename)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func (d *YAML) Decode(data []byte) (value.Value, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return value.Value{}, errors.Wrap(errors.ErrCodeInvalidDocument, err, "parse yaml document")
	}
	return FromAny(raw)
}
