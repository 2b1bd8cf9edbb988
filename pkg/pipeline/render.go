package pipeline

import (
	"context"
	"fmt"

	"github.com/dwestra/quill/pkg/render/tree"
	"github.com/dwestra/quill/pkg/value"
)

// renderDiagrams produces the requested diagram artifacts. The DOT text
// is built once and shared between the DOT and SVG outputs.
func renderDiagrams(ctx context.Context, doc value.Value, formats []string, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(formats))

	var dot string
	buildDOT := func() string {
		if dot == "" {
			dot = tree.ToDOT(doc, tree.Options{Detailed: opts.Detailed})
		}
		return dot
	}

	for _, format := range formats {
		var data []byte
		var err error

		switch format {
		case FormatDOT:
			data = []byte(buildDOT())
		case FormatSVG:
			data, err = tree.RenderSVG(ctx, buildDOT())
		default:
			return nil, fmt.Errorf("unsupported diagram format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}
