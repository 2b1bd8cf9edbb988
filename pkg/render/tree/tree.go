// Package tree renders decoded documents as node-link tree diagrams.
//
// # Overview
//
// A document is drawn as a directed tree: one node per value, edges
// labeled with the object key or array index that leads to each child.
// Scalar nodes are labeled with their JSON text, so the diagram shows
// exactly what serialization would emit.
//
//	dot := tree.ToDOT(doc, tree.Options{})
//	svg, err := tree.RenderSVG(ctx, dot)
//
// Undefined children are omitted from the diagram, matching their
// treatment during serialization. Object keys are emitted in sorted
// order so the DOT output is deterministic and cacheable; this is a
// property of the diagram, not of JSON serialization.
package tree

import (
	"bytes"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/dwestra/quill/pkg/jsontext"
	"github.com/dwestra/quill/pkg/value"
)

// Options configures tree diagram rendering.
type Options struct {
	// Detailed prefixes each node label with the value kind.
	// When false, only the value preview is shown.
	Detailed bool
}

// maxLabelRunes bounds string previews in node labels.
const maxLabelRunes = 24

// ToDOT converts a document to Graphviz DOT format.
// The resulting DOT string can be rendered with [RenderSVG].
//
// An undefined root is drawn as a single dashed node; undefined values
// anywhere else are dropped along with their edges.
func ToDOT(doc value.Value, opts Options) string {
	b := &builder{}
	b.buf.WriteString("digraph document {\n")
	b.buf.WriteString("  rankdir=TB;\n")
	b.buf.WriteString("  bgcolor=\"transparent\";\n")
	b.buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	b.buf.WriteString("  ranksep=0.5;\n")
	b.buf.WriteString("  nodesep=0.3;\n")
	b.buf.WriteString("\n")

	b.walk(doc, opts.Detailed)

	b.buf.WriteString("}\n")
	return b.buf.String()
}

type builder struct {
	buf  bytes.Buffer
	next int
}

// walk emits the node for v and recurses into its children, returning
// the assigned node id.
func (b *builder) walk(v value.Value, detailed bool) string {
	id := fmt.Sprintf("n%d", b.next)
	b.next++
	fmt.Fprintf(&b.buf, "  %s [%s];\n", id, strings.Join(nodeAttrs(v, detailed), ", "))

	switch v.Kind() {
	case value.KindArray:
		elems, _ := v.Array()
		for i, elem := range elems {
			if elem.Kind() == value.KindUndefined {
				continue
			}
			child := b.walk(elem, detailed)
			fmt.Fprintf(&b.buf, "  %s -> %s [label=\"%d\"];\n", id, child, i)
		}
	case value.KindObject:
		fields, _ := v.Object()
		for _, key := range slices.Sorted(maps.Keys(fields)) {
			elem := fields[key]
			if elem.Kind() == value.KindUndefined {
				continue
			}
			child := b.walk(elem, detailed)
			fmt.Fprintf(&b.buf, "  %s -> %s [label=%q];\n", id, child, key)
		}
	}
	return id
}

func nodeAttrs(v value.Value, detailed bool) []string {
	label := Label(v)
	if detailed {
		label = v.Kind().String() + "\n" + label
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if v.Kind() == value.KindUndefined {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=black")
	}
	return attrs
}

// Label returns the display label for a single value. Scalars use their
// JSON text; containers show their size; undefined is named outright.
func Label(v value.Value) string {
	switch v.Kind() {
	case value.KindUndefined:
		return "undefined"
	case value.KindLiteral, value.KindNumber:
		return jsontext.Serialize(v)
	case value.KindString:
		text, _ := v.Text()
		return jsontext.Quote(truncate(text))
	case value.KindArray:
		elems, _ := v.Array()
		return fmt.Sprintf("array (%d)", len(elems))
	case value.KindObject:
		fields, _ := v.Object()
		return fmt.Sprintf("object (%d)", len(fields))
	default:
		return "invalid"
	}
}

func truncate(s string) string {
	runes := []rune(s)
	if len(runes) <= maxLabelRunes {
		return s
	}
	return string(runes[:maxLabelRunes]) + "…"
}
