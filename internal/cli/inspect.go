package cli

import (
	"context"
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/dwestra/quill/pkg/pipeline"
	"github.com/dwestra/quill/pkg/render/tree"
	"github.com/dwestra/quill/pkg/value"
)

// inspectCommand creates the inspect command for exploring decoded documents.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		from        string
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "inspect [source]",
		Short: "Explore a decoded document as a tree",
		Long: `Decode a document and print its value tree.

Each line shows the key, the value kind, and a preview. Use --interactive
to browse the document in the terminal instead, descending into nested
objects and arrays.`,
		Example: `  quill inspect config.toml
  quill inspect deploy.yaml --interactive`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := "-"
			if len(args) == 1 {
				source = args[0]
			}
			return c.runInspect(cmd.Context(), source, from, interactive)
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "input format: toml, yaml (default: detect from extension)")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "browse the document interactively")

	return cmd
}

// runInspect decodes the source and displays its value tree.
func (c *CLI) runInspect(ctx context.Context, source, from string, interactive bool) error {
	runner, store, err := c.newRunner(false)
	if err != nil {
		return err
	}
	defer runner.Close()

	data, name, err := c.readSource(ctx, store, source, false)
	if err != nil {
		return err
	}

	doc, err := runner.Decode(ctx, data, pipeline.Options{Source: name, From: from, Logger: c.Logger})
	if err != nil {
		return fmt.Errorf("inspect: %w", err)
	}

	if interactive {
		p := tea.NewProgram(NewBrowserModel(name, doc))
		_, err := p.Run()
		return err
	}

	fmt.Println(StyleTitle.Render(name))
	printNewline()
	printKeyValue("Kind", doc.Kind().String())
	printKeyValue("Entries", fmt.Sprintf("%d", fieldCount(doc)))
	printNewline()
	for _, line := range valueTreeLines("", doc, 0) {
		fmt.Println(line)
	}
	return nil
}

// valueTreeLines renders a value as indented display lines.
// Object keys are sorted for stable output.
func valueTreeLines(key string, v value.Value, depth int) []string {
	indent := strings.Repeat("  ", depth)
	label := kindStyle(v.Kind()).Render(tree.Label(v))
	line := indent + label
	if key != "" {
		line = indent + StyleValue.Render(key) + " " + label
	}
	lines := []string{line}

	switch v.Kind() {
	case value.KindObject:
		fields, _ := v.Object()
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			lines = append(lines, valueTreeLines(k, fields[k], depth+1)...)
		}
	case value.KindArray:
		elems, _ := v.Array()
		for i, elem := range elems {
			lines = append(lines, valueTreeLines(fmt.Sprintf("[%d]", i), elem, depth+1)...)
		}
	}
	return lines
}
