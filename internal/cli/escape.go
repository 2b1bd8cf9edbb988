package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dwestra/quill/pkg/jsontext"
)

// escapeCommand creates the escape command for quoting text as JSON strings.
func (c *CLI) escapeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "escape [text...]",
		Short: "Quote text as a JSON string literal",
		Long: `Quote text as a JSON string literal.

Arguments are joined with spaces; with no arguments, stdin is read until
EOF. The output is the quoted string including surrounding double quotes,
with control characters escaped.`,
		Example: `  quill escape 'say "hi"'
  printf 'line one\nline two' | quill escape`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := escapeInput(args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), jsontext.Quote(text))
			return nil
		},
	}
}

// escapeInput joins args, or reads stdin when no args are given.
func escapeInput(args []string, stdin io.Reader) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}
