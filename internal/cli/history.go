package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/dwestra/quill/pkg/archive"
)

// historyCommand creates the history command listing recorded conversions.
func (c *CLI) historyCommand() *cobra.Command {
	var (
		uri   string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded conversions from the archive",
		Long: `List recent conversions recorded in the archive, newest first.

The archive is populated by the serve command. Pass the MongoDB URI with
--uri or the QUILL_MONGO_URI environment variable.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if uri == "" {
				uri = os.Getenv("QUILL_MONGO_URI")
			}
			if uri == "" {
				return fmt.Errorf("no archive configured: pass --uri or set QUILL_MONGO_URI")
			}
			return c.runHistory(cmd.Context(), uri, limit)
		},
	}

	cmd.Flags().StringVar(&uri, "uri", "", "MongoDB URI (default: $QUILL_MONGO_URI)")
	cmd.Flags().IntVarP(&limit, "limit", "n", archive.DefaultLimit, "maximum records to list")

	return cmd
}

// runHistory fetches recent records and renders them as a table.
func (c *CLI) runHistory(ctx context.Context, uri string, limit int) error {
	spinner := newSpinner("Loading history...")
	spinner.Start()

	store, err := archive.NewMongoStore(ctx, uri)
	if err != nil {
		spinner.StopWithError("Archive connection failed")
		return err
	}
	defer func() {
		if err := store.Close(ctx); err != nil {
			c.Logger.Warn("archive close failed", "err", err)
		}
	}()

	records, err := store.Recent(ctx, limit)
	if err != nil {
		spinner.StopWithError("Archive query failed")
		return err
	}
	spinner.Stop()

	if len(records) == 0 {
		printInfo("No conversions recorded yet")
		return nil
	}

	fmt.Println(historyTable(records))
	return nil
}

// historyTable renders archive records as a bordered table.
func historyTable(records []archive.Record) string {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{
			formatRelativeTime(rec.CreatedAt),
			rec.Source,
			rec.Format,
			formatSize(rec.Size),
			rec.Duration.Round(time.Millisecond).String(),
			shortHash(rec.ContentHash),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("When", "Source", "Format", "Size", "Took", "Hash").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			switch col {
			case 0, 4, 5:
				return StyleDim
			case 3:
				return StyleNumber
			}
			return StyleValue
		}).
		Render()
}

// shortHash abbreviates a content hash for display.
func shortHash(h string) string {
	if len(h) <= 12 {
		return h
	}
	return h[:12]
}

// formatRelativeTime formats a timestamp relative to now.
func formatRelativeTime(t time.Time) string {
	diff := time.Since(t)

	switch {
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
