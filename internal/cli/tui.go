package cli

import (
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/dwestra/quill/pkg/render/tree"
	"github.com/dwestra/quill/pkg/value"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// BrowserModel - Interactive document browsing
// =============================================================================

// browserRow is one visible entry of the current container.
type browserRow struct {
	Key   string
	Value value.Value
}

// browserFrame remembers the rows and cursor of a visited container.
type browserFrame struct {
	name   string
	rows   []browserRow
	cursor int
	offset int
}

// BrowserModel is the bubbletea model for interactive document browsing.
// Enter descends into the selected object or array, esc returns to the
// parent, q quits.
type BrowserModel struct {
	Source string
	Height int
	stack  []browserFrame
}

// NewBrowserModel creates a browser rooted at doc.
func NewBrowserModel(source string, doc value.Value) BrowserModel {
	return BrowserModel{
		Source: source,
		Height: 15,
		stack:  []browserFrame{{name: source, rows: browserRows(doc)}},
	}
}

// browserRows lists the entries of a container value.
// Scalar documents produce a single unnamed row so they still display.
func browserRows(v value.Value) []browserRow {
	switch v.Kind() {
	case value.KindObject:
		fields, _ := v.Object()
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		rows := make([]browserRow, 0, len(keys))
		for _, k := range keys {
			rows = append(rows, browserRow{Key: k, Value: fields[k]})
		}
		return rows
	case value.KindArray:
		elems, _ := v.Array()
		rows := make([]browserRow, 0, len(elems))
		for i, elem := range elems {
			rows = append(rows, browserRow{Key: fmt.Sprintf("[%d]", i), Value: elem})
		}
		return rows
	default:
		return []browserRow{{Value: v}}
	}
}

func (m BrowserModel) Init() tea.Cmd {
	return nil
}

func (m BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		fr := &m.stack[len(m.stack)-1]
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc":
			if len(m.stack) == 1 {
				return m, tea.Quit
			}
			m.stack = m.stack[:len(m.stack)-1]
		case "up", "k":
			if fr.cursor > 0 {
				fr.cursor--
				if fr.cursor < fr.offset {
					fr.offset = fr.cursor
				}
			}
		case "down", "j":
			if fr.cursor < len(fr.rows)-1 {
				fr.cursor++
				if fr.cursor >= fr.offset+m.Height {
					fr.offset = fr.cursor - m.Height + 1
				}
			}
		case "enter":
			if len(fr.rows) == 0 {
				return m, nil
			}
			row := fr.rows[fr.cursor]
			if k := row.Value.Kind(); k != value.KindObject && k != value.KindArray {
				return m, nil
			}
			rows := browserRows(row.Value)
			if len(rows) == 0 {
				return m, nil
			}
			m.stack = append(m.stack, browserFrame{name: row.Key, rows: rows})
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

// Path returns the breadcrumb of the current container.
func (m BrowserModel) Path() string {
	names := make([]string, len(m.stack))
	for i, fr := range m.stack {
		names[i] = fr.name
	}
	return strings.Join(names, " › ")
}

func (m BrowserModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Path()))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ open  esc back  q quit"))
	b.WriteString("\n\n")

	fr := m.stack[len(m.stack)-1]
	if len(fr.rows) == 0 {
		b.WriteString(listDimStyle.Render("  (empty)"))
		b.WriteString("\n")
		return b.String()
	}

	end := fr.offset + m.Height
	if end > len(fr.rows) {
		end = len(fr.rows)
	}

	rows := [][]string{}
	for i := fr.offset; i < end; i++ {
		r := fr.rows[i]
		cursor := "  "
		if i == fr.cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, r.Key, r.Value.Kind().String(), tree.Label(r.Value)})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Key", "Kind", "Value").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}

			actualIdx := fr.offset + row
			if actualIdx >= len(fr.rows) {
				return lipgloss.NewStyle()
			}
			r := fr.rows[actualIdx]

			switch col {
			case 2:
				return listDimStyle
			case 3:
				return kindStyle(r.Value.Kind())
			}
			if actualIdx == fr.cursor {
				return lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", fr.cursor+1, len(fr.rows))))

	return b.String()
}
