package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// CellListModel - Interactive cell selection
// =============================================================================

// CellEntry is one registered cell with its build summary. BuildErr is
// set when the cell's builder failed; such cells are shown but cannot
// be selected.
type CellEntry struct {
	Name       string
	Ports      int
	Electrical int
	Polygons   int
	BuildErr   error
}

// CellSelection holds the result of the cell selection.
type CellSelection struct {
	Name string
}

// CellListModel is the bubbletea model for interactive cell selection.
type CellListModel struct {
	Cells    []CellEntry
	Cursor   int
	Selected *CellSelection
	Height   int
	Offset   int
}

// NewCellListModel creates a new cell list model.
func NewCellListModel(cells []CellEntry) CellListModel {
	return CellListModel{
		Cells:  cells,
		Cursor: 0,
		Height: 15,
		Offset: 0,
	}
}

func (m CellListModel) Init() tea.Cmd {
	return nil
}

func (m CellListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Cells)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			cell := m.Cells[m.Cursor]
			if cell.BuildErr != nil {
				return m, nil
			}
			m.Selected = &CellSelection{Name: cell.Name}
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m CellListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Cell"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Cells) {
		end = len(m.Cells)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		c := m.Cells[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		ports := strconv.Itoa(c.Ports)
		electrical := strconv.Itoa(c.Electrical)
		polygons := strconv.Itoa(c.Polygons)
		if c.BuildErr != nil {
			ports, electrical, polygons = "—", "—", "—"
		}

		rows = append(rows, []string{cursor, c.Name, ports, electrical, polygons})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Cell", "Ports", "Electrical", "Polygons").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}

			actualIdx := m.Offset + row
			if actualIdx >= len(m.Cells) {
				return lipgloss.NewStyle()
			}
			c := m.Cells[actualIdx]
			buildable := c.BuildErr == nil
			isCurrent := actualIdx == m.Cursor

			base := lipgloss.NewStyle()
			if col >= 2 {
				if isCurrent {
					base = base.Foreground(colorGray)
				} else {
					base = base.Foreground(colorDim)
				}
			}

			if isCurrent {
				if buildable {
					if col < 2 {
						return base.Foreground(colorGreen).Bold(true)
					}
					return base.Bold(true)
				}
				return base.Foreground(colorDim).Bold(true)
			} else if buildable {
				if col < 2 {
					return base.Foreground(colorWhite)
				}
				return base
			}
			return base.Foreground(colorDim)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Cells))))

	return b.String()
}
