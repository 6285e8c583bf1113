package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/maskfab/maskfab/pkg/cells"
	"github.com/maskfab/maskfab/pkg/layout"
)

// cellsCommand creates the cells command for listing registered cells.
func (c *CLI) cellsCommand() *cobra.Command {
	var pick bool

	cmd := &cobra.Command{
		Use:   "cells",
		Short: "List registered cells",
		Long: `List registered cells.

Each cell is built once to report its port and polygon counts. With --pick,
an interactive picker opens and the chosen cell's port table is printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if pick {
				return c.runCellsPick()
			}
			return c.runCells()
		},
	}

	cmd.Flags().BoolVar(&pick, "pick", false, "select a cell interactively and show its ports")

	return cmd
}

// runCells prints a table of all registered cells.
func (c *CLI) runCells() error {
	entries := collectCellEntries()
	if len(entries) == 0 {
		printInfo("No cells registered")
		return nil
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		if e.BuildErr != nil {
			rows = append(rows, []string{e.Name, "—", "—", "—"})
			continue
		}
		rows = append(rows, []string{
			e.Name,
			fmt.Sprintf("%d", e.Ports),
			fmt.Sprintf("%d", e.Electrical),
			fmt.Sprintf("%d", e.Polygons),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Cell", "Ports", "Electrical", "Polygons").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 0 {
				return lipgloss.NewStyle().Foreground(colorWhite)
			}
			return lipgloss.NewStyle().Foreground(colorGray)
		})

	fmt.Println(t.Render())
	printNewline()
	printNextStep("Terminate with pads", "maskfab pads <cell>")
	return nil
}

// runCellsPick opens the interactive picker and prints the chosen cell's ports.
func (c *CLI) runCellsPick() error {
	entries := collectCellEntries()
	if len(entries) == 0 {
		printInfo("No cells registered")
		return nil
	}

	m := NewCellListModel(entries)
	p := tea.NewProgram(m)
	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	fm, ok := finalModel.(CellListModel)
	if !ok || fm.Selected == nil {
		printDetail("No selection made")
		return nil
	}

	printInfo("Selected %s", StyleHighlight.Render(fm.Selected.Name))
	printNewline()
	return printPortTable(fm.Selected.Name, "")
}

// collectCellEntries builds every registered cell and summarizes it.
// Cells whose builder fails are included with BuildErr set so the list
// still shows them.
func collectCellEntries() []CellEntry {
	names := cells.Names()
	entries := make([]CellEntry, 0, len(names))
	for _, name := range names {
		comp, err := cells.Build(name)
		if err != nil {
			entries = append(entries, CellEntry{Name: name, BuildErr: err})
			continue
		}

		electrical := 0
		for _, p := range comp.Ports() {
			if p.Type == layout.PortTypeElectrical {
				electrical++
			}
		}

		entries = append(entries, CellEntry{
			Name:       name,
			Ports:      comp.PortCount(),
			Electrical: electrical,
			Polygons:   len(comp.Flatten()),
		})
	}
	return entries
}
