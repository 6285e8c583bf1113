package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/maskfab/maskfab/pkg/cells"
	"github.com/maskfab/maskfab/pkg/layer"
)

// portsCommand creates the ports command for inspecting a cell's ports.
func (c *CLI) portsCommand() *cobra.Command {
	var tech string

	cmd := &cobra.Command{
		Use:   "ports [cell]",
		Short: "Show the port table of a cell",
		Long: `Show the port table of a cell.

Lists every port of the named cell (default "wire") with its type, face
center, face width, facing direction, and layer. Layer names come from the
active stack; pass --tech to resolve them against a foundry tech file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cell := defaultCell
			if len(args) > 0 {
				cell = args[0]
			}
			return printPortTable(cell, tech)
		},
	}

	cmd.Flags().StringVar(&tech, "tech", "", "TOML tech file for layer names")

	return cmd
}

// printPortTable builds the named cell and prints its ports as a table.
func printPortTable(name, techFile string) error {
	comp, err := cells.Build(name)
	if err != nil {
		return err
	}

	if comp.PortCount() == 0 {
		printWarning("Cell %s has no ports", name)
		return nil
	}

	stack := layer.DefaultStack()
	if techFile != "" {
		stack, err = layer.LoadStack(techFile)
		if err != nil {
			return err
		}
	}

	rows := make([][]string, 0, comp.PortCount())
	for _, p := range comp.Ports() {
		rows = append(rows, []string{
			p.Name,
			string(p.Type),
			fmt.Sprintf("(%g, %g)", p.Center.X, p.Center.Y),
			fmt.Sprintf("%g", p.Width),
			p.Orientation.String(),
			stack.NameFor(p.Layer),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Port", "Type", "Center", "Width", "Dir", "Layer").
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

	fmt.Println(StyleTitle.Render(name))
	fmt.Println(t.Render())
	return nil
}
