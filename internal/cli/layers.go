package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/maskfab/maskfab/pkg/layer"
)

// layersCommand creates the layers command for inspecting the process stack.
func (c *CLI) layersCommand() *cobra.Command {
	var tech string

	cmd := &cobra.Command{
		Use:   "layers",
		Short: "Show the active layer stack",
		Long: `Show the active layer stack.

Prints the layers of the built-in generic stack, or of a foundry tech file
when --tech is given. The same stack drives layer resolution in 'pads' and
the colors used by SVG export.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLayers(tech)
		},
	}

	cmd.Flags().StringVar(&tech, "tech", "", "TOML tech file to load instead of the built-in stack")

	return cmd
}

// runLayers prints the stack as a table, top layer first.
func runLayers(techFile string) error {
	stack := layer.DefaultStack()
	if techFile != "" {
		var err error
		stack, err = layer.LoadStack(techFile)
		if err != nil {
			return err
		}
	}

	rows := make([][]string, 0, len(stack.Layers))
	for i := len(stack.Layers) - 1; i >= 0; i-- {
		sl := stack.Layers[i]
		rows = append(rows, []string{
			sl.Name,
			sl.Layer().String(),
			sl.Color,
			fmt.Sprintf("%g", sl.ZMin),
			fmt.Sprintf("%g", sl.Thickness),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Layer", "GDS", "Color", "Zmin", "Thickness").
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

	fmt.Println(StyleTitle.Render(stack.Name))
	fmt.Println(t.Render())
	return nil
}
