package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mapposter/pkg/fonts"
)

// fontsCommand creates the fonts command.
func (c *CLI) fontsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "fonts",
		Short: "List font families usable with --font",
		Long: `Fonts lists the font family directories in the fonts directory. A family
needs at least a Regular face; Bold and Light fall back to Regular.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := c.Config.fontsDir()
			names, err := fonts.Available(dir)
			if err != nil {
				return err
			}
			rows := [][]string{{fonts.EmbeddedName, "embedded"}}
			for _, n := range names {
				rows = append(rows, []string{n, dir})
			}
			fmt.Println(renderTable([]string{"Family", "Source"}, rows, 0))
			if len(names) == 0 {
				printDetail("Add families as %s/<name>/<name>-Regular.ttf", dir)
			}
			return nil
		},
	}
}
