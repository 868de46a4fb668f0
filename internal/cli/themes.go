package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mapposter/pkg/errors"
	"github.com/matzehuels/mapposter/pkg/theme"
)

type themesOpts struct {
	category string
	json     bool
}

// themesCommand creates the themes command.
func (c *CLI) themesCommand() *cobra.Command {
	var opts themesOpts

	cmd := &cobra.Command{
		Use:   "themes [id]",
		Short: "List color themes, or show one",
		Long: `Themes lists the built-in themes and those found in the themes directory.
A theme file with the same id as a built-in theme replaces it.`,
		Example: `  mapposter themes
  mapposter themes --category dark
  mapposter themes noir`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := theme.Load(c.Config.themesDir(), c.Logger)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				return c.showTheme(catalog, args[0], opts.json)
			}
			return c.listThemes(catalog, opts)
		},
	}

	cmd.Flags().StringVar(&opts.category, "category", "", "only show one category ("+strings.Join(theme.Categories, ", ")+")")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print JSON instead of a table")

	return cmd
}

func (c *CLI) listThemes(catalog *theme.Catalog, opts themesOpts) error {
	if opts.category != "" && !slices.Contains(theme.Categories, opts.category) {
		return errors.New(errors.ErrCodeInvalidInput, "unknown category %q (available: %s)",
			opts.category, strings.Join(theme.Categories, ", "))
	}

	var themes []theme.Theme
	for _, t := range catalog.List() {
		if opts.category == "" || t.Category == opts.category {
			themes = append(themes, t)
		}
	}

	if opts.json {
		return printJSON(themes)
	}
	if len(themes) == 0 {
		printInfo("No themes in category %s", opts.category)
		return nil
	}

	highlight := -1
	rows := make([][]string, len(themes))
	for i, t := range themes {
		if t.ID == theme.DefaultID {
			highlight = i
		}
		rows[i] = []string{t.ID, t.Name, t.Category, swatch(t), originLabel(catalog.Origin(t.ID))}
	}
	fmt.Println(renderTable([]string{"ID", "Name", "Category", "Colors", "Source"}, rows, highlight))
	printDetail("%d themes, directory %s", len(themes), c.Config.themesDir())
	printNextStep("Use one", fmt.Sprintf("%s render -c Paris -C France -t %s", appName, themes[0].ID))
	return nil
}

func (c *CLI) showTheme(catalog *theme.Catalog, id string, asJSON bool) error {
	t, err := catalog.Get(id)
	if err != nil {
		return err
	}
	if asJSON {
		return printJSON(t)
	}

	fmt.Println(StyleTitle.Render(t.Name))
	if t.Description != "" {
		fmt.Println(StyleDim.Render(t.Description))
	}
	printNewline()
	printKeyValue("ID", t.ID)
	printKeyValue("Category", t.Category)
	printKeyValue("Source", originLabel(catalog.Origin(t.ID)))
	for _, kv := range [][2]string{
		{"Background", t.Background},
		{"Text", t.Text},
		{"Gradient", t.Gradient},
		{"Water", t.Water},
		{"Parks", t.Parks},
		{"Motorway", t.RoadMotorway},
		{"Primary", t.RoadPrimary},
		{"Secondary", t.RoadSecondary},
		{"Tertiary", t.RoadTertiary},
		{"Residential", t.RoadResidential},
		{"Other roads", t.RoadDefault},
	} {
		printKeyValue(kv[0], colorChip(kv[1])+" "+kv[1])
	}
	return nil
}

// swatch renders the background, water, parks and main road colors of t.
func swatch(t theme.Theme) string {
	return colorChip(t.Background) + colorChip(t.Water) + colorChip(t.Parks) + colorChip(t.RoadPrimary)
}

func colorChip(hex string) string {
	return lipgloss.NewStyle().Background(lipgloss.Color(hex)).Render("  ")
}

func originLabel(origin string) string {
	if origin == "" {
		return "builtin"
	}
	return origin
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
