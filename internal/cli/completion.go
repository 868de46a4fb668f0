package cli

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mapposter/pkg/fonts"
	"github.com/matzehuels/mapposter/pkg/geo"
	"github.com/matzehuels/mapposter/pkg/render"
	"github.com/matzehuels/mapposter/pkg/theme"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a completion script for your shell. Besides commands and flags,
the scripts complete theme ids, fonts, formats, pins and aspect ratios.

  $ source <(mapposter completion bash)
  $ mapposter completion zsh > "${fpath[1]}/_mapposter"
  $ mapposter completion fish | source
  PS> mapposter completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(os.Stdout, true)
			case "zsh":
				return root.GenZshCompletion(os.Stdout)
			case "fish":
				return root.GenFishCompletion(os.Stdout, true)
			default:
				return root.GenPowerShellCompletionWithDesc(os.Stdout)
			}
		},
	}
}

// registerValueCompletions attaches value completion to the poster flags
// that cmd defines. Flags cmd lacks are skipped.
func (c *CLI) registerValueCompletions(cmd *cobra.Command) {
	funcs := map[string]cobra.CompletionFunc{
		"theme":      c.completeThemes,
		"variations": c.completeThemes,
		"font":       c.completeFonts,
		"format":     fixedCompletion(formatNames()),
		"pin":        fixedCompletion(pinNames()),
		"aspect":     fixedCompletion(geo.AspectPresets),
	}
	for name, fn := range funcs {
		if cmd.Flags().Lookup(name) == nil {
			continue
		}
		_ = cmd.RegisterFlagCompletionFunc(name, fn)
	}
}

// completeThemes offers theme ids. Completion runs without the config
// pre-run, so the default themes directory is searched.
func (c *CLI) completeThemes(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	catalog, err := theme.Load(c.Config.themesDir(), log.New(io.Discard))
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	// --variations takes a comma-separated list; complete the last item.
	prefix := ""
	if i := strings.LastIndex(toComplete, ","); i >= 0 {
		prefix = toComplete[:i+1]
	}
	var out []string
	for _, id := range catalog.IDs() {
		out = append(out, prefix+id)
	}
	directive := cobra.ShellCompDirectiveNoFileComp
	if prefix != "" {
		directive |= cobra.ShellCompDirectiveNoSpace
	}
	return out, directive
}

func (c *CLI) completeFonts(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	names := []string{fonts.EmbeddedName}
	if found, err := fonts.Available(c.Config.fontsDir()); err == nil {
		names = append(names, found...)
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

func fixedCompletion(values []string) cobra.CompletionFunc {
	return func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}

func formatNames() []string {
	out := make([]string, len(render.Formats))
	for i, f := range render.Formats {
		out[i] = string(f)
	}
	return out
}

func pinNames() []string {
	out := make([]string, len(render.Pins))
	for i, p := range render.Pins {
		out[i] = string(p)
	}
	return out
}
