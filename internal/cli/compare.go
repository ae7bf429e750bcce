package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/TilePack/internal/engine"
	"github.com/piwi3910/TilePack/internal/project"
)

// compareCommand creates the compare command.
func (c *CLI) compareCommand() *cobra.Command {
	var flags settingsFlags

	cmd := &cobra.Command{
		Use:   "compare <input...>",
		Short: "Compare atlas size and efficiency across packing settings",
		Long: `Pack the same tiles under several settings and compare the results.

Scenarios are derived from the base settings: the settings as given, without
padding, with doubled padding, and with power-of-two rounding toggled.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()

			cfg, err := project.LoadConfig(c.configPath)
			if err != nil {
				return err
			}
			tiles, proj, err := c.loadTiles(w, args)
			if err != nil {
				return err
			}
			base, err := c.resolveSettings(cmd, flags, cfg, proj)
			if err != nil {
				return err
			}

			prog := newProgress(c.Logger)
			results := engine.CompareScenarios(engine.BuildDefaultScenarios(base), tiles, c.Logger)
			prog.done("compared scenarios", "scenarios", len(results))

			rows := make([][]string, 0, len(results))
			for _, r := range results {
				if r.Err != nil {
					rows = append(rows, []string{r.Scenario.Name, "error", "", "", r.Err.Error()})
					continue
				}
				rows = append(rows, []string{
					r.Scenario.Name,
					r.Result.Bounds().String(),
					fmt.Sprintf("%d", r.TotalArea),
					fmt.Sprintf("%.1f%%", r.Efficiency),
					fmt.Sprintf("%d", r.WastedArea),
				})
			}

			fmt.Fprintln(w, StyleTitle.Render(fmt.Sprintf("%d tiles", len(tiles))))
			fmt.Fprintln(w, renderTable([]string{"Scenario", "Atlas", "Area", "Efficiency", "Wasted"}, rows))
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}
