package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/TilePack/internal/project"
)

// profilesCommand creates the settings profile command.
func (c *CLI) profilesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "List and share packing settings profiles",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List built-in and custom profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			profiles, err := project.AllProfiles(c.profilesPath)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(profiles))
			for _, p := range profiles {
				kind := "custom"
				if p.IsBuiltIn {
					kind = "built-in"
				}
				rows = append(rows, []string{
					p.Name,
					fmt.Sprintf("%d", p.Settings.Padding),
					fmt.Sprintf("%t", p.Settings.PowerOfTwo),
					kind,
					p.Description,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Name", "Padding", "Pow2", "Kind", "Description"}, rows))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "export <name> <file.json>",
		Short: "Write a profile to a file for sharing",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			profiles, err := project.AllProfiles(c.profilesPath)
			if err != nil {
				return err
			}
			p, err := project.FindProfile(profiles, args[0])
			if err != nil {
				return err
			}
			if err := project.ExportProfile(args[1], p); err != nil {
				return err
			}
			printFile(cmd.OutOrStdout(), args[1])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "import <file.json>",
		Short: "Add a shared profile to the custom profiles",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := project.ImportProfile(args[0])
			if err != nil {
				return err
			}
			custom, err := project.LoadCustomProfiles(c.profilesPath)
			if err != nil {
				return err
			}

			replaced := false
			for i := range custom {
				if custom[i].Name == p.Name {
					custom[i] = p
					replaced = true
				}
			}
			if !replaced {
				custom = append(custom, p)
			}

			if err := project.SaveCustomProfiles(c.profilesPath, custom); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Imported profile %s", p.Name)
			return nil
		},
	})

	return cmd
}
