package cli

import (
	"bytes"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/piwi3910/TilePack/internal/model"
	"github.com/piwi3910/TilePack/internal/project"
)

// configCommand creates the config management command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show and manage the TilePack configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := project.LoadConfig(c.configPath)
			if err != nil {
				return err
			}
			var buf bytes.Buffer
			if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(buf.Bytes())
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), c.configPath)
			return nil
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with default values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if _, err := os.Stat(c.configPath); err == nil && !force {
				printInfo(w, "Config already exists")
				printDetail(w, "use --force to overwrite %s", c.configPath)
				return nil
			}
			if err := project.SaveConfig(c.configPath, model.DefaultAppConfig()); err != nil {
				return err
			}
			printSuccess(w, "Wrote default config")
			printFile(w, c.configPath)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config")
	cmd.AddCommand(initCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "export <backup.json>",
		Short: "Back up the config and custom profiles to one file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := project.LoadConfig(c.configPath)
			if err != nil {
				return err
			}
			profiles, err := project.LoadCustomProfiles(c.profilesPath)
			if err != nil {
				return err
			}
			if err := project.ExportAllData(args[0], cfg, profiles); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Exported config and %d profiles", len(profiles))
			printFile(cmd.OutOrStdout(), args[0])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "import <backup.json>",
		Short: "Restore the config and custom profiles from a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backup, err := project.ImportAllData(args[0])
			if err != nil {
				return err
			}
			if err := project.SaveConfig(c.configPath, backup.Config); err != nil {
				return err
			}
			if err := project.SaveCustomProfiles(c.profilesPath, backup.Profiles); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Restored config and %d profiles from backup %s", len(backup.Profiles), backup.CreatedAt)
			return nil
		},
	})

	return cmd
}
