// Package config provides the config subcommands of notes-go.
package config

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tphakala/notes-go/internal/conf"
)

// InitCommandName is the name of the subcommand that writes a default config.
// It runs without loading a configuration.
const InitCommandName = "init"

// defaultConfigPath is where init writes when no path is given.
const defaultConfigPath = "config.yaml"

// Command creates the config command with its show and init subcommands.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the configuration",
	}
	cmd.AddCommand(showCommand(settings), initCommand())
	return cmd
}

func showCommand(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration with secrets masked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if used := conf.ConfigFileUsed(); used != "" {
				fmt.Fprintf(out, "# loaded from %s\n", used)
			} else {
				fmt.Fprintln(out, "# no config file found, using built-in defaults")
			}

			redacted := settings.Redacted()
			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			if err := enc.Encode(&redacted); err != nil {
				return fmt.Errorf("error encoding settings: %w", err)
			}
			return enc.Close()
		},
	}
}

func initCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   InitCommandName + " [path]",
		Short: "Write the default configuration file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := defaultConfigPath
			if len(args) == 1 {
				path = args[0]
			}
			if err := conf.WriteDefaultConfig(path, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote default configuration to %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")
	return cmd
}
