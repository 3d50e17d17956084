package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"capstack/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}

	out, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if flagConfig == "" {
		fmt.Fprintln(cmd.OutOrStdout(), "# no config file given, showing defaults")
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "# %s\n", flagConfig)
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}
