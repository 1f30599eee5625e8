// config.go implements the "fincoach config" command.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/fincoach-dev/fincoach/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration in effect after defaults and environment
overrides. With --init, write it to config.yaml in the fincoach home
directory.`,
	RunE: runConfig,
}

var initConfig bool

func init() {
	configCmd.Flags().BoolVar(&initConfig, "init", false, "Write the effective configuration to config.yaml")
}

func runConfig(cmd *cobra.Command, args []string) error {
	if initConfig {
		if err := config.WriteConfig(env.dir, env.cfg); err != nil {
			return err
		}
	}

	data, err := yaml.Marshal(env.cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), string(data))
	return nil
}
