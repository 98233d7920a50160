package codegraph

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sacxy/codegraph/pkg/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Resolve the configuration from defaults, config file, environment
variables and flags, then print it as YAML. Secrets are redacted.`,
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	fmt.Print(cfg.String())
	return nil
}
