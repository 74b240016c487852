// Package cli wires the splitbill command line: serve, migrate and version.
package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mmynk/splitbill/internal/config"
	"github.com/mmynk/splitbill/pkg/logging"
)

// app carries state shared by every subcommand once the root pre-run has
// loaded the configuration.
type app struct {
	configFile string
	cfg        *config.Config
	logger     *slog.Logger
}

// NewRootCommand returns the splitbill command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "splitbill",
		Short: "Splitbill - shared expense tracking backend",
		Long: `Splitbill records shared bills with their items and participants,
tracks who has paid, and reports spending by category and period.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configFile)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = logging.New(cfg.Log.Level, cfg.Log.Format)
			slog.SetDefault(a.logger)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configFile, "config", "", "config file (default: splitbill.yaml)")

	rootCmd.AddCommand(a.newServeCommand())
	rootCmd.AddCommand(a.newMigrateCommand())
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

// Execute runs the root command with the process arguments.
func Execute() error {
	if err := NewRootCommand().Execute(); err != nil {
		return fmt.Errorf("splitbill: %w", err)
	}
	return nil
}
