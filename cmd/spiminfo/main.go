package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"spiminfo/pkg/config"
	"spiminfo/pkg/report"
	"spiminfo/pkg/spim"
)

var (
	// Global flags
	configPath string
	verbose    bool

	// Load flags
	strict bool
	format string

	// Loaded configuration and logger
	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "spiminfo",
	Short: "Inspect the metadata of a SPIM dataset directory",
	Long: `spiminfo reads the index and metadata files of a SPIM dataset and prints
the 4D stack dimensions and the physical pixel size.

Expected layout:
  <root>/metadata.txt
  <root>/data/index.txt
  <root>/data/data.bin`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			return err
		}

		// Keep a logger that was installed before Execute
		if logger != nil {
			return nil
		}

		zapConfig := zap.NewProductionConfig()
		if verbose || cfg.Output.Verbose {
			zapConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err = zapConfig.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// loadCmd loads a dataset directory and prints what was found
var loadCmd = &cobra.Command{
	Use:   "load [root]",
	Short: "Load a dataset directory and print its dimensions and pixel size",
	Args:  cobra.ExactArgs(1),
	RunE:  runLoad,
}

// configCmd groups configuration helpers
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the spiminfo configuration file",
}

// configInitCmd writes a default configuration file
var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a configuration file with default values",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigInit,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "spiminfo.yaml", "Configuration file (defaults are used if it doesn't exist)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	loadCmd.Flags().BoolVar(&strict, "strict", false, "Fail if the index lines disagree on the stack shape")
	loadCmd.Flags().StringVarP(&format, "format", "f", "", "Output format: text or yaml (overrides the config file)")

	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(loadCmd, configCmd)
}

func runLoad(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("strict") {
		cfg.Loader.StrictIndex = strict
	}
	if format != "" {
		cfg.Output.Format = format
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	loader := spim.NewLoader(logger, cfg.Loader.StrictIndex)
	info, err := loader.LoadDir(args[0])
	if err != nil {
		return err
	}

	return report.Write(cmd.OutOrStdout(), info, cfg.Output.Format)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	if err := config.CreateDefaultConfigFile(args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Default configuration written to %s\n", args[0])
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
