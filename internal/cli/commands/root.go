package commands

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/conduit-lang/bdo/internal/cli/config"
	"github.com/conduit-lang/bdo/internal/cli/ui"
	"github.com/conduit-lang/bdo/internal/logging"
)

var (
	// Version information - set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
	GoVersion = "unknown"
)

var errInvalidConfig = errors.New("invalid configuration")

var (
	configPath string
	noColor    bool
	verbose    bool
)

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "bdo",
		Short: "Reactive field system for models and components",
		Long: color.CyanString(`BDO - reactive models and components

Models and components declare their fields once. Properties hold plain
values, attributes are persisted and published as schema types, watched
fields call reactions on their owner when they change.

Features:
  • Two-way bindings between fields
  • Namespaced storage with expiring values
  • Model persistence in memory, Redis or SQL
  • GraphQL SDL and JSON Schema export`),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: ./bdo.yaml)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log at debug level")

	// Add subcommands
	rootCmd.AddCommand(NewVersionCommand())
	rootCmd.AddCommand(NewModelsCommand())
	rootCmd.AddCommand(NewSchemaCommand())
	rootCmd.AddCommand(NewDemoCommand())

	return rootCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display the bdo version, Git commit, build date, and Go version",
		Run: func(cmd *cobra.Command, args []string) {
			// Set GoVersion to actual runtime if not set at build time
			goVer := GoVersion
			if goVer == "unknown" {
				goVer = runtime.Version()
			}

			titleColor := color.New(color.FgCyan, color.Bold)
			if noColor {
				titleColor.DisableColor()
			}
			out := cmd.OutOrStdout()

			for _, row := range [][2]string{
				{"bdo version: ", Version},
				{"Git commit: ", GitCommit},
				{"Build date: ", BuildDate},
				{"Go version: ", goVer},
			} {
				titleColor.Fprint(out, row[0])
				fmt.Fprintln(out, row[1])
			}
		},
	}
}

// loadRuntime loads the configuration and opens the environment described
// by it. The caller closes the runtime.
func loadRuntime(cmd *cobra.Command) (*Runtime, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		cmd.PrintErr(ui.ConfigError(err, noColor))
		return nil, errInvalidConfig
	}
	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	logger, err := logging.New(level, cfg.Log.Development)
	if err != nil {
		return nil, err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	rt, err := NewRuntime(ctx, cfg, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}
	rt.closers = append(rt.closers, syncer{logger})
	return rt, nil
}

type syncer struct{ logger *zap.Logger }

// Close flushes the logger. Sync errors on terminals are ignored.
func (s syncer) Close() error {
	_ = s.logger.Sync()
	return nil
}

// Execute runs the root command
func Execute() error {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		errorColor := color.New(color.FgRed, color.Bold)
		errorColor.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		return err
	}
	return nil
}
