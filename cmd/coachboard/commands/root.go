package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"coachboard/internal/app"
	"coachboard/internal/config"
	"coachboard/internal/logging"
	"coachboard/internal/printer"
)

var (
	version string
	commit  string
	date    string

	cfgFile  string
	logLevel string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "coachboard",
	Short: "CoachBoard - football play diagrams in the terminal",
	Long: `CoachBoard is a whiteboard for football coaches: place players, draw
routes and blocks, and keep a set of named boards that are saved
automatically.

Run without a subcommand to open the interactive editor.`,
	Version:           version,
	Args:              cobra.MaximumNArgs(1),
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
	RunE:              runEdit,
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $HOME/"+config.FileName+")")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
}

func loadConfig(cmd *cobra.Command, args []string) error {
	c, err := config.Load(cfgFile)
	if err != nil {
		return printer.Error("Invalid configuration", err.Error(), []string{
			"Fix or remove the config file, or pass --config with another path",
		})
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
	cfg = c
	return nil
}

// openApp opens the board storage for a one-shot command. Console logs only
// show warnings unless --log-level was given.
func openApp(cmd *cobra.Command) (*app.App, func(), error) {
	level := "warn"
	if cmd.Flags().Changed("log-level") {
		level = cfg.LogLevel
	}
	log, closeLog, err := logging.New(logging.Options{
		Level:   level,
		File:    cfg.LogFile,
		Console: cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, nil, err
	}

	a, err := app.Open(cmd.Context(), cfg, log)
	if err != nil {
		closeLog()
		return nil, nil, printer.Error("Cannot open board storage", err.Error(), []string{
			fmt.Sprintf("Check the %q store settings in your config", cfg.Store.Driver),
			"Use COACHBOARD_STORE_DRIVER=memory to run without saving",
		})
	}
	return a, func() {
		if err := a.Close(); err != nil {
			printer.Warning("closing storage: %v\n", err)
		}
		closeLog()
	}, nil
}

// saveNow writes the registry and reports a failure as a command error.
func saveNow(cmd *cobra.Command, a *app.App) error {
	if err := a.Registry.SaveSync(cmd.Context()); err != nil {
		return printer.Error("Could not save boards", err.Error(), nil)
	}
	return nil
}
