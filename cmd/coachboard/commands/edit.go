package commands

import (
	"github.com/spf13/cobra"

	"coachboard/internal/app"
	"coachboard/internal/logging"
	"coachboard/internal/printer"
	"coachboard/internal/tui"
)

var editCmd = &cobra.Command{
	Use:   "edit [board]",
	Short: "Open the interactive board editor",
	Long: `Open the full-screen editor. The optional argument selects the starting
board by name, id or position.

Logs go to the configured log file, or coachboard.log in the data
directory, since the editor owns the terminal.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEdit,
}

func init() {
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	logFile := cfg.LogFile
	if logFile == "" {
		path, err := cfg.DataPath("coachboard.log")
		if err != nil {
			return err
		}
		logFile = path
	}
	log, closeLog, err := logging.New(logging.Options{Level: cfg.LogLevel, File: logFile})
	if err != nil {
		return err
	}
	defer closeLog()

	a, err := app.Open(cmd.Context(), cfg, log)
	if err != nil {
		return printer.Error("Cannot open board storage", err.Error(), []string{
			"Use COACHBOARD_STORE_DRIVER=memory to run without saving",
		})
	}
	defer a.Close()

	if len(args) == 1 {
		b, err := a.Registry.Find(args[0])
		if err != nil {
			return printer.Error("Board not found", err.Error(), []string{"Run 'coachboard boards list'"})
		}
		if err := a.Workspace.SwitchBoard(b.ID); err != nil {
			return err
		}
	}

	log.Info().Str("config", cfg.Path).Msg("starting editor")
	return tui.Run(tui.Options{
		Workspace:  a.Workspace,
		Config:     cfg,
		SaveErrors: a.SaveErrors,
		Log:        log,
	})
}
