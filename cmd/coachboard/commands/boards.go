package commands

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"coachboard/internal/app"
	"coachboard/internal/board"
	"coachboard/internal/printer"
)

var boardsJSON bool

var boardsCmd = &cobra.Command{
	Use:     "boards",
	Aliases: []string{"board"},
	Short:   "List and manage saved boards",
	Long: `Manage the saved boards without opening the editor.

Boards are referenced by name, id or 1-based position as shown by
'coachboard boards list'.`,
}

var boardsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved boards",
	Args:  cobra.NoArgs,
	RunE:  runBoardsList,
}

var boardsNewCmd = &cobra.Command{
	Use:   "new [name]",
	Short: "Create a board",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runBoardsNew,
}

var boardsRenameCmd = &cobra.Command{
	Use:   "rename <board> <name>",
	Short: "Rename a board",
	Args:  cobra.ExactArgs(2),
	RunE:  runBoardsRename,
}

var boardsDuplicateCmd = &cobra.Command{
	Use:   "duplicate <board>",
	Short: "Copy a board's players and drawings into a new board",
	Args:  cobra.ExactArgs(1),
	RunE:  runBoardsDuplicate,
}

var boardsDeleteCmd = &cobra.Command{
	Use:   "delete <board>",
	Short: "Delete a board and its media",
	Args:  cobra.ExactArgs(1),
	RunE:  runBoardsDelete,
}

func init() {
	boardsListCmd.Flags().BoolVar(&boardsJSON, "json", false, "Output in JSON format")
	boardsCmd.AddCommand(boardsListCmd, boardsNewCmd, boardsRenameCmd, boardsDuplicateCmd, boardsDeleteCmd)
	rootCmd.AddCommand(boardsCmd)
}

type boardInfo struct {
	Index       int       `json:"index"`
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Current     bool      `json:"current"`
	Players     int       `json:"players"`
	Annotations int       `json:"annotations"`
	Media       int       `json:"media"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func runBoardsList(cmd *cobra.Command, args []string) error {
	a, done, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer done()

	var infos []boardInfo
	for i, b := range a.Registry.Boards() {
		infos = append(infos, boardInfo{
			Index:       i + 1,
			ID:          b.ID,
			Name:        b.Name,
			Current:     i == a.Registry.CurrentIndex(),
			Players:     len(b.Entities),
			Annotations: len(b.Annotations),
			Media:       len(b.Media),
			UpdatedAt:   b.UpdatedAt,
		})
	}

	if boardsJSON {
		data, err := json.MarshalIndent(infos, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal boards: %w", err)
		}
		printer.Info("%s\n", data)
		return nil
	}

	rows := make([][]string, 0, len(infos))
	for _, info := range infos {
		mark := " "
		if info.Current {
			mark = "*"
		}
		rows = append(rows, []string{
			mark + strconv.Itoa(info.Index),
			info.Name,
			strconv.Itoa(info.Players),
			strconv.Itoa(info.Annotations),
			strconv.Itoa(info.Media),
			formatAge(info.UpdatedAt),
		})
	}
	printer.Table([]string{" #", "NAME", "PLAYERS", "DRAWINGS", "MEDIA", "UPDATED"}, rows)
	return nil
}

func formatAge(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	d := time.Since(t).Round(time.Second)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return t.Local().Format("2006-01-02")
	}
}

func runBoardsNew(cmd *cobra.Command, args []string) error {
	a, done, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer done()

	name := ""
	if len(args) == 1 {
		name = args[0]
	}
	b := a.Registry.Create(name)
	if err := saveNow(cmd, a); err != nil {
		return err
	}
	printer.Success("created board %q\n", b.Name)
	return nil
}

func runBoardsRename(cmd *cobra.Command, args []string) error {
	a, done, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer done()

	b, err := findBoard(a, args[0])
	if err != nil {
		return err
	}
	old := b.Name
	if err := a.Registry.Rename(b.ID, args[1]); err != nil {
		return printer.Error("Cannot rename board", err.Error(), nil)
	}
	if err := saveNow(cmd, a); err != nil {
		return err
	}
	printer.Success("renamed %q to %q\n", old, b.Name)
	return nil
}

func runBoardsDuplicate(cmd *cobra.Command, args []string) error {
	a, done, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer done()

	b, err := findBoard(a, args[0])
	if err != nil {
		return err
	}
	dup, err := a.Registry.Duplicate(b.ID)
	if err != nil {
		return err
	}
	if err := saveNow(cmd, a); err != nil {
		return err
	}
	printer.Success("duplicated %q as %q\n", b.Name, dup.Name)
	return nil
}

func runBoardsDelete(cmd *cobra.Command, args []string) error {
	a, done, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer done()

	b, err := findBoard(a, args[0])
	if err != nil {
		return err
	}
	if err := a.Registry.Delete(cmd.Context(), b.ID); err != nil {
		return err
	}
	if err := saveNow(cmd, a); err != nil {
		return err
	}
	printer.Success("deleted board %q\n", b.Name)
	return nil
}

func findBoard(a *app.App, ref string) (*board.Board, error) {
	b, err := a.Registry.Find(ref)
	if err != nil {
		return nil, printer.Error("Board not found", err.Error(), []string{"Run 'coachboard boards list' to see board names"})
	}
	return b, nil
}

// boardFlag resolves --board, defaulting to the current board.
func boardFlag(a *app.App, ref string) (*board.Board, error) {
	if ref == "" {
		return a.Registry.Current(), nil
	}
	return findBoard(a, ref)
}
