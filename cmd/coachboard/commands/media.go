package commands

import (
	"os"

	"github.com/spf13/cobra"

	"coachboard/internal/printer"
)

var mediaBoard string

var mediaCmd = &cobra.Command{
	Use:   "media",
	Short: "Attach film clips and images to boards",
	Long: `Media is stored in the configured blob store (the board database by
default, or S3) and linked to a board. Deleting the board deletes its
media.`,
}

var mediaListCmd = &cobra.Command{
	Use:   "list",
	Short: "List media ids attached to a board",
	Args:  cobra.NoArgs,
	RunE:  runMediaList,
}

var mediaAddCmd = &cobra.Command{
	Use:   "add <file>",
	Short: "Attach a file to a board",
	Args:  cobra.ExactArgs(1),
	RunE:  runMediaAdd,
}

var mediaGetCmd = &cobra.Command{
	Use:   "get <id> <file>",
	Short: "Write attached media to a file",
	Args:  cobra.ExactArgs(2),
	RunE:  runMediaGet,
}

var mediaRmCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"remove"},
	Short:   "Detach and delete media",
	Args:    cobra.ExactArgs(1),
	RunE:    runMediaRm,
}

func init() {
	for _, c := range []*cobra.Command{mediaListCmd, mediaAddCmd, mediaRmCmd} {
		c.Flags().StringVar(&mediaBoard, "board", "", "board to use (default the current board)")
	}
	mediaCmd.AddCommand(mediaListCmd, mediaAddCmd, mediaGetCmd, mediaRmCmd)
	rootCmd.AddCommand(mediaCmd)
}

func runMediaList(cmd *cobra.Command, args []string) error {
	a, done, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer done()

	b, err := boardFlag(a, mediaBoard)
	if err != nil {
		return err
	}
	if len(b.Media) == 0 {
		printer.Info("No media on %q.\n", b.Name)
		return nil
	}
	for _, id := range b.Media {
		printer.Info("%s\n", id)
	}
	return nil
}

func runMediaAdd(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return printer.Error("Cannot read media file", err.Error(), nil)
	}

	a, done, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer done()

	b, err := boardFlag(a, mediaBoard)
	if err != nil {
		return err
	}
	id, err := a.Registry.AttachMedia(cmd.Context(), b.ID, data)
	if err != nil {
		return printer.Error("Cannot store media", err.Error(), []string{"Check the blob store settings in your config"})
	}
	if err := saveNow(cmd, a); err != nil {
		return err
	}
	printer.Success("attached %s (%d bytes) to %q\n", id, len(data), b.Name)
	return nil
}

func runMediaGet(cmd *cobra.Command, args []string) error {
	a, done, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer done()

	data, err := a.Registry.Media(cmd.Context(), args[0])
	if err != nil {
		return printer.Error("Media not found", err.Error(), nil)
	}
	if err := os.WriteFile(args[1], data, 0o644); err != nil {
		return err
	}
	printer.Success("wrote %s\n", args[1])
	return nil
}

func runMediaRm(cmd *cobra.Command, args []string) error {
	a, done, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer done()

	b, err := boardFlag(a, mediaBoard)
	if err != nil {
		return err
	}
	if err := a.Registry.DetachMedia(cmd.Context(), b.ID, args[0]); err != nil {
		return printer.Error("Cannot remove media", err.Error(), nil)
	}
	if err := saveNow(cmd, a); err != nil {
		return err
	}
	printer.Success("removed %s from %q\n", args[0], b.Name)
	return nil
}
