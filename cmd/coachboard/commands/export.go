package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	"coachboard/internal/board"
	"coachboard/internal/printer"
	"coachboard/internal/render"
	"coachboard/internal/tui"
)

var (
	exportFormat  string
	exportOut     string
	exportScale   float64
	exportNoField bool
	exportHide    []string
	exportWidth   int
	exportHeight  int
)

var exportCmd = &cobra.Command{
	Use:   "export [board]",
	Short: "Export a board as a PNG image or a text picture",
	Long: `Export a board, the current one by default.

  png  full-resolution image of the field, players and drawings
  txt  the terminal rendering, one line per row`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "png", "output format: png or txt")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default <board name>.<format> in the export dir)")
	exportCmd.Flags().Float64Var(&exportScale, "scale", 1, "png pixel scale")
	exportCmd.Flags().BoolVar(&exportNoField, "no-field", false, "png on a white background instead of the field")
	exportCmd.Flags().StringSliceVar(&exportHide, "hide", nil, "layers to leave out")
	exportCmd.Flags().IntVar(&exportWidth, "width", 150, "txt width in columns")
	exportCmd.Flags().IntVar(&exportHeight, "height", 44, "txt height in rows")
	rootCmd.AddCommand(exportCmd)
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// fileName turns a board name into a file name.
func fileName(name, ext string) string {
	base := strings.Trim(unsafeName.ReplaceAllString(name, "-"), "-")
	if base == "" {
		base = "board"
	}
	return base + ext
}

func runExport(cmd *cobra.Command, args []string) error {
	format := strings.ToLower(exportFormat)
	if format != "png" && format != "txt" {
		return fmt.Errorf("unknown format %q: use png or txt", exportFormat)
	}

	a, done, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer done()

	ref := ""
	if len(args) == 1 {
		ref = args[0]
	}
	b, err := boardFlag(a, ref)
	if err != nil {
		return err
	}
	ws := a.Workspace
	if err := ws.SwitchBoard(b.ID); err != nil {
		return err
	}
	for _, l := range exportHide {
		ws.Engine().Visibility.Set(board.Layer(l), false)
	}

	path := exportOut
	if path == "" {
		path, err = cfg.ExportPath(fileName(b.Name, "."+format))
		if err != nil {
			return err
		}
	}

	scene := ws.Scene()
	if format == "png" {
		err = render.SavePNG(path, scene, render.Options{Scale: exportScale, NoField: exportNoField, Empty: true})
	} else {
		lines := tui.Render(scene, exportWidth, exportHeight)
		for i := range lines {
			lines[i] = strings.TrimRight(lines[i], " ")
		}
		err = os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644)
	}
	if err != nil {
		return fmt.Errorf("export %s: %w", filepath.Base(path), err)
	}
	printer.Success("exported %q to %s\n", b.Name, path)
	return nil
}
