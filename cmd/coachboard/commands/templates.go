package commands

import (
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"coachboard/internal/printer"
	"coachboard/internal/template"
)

var (
	templatesJSON  bool
	templatesBoard string
	templatesMerge bool
)

var templatesCmd = &cobra.Command{
	Use:     "templates",
	Aliases: []string{"template"},
	Short:   "Built-in formations and layout files",
}

var templatesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List built-in formations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := template.List()
		if err != nil {
			return err
		}
		var rows [][]string
		for _, t := range list {
			rows = append(rows, []string{t.Name, strconv.Itoa(len(t.Entities)), t.Description})
		}
		printer.Table([]string{"NAME", "PLAYERS", "DESCRIPTION"}, rows)
		return nil
	},
}

var templatesShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print a formation as YAML or JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runTemplatesShow,
}

var templatesApplyCmd = &cobra.Command{
	Use:   "apply <name|file>",
	Short: "Put a formation or a layout file on a board",
	Long: `Replace a board's content with a built-in formation, or with a layout
file in YAML or JSON. With --merge the players and drawings are added
to what is already there.`,
	Args: cobra.ExactArgs(1),
	RunE: runTemplatesApply,
}

var templatesSaveCmd = &cobra.Command{
	Use:   "save <file>",
	Short: "Write a board's players and drawings to a layout file",
	Args:  cobra.ExactArgs(1),
	RunE:  runTemplatesSave,
}

func init() {
	templatesShowCmd.Flags().BoolVar(&templatesJSON, "json", false, "Output in JSON format")
	templatesSaveCmd.Flags().BoolVar(&templatesJSON, "json", false, "Write JSON instead of YAML")
	for _, c := range []*cobra.Command{templatesApplyCmd, templatesSaveCmd} {
		c.Flags().StringVar(&templatesBoard, "board", "", "board to use (default the current board)")
	}
	templatesApplyCmd.Flags().BoolVar(&templatesMerge, "merge", false, "add to the board instead of replacing it")
	templatesCmd.AddCommand(templatesListCmd, templatesShowCmd, templatesApplyCmd, templatesSaveCmd)
	rootCmd.AddCommand(templatesCmd)
}

func runTemplatesShow(cmd *cobra.Command, args []string) error {
	t, err := template.Get(args[0])
	if err != nil {
		return printer.Error("Unknown template", err.Error(), []string{"Run 'coachboard templates list'"})
	}
	var data []byte
	if templatesJSON {
		data, err = t.JSON()
	} else {
		data, err = t.YAML()
	}
	if err != nil {
		return err
	}
	printer.Info("%s\n", data)
	return nil
}

// loadTemplate resolves a built-in name first, then a file path.
func loadTemplate(ref string) (template.Template, error) {
	if t, err := template.Get(ref); err == nil {
		return t, nil
	}
	data, err := os.ReadFile(ref)
	if err != nil {
		return template.Template{}, printer.Error("Unknown template", "No built-in formation or readable file named "+ref, []string{
			"Run 'coachboard templates list'",
		})
	}
	t, err := template.Parse(data)
	if err != nil {
		return template.Template{}, printer.Error("Invalid layout file", err.Error(), nil)
	}
	return t, nil
}

func runTemplatesApply(cmd *cobra.Command, args []string) error {
	t, err := loadTemplate(args[0])
	if err != nil {
		return err
	}

	a, done, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer done()

	b, err := boardFlag(a, templatesBoard)
	if err != nil {
		return err
	}
	if templatesMerge {
		b.Merge(t.Entities, t.Annotations)
	} else {
		b.ReplaceAll(t.Entities, t.Annotations)
	}
	if err := saveNow(cmd, a); err != nil {
		return err
	}
	printer.Success("applied %d players to %q\n", len(t.Entities), b.Name)
	return nil
}

func runTemplatesSave(cmd *cobra.Command, args []string) error {
	a, done, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer done()

	b, err := boardFlag(a, templatesBoard)
	if err != nil {
		return err
	}
	t := template.FromBoard(b)
	var data []byte
	if templatesJSON {
		data, err = t.JSON()
	} else {
		data, err = t.YAML()
	}
	if err != nil {
		return err
	}
	if err := os.WriteFile(args[0], data, 0o644); err != nil {
		return err
	}
	printer.Success("saved %q to %s\n", b.Name, args[0])
	return nil
}
