package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"coachboard/internal/printer"
)

var (
	planMinutes int
	planNote    string
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Order boards into a timed practice plan",
}

var planListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the practice plan",
	Args:  cobra.NoArgs,
	RunE:  runPlanList,
}

var planAddCmd = &cobra.Command{
	Use:   "add <board>",
	Short: "Append a board to the plan",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlanAdd,
}

var planRmCmd = &cobra.Command{
	Use:   "rm <position>",
	Short: "Remove a plan item by its 1-based position",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlanRm,
}

var planMoveCmd = &cobra.Command{
	Use:   "move <from> <to>",
	Short: "Move a plan item to another position",
	Args:  cobra.ExactArgs(2),
	RunE:  runPlanMove,
}

func init() {
	planAddCmd.Flags().IntVarP(&planMinutes, "minutes", "m", 0, "time to spend on the board")
	planAddCmd.Flags().StringVarP(&planNote, "note", "n", "", "coaching note")
	planCmd.AddCommand(planListCmd, planAddCmd, planRmCmd, planMoveCmd)
	rootCmd.AddCommand(planCmd)
}

func runPlanList(cmd *cobra.Command, args []string) error {
	a, done, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer done()

	plan := a.Registry.Plan()
	if len(plan) == 0 {
		printer.Info("The practice plan is empty.\n\nRun 'coachboard plan add <board>' to start one.\n")
		return nil
	}
	rows := make([][]string, 0, len(plan))
	for i, item := range plan {
		name := "?"
		if b, err := a.Registry.Get(item.BoardID); err == nil {
			name = b.Name
		}
		rows = append(rows, []string{strconv.Itoa(i + 1), name, strconv.Itoa(item.Minutes), item.Note})
	}
	printer.Table([]string{"#", "BOARD", "MIN", "NOTE"}, rows)
	printer.Info("\nTotal: %d min\n", a.Registry.PlanMinutes())
	return nil
}

func runPlanAdd(cmd *cobra.Command, args []string) error {
	a, done, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer done()

	b, err := findBoard(a, args[0])
	if err != nil {
		return err
	}
	if err := a.Registry.AddPlanItem(b.ID, planNote, planMinutes); err != nil {
		return err
	}
	if err := saveNow(cmd, a); err != nil {
		return err
	}
	printer.Success("added %q to the plan (%d min total)\n", b.Name, a.Registry.PlanMinutes())
	return nil
}

func parsePosition(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid position %q", s)
	}
	return n - 1, nil
}

func runPlanRm(cmd *cobra.Command, args []string) error {
	i, err := parsePosition(args[0])
	if err != nil {
		return err
	}

	a, done, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer done()

	if err := a.Registry.RemovePlanItem(i); err != nil {
		return printer.Error("Cannot remove plan item", err.Error(), []string{"Run 'coachboard plan list'"})
	}
	if err := saveNow(cmd, a); err != nil {
		return err
	}
	printer.Success("removed plan item %d\n", i+1)
	return nil
}

func runPlanMove(cmd *cobra.Command, args []string) error {
	from, err := parsePosition(args[0])
	if err != nil {
		return err
	}
	to, err := parsePosition(args[1])
	if err != nil {
		return err
	}

	a, done, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer done()

	if err := a.Registry.MovePlanItem(from, to); err != nil {
		return printer.Error("Cannot move plan item", err.Error(), []string{"Run 'coachboard plan list'"})
	}
	if err := saveNow(cmd, a); err != nil {
		return err
	}
	printer.Success("moved plan item %d to %d\n", from+1, to+1)
	return nil
}
