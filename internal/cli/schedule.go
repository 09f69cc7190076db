package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mindscape-city/mindscape/internal/daemon"
	"github.com/mindscape-city/mindscape/internal/domain"
)

func init() {
	scheduleAddCmd.Flags().StringVar(&scheduleDNDStart, "dnd-start", "", "Do-not-disturb window start (HH:MM)")
	scheduleAddCmd.Flags().StringVar(&scheduleDNDEnd, "dnd-end", "", "Do-not-disturb window end (HH:MM)")
	scheduleAddCmd.Flags().StringVar(&scheduleLabel, "label", "", "Schedule label")
	scheduleCmd.AddCommand(scheduleAddCmd, scheduleListCmd, scheduleRmCmd)
	rootCmd.AddCommand(scheduleCmd)
}

var (
	scheduleDNDStart string
	scheduleDNDEnd   string
	scheduleLabel    string
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Manage break schedules",
}

var scheduleAddCmd = &cobra.Command{
	Use:   "add <HH:MM>",
	Short: "Add a break schedule",
	Args:  cobra.ExactArgs(1),
	RunE:  runScheduleAdd,
}

var scheduleListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List break schedules",
	RunE:    runScheduleList,
}

var scheduleRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Remove a break schedule",
	Args:  cobra.ExactArgs(1),
	RunE:  runScheduleRm,
}

func runScheduleAdd(cmd *cobra.Command, args []string) error {
	if _, err := time.Parse("15:04", args[0]); err != nil {
		return fmt.Errorf("break time must be HH:MM: %w", err)
	}

	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	sched := domain.BreakSchedule{
		ID:        uuid.NewString(),
		BreakTime: args[0],
		IsActive:  true,
		DNDStart:  scheduleDNDStart,
		DNDEnd:    scheduleDNDEnd,
		Label:     scheduleLabel,
		CreatedAt: time.Now(),
	}
	if err := d.DB.InsertSchedule(sched); err != nil {
		return err
	}
	fmt.Printf("Schedule %s added for %s\n", sched.ID, sched.BreakTime)
	return nil
}

func runScheduleList(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	schedules, err := d.DB.ListSchedules(false)
	if err != nil {
		return err
	}
	if len(schedules) == 0 {
		fmt.Println("No schedules. Run 'mindscape schedule add <HH:MM>' to create one.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tACTIVE\tDND\tLABEL")
	for _, s := range schedules {
		dnd := "-"
		if s.DNDStart != "" && s.DNDEnd != "" {
			dnd = s.DNDStart + "-" + s.DNDEnd
		}
		fmt.Fprintf(w, "%s\t%s\t%t\t%s\t%s\n", s.ID, s.BreakTime, s.IsActive, dnd, s.Label)
	}
	return w.Flush()
}

func runScheduleRm(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	if err := d.DB.DeleteSchedule(args[0]); err != nil {
		return err
	}
	fmt.Println("Schedule removed.")
	return nil
}
