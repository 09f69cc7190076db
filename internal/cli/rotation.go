package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/mindscape-city/mindscape/internal/app/rotation"
	"github.com/mindscape-city/mindscape/internal/daemon"
	"github.com/mindscape-city/mindscape/internal/domain"
)

func init() {
	rotationCmd.Flags().BoolVar(&rotationRefresh, "refresh", false, "Reshuffle today's rotation")
	rootCmd.AddCommand(rotationCmd)
}

var rotationRefresh bool

var rotationCmd = &cobra.Command{
	Use:     "rotation",
	Aliases: []string{"activities"},
	Short:   "Show today's activity rotation",
	RunE:    runRotation,
}

func runRotation(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	snap, err := d.Sessions.Snapshot()
	if err != nil {
		return err
	}

	season := rotation.SeasonFor(time.Now())
	activities := d.Rotations.Rotate(snap.Level, season)
	if rotationRefresh {
		activities, err = d.Rotations.Refresh()
		if err != nil {
			return err
		}
	}

	fmt.Printf("Season: %s  Level: %d  Today: %d/%d breaks\n\n",
		season, snap.Level, snap.DailyActivityCount, snap.MaxDailyActivities)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ACTIVITY\tDIFFICULTY\tDURATION\tREWARD")
	for _, a := range activities {
		name := a.Name
		if a.SeasonalTag != "" {
			name += " *"
		}
		fmt.Fprintf(w, "%s\t%s\t%dm\t%s (%s)\n",
			name, a.EffectiveDifficulty, a.DurationMinutes, a.Reward.ItemName, a.Reward.Rarity)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if next := d.Rotations.NextUnlock(snap.Level); next != nil {
		fmt.Printf("\nNext unlock: %s at level %d (%d more breaks)\n",
			next.Name, next.UnlockLevel, next.BreaksNeeded)
	}
	printSeasonalHint(activities)
	return nil
}

func printSeasonalHint(activities []domain.DailyActivity) {
	for _, a := range activities {
		if a.SeasonalTag != "" {
			fmt.Println("* seasonal variant")
			return
		}
	}
}
