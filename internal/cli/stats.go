package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mindscape-city/mindscape/internal/daemon"
)

func init() {
	rootCmd.AddCommand(statsCmd, claimCmd)
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show break stats and streak",
	RunE:  runStats,
}

var claimCmd = &cobra.Command{
	Use:   "claim",
	Short: "Claim today's daily reward",
	RunE:  runClaim,
}

func runStats(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	stats, err := d.DB.GetStats()
	if err != nil {
		return err
	}
	snap, err := d.Sessions.Snapshot()
	if err != nil {
		return err
	}

	fmt.Printf("Level %d  (%d total breaks)\n", snap.Level, stats.TotalBreaks)
	fmt.Printf("Streak: %d days\n", stats.StreakCount)
	fmt.Printf("Today: %d/%d breaks\n", snap.DailyActivityCount, snap.MaxDailyActivities)
	fmt.Printf("Collection: %d rare, %d legendary\n", stats.RareItemsCount, stats.LegendaryItemsCount)
	return nil
}

func runClaim(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	r, err := d.Rewards.Claim(time.Now())
	if err != nil {
		return err
	}
	fmt.Printf("Claimed: %s (%s)\n", r.Item, r.Rarity)
	return nil
}
