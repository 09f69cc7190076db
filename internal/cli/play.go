package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mindscape-city/mindscape/internal/app/minigame"
	"github.com/mindscape-city/mindscape/internal/app/rotation"
	"github.com/mindscape-city/mindscape/internal/app/session"
	"github.com/mindscape-city/mindscape/internal/daemon"
	"github.com/mindscape-city/mindscape/internal/domain"
)

func init() {
	playCmd.Flags().StringVar(&playIntention, "intention", "", "Intention text for the lantern release")
	rootCmd.AddCommand(playCmd)
}

var playIntention string

var playCmd = &cobra.Command{
	Use:   "play <activity-type>",
	Short: "Play an activity from today's rotation",
	Long: `Play runs one mindful activity in the terminal. The activity must be in
today's rotation; run 'mindscape rotation' to see it.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlay,
}

func runPlay(cmd *cobra.Command, args []string) error {
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

	var activity *domain.DailyActivity
	for _, a := range activities {
		if a.Type == args[0] {
			activity = &a
			break
		}
	}
	if activity == nil {
		return fmt.Errorf("%w: %s is not in today's rotation", domain.ErrUnknownActivity, args[0])
	}

	sess, err := d.Sessions.Start(*activity, season)
	if errors.Is(err, domain.ErrDailyLimitReached) {
		fmt.Println(session.LimitMessage)
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Printf("Playing %s (%s, %dm)\n", activity.Name, activity.EffectiveDifficulty, activity.DurationMinutes)

	switch {
	case sess.CloudCatcher() != nil:
		playClouds(sess)
	case sess.LanternRelease() != nil:
		if err := sess.LanternRelease().Release(playIntention); err != nil {
			_ = d.Sessions.Cancel()
			return err
		}
		fmt.Println("Lantern rising...")
	case sess.GardenBloom() != nil:
		fmt.Println("Breathe with the garden: in 4s, hold 2s, out 6s.")
	default:
		fmt.Println("Take your mindful moment, then press Enter.")
		fmt.Scanln()
		if err := sess.CompleteManually(); err != nil {
			return err
		}
	}

	for !sess.Done() {
		time.Sleep(200 * time.Millisecond)
	}
	fmt.Printf("Done. Earned: %s (%s)\n", activity.Reward.ItemName, activity.Reward.Rarity)
	return nil
}

// playClouds catches one cloud per second until the round ends.
func playClouds(sess *minigame.Session) {
	game := sess.CloudCatcher()
	for i := 0; !sess.Done(); i++ {
		if game.Catch(i) {
			fmt.Printf("Caught cloud %d\n", i)
		}
		time.Sleep(time.Second)
	}
}
