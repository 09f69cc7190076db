package notify

import (
	"log/slog"
	"strings"

	"github.com/mindscape-city/mindscape/internal/app/minigame"
	"github.com/mindscape-city/mindscape/internal/domain"
)

// Routes returned by the click router. The UI collaborator navigates there.
const (
	RouteActivities = "/activities"
	RouteStats      = "/stats"
)

// ClickRouter turns notification clicks into navigation or a snooze.
type ClickRouter struct {
	scheduler *Scheduler
	clock     minigame.Clock
	log       *slog.Logger
}

// NewClickRouter wires a router over the scheduler's notifier.
func NewClickRouter(scheduler *Scheduler, clock minigame.Clock, log *slog.Logger) *ClickRouter {
	return &ClickRouter{scheduler: scheduler, clock: clock, log: log.With("component", "clicks")}
}

// Handle resolves one click. It returns the route to navigate to, or an
// empty route when the click was consumed (snooze, dismiss).
func (r *ClickRouter) Handle(click domain.NotificationClick) (string, error) {
	switch click.Action {
	case "play", "open", "":
		// A bare body click opens the activity list.
		return RouteActivities, nil
	case "claim":
		return RouteStats, nil
	case "snooze":
		r.snooze(click.Tag)
		return "", nil
	default:
		r.log.Warn("unknown notification action", "action", click.Action)
		return RouteActivities, nil
	}
}

// snooze re-fires the break reminder for the tagged schedule after the
// snooze delay. One-shot: snoozing again restarts from the new click.
func (r *ClickRouter) snooze(tag string) {
	scheduleID := strings.TrimPrefix(tag, "break:")
	r.log.Info("reminder snoozed", "schedule", scheduleID)
	r.clock.AfterFunc(SnoozeDelay, func() {
		r.scheduler.FireSnoozed(scheduleID, r.clock.Now())
	})
}
