// Package rotation derives the day's playable activity set: season
// resolution, seasonal skins, unlock gating, difficulty scaling and the
// daily selection policy.
package rotation

import (
	"time"

	"github.com/mindscape-city/mindscape/internal/domain"
)

// SeasonFor maps a calendar date to its season by fixed month ranges:
// Mar–May spring, Jun–Aug summer, Sep–Nov autumn, Dec–Feb winter.
func SeasonFor(t time.Time) domain.Season {
	switch m := t.Month(); {
	case m >= time.March && m <= time.May:
		return domain.Spring
	case m >= time.June && m <= time.August:
		return domain.Summer
	case m >= time.September && m <= time.November:
		return domain.Autumn
	default:
		return domain.Winter
	}
}
