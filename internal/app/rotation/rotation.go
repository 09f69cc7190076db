package rotation

import (
	"math/rand"
	"sync"

	"github.com/google/uuid"

	"github.com/mindscape-city/mindscape/internal/domain"
	"github.com/mindscape-city/mindscape/internal/infra/metrics"
)

// Selection policy constants.
const (
	minDaily = 3
	maxDaily = 4
)

// Engine generates the day's activity rotation from the template catalog.
// Randomness is injected so tests can supply a seeded source; production
// wiring passes an unseeded-equivalent source (time-seeded).
//
// The engine owns exactly one current rotation at a time. A rotation trigger
// (level change, season change, explicit refresh) discards the whole set and
// regenerates it, no merge or patch semantics.
type Engine struct {
	mu        sync.Mutex
	rng       *rand.Rand
	templates []domain.ActivityTemplate

	// Regeneration state. pool is the unlocked, already-seasonalized
	// template list the current rotation was drawn from; Refresh reshuffles
	// this pool rather than re-rolling skins, so skins stay stable within a
	// day.
	level   int
	season  domain.Season
	pool    []domain.ActivityTemplate
	current []domain.DailyActivity
}

// NewEngine creates a rotation engine over the given template catalog.
func NewEngine(rng *rand.Rand, templates []domain.ActivityTemplate) *Engine {
	return &Engine{rng: rng, templates: templates}
}

// Rotate builds a fresh daily rotation for the given level and season:
// unlock filter, per-template seasonal skin roll, uniform shuffle, then the
// first N entries with fresh ids and level-scaled difficulty.
func (e *Engine) Rotate(level int, season domain.Season) []domain.DailyActivity {
	e.mu.Lock()
	defer e.mu.Unlock()

	pool := make([]domain.ActivityTemplate, 0, len(e.templates))
	for _, tmpl := range e.templates {
		if tmpl.UnlockLevel > level {
			continue
		}
		// Seasonal skins are suppressed entirely during summer.
		if season != domain.Summer && e.rng.Float64() < SkinChance {
			tmpl = SeasonalVariant(tmpl, season)
		}
		pool = append(pool, tmpl)
	}

	e.level = level
	e.season = season
	e.pool = pool
	e.current = e.selectFromPoolLocked()

	metrics.RotationsGenerated.WithLabelValues(string(season)).Inc()
	metrics.RotationSize.Set(float64(len(e.current)))
	return e.current
}

// Refresh regenerates the rotation from the current pool without re-rolling
// seasonal skins. Returns ErrRotationNotReady before the first Rotate.
func (e *Engine) Refresh() ([]domain.DailyActivity, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.pool == nil {
		return nil, domain.ErrRotationNotReady
	}
	e.current = e.selectFromPoolLocked()
	return e.current, nil
}

// Current returns the rotation generated by the last trigger, or nil.
func (e *Engine) Current() []domain.DailyActivity {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

// Season returns the season the current rotation was generated for.
func (e *Engine) Season() domain.Season {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.season
}

// selectFromPoolLocked shuffles the pool and materializes the first N
// entries as identified daily activities.
func (e *Engine) selectFromPoolLocked() []domain.DailyActivity {
	shuffled := make([]domain.ActivityTemplate, len(e.pool))
	copy(shuffled, e.pool)
	e.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	n := dailyCount(e.level)
	if n > len(shuffled) {
		n = len(shuffled)
	}

	daily := make([]domain.DailyActivity, 0, n)
	for _, tmpl := range shuffled[:n] {
		daily = append(daily, domain.DailyActivity{
			ID:                  "daily_" + uuid.NewString(),
			ActivityTemplate:    tmpl,
			EffectiveDifficulty: ScaleDifficulty(tmpl.Difficulty, e.level),
		})
	}
	return daily
}

// dailyCount is the selection size policy: floor(level/3)+2 clamped to
// [3, 4]. Non-decreasing in level, capped at 4.
func dailyCount(level int) int {
	n := level/3 + 2
	if n < minDaily {
		n = minDaily
	}
	if n > maxDaily {
		n = maxDaily
	}
	return n
}

// ScaleDifficulty applies level-based difficulty scaling: below level 5
// everything is easy; below level 10 expert softens to medium; from level
// 10 the base difficulty stands.
func ScaleDifficulty(base domain.Difficulty, level int) domain.Difficulty {
	switch {
	case level < 5:
		return domain.Easy
	case level < 10:
		if base == domain.Expert {
			return domain.Medium
		}
		return base
	default:
		return base
	}
}

// NextUnlock returns the lowest-level template still locked at the given
// level, with the breaks needed to reach it. Returns nil when everything is
// unlocked.
func (e *Engine) NextUnlock(level int) *domain.UnlockPreview {
	var next *domain.ActivityTemplate
	for i := range e.templates {
		tmpl := &e.templates[i]
		if tmpl.UnlockLevel <= level {
			continue
		}
		if next == nil || tmpl.UnlockLevel < next.UnlockLevel {
			next = tmpl
		}
	}
	if next == nil {
		return nil
	}
	return &domain.UnlockPreview{
		Name:        next.Name,
		UnlockLevel: next.UnlockLevel,
		// Inverse of the leveling formula: 10 breaks per level.
		BreaksNeeded: (next.UnlockLevel - level) * 10,
	}
}
