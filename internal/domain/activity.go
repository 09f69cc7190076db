// Package domain holds the Mindscape domain types.
// Pure data and small derivations, no infrastructure dependency.
package domain

import "time"

// ─── Season ─────────────────────────────────────────────────────────────────

// Season tags a calendar quarter. Seasonal variants and the city scene key
// off this value.
type Season string

const (
	Spring Season = "spring"
	Summer Season = "summer"
	Autumn Season = "autumn"
	Winter Season = "winter"
)

// ─── Difficulty & Rarity ────────────────────────────────────────────────────

// Difficulty grades an activity. Effective difficulty may differ from the
// template's base difficulty after level scaling.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Expert Difficulty = "expert"
)

// Rarity is the reward tier: common < rare < legendary.
type Rarity string

const (
	Common    Rarity = "common"
	Rare      Rarity = "rare"
	Legendary Rarity = "legendary"
)

// ─── Activity Templates ─────────────────────────────────────────────────────

// Reward is the city item granted for completing an activity.
type Reward struct {
	ItemName string `json:"item_name"`
	Rarity   Rarity `json:"rarity"`
	ItemType string `json:"type"`
}

// ActivityTemplate is an immutable catalog entry. Type is the unique key.
type ActivityTemplate struct {
	Type            string     `json:"type"`
	Name            string     `json:"name"`
	Description     string     `json:"description"`
	DurationMinutes int        `json:"duration"`
	Difficulty      Difficulty `json:"difficulty"`
	Reward          Reward     `json:"reward"`
	UnlockLevel     int        `json:"unlock_level"`
	SeasonalTag     Season     `json:"seasonal_variant,omitempty"`
}

// IsSeasonal reports whether this template carries a seasonal skin.
func (t ActivityTemplate) IsSeasonal() bool { return t.SeasonalTag != "" }

// DailyActivity is a materialized, identified instance of a template for
// today's rotation. Immutable once generated; the whole set is discarded and
// regenerated on the next rotation trigger.
type DailyActivity struct {
	ID string `json:"id"`
	ActivityTemplate
	// EffectiveDifficulty is the base difficulty after level scaling.
	EffectiveDifficulty Difficulty `json:"effective_difficulty"`
}

// UnlockPreview describes the next locked template above the user's level.
type UnlockPreview struct {
	Name         string `json:"name"`
	UnlockLevel  int    `json:"level"`
	BreaksNeeded int    `json:"breaks_needed"`
}

// ─── Progress ───────────────────────────────────────────────────────────────

// LevelForBreaks derives the user level from lifetime completed breaks.
// Every 10 breaks is one level, starting at level 1.
func LevelForBreaks(totalBreaks int) int {
	return totalBreaks/10 + 1
}

// ProgressSnapshot is the per-user state the rotation and session layers
// need. Recomputed from the stats store, never cached authoritatively.
type ProgressSnapshot struct {
	Level              int `json:"level"`
	TotalBreaks        int `json:"total_breaks"`
	DailyActivityCount int `json:"daily_activity_count"`
	MaxDailyActivities int `json:"max_daily_activities"`
}

// CanPlay reports whether another activity may be started today.
func (p ProgressSnapshot) CanPlay() bool {
	return p.DailyActivityCount < p.MaxDailyActivities
}

// Stats mirrors the aggregate stats row.
type Stats struct {
	StreakCount         int       `json:"streak_count"`
	TotalBreaks         int       `json:"total_breaks"`
	RareItemsCount      int       `json:"rare_items_count"`
	LegendaryItemsCount int       `json:"legendary_items_count"`
	LastActivityDate    time.Time `json:"last_activity_date"` // zero if never
}

// ─── Completions & Rewards ──────────────────────────────────────────────────

// CompletionResult is the transient payload a mini-activity emits exactly
// once. Consumed by the session controller then discarded.
type CompletionResult struct {
	ActivityID  string `json:"activity_id"`
	Completed   bool   `json:"completed"`
	Timeout     bool   `json:"timeout,omitempty"`
	Score       int    `json:"score,omitempty"`
	Cycles      int    `json:"cycles,omitempty"`
	Intention   string `json:"intention,omitempty"`
	Reward      Reward `json:"reward"`
	SeasonBonus bool   `json:"season_bonus"`
}

// ActivityCompletion is the persisted completion record.
type ActivityCompletion struct {
	ID           string    `json:"id"`
	ActivityID   string    `json:"activity_id"`
	RewardEarned string    `json:"reward_earned"`
	CompletedAt  time.Time `json:"completed_at"`
}

// PendingCompletion is an outbox row: a completion captured while the data
// collaborator was unreachable, replayed at-least-once when it returns.
type PendingCompletion struct {
	ID         string    `json:"id"`
	ActivityID string    `json:"activity_id"`
	Reward     Reward    `json:"reward"`
	QueuedAt   time.Time `json:"queued_at"`
}

// DailyReward records one daily claim. RewardType distinguishes the login
// reward from future reward kinds.
type DailyReward struct {
	ID         string    `json:"id"`
	RewardDate string    `json:"reward_date"` // YYYY-MM-DD, local
	RewardType string    `json:"reward_type"`
	Item       string    `json:"reward_item"`
	Rarity     Rarity    `json:"reward_rarity"`
	CreatedAt  time.Time `json:"created_at"`
}
