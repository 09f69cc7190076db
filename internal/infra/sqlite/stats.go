package sqlite

import (
	"database/sql"
	"errors"
	"time"

	"github.com/mindscape-city/mindscape/internal/domain"
)

// ─── Stats Repository ───────────────────────────────────────────────────────

// GetStats returns the aggregate row, creating a zeroed one on first use.
func (d *DB) GetStats() (domain.Stats, error) {
	var s domain.Stats
	var lastDate string
	err := d.db.QueryRow(
		`SELECT streak_count, total_breaks, rare_items_count, legendary_items_count, last_activity_date
		 FROM stats WHERE id = 1`,
	).Scan(&s.StreakCount, &s.TotalBreaks, &s.RareItemsCount, &s.LegendaryItemsCount, &lastDate)
	if errors.Is(err, sql.ErrNoRows) {
		if _, err := d.db.Exec(`INSERT INTO stats (id) VALUES (1)`); err != nil {
			return domain.Stats{}, err
		}
		return domain.Stats{}, nil
	}
	if err != nil {
		return domain.Stats{}, err
	}
	if lastDate != "" {
		s.LastActivityDate, err = time.ParseInLocation("2006-01-02", lastDate, time.Local)
		if err != nil {
			return domain.Stats{}, err
		}
	}
	return s, nil
}

// SaveStats overwrites the aggregate row.
func (d *DB) SaveStats(s domain.Stats) error {
	lastDate := ""
	if !s.LastActivityDate.IsZero() {
		lastDate = s.LastActivityDate.Format("2006-01-02")
	}
	_, err := d.db.Exec(
		`INSERT INTO stats (id, streak_count, total_breaks, rare_items_count, legendary_items_count, last_activity_date)
		 VALUES (1, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   streak_count = excluded.streak_count,
		   total_breaks = excluded.total_breaks,
		   rare_items_count = excluded.rare_items_count,
		   legendary_items_count = excluded.legendary_items_count,
		   last_activity_date = excluded.last_activity_date`,
		s.StreakCount, s.TotalBreaks, s.RareItemsCount, s.LegendaryItemsCount, lastDate,
	)
	return err
}

// ─── Daily Reward Repository ────────────────────────────────────────────────

// InsertDailyReward records a claim. The unique index on (reward_date,
// reward_type) rejects a second claim for the same day.
func (d *DB) InsertDailyReward(r domain.DailyReward) error {
	_, err := d.db.Exec(
		`INSERT INTO daily_rewards (id, reward_date, reward_type, reward_item, reward_rarity, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, r.RewardDate, r.RewardType, r.Item, string(r.Rarity), r.CreatedAt.Unix(),
	)
	return err
}

// GetDailyReward fetches the claim for a date and type, if any.
func (d *DB) GetDailyReward(date, rewardType string) (domain.DailyReward, error) {
	var r domain.DailyReward
	var rarity string
	var createdAt int64
	err := d.db.QueryRow(
		`SELECT id, reward_date, reward_type, reward_item, reward_rarity, created_at
		 FROM daily_rewards WHERE reward_date = ? AND reward_type = ?`,
		date, rewardType,
	).Scan(&r.ID, &r.RewardDate, &r.RewardType, &r.Item, &rarity, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.DailyReward{}, domain.ErrRewardNotFound
	}
	if err != nil {
		return domain.DailyReward{}, err
	}
	r.Rarity = domain.Rarity(rarity)
	r.CreatedAt = unixTime(createdAt)
	return r, nil
}

// ListRecentDailyRewards returns the latest claims, newest first.
func (d *DB) ListRecentDailyRewards(limit int) ([]domain.DailyReward, error) {
	rows, err := d.db.Query(
		`SELECT id, reward_date, reward_type, reward_item, reward_rarity, created_at
		 FROM daily_rewards ORDER BY created_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rewards []domain.DailyReward
	for rows.Next() {
		var r domain.DailyReward
		var rarity string
		var createdAt int64
		if err := rows.Scan(&r.ID, &r.RewardDate, &r.RewardType, &r.Item, &rarity, &createdAt); err != nil {
			return nil, err
		}
		r.Rarity = domain.Rarity(rarity)
		r.CreatedAt = unixTime(createdAt)
		rewards = append(rewards, r)
	}
	return rewards, rows.Err()
}

// ─── User Settings Repository ───────────────────────────────────────────────

// GetUserSettings returns the settings row, writing defaults on first use.
func (d *DB) GetUserSettings() (domain.UserSettings, error) {
	var s domain.UserSettings
	err := d.db.QueryRow(
		`SELECT notifications_enabled, music_enabled, voice_guidance_enabled, volume
		 FROM user_settings WHERE id = 1`,
	).Scan(&s.NotificationsEnabled, &s.MusicEnabled, &s.VoiceGuidanceEnabled, &s.Volume)
	if errors.Is(err, sql.ErrNoRows) {
		defaults := domain.DefaultUserSettings()
		if err := d.SaveUserSettings(defaults); err != nil {
			return domain.UserSettings{}, err
		}
		return defaults, nil
	}
	return s, err
}

// SaveUserSettings overwrites the settings row.
func (d *DB) SaveUserSettings(s domain.UserSettings) error {
	_, err := d.db.Exec(
		`INSERT INTO user_settings (id, notifications_enabled, music_enabled, voice_guidance_enabled, volume)
		 VALUES (1, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   notifications_enabled = excluded.notifications_enabled,
		   music_enabled = excluded.music_enabled,
		   voice_guidance_enabled = excluded.voice_guidance_enabled,
		   volume = excluded.volume`,
		s.NotificationsEnabled, s.MusicEnabled, s.VoiceGuidanceEnabled, s.Volume,
	)
	return err
}
