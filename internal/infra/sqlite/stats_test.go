package sqlite

import (
	"errors"
	"testing"
	"time"

	"github.com/mindscape-city/mindscape/internal/domain"
)

// ─── Stats ──────────────────────────────────────────────────────────────────

func TestGetStats_FirstUseIsZeroed(t *testing.T) {
	db := newTestDB(t)

	s, err := db.GetStats()
	if err != nil {
		t.Fatalf("GetStats() error: %v", err)
	}
	if s.StreakCount != 0 || s.TotalBreaks != 0 || !s.LastActivityDate.IsZero() {
		t.Errorf("fresh stats = %+v, want zero values", s)
	}

	// Second read hits the created row.
	if _, err := db.GetStats(); err != nil {
		t.Fatalf("second GetStats() error: %v", err)
	}
}

func TestSaveStats_RoundTrip(t *testing.T) {
	db := newTestDB(t)

	day := time.Date(2025, 4, 7, 0, 0, 0, 0, time.Local)
	in := domain.Stats{
		StreakCount:         6,
		TotalBreaks:         42,
		RareItemsCount:      3,
		LegendaryItemsCount: 1,
		LastActivityDate:    day,
	}
	if err := db.SaveStats(in); err != nil {
		t.Fatalf("SaveStats() error: %v", err)
	}

	got, err := db.GetStats()
	if err != nil {
		t.Fatalf("GetStats() error: %v", err)
	}
	if got.StreakCount != 6 || got.TotalBreaks != 42 || got.RareItemsCount != 3 || got.LegendaryItemsCount != 1 {
		t.Errorf("stats = %+v", got)
	}
	if !got.LastActivityDate.Equal(day) {
		t.Errorf("LastActivityDate = %v, want %v", got.LastActivityDate, day)
	}
}

func TestSaveStats_Overwrites(t *testing.T) {
	db := newTestDB(t)
	db.SaveStats(domain.Stats{StreakCount: 1, TotalBreaks: 1})
	db.SaveStats(domain.Stats{StreakCount: 2, TotalBreaks: 9})

	got, _ := db.GetStats()
	if got.StreakCount != 2 || got.TotalBreaks != 9 {
		t.Errorf("stats = %+v, want the second write", got)
	}
}

// ─── Daily Rewards ──────────────────────────────────────────────────────────

func TestInsertDailyReward_RoundTrip(t *testing.T) {
	db := newTestDB(t)

	r := domain.DailyReward{
		ID:         "r1",
		RewardDate: "2025-04-07",
		RewardType: "daily_login",
		Item:       "Golden Tree",
		Rarity:     domain.Rare,
		CreatedAt:  time.Now(),
	}
	if err := db.InsertDailyReward(r); err != nil {
		t.Fatalf("InsertDailyReward() error: %v", err)
	}

	got, err := db.GetDailyReward("2025-04-07", "daily_login")
	if err != nil {
		t.Fatalf("GetDailyReward() error: %v", err)
	}
	if got.Item != "Golden Tree" || got.Rarity != domain.Rare {
		t.Errorf("reward = %+v", got)
	}
}

func TestInsertDailyReward_SameDayRejected(t *testing.T) {
	db := newTestDB(t)
	r := domain.DailyReward{ID: "r1", RewardDate: "2025-04-07", RewardType: "daily_login", CreatedAt: time.Now()}
	if err := db.InsertDailyReward(r); err != nil {
		t.Fatalf("first insert error: %v", err)
	}

	r.ID = "r2"
	if err := db.InsertDailyReward(r); err == nil {
		t.Fatal("second claim for the same date should violate the unique index")
	}
}

func TestGetDailyReward_Missing(t *testing.T) {
	db := newTestDB(t)
	if _, err := db.GetDailyReward("2025-04-07", "daily_login"); !errors.Is(err, domain.ErrRewardNotFound) {
		t.Errorf("err = %v, want ErrRewardNotFound", err)
	}
}

func TestListRecentDailyRewards_NewestFirst(t *testing.T) {
	db := newTestDB(t)
	base := time.Date(2025, 4, 5, 9, 0, 0, 0, time.Local)
	for i, date := range []string{"2025-04-05", "2025-04-06", "2025-04-07"} {
		db.InsertDailyReward(domain.DailyReward{
			ID: date, RewardDate: date, RewardType: "daily_login",
			CreatedAt: base.AddDate(0, 0, i),
		})
	}

	list, err := db.ListRecentDailyRewards(2)
	if err != nil {
		t.Fatalf("ListRecentDailyRewards() error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("len = %d, want 2", len(list))
	}
	if list[0].RewardDate != "2025-04-07" || list[1].RewardDate != "2025-04-06" {
		t.Errorf("order = [%s %s], want newest first", list[0].RewardDate, list[1].RewardDate)
	}
}

// ─── User Settings ──────────────────────────────────────────────────────────

func TestGetUserSettings_WritesDefaultsOnFirstUse(t *testing.T) {
	db := newTestDB(t)

	s, err := db.GetUserSettings()
	if err != nil {
		t.Fatalf("GetUserSettings() error: %v", err)
	}
	if s != domain.DefaultUserSettings() {
		t.Errorf("settings = %+v, want defaults", s)
	}
}

func TestSaveUserSettings_RoundTrip(t *testing.T) {
	db := newTestDB(t)

	in := domain.UserSettings{
		NotificationsEnabled: false,
		MusicEnabled:         true,
		VoiceGuidanceEnabled: true,
		Volume:               35,
	}
	if err := db.SaveUserSettings(in); err != nil {
		t.Fatalf("SaveUserSettings() error: %v", err)
	}

	got, err := db.GetUserSettings()
	if err != nil {
		t.Fatalf("GetUserSettings() error: %v", err)
	}
	if got != in {
		t.Errorf("settings = %+v, want %+v", got, in)
	}
}
