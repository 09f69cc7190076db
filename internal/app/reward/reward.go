// Package reward grants the daily login reward and tracks the break streak.
package reward

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mindscape-city/mindscape/internal/domain"
	"github.com/mindscape-city/mindscape/internal/infra/metrics"
)

// DailyRewardType is the reward_type key for the login reward.
const DailyRewardType = "daily_login"

// Store is the persistence surface behind the reward service.
type Store interface {
	GetStats() (domain.Stats, error)
	InsertDailyReward(domain.DailyReward) error
	GetDailyReward(date, rewardType string) (domain.DailyReward, error)
	InsertCityItem(domain.CityItem) error
}

// Service claims one daily reward per local calendar day. Reward quality
// scales with the streak.
type Service struct {
	store Store
	log   *slog.Logger
}

// NewService wires a reward service.
func NewService(store Store, log *slog.Logger) *Service {
	return &Service{store: store, log: log.With("component", "reward")}
}

// rewardFor picks the reward tier for a streak length. Longer streaks climb
// the ladder.
func rewardFor(streak int) (string, domain.Rarity) {
	switch {
	case streak >= 7:
		return "Rainbow Bridge", domain.Legendary
	case streak >= 3:
		return "Golden Tree", domain.Rare
	default:
		return "Mindful Flower", domain.Common
	}
}

// Claim grants today's reward and adds it to the city inventory.
// A second claim on the same day returns ErrRewardClaimed.
func (s *Service) Claim(now time.Time) (domain.DailyReward, error) {
	date := now.Local().Format("2006-01-02")

	if _, err := s.store.GetDailyReward(date, DailyRewardType); err == nil {
		return domain.DailyReward{}, domain.ErrRewardClaimed
	} else if !errors.Is(err, domain.ErrRewardNotFound) {
		return domain.DailyReward{}, fmt.Errorf("check daily reward: %w", err)
	}

	stats, err := s.store.GetStats()
	if err != nil {
		return domain.DailyReward{}, fmt.Errorf("load stats: %w", err)
	}
	item, rarity := rewardFor(stats.StreakCount)

	r := domain.DailyReward{
		ID:         uuid.NewString(),
		RewardDate: date,
		RewardType: DailyRewardType,
		Item:       item,
		Rarity:     rarity,
		CreatedAt:  now,
	}
	if err := s.store.InsertDailyReward(r); err != nil {
		return domain.DailyReward{}, fmt.Errorf("record daily reward: %w", err)
	}
	if err := s.store.InsertCityItem(domain.CityItem{
		ID:        uuid.NewString(),
		ItemName:  item,
		ItemType:  "reward",
		Rarity:    rarity,
		CreatedAt: now,
	}); err != nil {
		return domain.DailyReward{}, fmt.Errorf("add reward to city: %w", err)
	}

	metrics.RewardsClaimed.WithLabelValues(string(rarity)).Inc()
	s.log.Info("daily reward claimed", "item", item, "rarity", string(rarity), "streak", stats.StreakCount)
	return r, nil
}

// ClaimedToday reports whether today's reward is already taken.
func (s *Service) ClaimedToday(now time.Time) (bool, error) {
	date := now.Local().Format("2006-01-02")
	_, err := s.store.GetDailyReward(date, DailyRewardType)
	if errors.Is(err, domain.ErrRewardNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
