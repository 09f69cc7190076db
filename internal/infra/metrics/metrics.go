// Package metrics provides Prometheus metrics for Mindscape.
// Counters and gauges for rotations, sessions, notifications, and rewards.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Rotation ───────────────────────────────────────────────────────────────

// RotationsGenerated tracks daily rotation generations by season.
var RotationsGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "mindscape",
	Name:      "rotations_generated_total",
	Help:      "Total daily rotations generated.",
}, []string{"season"})

// RotationSize tracks the activity count of the latest rotation.
var RotationSize = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "mindscape",
	Name:      "rotation_size",
	Help:      "Number of activities in the current rotation.",
})

// ─── Sessions ───────────────────────────────────────────────────────────────

// SessionsStarted tracks started activity sessions by type.
var SessionsStarted = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "mindscape",
	Name:      "sessions_started_total",
	Help:      "Total activity sessions started.",
}, []string{"type"})

// SessionsCompleted tracks completed sessions by type.
var SessionsCompleted = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "mindscape",
	Name:      "sessions_completed_total",
	Help:      "Total activity sessions completed.",
}, []string{"type"})

// SessionsTimedOut tracks sessions ended by the outer timer.
var SessionsTimedOut = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "mindscape",
	Name:      "sessions_timed_out_total",
	Help:      "Total sessions ended by the activity timer.",
}, []string{"type"})

// SessionsRefused tracks starts refused at the daily limit.
var SessionsRefused = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "mindscape",
	Name:      "sessions_refused_total",
	Help:      "Total session starts refused at the daily limit.",
})

// ─── Notifications ──────────────────────────────────────────────────────────

// NotificationsSent tracks delivered notifications by tag.
var NotificationsSent = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "mindscape",
	Name:      "notifications_sent_total",
	Help:      "Total notifications delivered.",
}, []string{"tag"})

// NotificationsSuppressed tracks reminders dropped by do-not-disturb.
var NotificationsSuppressed = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "mindscape",
	Name:      "notifications_suppressed_total",
	Help:      "Total reminders suppressed by a do-not-disturb window.",
})

// ─── Rewards ────────────────────────────────────────────────────────────────

// RewardsClaimed tracks daily reward claims by rarity.
var RewardsClaimed = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "mindscape",
	Name:      "rewards_claimed_total",
	Help:      "Total daily rewards claimed.",
}, []string{"rarity"})

// StreakLength tracks the current consecutive-day streak.
var StreakLength = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "mindscape",
	Name:      "streak_days",
	Help:      "Current consecutive-day break streak.",
})

// ─── Outbox ─────────────────────────────────────────────────────────────────

// OutboxDepth tracks queued offline completions awaiting replay.
var OutboxDepth = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "mindscape",
	Name:      "outbox_pending",
	Help:      "Offline completions queued for replay.",
})

// OutboxReplayed tracks completions successfully replayed.
var OutboxReplayed = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "mindscape",
	Name:      "outbox_replayed_total",
	Help:      "Total offline completions replayed.",
})
