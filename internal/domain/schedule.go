package domain

import (
	"strconv"
	"strings"
	"time"
)

// ─── Break Schedules ────────────────────────────────────────────────────────

// BreakSchedule is a user-owned reminder slot. The notification scheduler
// consumes these read-only; CRUD happens through the API/CLI.
type BreakSchedule struct {
	ID        string    `json:"id"`
	BreakTime string    `json:"break_time"` // "HH:MM", local
	IsActive  bool      `json:"is_active"`
	DNDStart  string    `json:"do_not_disturb_start,omitempty"` // "HH:MM" or ""
	DNDEnd    string    `json:"do_not_disturb_end,omitempty"`   // "HH:MM" or ""
	Label     string    `json:"label,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// InDoNotDisturb reports whether now falls inside the schedule's DND window.
// A daytime window is half-open: the start minute suppresses, the end minute
// does not. If either bound is unset the window never suppresses. A start
// later than the end is an overnight window (e.g. 22:00 to 06:00) wrapping
// midnight; there the end minute still suppresses, so quiet hours release
// one minute after the stated end.
func (s BreakSchedule) InDoNotDisturb(now time.Time) bool {
	if s.DNDStart == "" || s.DNDEnd == "" {
		return false
	}

	cur := now.Hour()*60 + now.Minute()
	start := minutesOfDay(s.DNDStart)
	end := minutesOfDay(s.DNDEnd)

	if start > end {
		// Overnight window
		return cur >= start || cur <= end
	}
	return cur >= start && cur < end
}

// minutesOfDay parses "HH:MM" into minutes since midnight.
// Malformed input parses as 0.
func minutesOfDay(s string) int {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0
	}
	h, _ := strconv.Atoi(parts[0])
	m, _ := strconv.Atoi(parts[1])
	return h*60 + m
}

// ─── Notifications ──────────────────────────────────────────────────────────

// Permission is the notification channel permission state.
type Permission string

const (
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
	PermissionDefault Permission = "default"
)

// NotificationAction is one tappable action attached to a notification.
type NotificationAction struct {
	Action string `json:"action"`
	Title  string `json:"title"`
}

// Notification is a user-facing message dispatched through the channel
// collaborator (OS notification or the in-app fallback).
type Notification struct {
	ID        int64                `json:"id"`
	Title     string               `json:"title"`
	Body      string               `json:"body"`
	Tag       string               `json:"tag"`
	Actions   []NotificationAction `json:"actions,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
	Shown     bool                 `json:"shown"`
}

// NotificationClick is the inbound click event from the channel collaborator.
type NotificationClick struct {
	Action string `json:"action"`
	Tag    string `json:"tag"`
}

// UserSettings mirrors the notification-relevant settings row.
type UserSettings struct {
	NotificationsEnabled bool `json:"notifications_enabled"`
	MusicEnabled         bool `json:"music_enabled"`
	VoiceGuidanceEnabled bool `json:"voice_guidance_enabled"`
	Volume               int  `json:"volume"`
}

// DefaultUserSettings returns the row written for a fresh profile.
func DefaultUserSettings() UserSettings {
	return UserSettings{
		NotificationsEnabled: true,
		MusicEnabled:         true,
		VoiceGuidanceEnabled: false,
		Volume:               70,
	}
}
