package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure, no infrastructure dependency.

var (
	// User input errors, recovered locally, surfaced inline, never fatal.
	ErrEmptyIntention    = errors.New("intention text must not be empty")
	ErrIntentionTooLong  = errors.New("intention text exceeds 100 characters")
	ErrDailyLimitReached = errors.New("daily activity limit reached")
	ErrSessionActive     = errors.New("another activity session is already running")
	ErrNoActiveSession   = errors.New("no activity session is running")

	// Session state errors
	ErrSessionFinished  = errors.New("session already finished")
	ErrReleaseInFlight  = errors.New("lantern already released, cannot cancel")
	ErrUnknownActivity  = errors.New("unknown activity type")
	ErrActivityLocked   = errors.New("activity is locked at the current level")
	ErrRotationNotReady = errors.New("no daily rotation has been generated")

	// Reward errors
	ErrRewardClaimed  = errors.New("daily reward already claimed today")
	ErrRewardNotFound = errors.New("daily reward not found")

	// Store errors
	ErrScheduleNotFound     = errors.New("break schedule not found")
	ErrItemNotFound         = errors.New("city item not found")
	ErrNotificationNotFound = errors.New("notification not found")

	// Notification channel errors
	ErrPermissionDenied = errors.New("notification permission denied")
)
