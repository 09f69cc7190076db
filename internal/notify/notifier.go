// Package notify schedules break reminders and dispatches notifications.
package notify

import (
	"errors"
	"fmt"
	"time"

	"github.com/mindscape-city/mindscape/internal/domain"
)

// Notifier delivers one notification through a channel collaborator.
type Notifier interface {
	// Permission reports whether the channel may be used.
	Permission() domain.Permission
	// Send delivers the notification. Returns ErrPermissionDenied when the
	// channel refuses.
	Send(domain.Notification) error
}

// LogStore is the persistence behind the in-app channel.
type LogStore interface {
	InsertNotification(domain.Notification) (int64, error)
}

// InAppNotifier writes notifications to the local log for the UI to drain.
// It never refuses.
type InAppNotifier struct {
	store LogStore
	now   func() time.Time
}

// NewInAppNotifier returns the fallback channel over the given store.
func NewInAppNotifier(store LogStore, now func() time.Time) *InAppNotifier {
	return &InAppNotifier{store: store, now: now}
}

func (n *InAppNotifier) Permission() domain.Permission { return domain.PermissionGranted }

func (n *InAppNotifier) Send(msg domain.Notification) error {
	msg.CreatedAt = n.now()
	if _, err := n.store.InsertNotification(msg); err != nil {
		return fmt.Errorf("log notification: %w", err)
	}
	return nil
}

// fallbackNotifier tries the primary channel and falls back when it refuses.
type fallbackNotifier struct {
	primary  Notifier
	fallback Notifier
}

// WithFallback wraps a primary channel so that a permission refusal routes
// the notification to the fallback instead of dropping it.
func WithFallback(primary, fallback Notifier) Notifier {
	return &fallbackNotifier{primary: primary, fallback: fallback}
}

func (f *fallbackNotifier) Permission() domain.Permission {
	if f.primary.Permission() == domain.PermissionGranted {
		return domain.PermissionGranted
	}
	return f.fallback.Permission()
}

func (f *fallbackNotifier) Send(msg domain.Notification) error {
	if f.primary.Permission() != domain.PermissionGranted {
		return f.fallback.Send(msg)
	}
	err := f.primary.Send(msg)
	if errors.Is(err, domain.ErrPermissionDenied) {
		return f.fallback.Send(msg)
	}
	return err
}
