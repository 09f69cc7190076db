package notify

import (
	"errors"
	"testing"
	"time"

	"github.com/mindscape-city/mindscape/internal/domain"
)

// logStore records notifications handed to the in-app channel.
type logStore struct {
	logged []domain.Notification
}

func (s *logStore) InsertNotification(n domain.Notification) (int64, error) {
	s.logged = append(s.logged, n)
	return int64(len(s.logged)), nil
}

// deniedNotifier models a channel without permission.
type deniedNotifier struct{ sends int }

func (n *deniedNotifier) Permission() domain.Permission { return domain.PermissionDenied }

func (n *deniedNotifier) Send(domain.Notification) error {
	n.sends++
	return domain.ErrPermissionDenied
}

func TestInAppNotifier_StampsCreatedAt(t *testing.T) {
	now := at("10:00")
	store := &logStore{}
	n := NewInAppNotifier(store, func() time.Time { return now })

	if err := n.Send(domain.Notification{Title: "Mindful Break"}); err != nil {
		t.Fatalf("Send() error: %v", err)
	}
	if len(store.logged) != 1 {
		t.Fatalf("logged %d notifications, want 1", len(store.logged))
	}
	if !store.logged[0].CreatedAt.Equal(now) {
		t.Errorf("CreatedAt = %v, want %v", store.logged[0].CreatedAt, now)
	}
}

func TestWithFallback_RoutesOnDeniedPermission(t *testing.T) {
	primary := &deniedNotifier{}
	fallback := &captureNotifier{}
	n := WithFallback(primary, fallback)

	if err := n.Send(domain.Notification{Title: "Mindful Break"}); err != nil {
		t.Fatalf("Send() error: %v", err)
	}
	if primary.sends != 0 {
		t.Error("primary was used despite denied permission")
	}
	if fallback.count() != 1 {
		t.Errorf("fallback got %d sends, want 1", fallback.count())
	}
	if n.Permission() != domain.PermissionGranted {
		t.Error("combined permission should report the fallback channel")
	}
}

func TestWithFallback_RoutesOnSendRefusal(t *testing.T) {
	// Permission looks granted but the send itself is refused.
	primary := &refusingNotifier{}
	fallback := &captureNotifier{}
	n := WithFallback(primary, fallback)

	if err := n.Send(domain.Notification{Title: "Mindful Break"}); err != nil {
		t.Fatalf("Send() error: %v", err)
	}
	if fallback.count() != 1 {
		t.Errorf("fallback got %d sends, want 1", fallback.count())
	}
}

func TestWithFallback_PropagatesOtherErrors(t *testing.T) {
	primary := &failingNotifier{err: errors.New("channel down")}
	fallback := &captureNotifier{}
	n := WithFallback(primary, fallback)

	if err := n.Send(domain.Notification{}); err == nil {
		t.Fatal("Send() should surface non-permission errors")
	}
	if fallback.count() != 0 {
		t.Error("fallback used for a non-permission failure")
	}
}

type refusingNotifier struct{}

func (refusingNotifier) Permission() domain.Permission  { return domain.PermissionGranted }
func (refusingNotifier) Send(domain.Notification) error { return domain.ErrPermissionDenied }

type failingNotifier struct{ err error }

func (n *failingNotifier) Permission() domain.Permission  { return domain.PermissionGranted }
func (n *failingNotifier) Send(domain.Notification) error { return n.err }
