package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/mindscape-city/mindscape/internal/domain"
)

// ─── In-App Notification Log ────────────────────────────────────────────────
// Fallback channel: when the system notifier refuses permission the daemon
// writes here and the UI drains unshown rows.

// InsertNotification appends to the log and returns the assigned id.
func (d *DB) InsertNotification(n domain.Notification) (int64, error) {
	actions, err := json.Marshal(n.Actions)
	if err != nil {
		return 0, err
	}
	res, err := d.db.Exec(
		`INSERT INTO notifications (title, body, tag, actions, created_at, shown)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		n.Title, n.Body, n.Tag, string(actions), n.CreatedAt.Unix(), n.Shown,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListUnshownNotifications returns rows not yet surfaced, oldest first.
func (d *DB) ListUnshownNotifications() ([]domain.Notification, error) {
	rows, err := d.db.Query(
		`SELECT id, title, body, tag, actions, created_at, shown
		 FROM notifications WHERE shown = 0 ORDER BY created_at`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifs []domain.Notification
	for rows.Next() {
		var n domain.Notification
		var actions string
		var createdAt int64
		if err := rows.Scan(&n.ID, &n.Title, &n.Body, &n.Tag, &actions, &createdAt, &n.Shown); err != nil {
			return nil, err
		}
		if actions != "" && actions != "null" {
			if err := json.Unmarshal([]byte(actions), &n.Actions); err != nil {
				return nil, err
			}
		}
		n.CreatedAt = unixTime(createdAt)
		notifs = append(notifs, n)
	}
	return notifs, rows.Err()
}

// LatestNotificationByTag returns the newest log row whose tag starts with
// the given prefix, or ErrNotificationNotFound.
func (d *DB) LatestNotificationByTag(tagPrefix string) (domain.Notification, error) {
	var n domain.Notification
	var actions string
	var createdAt int64
	err := d.db.QueryRow(
		`SELECT id, title, body, tag, actions, created_at, shown
		 FROM notifications WHERE tag LIKE ? || '%' ORDER BY id DESC LIMIT 1`,
		tagPrefix,
	).Scan(&n.ID, &n.Title, &n.Body, &n.Tag, &actions, &createdAt, &n.Shown)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Notification{}, domain.ErrNotificationNotFound
	}
	if err != nil {
		return domain.Notification{}, err
	}
	if actions != "" && actions != "null" {
		if err := json.Unmarshal([]byte(actions), &n.Actions); err != nil {
			return domain.Notification{}, err
		}
	}
	n.CreatedAt = unixTime(createdAt)
	return n, nil
}

// MarkNotificationShown flips the shown flag for one row.
func (d *DB) MarkNotificationShown(id int64) error {
	_, err := d.db.Exec(`UPDATE notifications SET shown = 1 WHERE id = ?`, id)
	return err
}
