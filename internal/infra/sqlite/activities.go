package sqlite

import (
	"time"

	"github.com/mindscape-city/mindscape/internal/domain"
)

// ─── Activity Completion Repository ─────────────────────────────────────────

// InsertCompletion records a finished activity.
func (d *DB) InsertCompletion(c domain.ActivityCompletion) error {
	_, err := d.db.Exec(
		`INSERT INTO activity_completions (id, activity_id, reward_earned, completed_at)
		 VALUES (?, ?, ?, ?)`,
		c.ID, c.ActivityID, c.RewardEarned, c.CompletedAt.Unix(),
	)
	return err
}

// CompletionCountOn counts completions within the local calendar day of t.
func (d *DB) CompletionCountOn(t time.Time) (int, error) {
	start, end := dayBounds(t)
	var count int
	err := d.db.QueryRow(
		`SELECT COUNT(*) FROM activity_completions WHERE completed_at >= ? AND completed_at < ?`,
		start, end,
	).Scan(&count)
	return count, err
}

// ListCompletions returns the most recent completions, newest first.
func (d *DB) ListCompletions(limit int) ([]domain.ActivityCompletion, error) {
	rows, err := d.db.Query(
		`SELECT id, activity_id, reward_earned, completed_at
		 FROM activity_completions ORDER BY completed_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var completions []domain.ActivityCompletion
	for rows.Next() {
		var c domain.ActivityCompletion
		var completedAt int64
		if err := rows.Scan(&c.ID, &c.ActivityID, &c.RewardEarned, &completedAt); err != nil {
			return nil, err
		}
		c.CompletedAt = unixTime(completedAt)
		completions = append(completions, c)
	}
	return completions, rows.Err()
}

// ─── Offline Outbox ─────────────────────────────────────────────────────────

// EnqueuePendingCompletion stores a completion for later replay.
func (d *DB) EnqueuePendingCompletion(p domain.PendingCompletion) error {
	_, err := d.db.Exec(
		`INSERT INTO pending_completions (id, activity_id, item_name, item_type, rarity, queued_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.ActivityID, p.Reward.ItemName, p.Reward.ItemType, string(p.Reward.Rarity), p.QueuedAt.Unix(),
	)
	return err
}

// ListPendingCompletions returns queued completions oldest first.
func (d *DB) ListPendingCompletions() ([]domain.PendingCompletion, error) {
	rows, err := d.db.Query(
		`SELECT id, activity_id, item_name, item_type, rarity, queued_at
		 FROM pending_completions ORDER BY queued_at`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pending []domain.PendingCompletion
	for rows.Next() {
		var p domain.PendingCompletion
		var rarity string
		var queuedAt int64
		if err := rows.Scan(&p.ID, &p.ActivityID, &p.Reward.ItemName, &p.Reward.ItemType, &rarity, &queuedAt); err != nil {
			return nil, err
		}
		p.Reward.Rarity = domain.Rarity(rarity)
		p.QueuedAt = unixTime(queuedAt)
		pending = append(pending, p)
	}
	return pending, rows.Err()
}

// DeletePendingCompletion removes a replayed outbox row.
func (d *DB) DeletePendingCompletion(id string) error {
	_, err := d.db.Exec(`DELETE FROM pending_completions WHERE id = ?`, id)
	return err
}
