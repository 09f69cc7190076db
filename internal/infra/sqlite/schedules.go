package sqlite

import (
	"database/sql"
	"errors"

	"github.com/mindscape-city/mindscape/internal/domain"
)

// ─── Break Schedule Repository ──────────────────────────────────────────────

// InsertSchedule stores a new break schedule.
func (d *DB) InsertSchedule(s domain.BreakSchedule) error {
	_, err := d.db.Exec(
		`INSERT INTO break_schedules (id, break_time, is_active, do_not_disturb_start, do_not_disturb_end, label, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.BreakTime, s.IsActive, s.DNDStart, s.DNDEnd, s.Label, s.CreatedAt.Unix(),
	)
	return err
}

// UpdateSchedule overwrites a schedule's mutable fields.
func (d *DB) UpdateSchedule(s domain.BreakSchedule) error {
	res, err := d.db.Exec(
		`UPDATE break_schedules
		 SET break_time = ?, is_active = ?, do_not_disturb_start = ?, do_not_disturb_end = ?, label = ?
		 WHERE id = ?`,
		s.BreakTime, s.IsActive, s.DNDStart, s.DNDEnd, s.Label, s.ID,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return domain.ErrScheduleNotFound
	}
	return nil
}

// DeleteSchedule removes a schedule.
func (d *DB) DeleteSchedule(id string) error {
	res, err := d.db.Exec(`DELETE FROM break_schedules WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return domain.ErrScheduleNotFound
	}
	return nil
}

// GetSchedule retrieves one schedule by id.
func (d *DB) GetSchedule(id string) (domain.BreakSchedule, error) {
	row := d.db.QueryRow(
		`SELECT id, break_time, is_active, do_not_disturb_start, do_not_disturb_end, label, created_at
		 FROM break_schedules WHERE id = ?`, id,
	)
	s, err := scanSchedule(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.BreakSchedule{}, domain.ErrScheduleNotFound
	}
	return s, err
}

// ListSchedules returns schedules ordered by break time. With activeOnly,
// inactive schedules are filtered out.
func (d *DB) ListSchedules(activeOnly bool) ([]domain.BreakSchedule, error) {
	query := `SELECT id, break_time, is_active, do_not_disturb_start, do_not_disturb_end, label, created_at
	          FROM break_schedules`
	if activeOnly {
		query += ` WHERE is_active = 1`
	}
	query += ` ORDER BY break_time`

	rows, err := d.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var schedules []domain.BreakSchedule
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, s)
	}
	return schedules, rows.Err()
}

func scanSchedule(s scanner) (domain.BreakSchedule, error) {
	var sched domain.BreakSchedule
	var createdAt int64
	err := s.Scan(&sched.ID, &sched.BreakTime, &sched.IsActive,
		&sched.DNDStart, &sched.DNDEnd, &sched.Label, &createdAt)
	if err != nil {
		return domain.BreakSchedule{}, err
	}
	sched.CreatedAt = unixTime(createdAt)
	return sched, nil
}
