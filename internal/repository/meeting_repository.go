package repository

import (
	"context"
	"database/sql"
	"fmt"

	"meetings-api/internal/domain/meeting"
	"meetings-api/pkg/database"
	apperrors "meetings-api/pkg/errors"
)

type SQLMeetingRepository struct {
	db      DBTX
	dialect database.Dialect
}

func NewMeetingRepository(db DBTX, dialect database.Dialect) MeetingRepository {
	return &SQLMeetingRepository{db: db, dialect: dialect}
}

const meetingColumns = `id, agenda, description, status, date, start_time, meeting_url, owner_id, created_at`

// Create inserts m and fills in its generated ID. OwnerID and CreatedAt must
// already be set by the caller.
func (r *SQLMeetingRepository) Create(ctx context.Context, m *meeting.Meeting) error {
	err := r.db.QueryRowContext(ctx, rebind(r.dialect, `
        INSERT INTO meetings (agenda, description, status, date, start_time, meeting_url, owner_id, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
        RETURNING id
    `),
		m.Agenda,
		m.Description,
		string(m.Status),
		m.Date,
		m.StartTime,
		m.MeetingURL,
		m.OwnerID,
		m.CreatedAt,
	).Scan(&m.ID)
	if err != nil {
		return fmt.Errorf("insert meeting: %w", err)
	}
	return nil
}

func (r *SQLMeetingRepository) GetByID(ctx context.Context, id int64) (meeting.Meeting, error) {
	rows, err := r.db.QueryContext(ctx, rebind(r.dialect,
		`SELECT `+meetingColumns+` FROM meetings WHERE id = ?`), id)
	if err != nil {
		return meeting.Meeting{}, fmt.Errorf("get meeting: %w", err)
	}
	items, err := scanMeetings(rows)
	if err != nil {
		return meeting.Meeting{}, err
	}
	if len(items) == 0 {
		return meeting.Meeting{}, apperrors.ErrNotFound
	}
	return items[0], nil
}

func (r *SQLMeetingRepository) List(ctx context.Context) ([]meeting.Meeting, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+meetingColumns+` FROM meetings ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list meetings: %w", err)
	}
	return scanMeetings(rows)
}

func (r *SQLMeetingRepository) ListByOwner(ctx context.Context, ownerID int64) ([]meeting.Meeting, error) {
	rows, err := r.db.QueryContext(ctx, rebind(r.dialect,
		`SELECT `+meetingColumns+` FROM meetings WHERE owner_id = ? ORDER BY id ASC`), ownerID)
	if err != nil {
		return nil, fmt.Errorf("list meetings by owner: %w", err)
	}
	return scanMeetings(rows)
}

// Update rewrites the mutable columns. owner_id and created_at are never touched.
func (r *SQLMeetingRepository) Update(ctx context.Context, m meeting.Meeting) error {
	res, err := r.db.ExecContext(ctx, rebind(r.dialect, `
        UPDATE meetings
        SET agenda = ?, description = ?, status = ?, date = ?, start_time = ?, meeting_url = ?
        WHERE id = ?
    `),
		m.Agenda,
		m.Description,
		string(m.Status),
		m.Date,
		m.StartTime,
		m.MeetingURL,
		m.ID,
	)
	if err != nil {
		return fmt.Errorf("update meeting: %w", err)
	}
	return requireAffected(res)
}

func (r *SQLMeetingRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, rebind(r.dialect, `DELETE FROM meetings WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete meeting: %w", err)
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func scanMeetings(rows *sql.Rows) ([]meeting.Meeting, error) {
	defer rows.Close()

	items := make([]meeting.Meeting, 0)
	for rows.Next() {
		var (
			m      meeting.Meeting
			status string
		)
		if err := rows.Scan(
			&m.ID,
			&m.Agenda,
			&m.Description,
			&status,
			&m.Date,
			&m.StartTime,
			&m.MeetingURL,
			&m.OwnerID,
			timestamp{t: &m.CreatedAt},
		); err != nil {
			return nil, fmt.Errorf("scan meeting: %w", err)
		}
		m.Status = meeting.Status(status)
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate meetings: %w", err)
	}
	return items, nil
}
