package meeting

import "time"

// Meeting represents the meetings table
type Meeting struct {
	ID          int64
	Agenda      string
	Description string
	Status      Status
	Date        Date
	StartTime   TimeOfDay
	MeetingURL  string
	OwnerID     int64
	CreatedAt   time.Time
}

// IsOwnedBy reports whether userID created the meeting.
func (m Meeting) IsOwnedBy(userID int64) bool {
	return m.OwnerID == userID
}

const (
	AgendaMaxLength     = 255
	MeetingURLMaxLength = 200
)
