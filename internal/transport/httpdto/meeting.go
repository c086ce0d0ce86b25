package httpdto

import (
	"time"

	"meetings-api/internal/domain/meeting"
)

// MeetingRequest is used for POST /meetings/ and PUT/PATCH /meetings/{id}/.
// Absent keys stay nil. id, owner and created_at are read-only and not bound.
type MeetingRequest struct {
	Agenda      *string `json:"agenda"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Date        *string `json:"date"`
	StartTime   *string `json:"start_time"`
	MeetingURL  *string `json:"meeting_url"`
}

// MeetingDTO represents a meeting in API responses. The owner is not exposed.
type MeetingDTO struct {
	ID          int64             `json:"id"`
	Agenda      string            `json:"agenda"`
	Description string            `json:"description"`
	Status      meeting.Status    `json:"status"`
	Date        meeting.Date      `json:"date"`
	StartTime   meeting.TimeOfDay `json:"start_time"`
	MeetingURL  string            `json:"meeting_url"`
	CreatedAt   time.Time         `json:"created_at"`
}

func ToMeetingDTO(m meeting.Meeting) MeetingDTO {
	return MeetingDTO{
		ID:          m.ID,
		Agenda:      m.Agenda,
		Description: m.Description,
		Status:      m.Status,
		Date:        m.Date,
		StartTime:   m.StartTime,
		MeetingURL:  m.MeetingURL,
		CreatedAt:   m.CreatedAt.UTC(),
	}
}

func ToMeetingDTOs(items []meeting.Meeting) []MeetingDTO {
	out := make([]MeetingDTO, 0, len(items))
	for _, m := range items {
		out = append(out, ToMeetingDTO(m))
	}
	return out
}
