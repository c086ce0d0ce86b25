package meeting

type Status string

const (
	StatusUpcoming  Status = "Upcoming"
	StatusInReview  Status = "In Review"
	StatusCancelled Status = "Cancelled"
	StatusOverdue   Status = "Overdue"
	StatusPublished Status = "Published"
)

var statuses = []Status{
	StatusUpcoming,
	StatusInReview,
	StatusCancelled,
	StatusOverdue,
	StatusPublished,
}

// Statuses returns every accepted status literal in display order.
func Statuses() []Status {
	out := make([]Status, len(statuses))
	copy(out, statuses)
	return out
}

// ParseStatus matches s exactly against the status literals.
func ParseStatus(s string) (Status, bool) {
	for _, st := range statuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

func (s Status) Valid() bool {
	_, ok := ParseStatus(string(s))
	return ok
}

func (s Status) String() string {
	return string(s)
}
