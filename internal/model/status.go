package model

// Status enumerates the lifecycle states of a chat.
type Status string

const (
	StatusNew       Status = "new"
	StatusStarted   Status = "started"
	StatusFinished  Status = "finished"
	StatusCancelled Status = "cancelled"
)

var allStatuses = []Status{StatusNew, StatusStarted, StatusFinished, StatusCancelled}

func (s Status) IsValid() bool {
	for _, known := range allStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Statuses returns every accepted status value, for error messages.
func Statuses() []Status {
	out := make([]Status, len(allStatuses))
	copy(out, allStatuses)
	return out
}
