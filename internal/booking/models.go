package booking

import "time"

// Request is a consultation request submitted from the public website.
type Request struct {
	ID string `json:"id" db:"id"`

	Name  string `json:"name" db:"name"`
	Phone string `json:"phone" db:"phone"`
	Email string `json:"email,omitempty" db:"email"`

	// Topic is the practice area the visitor picked (free-form).
	Topic string `json:"topic,omitempty" db:"topic"`

	// Locale is the site locale the request came from (e.g. "ko", "en").
	Locale string `json:"locale" db:"locale"`

	// PreferredAt is the requested consultation slot, optional.
	PreferredAt *time.Time `json:"preferred_at,omitempty" db:"preferred_at"`

	Message string `json:"message,omitempty" db:"message"`

	Status Status `json:"status" db:"status"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type Status string

const (
	StatusNew       Status = "new"
	StatusContacted Status = "contacted"
	StatusClosed    Status = "closed"
)

func validStatus(s Status) bool {
	switch s {
	case StatusNew, StatusContacted, StatusClosed:
		return true
	default:
		return false
	}
}
