package appointment

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// ValidStatus reports whether s is one of the known lifecycle states.
func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// CanTransition reports whether an operator may move an appointment from one
// status to another. Completed and cancelled are terminal; cancellation is
// allowed from any non-terminal state.
func CanTransition(from, to Status) bool {
	switch from {
	case StatusPending:
		return to == StatusConfirmed || to == StatusCancelled
	case StatusConfirmed:
		return to == StatusCompleted || to == StatusCancelled
	}
	return false
}

// Services offered for in-store appointments.
var Services = []string{
	"styling",
	"personal-shopping",
	"tailoring",
	"bridal-consultation",
}

// Locations are the store branches accepting appointments.
var Locations = []string{
	"Mumbai",
	"Delhi",
	"Bangalore",
	"Hyderabad",
}

// Appointment is the reservation record. The triple (Date, Location, Time) is
// unique among non-cancelled appointments; that uniqueness is enforced by the
// store, not by this struct.
type Appointment struct {
	ID        uuid.UUID `json:"id"`
	Service   string    `json:"service"`
	Location  string    `json:"location"`
	Date      string    `json:"date"` // YYYY-MM-DD, no time component
	Time      string    `json:"time"` // one catalog slot value
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"` // normalized to 10 digits
	Notes     string    `json:"notes,omitempty"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IsActive reports whether the appointment still holds its slot.
func (a *Appointment) IsActive() bool {
	return a.Status != StatusCancelled
}

// SlotKey is the contended resource: one catalog slot at one location on one
// day.
type SlotKey struct {
	Date     string
	Location string
	Time     string
}

func (a *Appointment) Key() SlotKey {
	return SlotKey{Date: a.Date, Location: a.Location, Time: a.Time}
}

// Event types written to the appointment event log.
const (
	EventBooked        = "APPOINTMENT_BOOKED"
	EventCancelled     = "APPOINTMENT_CANCELLED"
	EventStatusChanged = "APPOINTMENT_STATUS_CHANGED"
	EventCompleted     = "APPOINTMENT_COMPLETED"
)

type EventLog struct {
	ID            int64
	EventType     string
	AppointmentID *uuid.UUID
	Payload       []byte
	CreatedAt     time.Time
}
