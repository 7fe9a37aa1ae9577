package api

import (
	"github.com/prabhav0001/DeeCee2-sub000/internal/appointment"
	"github.com/prabhav0001/DeeCee2-sub000/internal/schedule"
)

// CreateAppointmentRequest is the booking submission body. The id is chosen
// by the client so that a retry of the same draft is idempotent; when empty
// the server assigns one.
type CreateAppointmentRequest struct {
	ID       string `json:"id"`
	Service  string `json:"service"`
	Location string `json:"location"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Notes    string `json:"notes,omitempty"`
}

func (r CreateAppointmentRequest) draft() appointment.Draft {
	return appointment.Draft{
		ID:       r.ID,
		Service:  r.Service,
		Location: r.Location,
		Date:     r.Date,
		Time:     r.Time,
		Name:     r.Name,
		Email:    r.Email,
		Phone:    r.Phone,
		Notes:    r.Notes,
	}
}

type AppointmentResponse struct {
	Success      bool                     `json:"success"`
	Appointment  *appointment.Appointment `json:"appointment"`
	Confirmation string                   `json:"confirmation,omitempty"`
}

type ListAppointmentsResponse struct {
	Success      bool                      `json:"success"`
	Appointments []appointment.Appointment `json:"appointments"`
	Count        int                       `json:"count"`
}

type AvailabilityResponse struct {
	Success  bool                        `json:"success"`
	Date     string                      `json:"date"`
	Location string                      `json:"location"`
	Slots    []schedule.SlotAvailability `json:"slots"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
