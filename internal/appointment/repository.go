package appointment

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound    = errors.New("appointment not found")
	ErrSlotTaken   = errors.New("slot already has an active appointment")
	ErrDuplicateID = errors.New("appointment id already exists")
)

// Repository contains all store interactions needed by the service.
//
// TryReserve is the atomic check-and-insert at the heart of the subsystem: it
// must either persist the appointment or fail with ErrSlotTaken when another
// non-cancelled appointment already holds the same (date, location, time)
// triple, or ErrDuplicateID when the identifier was already committed. A
// read-then-write implementation is not acceptable; the check and the insert
// must be a single atomic step (unique constraint, or a mutex around the map
// in the in-memory implementation).
type Repository interface {
	TryReserve(ctx context.Context, a *Appointment) error

	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	List(ctx context.Context) ([]Appointment, error)

	// Occupied feeds the availability view: slot times of non-cancelled
	// appointments for the pair.
	Occupied(ctx context.Context, date, location string) (map[string]bool, error)

	// UpdateStatus performs a compare-and-set transition; ErrNotFound when no
	// row matches (id, from).
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status) (*Appointment, error)

	// Completion sweep: confirmed appointments dated strictly before the
	// given day.
	FindConfirmedBefore(ctx context.Context, date string) ([]Appointment, error)

	InsertEvent(ctx context.Context, ev EventLog) error
}
