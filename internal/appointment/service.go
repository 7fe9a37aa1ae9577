package appointment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/prabhav0001/DeeCee2-sub000/internal/notify"
	redisclient "github.com/prabhav0001/DeeCee2-sub000/internal/redis"
	"github.com/prabhav0001/DeeCee2-sub000/internal/schedule"
)

var (
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrIDConflict reports a client-chosen id that already names another
	// booking - a different slot, or a record that has since left the
	// active set. Retrying under the same id cannot succeed; the client
	// must submit a fresh one.
	ErrIDConflict = errors.New("appointment id already used")
)

const notifyTimeout = 5 * time.Second

// Service owns the booking lifecycle: availability views, the commit path,
// cancellation, operator status transitions, and the completion sweep. All
// slot mutation goes through here; readers never mutate.
type Service struct {
	repo          Repository
	computer      *schedule.Computer
	locker        redisclient.Locker
	cache         *redisclient.PreviewCache
	dispatcher    notify.Dispatcher
	initialStatus Status
}

// NewService wires the committer. cache may be nil (previews served straight
// from the store); dispatcher may be notify.NopDispatcher.
func NewService(repo Repository, locker redisclient.Locker, cache *redisclient.PreviewCache, dispatcher notify.Dispatcher, initialStatus Status) *Service {
	if initialStatus != StatusPending && initialStatus != StatusConfirmed {
		initialStatus = StatusConfirmed
	}
	return &Service{
		repo:          repo,
		computer:      schedule.NewComputer(repo),
		locker:        locker,
		cache:         cache,
		dispatcher:    dispatcher,
		initialStatus: initialStatus,
	}
}

// Availability returns the per-slot bookable view for a (date, location)
// pair. Served from the preview cache when possible; staleness here only
// affects UI hints because Book re-validates against the store.
func (s *Service) Availability(ctx context.Context, date, location string) ([]schedule.SlotAvailability, error) {
	var cached []schedule.SlotAvailability
	if s.cache.Get(ctx, date, location, &cached) {
		return cached, nil
	}

	avail, err := s.computer.Availability(ctx, date, location)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, date, location, avail)
	return avail, nil
}

// Book runs the full submit path: validate the draft, assign an identifier,
// and attempt the atomic reserve. Outcomes map to the error taxonomy:
// *ValidationError (user-correctable), ErrSlotTaken (slot conflict),
// ErrIDConflict (reused identifier),
// anything else wrapped (transient, safe to retry). On success the
// confirmation summary is returned and a notification is dispatched
// fire-and-forget.
func (s *Service) Book(ctx context.Context, draft Draft) (*Appointment, string, error) {
	id := uuid.New()
	if draft.ID != "" {
		parsed, err := uuid.Parse(draft.ID)
		if err != nil {
			return nil, "", &ValidationError{Fields: Fields{"id": "Invalid appointment id"}}
		}
		id = parsed

		// A client-chosen identifier makes retries idempotent: when the same
		// draft was already committed, return the stored record instead of
		// re-validating against an availability view that now shows its own
		// slot as taken.
		existing, err := s.repo.GetByID(ctx, id)
		switch {
		case err == nil:
			if existing.IsActive() && existing.Key() == draftKey(draft) {
				return existing, ConfirmationSummary(existing), nil
			}
			return nil, "", ErrIDConflict
		case errors.Is(err, ErrNotFound):
			// First submission with this id.
		default:
			return nil, "", fmt.Errorf("check existing appointment: %w", err)
		}
	}

	// Validation gates on the catalog and the mask only. Whether the slot
	// is occupied is settled by the atomic reserve; answering it here would
	// just race the commit and blur the conflict outcome into a validation
	// failure.
	var bookable func(t string) bool
	if strings.TrimSpace(draft.Date) != "" && strings.TrimSpace(draft.Location) != "" {
		blocked := schedule.BlockedIndices(strings.TrimSpace(draft.Date), strings.TrimSpace(draft.Location))
		bookable = func(t string) bool {
			idx := schedule.SlotIndex(t)
			return idx >= 0 && !blocked[idx]
		}
	}

	errs := Validate(draft, bookable)
	if len(errs) > 0 {
		return nil, "", &ValidationError{Fields: errs}
	}

	a := &Appointment{
		ID:       id,
		Service:  strings.TrimSpace(draft.Service),
		Location: strings.TrimSpace(draft.Location),
		Date:     strings.TrimSpace(draft.Date),
		Time:     strings.TrimSpace(draft.Time),
		Name:     strings.TrimSpace(draft.Name),
		Email:    strings.TrimSpace(draft.Email),
		Phone:    NormalizePhone(draft.Phone),
		Notes:    TruncateNotes(strings.TrimSpace(draft.Notes)),
		Status:   s.initialStatus,
	}

	err := s.locker.WithSlotLock(ctx, slotLockKey(a.Key()), func(lockCtx context.Context) error {
		return s.repo.TryReserve(lockCtx, a)
	})
	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			// Another submission holds the slot's critical section right now;
			// from the caller's point of view the slot is contended.
			return nil, "", ErrSlotTaken
		}
		if errors.Is(err, ErrDuplicateID) {
			return s.resubmit(ctx, a)
		}
		if errors.Is(err, ErrSlotTaken) {
			return nil, "", err
		}
		return nil, "", fmt.Errorf("reserve slot: %w", err)
	}

	s.logEvent(ctx, a.ID, EventBooked, map[string]any{
		"date":     a.Date,
		"location": a.Location,
		"time":     a.Time,
		"service":  a.Service,
	})

	if invErr := s.cache.Invalidate(ctx, a.Date, a.Location); invErr != nil {
		log.Printf("preview cache invalidation failed for %s/%s: %v", a.Date, a.Location, invErr)
	}

	s.dispatchConfirmation(*a)

	return a, ConfirmationSummary(a), nil
}

// resubmit handles a duplicate identifier: a retry of an already committed
// draft must not create a second booking. The stored record wins when it
// holds the same slot; a duplicate id pointing anywhere else is a client
// bug surfaced as an id conflict.
func (s *Service) resubmit(ctx context.Context, a *Appointment) (*Appointment, string, error) {
	existing, err := s.repo.GetByID(ctx, a.ID)
	if err != nil {
		return nil, "", fmt.Errorf("load appointment for duplicate id: %w", err)
	}
	if existing.IsActive() && existing.Key() == a.Key() {
		return existing, ConfirmationSummary(existing), nil
	}
	return nil, "", ErrIDConflict
}

// Cancel releases the appointment's slot. Cancelling is idempotent:
// a second DELETE returns the already-cancelled record.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if a.Status == StatusCancelled {
		return a, nil
	}
	if !CanTransition(a.Status, StatusCancelled) {
		return nil, ErrInvalidTransition
	}

	updated, err := s.repo.UpdateStatus(ctx, id, a.Status, StatusCancelled)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// Lost the CAS race; the status moved between the read and the
			// update. The record exists, so this is a transition conflict,
			// not a missing appointment.
			return nil, ErrInvalidTransition
		}
		return nil, fmt.Errorf("cancel appointment: %w", err)
	}

	s.logEvent(ctx, id, EventCancelled, map[string]any{
		"date":     updated.Date,
		"location": updated.Location,
		"time":     updated.Time,
	})

	if invErr := s.cache.Invalidate(ctx, updated.Date, updated.Location); invErr != nil {
		log.Printf("preview cache invalidation failed for %s/%s: %v", updated.Date, updated.Location, invErr)
	}

	return updated, nil
}

// UpdateStatus applies an operator transition (confirm, complete). The
// compare-and-set in the store keeps two racing operators from both
// succeeding.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, to Status) (*Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !CanTransition(a.Status, to) {
		return nil, ErrInvalidTransition
	}

	updated, err := s.repo.UpdateStatus(ctx, id, a.Status, to)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// Lost the CAS race against another operator.
			return nil, ErrInvalidTransition
		}
		return nil, fmt.Errorf("update appointment status: %w", err)
	}

	s.logEvent(ctx, id, EventStatusChanged, map[string]any{
		"from": string(a.Status),
		"to":   string(to),
	})

	if to == StatusCancelled {
		if invErr := s.cache.Invalidate(ctx, updated.Date, updated.Location); invErr != nil {
			log.Printf("preview cache invalidation failed for %s/%s: %v", updated.Date, updated.Location, invErr)
		}
	}

	return updated, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Appointment, error) {
	return s.repo.List(ctx)
}

// CompletePastAppointments is called periodically by the completion worker:
// confirmed appointments whose day has fully passed move to completed.
func (s *Service) CompletePastAppointments(ctx context.Context, today string) error {
	candidates, err := s.repo.FindConfirmedBefore(ctx, today)
	if err != nil {
		return fmt.Errorf("find past confirmed appointments: %w", err)
	}

	for _, a := range candidates {
		if _, err := s.repo.UpdateStatus(ctx, a.ID, StatusConfirmed, StatusCompleted); err != nil {
			if !errors.Is(err, ErrNotFound) {
				log.Printf("failed to complete appointment %s: %v", a.ID, err)
			}
			continue
		}
		s.logEvent(ctx, a.ID, EventCompleted, map[string]any{
			"date": a.Date,
		})
	}

	return nil
}

// dispatchConfirmation sends the booking confirmation without blocking the
// commit path. Failures are logged and never surfaced: the booking is
// already durable.
func (s *Service) dispatchConfirmation(a Appointment) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		if err := s.dispatcher.Dispatch(ctx, ConfirmationMessage(&a)); err != nil {
			log.Printf("confirmation notification failed for appointment %s: %v", a.ID, err)
		}
	}()
}

func (s *Service) logEvent(ctx context.Context, appointmentID uuid.UUID, eventType string, payload map[string]any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("failed to marshal event payload for %s: %v", eventType, err)
		data = nil
	}

	apptID := appointmentID

	ev := EventLog{
		EventType:     eventType,
		AppointmentID: &apptID,
		Payload:       data,
		CreatedAt:     time.Now(),
	}

	if err := s.repo.InsertEvent(ctx, ev); err != nil {
		log.Printf("failed to insert event log %s for appointment %s: %v", eventType, appointmentID, err)
	}
}

func draftKey(d Draft) SlotKey {
	return SlotKey{
		Date:     strings.TrimSpace(d.Date),
		Location: strings.TrimSpace(d.Location),
		Time:     strings.TrimSpace(d.Time),
	}
}

func slotLockKey(k SlotKey) string {
	return fmt.Sprintf("%s:%s:%s", k.Date, k.Location, k.Time)
}
