package appointment

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository is a mutex-guarded in-process store. The mutex gives
// TryReserve the same atomic check-and-insert semantics the Postgres unique
// index provides, which makes it suitable for tests and local demos but not
// for multi-process deployments.
type MemoryRepository struct {
	mu     sync.Mutex
	byID   map[uuid.UUID]*Appointment
	events []EventLog
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID: make(map[uuid.UUID]*Appointment),
	}
}

func (r *MemoryRepository) TryReserve(_ context.Context, a *Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[a.ID]; ok {
		return ErrDuplicateID
	}
	for _, existing := range r.byID {
		if existing.IsActive() && existing.Key() == a.Key() {
			return ErrSlotTaken
		}
	}

	now := time.Now()
	a.CreatedAt = now
	a.UpdatedAt = now

	stored := *a
	r.byID[a.ID] = &stored
	return nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id uuid.UUID) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *MemoryRepository) List(_ context.Context) ([]Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]Appointment, 0, len(r.byID))
	for _, a := range r.byID {
		result = append(result, *a)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Date != result[j].Date {
			return result[i].Date < result[j].Date
		}
		if result[i].Location != result[j].Location {
			return result[i].Location < result[j].Location
		}
		return result[i].Time < result[j].Time
	})
	return result, nil
}

func (r *MemoryRepository) Occupied(_ context.Context, date, location string) (map[string]bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	occupied := make(map[string]bool)
	for _, a := range r.byID {
		if a.IsActive() && a.Date == date && a.Location == location {
			occupied[a.Time] = true
		}
	}
	return occupied, nil
}

func (r *MemoryRepository) UpdateStatus(_ context.Context, id uuid.UUID, from, to Status) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok || a.Status != from {
		return nil, ErrNotFound
	}

	a.Status = to
	a.UpdatedAt = time.Now()
	cp := *a
	return &cp, nil
}

func (r *MemoryRepository) FindConfirmedBefore(_ context.Context, date string) ([]Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []Appointment
	for _, a := range r.byID {
		if a.Status == StatusConfirmed && a.Date < date {
			result = append(result, *a)
		}
	}
	return result, nil
}

func (r *MemoryRepository) InsertEvent(_ context.Context, ev EventLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ev.ID = int64(len(r.events) + 1)
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now()
	}
	r.events = append(r.events, ev)
	return nil
}

// Events returns a copy of the recorded event log, oldest first.
func (r *MemoryRepository) Events() []EventLog {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]EventLog, len(r.events))
	copy(out, r.events)
	return out
}
