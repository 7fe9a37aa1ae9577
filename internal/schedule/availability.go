package schedule

import (
	"context"
	"fmt"
)

// ReservationIndex is a read projection of existing non-cancelled
// reservations. Occupied returns the set of taken slot times for a
// (date, location) pair. An error means the backing store could not be read;
// callers must fail the availability request rather than assume open slots.
type ReservationIndex interface {
	Occupied(ctx context.Context, date, location string) (map[string]bool, error)
}

// SlotAvailability is one catalog slot with its bookable flag for a specific
// (date, location).
type SlotAvailability struct {
	Time     string `json:"time"`
	Bookable bool   `json:"available"`
}

// Computer derives per-request availability views from the catalog, the
// deterministic mask, and the reservation index. It holds no state of its
// own.
type Computer struct {
	index ReservationIndex
}

func NewComputer(index ReservationIndex) *Computer {
	return &Computer{index: index}
}

// Availability returns one entry per catalog slot, never filtering slots out,
// so callers can render blocked slots as disabled rather than missing. A slot
// is bookable when it is neither masked off for the pair nor already
// reserved.
func (c *Computer) Availability(ctx context.Context, date, location string) ([]SlotAvailability, error) {
	occupied, err := c.index.Occupied(ctx, date, location)
	if err != nil {
		return nil, fmt.Errorf("read reservation index: %w", err)
	}

	blocked := BlockedIndices(date, location)

	out := make([]SlotAvailability, 0, SlotCount())
	for i, t := range Slots() {
		out = append(out, SlotAvailability{
			Time:     t,
			Bookable: !blocked[i] && !occupied[t],
		})
	}
	return out, nil
}

// Bookable reports whether a single slot time is currently bookable for the
// pair. Unknown times are never bookable.
func (c *Computer) Bookable(ctx context.Context, date, location, t string) (bool, error) {
	if SlotIndex(t) < 0 {
		return false, nil
	}
	avail, err := c.Availability(ctx, date, location)
	if err != nil {
		return false, err
	}
	for _, s := range avail {
		if s.Time == t {
			return s.Bookable, nil
		}
	}
	return false, nil
}
