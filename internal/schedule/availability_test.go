package schedule

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubIndex struct {
	occupied map[string]bool
	err      error
}

func (s *stubIndex) Occupied(context.Context, string, string) (map[string]bool, error) {
	return s.occupied, s.err
}

func TestCatalog(t *testing.T) {
	require.Equal(t, 8, SlotCount())
	assert.Equal(t, "10:00", Slots()[0])
	assert.Equal(t, "17:00", Slots()[7])

	assert.Equal(t, 4, SlotIndex("14:00"))
	assert.Equal(t, -1, SlotIndex("09:00"))
	assert.Equal(t, -1, SlotIndex(""))
}

func TestAvailability_AlwaysFullCatalogLength(t *testing.T) {
	c := NewComputer(&stubIndex{occupied: map[string]bool{}})

	for _, pair := range []struct{ date, location string }{
		{"2024-06-01", "Mumbai"},
		{"2024-06-02", "Delhi"},
		{"2031-01-15", "Bangalore"},
	} {
		avail, err := c.Availability(context.Background(), pair.date, pair.location)
		require.NoError(t, err)
		assert.Len(t, avail, SlotCount(), "every slot must appear, bookable or not")
	}
}

func TestAvailability_SuppressesMaskedAndOccupied(t *testing.T) {
	// Fixture pair blocks indices 2 and 5 ("12:00", "15:00").
	date, location := "2024-06-01", "Mumbai"

	c := NewComputer(&stubIndex{occupied: map[string]bool{"10:00": true}})

	avail, err := c.Availability(context.Background(), date, location)
	require.NoError(t, err)

	byTime := make(map[string]bool, len(avail))
	for _, s := range avail {
		byTime[s.Time] = s.Bookable
	}

	assert.False(t, byTime["10:00"], "occupied slot must not be bookable")
	assert.False(t, byTime["12:00"], "masked slot must not be bookable")
	assert.False(t, byTime["15:00"], "masked slot must not be bookable")
	assert.True(t, byTime["11:00"])
	assert.True(t, byTime["13:00"])
	assert.True(t, byTime["14:00"])
	assert.True(t, byTime["16:00"])
	assert.True(t, byTime["17:00"])
}

func TestAvailability_IndexFailurePropagates(t *testing.T) {
	storeErr := errors.New("store unavailable")
	c := NewComputer(&stubIndex{err: storeErr})

	_, err := c.Availability(context.Background(), "2024-06-01", "Mumbai")
	require.Error(t, err)
	assert.ErrorIs(t, err, storeErr, "an unreadable index must fail the request, not report open slots")
}

func TestBookable(t *testing.T) {
	c := NewComputer(&stubIndex{occupied: map[string]bool{"11:00": true}})

	ok, err := c.Bookable(context.Background(), "2024-06-01", "Mumbai", "13:00")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.Bookable(context.Background(), "2024-06-01", "Mumbai", "11:00")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = c.Bookable(context.Background(), "2024-06-01", "Mumbai", "12:00")
	require.NoError(t, err)
	assert.False(t, ok, "masked slot")

	ok, err = c.Bookable(context.Background(), "2024-06-01", "Mumbai", "09:30")
	require.NoError(t, err)
	assert.False(t, ok, "time outside the catalog is never bookable")
}
