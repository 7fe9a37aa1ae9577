package schedule

// BlockedIndices derives the externally blocked catalog indices for a
// (date, location) pair. It simulates staffing and holiday constraints with a
// deterministic hash so that clients can preview availability without a round
// trip: the same pair always yields the same blocked set.
//
// The fold constants (17, 97) and the +3 offset are load-bearing; changing
// them would silently re-block different slots for dates already shown to
// customers.
func BlockedIndices(date, location string) map[int]bool {
	key := date + "-" + location

	hash := 0
	for _, c := range key {
		hash = (hash + int(c)*17) % 97
	}

	n := SlotCount()
	blocked := map[int]bool{
		hash % n:       true,
		(hash + 3) % n: true,
	}
	return blocked
}
