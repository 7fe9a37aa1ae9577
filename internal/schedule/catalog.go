package schedule

// Catalog is the fixed list of time-of-day slots offered at every location on
// every day. Only availability varies per (date, location); the slots
// themselves never do.
var catalog = []string{
	"10:00",
	"11:00",
	"12:00",
	"13:00",
	"14:00",
	"15:00",
	"16:00",
	"17:00",
}

// Slots returns the ordered slot catalog. Callers must not mutate the
// returned slice.
func Slots() []string {
	return catalog
}

// SlotCount returns the number of slots offered per day.
func SlotCount() int {
	return len(catalog)
}

// SlotIndex returns the position of t in the catalog, or -1 if t is not a
// catalog value.
func SlotIndex(t string) int {
	for i, s := range catalog {
		if s == t {
			return i
		}
	}
	return -1
}
