package wizard

import (
	"sort"
	"strings"

	"github.com/thermalsanctuary/booking-backend/internal/models"
)

// DefaultSlotCapacity is the capacity of fallback slots, on the client and
// for the rows the server creates for them
const DefaultSlotCapacity = 20

// FallbackTimeSlots are offered when a date has no configured slots
var FallbackTimeSlots = []string{"09:00", "10:00", "11:00", "12:30", "14:00", "16:00", "17:30"}

// SlotInfo is the availability of one time slot on the selected date
type SlotInfo struct {
	TimeSlot    string `json:"time_slot"`
	BookedCount int    `json:"booked_count"`
	MaxCapacity int    `json:"max_capacity"`
	Fallback    bool   `json:"fallback,omitempty"`
}

// Available is the remaining capacity, never negative
func (s SlotInfo) Available() int {
	if s.MaxCapacity <= s.BookedCount {
		return 0
	}
	return s.MaxCapacity - s.BookedCount
}

// SelectableFor reports whether the slot can hold a party of the given size
func (s SlotInfo) SelectableFor(party int) bool {
	return s.Available() >= party
}

// FallbackSlots returns the static slot set with the default capacity
func FallbackSlots() []SlotInfo {
	out := make([]SlotInfo, 0, len(FallbackTimeSlots))
	for _, t := range FallbackTimeSlots {
		out = append(out, SlotInfo{TimeSlot: t, MaxCapacity: DefaultSlotCapacity, Fallback: true})
	}
	return out
}

// NormalizeSlots turns backend slot rows into availability facts ordered by
// time. Blank and duplicate times are dropped. An empty result falls back to
// the static slot set.
func NormalizeSlots(rows []models.TimeSlotCapacity) []SlotInfo {
	seen := make(map[string]bool, len(rows))
	out := make([]SlotInfo, 0, len(rows))
	for _, r := range rows {
		t := strings.TrimSpace(r.TimeSlot)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		booked := r.BookedCount
		if booked < 0 {
			booked = 0
		}
		out = append(out, SlotInfo{TimeSlot: t, BookedCount: booked, MaxCapacity: r.MaxCapacity})
	}
	if len(out) == 0 {
		return FallbackSlots()
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TimeSlot < out[j].TimeSlot })
	return out
}

// SlotOption is a slot as presented to the guest for the current party size
type SlotOption struct {
	SlotInfo
	Remaining int  `json:"available"`
	Full      bool `json:"full"`
	Selected  bool `json:"selected"`
}

// slotOptions flags each slot against the party size
func slotOptions(slots []SlotInfo, party int, selected string) []SlotOption {
	out := make([]SlotOption, 0, len(slots))
	for _, s := range slots {
		out = append(out, SlotOption{
			SlotInfo:  s,
			Remaining: s.Available(),
			Full:      !s.SelectableFor(party),
			Selected:  s.TimeSlot == selected,
		})
	}
	return out
}
