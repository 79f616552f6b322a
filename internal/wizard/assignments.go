package wizard

import (
	"sort"
)

// Assignments maps a guest ordinal to the sorted, unique treatment ids
// chosen for that guest. A guest without treatments has no key.
type Assignments map[int][]string

// Has reports whether the guest has the service
func (a Assignments) Has(guest int, serviceID string) bool {
	ids := a[guest]
	i := sort.SearchStrings(ids, serviceID)
	return i < len(ids) && ids[i] == serviceID
}

// Toggle adds the service to the guest or removes it when already present.
// Removing the last service deletes the guest's entry.
func (a Assignments) Toggle(guest int, serviceID string) {
	ids := a[guest]
	i := sort.SearchStrings(ids, serviceID)
	if i < len(ids) && ids[i] == serviceID {
		next := make([]string, 0, len(ids)-1)
		next = append(next, ids[:i]...)
		next = append(next, ids[i+1:]...)
		if len(next) == 0 {
			delete(a, guest)
			return
		}
		a[guest] = next
		return
	}
	next := make([]string, 0, len(ids)+1)
	next = append(next, ids[:i]...)
	next = append(next, serviceID)
	next = append(next, ids[i:]...)
	a[guest] = next
}

// Services returns a copy of the guest's service ids
func (a Assignments) Services(guest int) []string {
	return append([]string(nil), a[guest]...)
}

// CountFor returns how many services the guest has
func (a Assignments) CountFor(guest int) int {
	return len(a[guest])
}

// SubtotalFor sums the catalog prices of the guest's services.
// Ids missing from the catalog contribute zero.
func (a Assignments) SubtotalFor(guest int, catalog Catalog) int64 {
	var sum int64
	for _, id := range a[guest] {
		sum += catalog.Price(id)
	}
	return sum
}

// Guests returns the ordinals with at least one service, ascending
func (a Assignments) Guests() []int {
	out := make([]int, 0, len(a))
	for g, ids := range a {
		if len(ids) > 0 {
			out = append(out, g)
		}
	}
	sort.Ints(out)
	return out
}

// Clone returns a deep copy
func (a Assignments) Clone() Assignments {
	out := make(Assignments, len(a))
	for g, ids := range a {
		out[g] = append([]string(nil), ids...)
	}
	return out
}

// Remap carries assignments across a change of tier counts. Each guest keeps
// their services by (tier, position within tier); guests removed by the change
// lose theirs, so no key ever points past the new party.
func (a Assignments) Remap(from, to GuestComposition) Assignments {
	out := make(Assignments, len(a))
	for g, ids := range a {
		if len(ids) == 0 {
			continue
		}
		id, ok := from.Identity(g)
		if !ok {
			continue
		}
		ordinal, ok := to.ordinalOf(id.Tier, id.TierIndex)
		if !ok {
			continue
		}
		out[ordinal] = append([]string(nil), ids...)
	}
	return out
}
