package wizard

import (
	"fmt"
	"strconv"
	"strings"
)

// Unit entry prices per guest tier, in whole pesos
const (
	AdultPrice  int64 = 75000
	ChildPrice  int64 = 40000
	SeniorPrice int64 = 60000
)

// GuestTier is one of adult, child or senior
type GuestTier int

const (
	TierAdult GuestTier = iota
	TierChild
	TierSenior
)

// Tiers lists the tiers in guest-list order
var Tiers = []GuestTier{TierAdult, TierChild, TierSenior}

// ParseGuestTier parses "adult", "child" or "senior" (plural forms accepted)
func ParseGuestTier(s string) (GuestTier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "adult", "adults":
		return TierAdult, nil
	case "child", "children":
		return TierChild, nil
	case "senior", "seniors":
		return TierSenior, nil
	}
	return 0, fmt.Errorf("unknown guest tier %q", s)
}

func (t GuestTier) String() string {
	switch t {
	case TierAdult:
		return "adult"
	case TierChild:
		return "child"
	case TierSenior:
		return "senior"
	}
	return "unknown"
}

// UnitPrice returns the fixed entry price of the tier
func (t GuestTier) UnitPrice() int64 {
	switch t {
	case TierAdult:
		return AdultPrice
	case TierChild:
		return ChildPrice
	case TierSenior:
		return SeniorPrice
	}
	return 0
}

// Label is the singular display name
func (t GuestTier) Label() string {
	switch t {
	case TierAdult:
		return "Adult"
	case TierChild:
		return "Child"
	case TierSenior:
		return "Senior"
	}
	return "Guest"
}

// PluralLabel is the display name for a tier total
func (t GuestTier) PluralLabel() string {
	switch t {
	case TierAdult:
		return "Adults"
	case TierChild:
		return "Children"
	case TierSenior:
		return "Seniors"
	}
	return "Guests"
}

// GuestComposition holds the party's tier counts
type GuestComposition struct {
	Adults   int `json:"adults"`
	Children int `json:"children"`
	Seniors  int `json:"seniors"`
}

// DefaultComposition is one adult
func DefaultComposition() GuestComposition {
	return GuestComposition{Adults: 1}
}

// Total returns the party size
func (g GuestComposition) Total() int {
	return g.Adults + g.Children + g.Seniors
}

// Count returns the number of guests in a tier
func (g GuestComposition) Count(t GuestTier) int {
	switch t {
	case TierAdult:
		return g.Adults
	case TierChild:
		return g.Children
	case TierSenior:
		return g.Seniors
	}
	return 0
}

// With returns a copy with the tier set to n, clamped at zero
func (g GuestComposition) With(t GuestTier, n int) GuestComposition {
	if n < 0 {
		n = 0
	}
	switch t {
	case TierAdult:
		g.Adults = n
	case TierChild:
		g.Children = n
	case TierSenior:
		g.Seniors = n
	}
	return g
}

// GuestIdentity is one guest's position in the flattened party list
type GuestIdentity struct {
	Ordinal int       `json:"ordinal"`
	Tier    GuestTier `json:"tier"`
	// TierIndex is the 0-based position within the tier
	TierIndex int `json:"tier_index"`
	// DisplayIndex is 1-based, or 0 when the tier has a single guest
	DisplayIndex int `json:"display_index"`
}

// Label renders "Adult", or "Adult 2" when the tier has several guests
func (id GuestIdentity) Label() string {
	if id.DisplayIndex == 0 {
		return id.Tier.Label()
	}
	return id.Tier.Label() + " " + strconv.Itoa(id.DisplayIndex)
}

// Identities derives the ordered guest list: adults, then children, then seniors
func (g GuestComposition) Identities() []GuestIdentity {
	out := make([]GuestIdentity, 0, g.Total())
	for _, tier := range Tiers {
		n := g.Count(tier)
		for i := 0; i < n; i++ {
			id := GuestIdentity{Ordinal: len(out), Tier: tier, TierIndex: i}
			if n > 1 {
				id.DisplayIndex = i + 1
			}
			out = append(out, id)
		}
	}
	return out
}

// Identity resolves an ordinal to its guest
func (g GuestComposition) Identity(ordinal int) (GuestIdentity, bool) {
	if ordinal < 0 {
		return GuestIdentity{}, false
	}
	offset := 0
	for _, tier := range Tiers {
		n := g.Count(tier)
		if ordinal < offset+n {
			id := GuestIdentity{Ordinal: ordinal, Tier: tier, TierIndex: ordinal - offset}
			if n > 1 {
				id.DisplayIndex = id.TierIndex + 1
			}
			return id, true
		}
		offset += n
	}
	return GuestIdentity{}, false
}

// ordinalOf maps a (tier, index within tier) pair back to its ordinal
func (g GuestComposition) ordinalOf(t GuestTier, tierIndex int) (int, bool) {
	if tierIndex < 0 || tierIndex >= g.Count(t) {
		return 0, false
	}
	offset := 0
	for _, tier := range Tiers {
		if tier == t {
			return offset + tierIndex, true
		}
		offset += g.Count(tier)
	}
	return 0, false
}
