package wizard

import (
	"github.com/thermalsanctuary/booking-backend/internal/ticket"
)

// TierLine prices one guest tier
type TierLine struct {
	Tier      GuestTier `json:"tier"`
	Label     string    `json:"label"`
	Count     int       `json:"count"`
	UnitPrice int64     `json:"unit_price"`
	Subtotal  int64     `json:"subtotal"`
}

// ServiceLine prices one treatment assigned to one guest
type ServiceLine struct {
	Guest     GuestIdentity `json:"guest"`
	ServiceID string        `json:"service_id"`
	Title     string        `json:"title"`
	Price     int64         `json:"price"`
}

// Quote is the full price breakdown of the current selection
type Quote struct {
	Tiers         []TierLine    `json:"tiers"`
	Services      []ServiceLine `json:"services"`
	EntryTotal    int64         `json:"entry_total"`
	ServicesTotal int64         `json:"services_total"`
	Total         int64         `json:"total"`
}

// TotalText is the formatted total
func (q Quote) TotalText() string {
	return ticket.FormatCOP(q.Total)
}

// Price computes entry fees per tier plus every assigned treatment.
// Service lines follow guest order; ids the catalog does not offer are left out.
func Price(guests GuestComposition, assignments Assignments, catalog Catalog) Quote {
	var q Quote
	for _, tier := range Tiers {
		n := guests.Count(tier)
		line := TierLine{
			Tier:      tier,
			Label:     tier.PluralLabel(),
			Count:     n,
			UnitPrice: tier.UnitPrice(),
			Subtotal:  int64(n) * tier.UnitPrice(),
		}
		q.Tiers = append(q.Tiers, line)
		q.EntryTotal += line.Subtotal
	}

	for _, id := range guests.Identities() {
		for _, serviceID := range assignments[id.Ordinal] {
			t, ok := catalog.Treatment(serviceID)
			if !ok {
				continue
			}
			q.Services = append(q.Services, ServiceLine{
				Guest:     id,
				ServiceID: t.ID,
				Title:     t.Title,
				Price:     t.Price,
			})
			q.ServicesTotal += t.Price
		}
	}

	q.Total = q.EntryTotal + q.ServicesTotal
	return q
}
