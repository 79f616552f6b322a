package wizard

import (
	"github.com/thermalsanctuary/booking-backend/internal/models"
)

// Category is the tagged listing a catalog entry belongs to
type Category int

const (
	CategoryGeneral Category = iota
	CategoryTreatment
	CategoryLodging
)

func (c Category) String() string {
	switch c {
	case CategoryTreatment:
		return "treatment"
	case CategoryLodging:
		return "lodging"
	}
	return "general"
}

func categoryOf(c models.ServiceCategory) Category {
	switch c {
	case models.ServiceCategoryTreatment:
		return CategoryTreatment
	case models.ServiceCategoryLodging:
		return CategoryLodging
	}
	return CategoryGeneral
}

// Service is a normalized catalog entry
type Service struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Price    int64    `json:"price"`
	Category Category `json:"category"`
}

// Treatment is a service that can be assigned to a guest.
// Only Catalog hands out Treatment values.
type Treatment struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Price int64  `json:"price"`
}

func (s Service) asTreatment() (Treatment, bool) {
	if s.Category != CategoryTreatment {
		return Treatment{}, false
	}
	return Treatment{ID: s.ID, Title: s.Title, Price: s.Price}, true
}

// Catalog is the services list loaded once per wizard session
type Catalog struct {
	Entries []Service `json:"entries"`
}

// NewCatalog normalizes backend service rows. Rows without an id are
// dropped, duplicate ids keep their first occurrence and negative prices
// are treated as zero.
func NewCatalog(records []models.Service) Catalog {
	seen := make(map[string]bool, len(records))
	entries := make([]Service, 0, len(records))
	for _, r := range records {
		if r.ID == "" || seen[r.ID] {
			continue
		}
		seen[r.ID] = true
		price := r.Price
		if price < 0 {
			price = 0
		}
		entries = append(entries, Service{
			ID:       r.ID,
			Title:    r.Title,
			Price:    price,
			Category: categoryOf(r.Category),
		})
	}
	return Catalog{Entries: entries}
}

// Treatments returns the services offerable as guest add-ons, in catalog order
func (c Catalog) Treatments() []Treatment {
	var out []Treatment
	for _, s := range c.Entries {
		if t, ok := s.asTreatment(); ok {
			out = append(out, t)
		}
	}
	return out
}

// Treatment looks up an offerable service by id
func (c Catalog) Treatment(id string) (Treatment, bool) {
	for _, s := range c.Entries {
		if s.ID == id {
			return s.asTreatment()
		}
	}
	return Treatment{}, false
}

// Price returns a treatment's price, or zero when the id is unknown
func (c Catalog) Price(id string) int64 {
	t, ok := c.Treatment(id)
	if !ok {
		return 0
	}
	return t.Price
}
