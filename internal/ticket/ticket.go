// Package ticket renders confirmed bookings for the screen and for printing.
package ticket

import (
	"fmt"
	"strings"
)

// DefaultSiteTitle is the text branding used when no site title is configured
const DefaultSiteTitle = "Thermal Sanctuary"

// Branding is the venue identity shown on a ticket
type Branding struct {
	LogoURL   string `json:"logo_url,omitempty"`
	SiteTitle string `json:"site_title,omitempty"`
}

// Title returns the configured site title or the text fallback
func (b Branding) Title() string {
	if t := strings.TrimSpace(b.SiteTitle); t != "" {
		return t
	}
	return DefaultSiteTitle
}

// Contact holds the booker's details
type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// TierLine is one guest tier of the party
type TierLine struct {
	Label     string `json:"label"`
	Count     int    `json:"count"`
	UnitPrice int64  `json:"unit_price"`
}

// Subtotal returns count times unit price
func (t TierLine) Subtotal() int64 {
	return int64(t.Count) * t.UnitPrice
}

// ServiceLine is one add-on service booked for one guest
type ServiceLine struct {
	GuestIndex  int    `json:"guest_index"`
	GuestLabel  string `json:"guest_label"`
	ServiceName string `json:"service_name"`
	Price       int64  `json:"price"`
}

// Confirmation is the snapshot of a confirmed booking that every ticket view reads from
type Confirmation struct {
	TicketCode string        `json:"ticket_code"`
	BookingID  string        `json:"booking_id,omitempty"`
	Branding   Branding      `json:"branding"`
	Contact    Contact       `json:"contact"`
	Date       string        `json:"date"`
	TimeSlot   string        `json:"time_slot"`
	Tiers      []TierLine    `json:"tiers"`
	Services   []ServiceLine `json:"services"`
	Total      int64         `json:"total"`
	Notes      string        `json:"notes,omitempty"`
}

// Row is one printable line of a ticket
type Row struct {
	Label  string `json:"label"`
	Detail string `json:"detail,omitempty"`
	Amount string `json:"amount,omitempty"`
}

// Section groups rows under a heading
type Section struct {
	Title string `json:"title"`
	Rows  []Row  `json:"rows"`
}

// Document is the rendered content of a ticket. The text and the print
// renderers both walk the same Document.
type Document struct {
	Brand      string    `json:"brand"`
	LogoURL    string    `json:"logo_url,omitempty"`
	TicketCode string    `json:"ticket_code"`
	Sections   []Section `json:"sections"`
	Total      string    `json:"total"`
}

// Build lays out a confirmation as a Document
func Build(c Confirmation) Document {
	doc := Document{
		Brand:      c.Branding.Title(),
		LogoURL:    strings.TrimSpace(c.Branding.LogoURL),
		TicketCode: c.TicketCode,
		Total:      FormatCOP(c.Total),
	}

	doc.Sections = append(doc.Sections, Section{
		Title: "Visit",
		Rows: []Row{
			{Label: "Date", Detail: FormatDate(c.Date)},
			{Label: "Time", Detail: c.TimeSlot},
		},
	})

	contact := Section{
		Title: "Contact",
		Rows: []Row{
			{Label: "Name", Detail: c.Contact.Name},
			{Label: "Email", Detail: c.Contact.Email},
		},
	}
	if c.Contact.Phone != "" {
		contact.Rows = append(contact.Rows, Row{Label: "Phone", Detail: c.Contact.Phone})
	}
	doc.Sections = append(doc.Sections, contact)

	guests := Section{Title: "Guests"}
	for _, t := range c.Tiers {
		if t.Count == 0 {
			continue
		}
		guests.Rows = append(guests.Rows, Row{
			Label:  t.Label,
			Detail: fmt.Sprintf("%d x %s", t.Count, FormatCOP(t.UnitPrice)),
			Amount: FormatCOP(t.Subtotal()),
		})
	}
	doc.Sections = append(doc.Sections, guests)

	services := Section{Title: "Services"}
	for _, s := range c.Services {
		services.Rows = append(services.Rows, Row{
			Label:  s.GuestLabel,
			Detail: s.ServiceName,
			Amount: FormatCOP(s.Price),
		})
	}
	if len(services.Rows) == 0 {
		services.Rows = []Row{{Label: "No add-on services"}}
	}
	doc.Sections = append(doc.Sections, services)

	if notes := strings.TrimSpace(c.Notes); notes != "" {
		doc.Sections = append(doc.Sections, Section{
			Title: "Notes",
			Rows:  []Row{{Label: notes}},
		})
	}

	return doc
}
