package models

import (
	"errors"
	"fmt"
)

// WizardActionType names one user action on a hosted wizard session
type WizardActionType string

const (
	WizardActionSetGuests     WizardActionType = "set_guests"
	WizardActionToggleService WizardActionType = "toggle_service"
	WizardActionSelectDate    WizardActionType = "select_date"
	WizardActionSelectSlot    WizardActionType = "select_slot"
	WizardActionSetContact    WizardActionType = "set_contact"
	WizardActionNext          WizardActionType = "next"
	WizardActionBack          WizardActionType = "back"
	WizardActionReset         WizardActionType = "reset"
	WizardActionMonthNext     WizardActionType = "month_next"
	WizardActionMonthPrev     WizardActionType = "month_prev"
)

// WizardActionRequest carries one action and its arguments.
// Only the fields relevant to Type are read.
type WizardActionRequest struct {
	Type       WizardActionType `json:"type" binding:"required"`
	Tier       string           `json:"tier,omitempty"`
	Count      int              `json:"count,omitempty"`
	GuestIndex int              `json:"guest_index,omitempty"`
	ServiceID  string           `json:"service_id,omitempty"`
	Date       string           `json:"date,omitempty"`
	TimeSlot   string           `json:"time_slot,omitempty"`
	Name       string           `json:"name,omitempty"`
	Email      string           `json:"email,omitempty"`
	Phone      string           `json:"phone,omitempty"`
	Notes      string           `json:"notes,omitempty"`
}

// Validate checks that the arguments required by Type are present
func (r *WizardActionRequest) Validate() error {
	switch r.Type {
	case WizardActionSetGuests:
		if r.Tier == "" {
			return errors.New("tier is required")
		}
	case WizardActionToggleService:
		if r.ServiceID == "" {
			return errors.New("service_id is required")
		}
	case WizardActionSelectDate:
		if r.Date == "" {
			return errors.New("date is required")
		}
	case WizardActionSelectSlot:
		if r.TimeSlot == "" {
			return errors.New("time_slot is required")
		}
	case WizardActionSetContact, WizardActionNext, WizardActionBack,
		WizardActionReset, WizardActionMonthNext, WizardActionMonthPrev:
	default:
		return fmt.Errorf("unknown action type %q", r.Type)
	}
	return nil
}
