package wizard

import (
	"time"

	"github.com/thermalsanctuary/booking-backend/internal/models"
)

// WeekdayHeaders are the month grid column headings, Sunday first
var WeekdayHeaders = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// MonthCursor identifies the month shown in the calendar
type MonthCursor struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

// CursorFor returns the month containing t
func CursorFor(t time.Time) MonthCursor {
	return MonthCursor{Year: t.Year(), Month: t.Month()}
}

// Next moves forward one month, wrapping December into January
func (c MonthCursor) Next() MonthCursor {
	if c.Month == time.December {
		return MonthCursor{Year: c.Year + 1, Month: time.January}
	}
	return MonthCursor{Year: c.Year, Month: c.Month + 1}
}

// Prev moves back one month, wrapping January into December
func (c MonthCursor) Prev() MonthCursor {
	if c.Month == time.January {
		return MonthCursor{Year: c.Year - 1, Month: time.December}
	}
	return MonthCursor{Year: c.Year, Month: c.Month - 1}
}

// DaysIn returns the number of days in the month
func (c MonthCursor) DaysIn() int {
	return time.Date(c.Year, c.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Offset returns the weekday of day 1, counting Sunday as 0
func (c MonthCursor) Offset() int {
	return int(time.Date(c.Year, c.Month, 1, 0, 0, 0, 0, time.UTC).Weekday())
}

// DayCell is one calendar cell; Day is 0 for the leading blanks
type DayCell struct {
	Day      int    `json:"day"`
	Date     string `json:"date,omitempty"`
	Disabled bool   `json:"disabled"`
	Today    bool   `json:"today"`
	Selected bool   `json:"selected"`
}

// MonthGrid is a rendered calendar month
type MonthGrid struct {
	Cursor MonthCursor `json:"cursor"`
	Title  string      `json:"title"`
	Cells  []DayCell   `json:"cells"`
}

// Midnight truncates t to the start of its calendar day in its own location
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// IsPastDay reports whether day falls strictly before today's calendar day
func IsPastDay(day, today time.Time) bool {
	return Midnight(day).Before(Midnight(today))
}

// BuildMonth lays out the month with leading blanks for the weekday offset.
// Days before today are disabled.
func BuildMonth(c MonthCursor, today time.Time, selected string) MonthGrid {
	offset := c.Offset()
	days := c.DaysIn()
	loc := today.Location()
	todayKey := today.Format(models.DateLayout)

	cells := make([]DayCell, 0, offset+days)
	for i := 0; i < offset; i++ {
		cells = append(cells, DayCell{Disabled: true})
	}
	for d := 1; d <= days; d++ {
		date := time.Date(c.Year, c.Month, d, 0, 0, 0, 0, loc)
		key := date.Format(models.DateLayout)
		cells = append(cells, DayCell{
			Day:      d,
			Date:     key,
			Disabled: IsPastDay(date, today),
			Today:    key == todayKey,
			Selected: key == selected,
		})
	}

	return MonthGrid{
		Cursor: c,
		Title:  time.Date(c.Year, c.Month, 1, 0, 0, 0, 0, loc).Format("January 2006"),
		Cells:  cells,
	}
}
