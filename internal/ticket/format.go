package ticket

import (
	"strconv"
	"strings"
	"time"
)

// CurrencySuffix is appended to every formatted amount
const CurrencySuffix = " COP"

// FormatCOP formats an integer peso amount with dot thousands grouping,
// e.g. 265000 -> "265.000 COP".
func FormatCOP(amount int64) string {
	return groupThousands(amount) + CurrencySuffix
}

func groupThousands(n int64) string {
	neg := n < 0
	if neg {
		n = -n
	}
	digits := strconv.FormatInt(n, 10)

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	lead := len(digits) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(digits[:lead])
	for i := lead; i < len(digits); i += 3 {
		b.WriteByte('.')
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// FormatDate renders an ISO date as "Saturday, 14 March 2026".
// Unparseable input is returned unchanged.
func FormatDate(iso string) string {
	d, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return iso
	}
	return d.Format("Monday, 2 January 2006")
}
