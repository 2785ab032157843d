package promo

import (
	"fmt"
	"strings"
	"time"
)

// GenerateCode derives a discount code from a user's name and the calendar
// month: the name is stripped to lowercase letters and suffixed with
// "_MMYY" (e.g. "johndoe_1224"). Deterministic for a given name and month.
func GenerateCode(name string, now time.Time) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(name) {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r - 'A' + 'a')
		}
	}

	return fmt.Sprintf("%s_%02d%02d", b.String(), int(now.Month()), now.Year()%100)
}
