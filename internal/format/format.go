package format

import "strings"

const (
	cardNumberMaxDigits = 16
	cvvMaxLength        = 4
)

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// CardNumber strips everything but digits, caps at 16 digits and regroups
// them in blocks of four separated by single spaces. Re-applying it to its
// own output is a no-op.
func CardNumber(raw string) string {
	cleaned := digitsOnly(raw)
	if len(cleaned) > cardNumberMaxDigits {
		cleaned = cleaned[:cardNumberMaxDigits]
	}

	var b strings.Builder
	for i := 0; i < len(cleaned); i += 4 {
		if i > 0 {
			b.WriteByte(' ')
		}
		end := i + 4
		if end > len(cleaned) {
			end = len(cleaned)
		}
		b.WriteString(cleaned[i:end])
	}
	return b.String()
}

// ExpiryDate normalizes expiry input to MM/YY while the user types.
//
// The month is validated digit by digit: the first digit must be 0 or 1, and
// an impossible second digit ("00", "13".."19") truncates back to the single
// leading digit. An invalid first digit discards the whole edit. prev is the
// previously displayed value; when it ended in "MM/" and the new input lost
// the slash, the user backspaced over the separator and it is not re-inserted.
func ExpiryDate(prev, raw string) string {
	cleaned := digitsOnly(raw)

	if len(cleaned) >= 1 {
		if cleaned[0] != '0' && cleaned[0] != '1' {
			return ""
		}
	}

	if len(cleaned) >= 2 {
		if cleaned[0] == '0' && cleaned[1] == '0' {
			return cleaned[:1]
		}
		if cleaned[0] == '1' && cleaned[1] > '2' {
			return cleaned[:1]
		}

		if len(cleaned) == 2 && !strings.Contains(raw, "/") && prev == cleaned[:2]+"/" {
			return cleaned[:2]
		}

		rest := cleaned[2:]
		if len(rest) > 2 {
			rest = rest[:2]
		}
		return cleaned[:2] + "/" + rest
	}

	return cleaned
}

// CVV keeps digits only, at most four of them.
func CVV(raw string) string {
	cleaned := digitsOnly(raw)
	if len(cleaned) > cvvMaxLength {
		cleaned = cleaned[:cvvMaxLength]
	}
	return cleaned
}
