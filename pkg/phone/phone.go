package phone

import (
	"errors"
	"strings"
)

// ErrInvalidPhone is returned when input holds fewer than 10 digits.
var ErrInvalidPhone = errors.New("phone: invalid phone number")

// Normalize filters non-digit characters out of raw input and formats the
// result in the canonical grouping used everywhere as the member lookup key:
// 11 digits become NNN-NNNN-NNNN, legacy 10-digit numbers NNN-NNN-NNNN.
// Already-formatted input normalizes to itself.
func Normalize(raw string) (string, error) {
	digits := onlyDigits(raw)
	switch {
	case len(digits) == 11:
		return digits[:3] + "-" + digits[3:7] + "-" + digits[7:], nil
	case len(digits) == 10:
		return digits[:3] + "-" + digits[3:6] + "-" + digits[6:], nil
	default:
		return "", ErrInvalidPhone
	}
}

func onlyDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
