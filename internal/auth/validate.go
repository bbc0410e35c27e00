package auth

import "strings"

// PinLength is the number of digits in an unlock code.
const PinLength = 4

// NormalizeSecret trims whitespace and drops control characters that come
// along with clipboard pastes.
func NormalizeSecret(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 32 || r == 0x7F {
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}

// ValidPin reports whether pin is exactly PinLength ASCII digits.
func ValidPin(pin string) bool {
	if len(pin) != PinLength {
		return false
	}
	for i := 0; i < len(pin); i++ {
		if pin[i] < '0' || pin[i] > '9' {
			return false
		}
	}
	return true
}

// DigitsOnly strips everything but ASCII digits, for PIN fields.
func DigitsOnly(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
