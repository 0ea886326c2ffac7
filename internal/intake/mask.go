package intake

import "strings"

// maxPhoneDigits is the number of digits that fit in "(XX) XXXXX-XXXX".
const maxPhoneDigits = 11

// MaskPhone formats raw input as "(XX) XXXX-XXXX" or "(XX) XXXXX-XXXX".
// Non-digits are dropped and anything beyond 11 digits is truncated.
func MaskPhone(raw string) string {
	digits := UnmaskPhone(raw)
	if len(digits) > maxPhoneDigits {
		digits = digits[:maxPhoneDigits]
	}
	if len(digits) <= 2 {
		return digits
	}

	area, local := digits[:2], digits[2:]
	if len(local) > 4 {
		local = local[:len(local)-4] + "-" + local[len(local)-4:]
	}
	return "(" + area + ") " + local
}

// UnmaskPhone keeps only the ASCII digits of text.
func UnmaskPhone(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// WhatsAppLink builds a click-to-chat link for a stored phone number.
// It returns "" when the phone has no digits.
func WhatsAppLink(countryCode, phone string) string {
	digits := UnmaskPhone(phone)
	if digits == "" {
		return ""
	}
	return "https://wa.me/" + UnmaskPhone(countryCode) + digits
}
