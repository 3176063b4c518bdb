package utils

import "strings"

// Valid phone lengths, in digits, after normalization
const (
	MinPhoneDigits = 9
	MaxPhoneDigits = 15
)

// NormalizePhone removes every non-digit character
func NormalizePhone(phone string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
}

// IsValidPhone checks a normalized phone number
func IsValidPhone(normalized string) bool {
	if len(normalized) < MinPhoneDigits || len(normalized) > MaxPhoneDigits {
		return false
	}
	return NormalizePhone(normalized) == normalized
}

// MaskPhone keeps the first and last three digits, like 052******567
func MaskPhone(phone string) string {
	if len(phone) <= 6 {
		return phone
	}
	return phone[:3] + "******" + phone[len(phone)-3:]
}

// MaskName shortens a full name to the first name and the initial of the second
func MaskName(fullName string) string {
	parts := strings.Fields(fullName)
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	}
	return parts[0] + " " + string([]rune(parts[1])[0]) + "."
}

// InternationalPhone converts a local number with a leading zero to the
// international form expected by WhatsApp, e.g. 0521234567 -> 972521234567.
func InternationalPhone(phone, countryCode string) string {
	p := NormalizePhone(phone)
	if strings.HasPrefix(p, "0") && countryCode != "" {
		return countryCode + p[1:]
	}
	return p
}
