package user

import (
	"regexp"
	"strings"
)

const (
	ChannelPhone = "phone"
	ChannelEmail = "email"

	countryPrefix = "+91"
)

var (
	phonePattern = regexp.MustCompile(`^\+91[6-9][0-9]{9}$`)
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// NormalizePhone strips separators and prefixes +91 when the number has no
// country code.
func NormalizePhone(phone string) string {
	cleaned := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(strings.TrimSpace(phone))
	if strings.HasPrefix(cleaned, countryPrefix) {
		return cleaned
	}
	return countryPrefix + cleaned
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeIdentifier returns the canonical form used for storage and OTP
// keys.
func NormalizeIdentifier(identifier, channel string) (string, error) {
	switch channel {
	case ChannelPhone:
		phone := NormalizePhone(identifier)
		if !phonePattern.MatchString(phone) {
			return "", ErrInvalidIdentifier
		}
		return phone, nil
	case ChannelEmail:
		email := NormalizeEmail(identifier)
		if !emailPattern.MatchString(email) {
			return "", ErrInvalidIdentifier
		}
		return email, nil
	default:
		return "", ErrInvalidChannel
	}
}
