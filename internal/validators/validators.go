package validators

import (
	"regexp"
	"strings"
)

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe = regexp.MustCompile(`^\+?[0-9 ]{6,20}$`)
)

func IsValidEmail(email string) bool {
	return emailRe.MatchString(strings.TrimSpace(email))
}

func IsValidPhone(phone string) bool {
	return phoneRe.MatchString(strings.TrimSpace(phone))
}
