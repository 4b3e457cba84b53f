package validation

import (
	"regexp"
)

// emailRe mirrors the classic permissive form check: something@something.tld
// with no whitespace.
var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func IsValidEmail(email string) bool {
	return emailRe.MatchString(email)
}
