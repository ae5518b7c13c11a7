package identity

import "regexp"

// Conventional local@domain.tld shape. Checked before any provider call so a
// junk address never costs a network round trip.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}
