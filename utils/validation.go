// utils/validation.go
package utils

import (
	"regexp"
	"strings"
)

var phoneSeparators = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")

var phoneRegex = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)

// ValidatePhone checks if a phone number is in a valid international format:
// an optional + prefix followed by up to 15 digits.
func ValidatePhone(phone string) bool {
	return phoneRegex.MatchString(phoneSeparators.Replace(phone))
}
