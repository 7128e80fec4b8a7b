// Package validation provides input validation utilities
package validation

import (
	"errors"
	"regexp"
	"strings"
)

// MinFieldLength is the minimum length enforced for passwords, titles and
// content alike.
const MinFieldLength = 5

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail checks basic email format.
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) || len(email) > 254 {
		return errors.New("Email is invalid.")
	}
	return nil
}

// ValidatePassword checks that a password is present and long enough.
func ValidatePassword(password string) error {
	if strings.TrimSpace(password) == "" || len(password) < MinFieldLength {
		return errors.New("Password is missing or too short.")
	}
	return nil
}

// ValidateTitle checks that a post title is present and long enough.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" || len(title) < MinFieldLength {
		return errors.New("Title is missing or too short.")
	}
	return nil
}

// ValidateContent checks that post content is present and long enough.
func ValidateContent(content string) error {
	if strings.TrimSpace(content) == "" || len(content) < MinFieldLength {
		return errors.New("Content is missing or too short.")
	}
	return nil
}

// Collect gathers the messages of all failed checks, one per violated rule,
// preserving order. It returns nil when every check passed.
func Collect(checks ...error) []string {
	var messages []string
	for _, err := range checks {
		if err != nil {
			messages = append(messages, err.Error())
		}
	}
	return messages
}
