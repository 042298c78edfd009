package flow

import (
	"fmt"
	"regexp"
	"strings"
)

// ValidationError is a client-side form constraint violation, caught
// before any network call is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateRegistration enforces the registration form constraints.
func ValidateRegistration(in RegisterInput) error {
	if len(strings.TrimSpace(in.Name)) < 3 {
		return &ValidationError{Field: "name", Reason: "must be at least 3 characters"}
	}
	if !emailPattern.MatchString(in.Email) {
		return &ValidationError{Field: "email", Reason: "invalid email address"}
	}
	if err := validatePassword(in.Password); err != nil {
		return err
	}
	if in.Image == nil {
		return &ValidationError{Field: "image", Reason: "profile image is required"}
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return &ValidationError{Field: "password", Reason: "minimum 8 characters"}
	}
	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune("@$!%*?#&", r):
			special = true
		}
	}
	if !upper || !lower || !digit || !special {
		return &ValidationError{
			Field:  "password",
			Reason: "uppercase, lowercase, number & special character required",
		}
	}
	return nil
}
