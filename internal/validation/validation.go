// Package validation holds the field-level rules for account input,
// kept separate from the storage layer so the service can validate
// before constructing a record.
package validation

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

const MinPasswordLength = 6

// Error describes a single invalid input field
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Username trims the username and requires it to be non-empty
func Username(username string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", &Error{Field: "username", Message: "username is required"}
	}
	return username, nil
}

// Email trims and lower-cases the email and checks its syntax
func Email(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", &Error{Field: "email", Message: "email is required"}
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", &Error{Field: "email", Message: "email is invalid"}
	}
	return email, nil
}

// Password enforces the password content policy on the plaintext
func Password(password string) error {
	if len(password) < MinPasswordLength {
		return &Error{Field: "password", Message: fmt.Sprintf("password must be at least %d characters", MinPasswordLength)}
	}
	if strings.Contains(strings.ToLower(password), "password") {
		return &Error{Field: "password", Message: `password cannot contain "password"`}
	}
	return nil
}

// PhoneNumber parses an internationally-formatted phone number and
// normalizes it to E.164. Numbers without a country prefix are rejected.
func PhoneNumber(phone string) (string, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return "", &Error{Field: "phoneNumber", Message: "phone number is required"}
	}
	num, err := phonenumbers.Parse(phone, "")
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return "", &Error{Field: "phoneNumber", Message: fmt.Sprintf("%s is not a valid phone number", phone)}
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}
