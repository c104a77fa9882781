package model

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a registered account in the system
type User struct {
	ID               string     `json:"id"`
	Username         string     `json:"username"`
	Email            string     `json:"email"`
	PasswordHash     string     `json:"-"` // Never expose the password hash in JSON responses
	PhoneNumber      string     `json:"phoneNumber"`
	Role             string     `json:"role"`
	ResetToken       *string    `json:"-"` // Set only while a password reset is outstanding
	ResetTokenExpiry *time.Time `json:"-"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}
