package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// ResetTokenValidity is how long a password reset token stays usable.
const ResetTokenValidity = time.Hour

// ResetTokenBytes is the entropy of a reset token before hex encoding.
const ResetTokenBytes = 32

// GenerateResetToken produces a random opaque reset token and its expiry
func GenerateResetToken() (string, time.Time, error) {
	buf := make([]byte, ResetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate reset token: %w", err)
	}
	return hex.EncodeToString(buf), time.Now().Add(ResetTokenValidity), nil
}
