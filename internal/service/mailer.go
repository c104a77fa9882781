package service

import (
	"context"
	"log"
)

// Mailer delivers password-reset notifications. Delivery is an external
// collaborator; the service only requires that it is invoked after the
// reset token has been persisted.
type Mailer interface {
	SendPasswordReset(ctx context.Context, email, token string) error
}

// LogMailer is a stand-in Mailer that records the send instead of
// delivering anything.
type LogMailer struct{}

func (LogMailer) SendPasswordReset(_ context.Context, email, _ string) error {
	log.Printf("INFO: Password reset email queued for %s", email)
	return nil
}
