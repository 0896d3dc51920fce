package repository

import (
	"context"

	"tago-service/internal/domain/entity"
)

// MailSender is the outgoing mail collaborator. Implementations must be
// safe to call once per reminder without shared mutable state.
type MailSender interface {
	Send(ctx context.Context, to, subject, body string) entity.SendResult
	// Verify checks the sending credentials without sending mail
	Verify(ctx context.Context) entity.SendResult
}
