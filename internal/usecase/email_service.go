package usecase

import (
	"context"
	"strings"

	"tago-service/internal/domain/entity"
	"tago-service/internal/domain/repository"
	"tago-service/pkg/logger"
)

// EmailService manages the sender identity and the connection test
type EmailService struct {
	settings repository.EmailSettingsRepository
	mailer   repository.MailSender
	logger   logger.Logger
}

// NewEmailService creates an email service
func NewEmailService(settings repository.EmailSettingsRepository, mailer repository.MailSender, logger logger.Logger) *EmailService {
	return &EmailService{
		settings: settings,
		mailer:   mailer,
		logger:   logger,
	}
}

// GetSettings returns the sender identity; admins only
func (s *EmailService) GetSettings(ctx context.Context, viewer entity.Viewer) (*entity.EmailSettings, error) {
	if !viewer.IsAdmin() {
		return nil, ErrForbidden
	}
	return s.settings.Get(ctx)
}

// SaveSettings replaces the sender identity; admins only
func (s *EmailService) SaveSettings(ctx context.Context, viewer entity.Viewer, settings entity.EmailSettings) error {
	if !viewer.IsAdmin() {
		return ErrForbidden
	}
	settings.GmailAddress = strings.TrimSpace(settings.GmailAddress)
	settings.SenderName = strings.TrimSpace(settings.SenderName)
	return s.settings.Save(ctx, settings)
}

// Test checks the mail integration synchronously. With an empty to it only
// verifies the credentials; otherwise it sends a test message.
func (s *EmailService) Test(ctx context.Context, viewer entity.Viewer, to string) (entity.SendResult, error) {
	if !viewer.IsAdmin() {
		return entity.SendResult{}, ErrForbidden
	}

	to = strings.TrimSpace(to)
	var result entity.SendResult
	if to == "" {
		result = s.mailer.Verify(ctx)
	} else {
		result = s.mailer.Send(ctx, to, "TAGO System test email",
			"This is a test message from the TAGO group reservation tracker.")
	}

	s.logger.Info("Email connection test", "by", viewer.Username, "to", to, "success", result.Success)
	return result, nil
}
