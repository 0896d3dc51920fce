package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"net/mail"
	"strings"

	"tago-service/internal/domain/entity"
	"tago-service/internal/domain/repository"
	"tago-service/pkg/logger"

	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// GmailSender sends reminder mail through the Gmail API
type GmailSender struct {
	gmailService *gmail.Service
	settingsRepo repository.EmailSettingsRepository
	fallbackFrom string
	logger       logger.Logger
}

// NewGmailSender creates a sender authorised by tokenSource. fallbackFrom is
// used when no sender address has been saved in the email settings.
func NewGmailSender(ctx context.Context, tokenSource oauth2.TokenSource, settingsRepo repository.EmailSettingsRepository, fallbackFrom string, logger logger.Logger) (*GmailSender, error) {
	service, err := gmail.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		return nil, err
	}
	return NewGmailSenderWithService(service, settingsRepo, fallbackFrom, logger), nil
}

// NewGmailSenderWithService wraps an already configured Gmail service
func NewGmailSenderWithService(service *gmail.Service, settingsRepo repository.EmailSettingsRepository, fallbackFrom string, logger logger.Logger) *GmailSender {
	return &GmailSender{
		gmailService: service,
		settingsRepo: settingsRepo,
		fallbackFrom: fallbackFrom,
		logger:       logger,
	}
}

// Send delivers a plain text message. Failures are reported in the
// result, never as a panic or error.
func (s *GmailSender) Send(ctx context.Context, to, subject, body string) entity.SendResult {
	if strings.TrimSpace(to) == "" {
		return entity.SendResult{Success: false, Message: "no recipient"}
	}

	raw, err := s.buildMessage(ctx, to, subject, body)
	if err != nil {
		return entity.SendResult{Success: false, Message: err.Error()}
	}

	msg := &gmail.Message{Raw: base64.URLEncoding.EncodeToString(raw)}
	sent, err := s.gmailService.Users.Messages.Send("me", msg).Context(ctx).Do()
	if err != nil {
		s.logger.Error("Failed to send message", "to", to, "subject", subject, "error", err)
		return entity.SendResult{Success: false, Message: err.Error()}
	}

	s.logger.Info("Message sent", "to", to, "messageId", sent.Id)
	return entity.SendResult{Success: true, Message: "sent", MessageID: sent.Id}
}

// Verify checks the credentials by reading the account profile
func (s *GmailSender) Verify(ctx context.Context) entity.SendResult {
	profile, err := s.gmailService.Users.GetProfile("me").Context(ctx).Do()
	if err != nil {
		return entity.SendResult{Success: false, Message: err.Error()}
	}
	return entity.SendResult{Success: true, Message: fmt.Sprintf("connected as %s", profile.EmailAddress)}
}

func (s *GmailSender) buildMessage(ctx context.Context, to, subject, body string) ([]byte, error) {
	from, err := s.fromHeader(ctx)
	if err != nil {
		return nil, err
	}
	recipients, err := toHeader(to)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	if from != "" {
		b.WriteString("From: " + from + "\r\n")
	}
	b.WriteString("To: " + recipients + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", subject) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("Content-Transfer-Encoding: 8bit\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	return []byte(b.String()), nil
}

func (s *GmailSender) fromHeader(ctx context.Context) (string, error) {
	address := s.fallbackFrom
	name := ""

	if s.settingsRepo != nil {
		settings, err := s.settingsRepo.Get(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to load email settings: %w", err)
		}
		if settings.GmailAddress != "" {
			address = settings.GmailAddress
		}
		name = settings.SenderName
	}

	if address == "" {
		// Gmail fills in the authenticated account
		return "", nil
	}
	parsed, err := mail.ParseAddress(address)
	if err != nil {
		return "", fmt.Errorf("invalid sender address %q: %w", address, err)
	}
	return (&mail.Address{Name: name, Address: parsed.Address}).String(), nil
}

// toHeader parses a comma separated recipient list. Anything that is not a
// clean address list is rejected so it cannot add header lines.
func toHeader(to string) (string, error) {
	if strings.ContainsAny(to, "\r\n") {
		return "", fmt.Errorf("invalid recipient %q: line break in address", to)
	}
	list, err := mail.ParseAddressList(to)
	if err != nil {
		return "", fmt.Errorf("invalid recipient %q: %w", to, err)
	}

	parts := make([]string, 0, len(list))
	for _, addr := range list {
		if addr.Name == "" {
			parts = append(parts, addr.Address)
			continue
		}
		parts = append(parts, addr.String())
	}
	return strings.Join(parts, ", "), nil
}

// NoopSender logs instead of sending. It is used when Gmail credentials
// are not configured.
type NoopSender struct {
	logger logger.Logger
}

// NewNoopSender creates a sender that never delivers
func NewNoopSender(logger logger.Logger) *NoopSender {
	return &NoopSender{logger: logger}
}

func (s *NoopSender) Send(ctx context.Context, to, subject, body string) entity.SendResult {
	s.logger.Warn("Gmail is not configured, message dropped", "to", to, "subject", subject)
	return entity.SendResult{Success: false, Message: "email integration is not configured"}
}

func (s *NoopSender) Verify(ctx context.Context) entity.SendResult {
	return entity.SendResult{Success: false, Message: "email integration is not configured"}
}
