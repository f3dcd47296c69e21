package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"
)

type EmailService struct {
	client    *resend.Client
	fromEmail string
	isDev     bool
	appURL    string
	appName   string
}

func NewEmailService(apiKey, fromEmail, appURL, appName string, isDev bool) *EmailService {
	var client *resend.Client
	if apiKey != "" && !isDev {
		client = resend.NewClient(apiKey)
	}

	return &EmailService{
		client:    client,
		fromEmail: fromEmail,
		isDev:     isDev,
		appURL:    appURL,
		appName:   appName,
	}
}

// SendSignupPending tells the admin that an account is waiting for approval.
func (s *EmailService) SendSignupPending(ctx context.Context, adminEmail, userEmail string) error {
	adminURL := fmt.Sprintf("%s/#admin", s.appURL)
	subject, body := signupPendingEmailTemplate(userEmail, adminURL, s.appName)
	return s.send(ctx, "signup_pending", adminEmail, subject, body)
}

func (s *EmailService) SendAccountApproved(ctx context.Context, email string) error {
	subject, body := accountApprovedEmailTemplate(s.appURL, s.appName)
	return s.send(ctx, "account_approved", email, subject, body)
}

func (s *EmailService) send(ctx context.Context, kind, to, subject, body string) error {
	if s.isDev {
		slog.Info("email sent (dev mode)", "type", kind, "to", to, "subject", subject)
		return nil
	}

	if s.client == nil {
		return fmt.Errorf("email service not configured (missing RESEND_API_KEY)")
	}

	params := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{to},
		Subject: subject,
		Text:    body,
	}

	_, err := s.client.Emails.SendWithContext(ctx, params)
	if err == nil {
		slog.Info("email sent", "type", kind, "to", to)
	}
	return err
}
