package service

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/bookhaven/bookstore-backend/internal/config"
	"github.com/bookhaven/bookstore-backend/internal/constants"
)

// EmailSender sends transactional emails. Implementations must be safe for
// concurrent use; the reset flow calls them from background goroutines.
type EmailSender interface {
	SendPasswordResetEmail(toEmail, toName, token string) error
}

// EmailService sends emails through SendGrid.
type EmailService struct {
	apiKey      string
	fromAddress string
	fromName    string
	baseURL     string
}

// NewEmailService creates a new EmailService from the application config.
func NewEmailService(cfg *config.AppConfig) (*EmailService, error) {
	if cfg.Email.SendGridAPIKey == "" {
		return nil, fmt.Errorf("sendgrid API key is not configured")
	}
	return &EmailService{
		apiKey:      cfg.Email.SendGridAPIKey,
		fromAddress: cfg.Email.FromAddress,
		fromName:    cfg.Email.FromName,
		baseURL:     cfg.App.BaseURL,
	}, nil
}

// SendPasswordResetEmail sends a password reset email containing a link with
// the plain reset token. The token is only ever emailed, never logged.
func (s *EmailService) SendPasswordResetEmail(toEmail, toName, token string) error {
	resetURL := fmt.Sprintf("%s%s?%s=%s", s.baseURL, constants.AuthResetPasswordPath, constants.QueryParamToken, token)

	from := mail.NewEmail(s.fromName, s.fromAddress)
	to := mail.NewEmail(toName, toEmail)
	subject := "Password Reset Request"
	plainTextContent := fmt.Sprintf("Please use the following link to reset your password: %s\n\nThe link expires in one hour. If you did not request a reset, you can ignore this email.", resetURL)
	htmlContent := fmt.Sprintf("<p>Please use the following link to reset your password: <a href=%q>Reset Password</a></p><p>The link expires in one hour. If you did not request a reset, you can ignore this email.</p>", resetURL)

	message := mail.NewSingleEmail(from, subject, to, plainTextContent, htmlContent)
	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		log.Error().Err(err).Msg("Failed to send password reset email")
		return err
	}

	log.Info().Int("status_code", response.StatusCode).Msg("Password reset email sent")
	return nil
}
