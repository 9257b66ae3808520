// Package email sends billing notices over SMTP. Delivery is best effort:
// webhook processing never fails because a notice could not be sent.
package email

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromAddress string
	FromName    string
	BaseURL     string // Base URL for email links (e.g., "http://localhost:8080")
}

// BillingNotifier sends subscription lifecycle notices to students' parents.
type BillingNotifier interface {
	SendPaymentFailedNotice(to, planName string) error
	SendSubscriptionPausedNotice(to string) error
	SendSubscriptionCancelledNotice(to string) error
}

type SMTPEmailService struct {
	config SMTPConfig
	dialer *gomail.Dialer
}

func NewSMTPEmailService(config SMTPConfig) *SMTPEmailService {
	dialer := gomail.NewDialer(config.Host, config.Port, config.Username, config.Password)

	return &SMTPEmailService{
		config: config,
		dialer: dialer,
	}
}

func (s *SMTPEmailService) SendPaymentFailedNotice(to, planName string) error {
	billingURL := fmt.Sprintf("%s/subscription", s.config.BaseURL)

	subject := "Payment Failed - Action Needed"
	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<h2>We couldn't process your payment</h2>
			<p>The latest payment for your %s plan did not go through. Your reading sessions stay available while we retry.</p>
			<p>To keep your subscription active, please update your payment details:</p>
			<p><a href="%s">Manage Subscription</a></p>
			<p>If you've already updated your payment method, you can ignore this email.</p>
		</body>
		</html>
	`, planName, billingURL)

	plainBody := fmt.Sprintf(`
We couldn't process your payment

The latest payment for your %s plan did not go through. Your reading sessions stay available while we retry.

To keep your subscription active, please update your payment details:
%s

If you've already updated your payment method, you can ignore this email.
	`, planName, billingURL)

	return s.sendEmail(to, subject, htmlBody, plainBody)
}

func (s *SMTPEmailService) SendSubscriptionPausedNotice(to string) error {
	billingURL := fmt.Sprintf("%s/subscription", s.config.BaseURL)

	subject := "Your Subscription Is Paused"
	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<h2>Subscription paused</h2>
			<p>Your subscription is paused and reading sessions are on hold. Your progress and transcripts are saved.</p>
			<p>You can resume any time:</p>
			<p><a href="%s">Manage Subscription</a></p>
		</body>
		</html>
	`, billingURL)

	plainBody := fmt.Sprintf(`
Subscription paused

Your subscription is paused and reading sessions are on hold. Your progress and transcripts are saved.

You can resume any time:
%s
	`, billingURL)

	return s.sendEmail(to, subject, htmlBody, plainBody)
}

func (s *SMTPEmailService) SendSubscriptionCancelledNotice(to string) error {
	subject := "Your Subscription Has Been Cancelled"
	htmlBody := `
		<html>
		<body>
			<h2>Subscription cancelled</h2>
			<p>Your subscription has been cancelled. Your reading history and transcripts remain available in your account.</p>
			<p>We'd love to have you back whenever you're ready.</p>
		</body>
		</html>
	`

	plainBody := `
Subscription cancelled

Your subscription has been cancelled. Your reading history and transcripts remain available in your account.

We'd love to have you back whenever you're ready.
	`

	return s.sendEmail(to, subject, htmlBody, plainBody)
}

func (s *SMTPEmailService) sendEmail(to, subject, htmlBody, plainBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.config.FromAddress)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", plainBody)
	m.AddAlternative("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
