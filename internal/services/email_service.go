package services

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type EmailService interface {
	SendOtpEmail(email, code string, ttlMinutes int) error
	SendWelcomeEmail(email, name string) error
}

type emailService struct {
	dialer   *gomail.Dialer
	from     string
	fromName string
}

func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail, fromName string) EmailService {
	dialer := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword)
	return &emailService{
		dialer:   dialer,
		from:     fromEmail,
		fromName: fromName,
	}
}

func (s *emailService) SendOtpEmail(email, code string, ttlMinutes int) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.from, s.fromName)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Password Reset OTP")

	body := fmt.Sprintf(`
		<h3>Password reset requested</h3>
		<p>We received a request to reset the password for your account.</p>
		<p>Your one-time code: <strong style="font-size:24px;letter-spacing:4px">%s</strong></p>
		<p>The code expires in %d minutes.</p>
		<p>If you did not request this change, you can ignore this email.</p>
	`, code, ttlMinutes)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send otp email: %w", err)
	}
	return nil
}

func (s *emailService) SendWelcomeEmail(email, name string) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.from, s.fromName)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Welcome to Office Hub!")

	body := fmt.Sprintf(`
		<h2>Welcome to Office Hub, %s!</h2>
		<p>Your account has been successfully created.</p>
		<p>Best regards,<br>The Office Hub Team</p>
	`, name)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send welcome email: %w", err)
	}
	return nil
}
