package email

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// Service sends transactional mail to veterinarians.
type Service interface {
	SendWelcome(to, firstName string) error
}

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type smtpService struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPService(cfg Config) Service {
	return &smtpService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *smtpService) SendWelcome(to, firstName string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Welcome to the clinic")
	m.SetBody("text/plain", fmt.Sprintf(
		"Hi %s,\n\nYour veterinarian account has been created. You can now log in with your email address.\n", firstName))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send welcome email: %w", err)
	}
	return nil
}

// Noop returns a Service that does nothing, for deployments without an
// SMTP relay and for tests.
func Noop() Service {
	return noopService{}
}

type noopService struct{}

func (noopService) SendWelcome(string, string) error { return nil }
