package email

import (
	"fmt"

	"markiz-admin/config"
	"markiz-admin/logger"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Sender delivers transactional mail through SendGrid. Sends are
// fire-and-forget from the caller's perspective: failures are logged, never
// returned to the client, because the triggering write already succeeded.
type Sender interface {
	Send(to, subject, body string) error
}

type Service struct {
	client   *sendgrid.Client
	from     *sgmail.Email
	disabled bool
}

func NewService(cfg *config.Config) *Service {
	svc := &Service{
		from: sgmail.NewEmail(cfg.EmailFromName, cfg.EmailFrom),
	}
	if cfg.SendGridAPIKey == "" {
		// Without a key, sends are logged to the console instead. Keeps
		// development environments working without a SendGrid account.
		svc.disabled = true
		return svc
	}
	svc.client = sendgrid.NewSendClient(cfg.SendGridAPIKey)
	return svc
}

func (s *Service) Send(to, subject, body string) error {
	if s.disabled {
		logger.Info(fmt.Sprintf("email (console): to=%s subject=%q body=%q", to, subject, body))
		return nil
	}

	message := sgmail.NewSingleEmail(s.from, subject, sgmail.NewEmail("", to), body, body)
	resp, err := s.client.Send(message)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid send: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}
