package whatsapp

import (
	"fmt"

	"markiz-admin/config"
	"markiz-admin/logger"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Sender delivers WhatsApp messages through Twilio.
type Sender interface {
	Send(to, body string) error
}

type Service struct {
	client   *twilio.RestClient
	from     string
	disabled bool
}

func NewService(cfg *config.Config) *Service {
	svc := &Service{from: cfg.TwilioWhatsAppFrom}
	if cfg.TwilioAccountSID == "" || cfg.TwilioAuthToken == "" {
		// No Twilio credentials: log instead of sending.
		svc.disabled = true
		return svc
	}
	svc.client = twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.TwilioAccountSID,
		Password: cfg.TwilioAuthToken,
	})
	return svc
}

func (s *Service) Send(to, body string) error {
	if s.disabled {
		logger.Info(fmt.Sprintf("whatsapp (console): to=%s body=%q", to, body))
		return nil
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetFrom("whatsapp:" + s.from)
	params.SetTo("whatsapp:" + to)
	params.SetBody(body)

	if _, err := s.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("twilio send: %w", err)
	}
	return nil
}
