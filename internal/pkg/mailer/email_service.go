package mailer

import (
	"fmt"
	"html"

	"datahub-portal-be/internal/pkg/logger"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendConciergeAssigned(toEmail, conciergeName, organizationName string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	senderName  string
	portalURL   string
	logger      logger.ILogger
}

// NewEmailService returns a mailer that only logs when host is empty, so
// local setups run without SMTP.
func NewEmailService(host string, port int, username, password, senderName, portalURL string, logger logger.ILogger) IEmailService {
	var d *gomail.Dialer
	if host != "" {
		d = gomail.NewDialer(host, port, username, password)
	}

	return &emailService{
		dialer:      d,
		senderEmail: username,
		senderName:  senderName,
		portalURL:   portalURL,
		logger:      logger,
	}
}

func (s *emailService) SendConciergeAssigned(toEmail, conciergeName, organizationName string) error {
	if s.dialer == nil {
		s.logger.Info("MAILER", "SMTP not configured, skipping concierge email", map[string]interface{}{"to": toEmail})
		return nil
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", fmt.Sprintf("You are now the Data Concierge for %s", organizationName))
	m.SetBody("text/html", conciergeAssignedBody(conciergeName, organizationName, s.portalURL))

	if err := s.dialer.DialAndSend(m); err != nil {
		s.logger.Error("MAILER", "Failed to send concierge email", map[string]interface{}{"to": toEmail, "error": err.Error()})
		return err
	}

	s.logger.Info("MAILER", "Concierge email sent", map[string]interface{}{"to": toEmail})
	return nil
}

func conciergeAssignedBody(conciergeName, organizationName, portalURL string) string {
	return fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Hello %s,</h2>
			<p>You have been assigned as the Data Concierge for the program <strong>%s</strong>.</p>
			<p>Open submissions of this program now list you as their primary contact.</p>
			<a href="%s/programs" style="background-color: #005EA2; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block;">Open the Submission Portal</a>
		</div>
	`, html.EscapeString(conciergeName), html.EscapeString(organizationName), portalURL)
}
