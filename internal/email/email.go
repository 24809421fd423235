package email

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/FastFix-SF/west-peak-roofing-app/internal/config"
	"github.com/FastFix-SF/west-peak-roofing-app/internal/entity"
	"github.com/mbeoliero/kit/log"
)

// Sender delivers lead notifications to the office inbox over SMTP
type Sender struct {
	cfg *config.SMTPConfig
}

// NewSender creates a new Sender
func NewSender(cfg *config.SMTPConfig) *Sender {
	return &Sender{cfg: cfg}
}

// SendLeadNotification emails the office about a new contact-form lead.
// Without SMTP credentials the notification is logged instead of sent,
// so local setups work without a mail account.
func (s *Sender) SendLeadNotification(ctx context.Context, lead *entity.Lead) error {
	if s.cfg.Email == "" || s.cfg.Password == "" {
		log.CtxInfo(ctx, "smtp credentials not set, skipping lead notification: lead_id=%s, name=%s", lead.Id, lead.Name)
		return nil
	}

	from := s.cfg.Email
	address := s.cfg.Host + ":" + s.cfg.Port

	subject := fmt.Sprintf("Subject: New lead: %s (%s)\n", lead.Name, lead.Service)
	mime := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n\n"
	body := fmt.Sprintf(`
		<html>
			<body>
				<h2>New contact form submission</h2>
				<p><b>Name:</b> %s</p>
				<p><b>Email:</b> %s</p>
				<p><b>Phone:</b> %s</p>
				<p><b>City:</b> %s</p>
				<p><b>Service:</b> %s</p>
				<p><b>Message:</b> %s</p>
				<p><b>Source page:</b> %s</p>
			</body>
		</html>
	`, lead.Name, lead.Email, lead.Phone, lead.City, lead.Service, lead.Message, lead.SourcePage)

	message := []byte(subject + mime + body)
	auth := smtp.PlainAuth("", from, s.cfg.Password, s.cfg.Host)

	if err := smtp.SendMail(address, auth, from, []string{s.cfg.NotifyTo}, message); err != nil {
		return fmt.Errorf("failed to send lead notification: %w", err)
	}
	return nil
}
