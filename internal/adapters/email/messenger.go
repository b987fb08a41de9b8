package email

import (
	"context"
	"fmt"

	"crewmatch/internal/domain"
)

const notificationTemplate = "notification"

type messenger struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
}

// NewMessenger returns a domain.Messenger that delivers messages as rendered emails.
func NewMessenger(mailer domain.Mailer, renderer domain.EmailTemplateRenderer) domain.Messenger {
	return &messenger{mailer: mailer, renderer: renderer}
}

func (m *messenger) Send(ctx context.Context, endpoint domain.Endpoint, msg domain.Message) error {
	if endpoint.Channel != domain.ChannelEmail {
		return fmt.Errorf("email messenger cannot deliver to %s", endpoint.Channel)
	}
	subject, html, text, err := m.renderer.Render(notificationTemplate, domain.NotificationEmailData{
		Subject: msg.Subject,
		Lines:   msg.Lines,
	})
	if err != nil {
		return fmt.Errorf("render notification email: %w", err)
	}
	return m.mailer.Send(ctx, endpoint.Address, subject, html, text)
}
