package email

import (
	"context"
	"errors"
	"fmt"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/tuumbleweed/xerr"
)

type sendgridAPI interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

type sendgridSender struct {
	client sendgridAPI
}

func newSendgridSender(apiKey string) *sendgridSender {
	return &sendgridSender{client: sendgrid.NewSendClient(apiKey)}
}

func (sender *sendgridSender) Send(ctx context.Context, message Message) (messageID string, e *xerr.Error) {
	response, err := sender.client.SendWithContext(ctx, sendgridMail(message))
	if err != nil {
		e = xerr.NewErrorECOL(err, "send email via sendgrid", "recipients", message.To)
		return messageID, e
	}

	if response.StatusCode >= 300 {
		statusErr := fmt.Errorf("unexpected status %d", response.StatusCode)
		e = xerr.NewErrorECOL(errors.Join(statusErr, errors.New(response.Body)), "send email via sendgrid", "recipients", message.To)
		return messageID, e
	}

	if ids := response.Headers["X-Message-Id"]; len(ids) > 0 {
		messageID = ids[0]
	}
	return messageID, e
}

func sendgridMail(message Message) *mail.SGMailV3 {
	sendgridMessage := mail.NewV3Mail()
	sendgridMessage.SetFrom(mail.NewEmail("", message.From))
	sendgridMessage.Subject = message.Subject

	personalization := mail.NewPersonalization()
	for _, recipient := range message.To {
		personalization.AddTos(mail.NewEmail("", recipient))
	}
	sendgridMessage.AddPersonalizations(personalization)

	// Plain text has to come before HTML.
	if message.Text != "" {
		sendgridMessage.AddContent(mail.NewContent("text/plain", message.Text))
	}
	if message.HTML != "" {
		sendgridMessage.AddContent(mail.NewContent("text/html", message.HTML))
	}
	if message.Tag != "" {
		sendgridMessage.AddCategories(message.Tag)
	}
	return sendgridMessage
}
