package email

import (
	"context"

	"github.com/mailgun/mailgun-go/v4"
	"github.com/tuumbleweed/xerr"
)

type mailgunSender struct {
	client *mailgun.MailgunImpl
}

func newMailgunSender(domain string, apiKey string, apiBase string) *mailgunSender {
	client := mailgun.NewMailgun(domain, apiKey)
	if apiBase != "" {
		client.SetAPIBase(apiBase)
	}
	return &mailgunSender{client: client}
}

func (sender *mailgunSender) Send(ctx context.Context, message Message) (messageID string, e *xerr.Error) {
	mailgunMessage := mailgun.NewMessage(message.From, message.Subject, message.Text, message.To...)
	if message.HTML != "" {
		mailgunMessage.SetHtml(message.HTML)
	}
	if message.Tag != "" {
		tagErr := mailgunMessage.AddTag(message.Tag)
		if tagErr != nil {
			e = xerr.NewErrorECOL(tagErr, "tag mailgun message", "tag", message.Tag)
			return messageID, e
		}
	}

	_, messageID, err := sender.client.Send(ctx, mailgunMessage)
	if err != nil {
		e = xerr.NewErrorECOL(err, "send email via mailgun", "recipients", message.To)
		return messageID, e
	}
	return messageID, e
}
