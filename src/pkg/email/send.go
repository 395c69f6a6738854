package email

import (
	"context"
	"os"
	"time"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"
)

/*
Sender sends a message and returns the provider's message id.
*/
type Sender interface {
	Send(ctx context.Context, message Message) (messageID string, e *xerr.Error)
}

/*
NewSender builds a sender for provider with credentials from the environment.
*/
func NewSender(ctx context.Context, provider Provider, emailConfig Config) (sender Sender, e *xerr.Error) {
	validateErr := provider.Validate()
	if validateErr != nil {
		e = xerr.NewError(validateErr, "pick email provider", provider)
		return sender, e
	}

	switch provider {
	case ProviderSES:
		sender, e = newSESSender(ctx)
	case ProviderMailgun:
		sender = newMailgunSender(os.Getenv("MAILGUN_DOMAIN"), os.Getenv("MAILGUN_API_KEY"), emailConfig.MailgunAPIBase)
	case ProviderSendgrid:
		sender = newSendgridSender(os.Getenv("SENDGRID_API_KEY"))
	}
	return sender, e
}

/*
SendMessage validates the message and hands it to the provider.

When sendEmails is nil or false nothing is sent; the message is only logged.
*/
func SendMessage(ctx context.Context, provider Provider, sendEmails *bool, message Message) (messageID string, e *xerr.Error) {
	validateErr := message.Validate()
	if validateErr != nil {
		e = xerr.NewErrorECOL(validateErr, "validate email message", "subject", message.Subject)
		return messageID, e
	}

	if sendEmails == nil || !*sendEmails {
		tl.Log(tl.Notice, palette.Yellow, "Sending is %s, would send '%s' to %v via %s", "disabled", message.Subject, message.To, provider)
		return messageID, e
	}

	sender, e := NewSender(ctx, provider, Cfg)
	if e != nil {
		return messageID, e
	}

	return send(ctx, sender, provider, message)
}

func send(ctx context.Context, sender Sender, provider Provider, message Message) (messageID string, e *xerr.Error) {
	timeout := time.Duration(Cfg.TimeoutSeconds) * time.Second
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	tl.Log(tl.Info, palette.Blue, "Sending '%s' from '%s' to %v via %s", message.Subject, message.From, message.To, provider)
	messageID, e = sender.Send(ctx, message)
	if e != nil {
		return messageID, e
	}

	tl.Log(tl.Info1, palette.Green, "Sent '%s' via %s, message id '%s'", message.Subject, provider, messageID)
	return messageID, e
}
