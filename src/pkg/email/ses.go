package email

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/tuumbleweed/xerr"
)

type sesAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

type sesSender struct {
	client sesAPI
}

func newSESSender(ctx context.Context) (sender *sesSender, e *xerr.Error) {
	awsConfig, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		e = xerr.NewError(err, "load AWS config", nil)
		return sender, e
	}
	sender = &sesSender{client: sesv2.NewFromConfig(awsConfig)}
	return sender, e
}

func (sender *sesSender) Send(ctx context.Context, message Message) (messageID string, e *xerr.Error) {
	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(message.From),
		Destination:      &types.Destination{ToAddresses: message.To},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: utf8Content(message.Subject),
				Body:    &types.Body{},
			},
		},
	}
	if message.HTML != "" {
		input.Content.Simple.Body.Html = utf8Content(message.HTML)
	}
	if message.Text != "" {
		input.Content.Simple.Body.Text = utf8Content(message.Text)
	}
	if message.Tag != "" {
		input.EmailTags = []types.MessageTag{{Name: aws.String("report"), Value: aws.String(message.Tag)}}
	}

	output, err := sender.client.SendEmail(ctx, input)
	if err != nil {
		e = xerr.NewErrorECOL(err, "send email via SES", "recipients", message.To)
		return messageID, e
	}

	messageID = aws.ToString(output.MessageId)
	return messageID, e
}

func utf8Content(data string) *types.Content {
	return &types.Content{Data: aws.String(data), Charset: aws.String("UTF-8")}
}
