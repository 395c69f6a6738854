package email

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reportMessage() Message {
	return Message{
		From:    "reports@example.com",
		To:      []string{"a@example.com", "b@example.com"},
		Subject: "Monthly funding report",
		Text:    "See the attached report.",
		HTML:    "<html><body>report</body></html>",
		Tag:     "funding-report",
	}
}

func TestProviderValidate(t *testing.T) {
	for _, provider := range Providers() {
		assert.NoError(t, provider.Validate(), provider)
		assert.NotEmpty(t, provider.RequiredEnvVars(), provider)
	}

	err := Provider("postmark").Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownProvider))
	assert.Empty(t, Provider("postmark").RequiredEnvVars())
}

func TestParseRecipients(t *testing.T) {
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, ParseRecipients(" a@example.com, ,b@example.com "))
	assert.Nil(t, ParseRecipients(""))
}

func TestMessageValidate(t *testing.T) {
	assert.NoError(t, reportMessage().Validate())

	noSender := reportMessage()
	noSender.From = " "
	assert.True(t, errors.Is(noSender.Validate(), ErrInvalidMessage))

	noRecipients := reportMessage()
	noRecipients.To = nil
	assert.True(t, errors.Is(noRecipients.Validate(), ErrInvalidMessage))

	noBody := reportMessage()
	noBody.Text, noBody.HTML = "", ""
	assert.True(t, errors.Is(noBody.Validate(), ErrInvalidMessage))
}

func TestSendMessageDisabledSendsNothing(t *testing.T) {
	sendEmails := false
	messageID, e := SendMessage(context.Background(), Provider("unused"), &sendEmails, reportMessage())
	assert.Nil(t, e)
	assert.Empty(t, messageID)
}

func TestSendMessageRejectsInvalidMessage(t *testing.T) {
	sendEmails := true
	_, e := SendMessage(context.Background(), ProviderSendgrid, &sendEmails, Message{})
	require.NotNil(t, e)
	assert.True(t, errors.Is(e.Err, ErrInvalidMessage))
}

func TestNewSenderUnknownProvider(t *testing.T) {
	_, e := NewSender(context.Background(), Provider("postmark"), DefaultValueConfig())
	require.NotNil(t, e)
	assert.True(t, errors.Is(e.Err, ErrUnknownProvider))
}

type fakeSES struct {
	input *sesv2.SendEmailInput
	err   error
}

func (fake *fakeSES) SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	fake.input = params
	if fake.err != nil {
		return nil, fake.err
	}
	return &sesv2.SendEmailOutput{MessageId: aws.String("ses-1")}, nil
}

func TestSESSender(t *testing.T) {
	fake := &fakeSES{}
	messageID, e := send(context.Background(), &sesSender{client: fake}, ProviderSES, reportMessage())
	require.Nil(t, e)
	assert.Equal(t, "ses-1", messageID)

	assert.Equal(t, "reports@example.com", aws.ToString(fake.input.FromEmailAddress))
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, fake.input.Destination.ToAddresses)
	assert.Equal(t, "Monthly funding report", aws.ToString(fake.input.Content.Simple.Subject.Data))
	assert.Equal(t, "<html><body>report</body></html>", aws.ToString(fake.input.Content.Simple.Body.Html.Data))
	assert.Equal(t, "See the attached report.", aws.ToString(fake.input.Content.Simple.Body.Text.Data))
	require.Len(t, fake.input.EmailTags, 1)
	assert.Equal(t, "funding-report", aws.ToString(fake.input.EmailTags[0].Value))
}

func TestSESSenderError(t *testing.T) {
	fake := &fakeSES{err: errors.New("throttled")}
	_, e := (&sesSender{client: fake}).Send(context.Background(), reportMessage())
	require.NotNil(t, e)
	assert.Contains(t, e.Context, "a@example.com")
}

type fakeSendgrid struct {
	mail     *mail.SGMailV3
	response *rest.Response
}

func (fake *fakeSendgrid) SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error) {
	fake.mail = email
	return fake.response, nil
}

func TestSendgridSender(t *testing.T) {
	fake := &fakeSendgrid{response: &rest.Response{
		StatusCode: http.StatusAccepted,
		Headers:    map[string][]string{"X-Message-Id": {"sg-1"}},
	}}
	messageID, e := (&sendgridSender{client: fake}).Send(context.Background(), reportMessage())
	require.Nil(t, e)
	assert.Equal(t, "sg-1", messageID)

	require.Len(t, fake.mail.Personalizations, 1)
	assert.Len(t, fake.mail.Personalizations[0].To, 2)
	require.Len(t, fake.mail.Content, 2)
	assert.Equal(t, "text/plain", fake.mail.Content[0].Type)
	assert.Equal(t, "text/html", fake.mail.Content[1].Type)
	assert.Equal(t, []string{"funding-report"}, fake.mail.Categories)
}

func TestSendgridSenderRejectedStatus(t *testing.T) {
	fake := &fakeSendgrid{response: &rest.Response{StatusCode: http.StatusUnauthorized, Body: `{"errors":[]}`}}
	_, e := (&sendgridSender{client: fake}).Send(context.Background(), reportMessage())
	require.NotNil(t, e)
	assert.Contains(t, e.Err.Error(), "401")
}

func TestMailgunSender(t *testing.T) {
	var requestedPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestedPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"<mg-1@example.com>","message":"Queued. Thank you."}`))
	}))
	defer server.Close()

	sender := newMailgunSender("example.com", "key-test", server.URL+"/v3")
	messageID, e := sender.Send(context.Background(), reportMessage())
	require.Nil(t, e)
	assert.Equal(t, "<mg-1@example.com>", messageID)
	assert.Equal(t, "/v3/example.com/messages", requestedPath)
}
