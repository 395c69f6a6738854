package email

import (
	"errors"
	"strings"
)

var ErrInvalidMessage = errors.New("invalid email message")

/*
Message is provider independent. Text is the plain-text alternative to HTML.
*/
type Message struct {
	From    string
	To      []string
	Subject string
	Text    string
	HTML    string
	Tag     string
}

// ParseRecipients splits a comma separated list and drops blanks.
func ParseRecipients(raw string) (recipients []string) {
	for _, part := range strings.Split(raw, ",") {
		address := strings.TrimSpace(part)
		if address != "" {
			recipients = append(recipients, address)
		}
	}
	return recipients
}

func (message Message) Validate() error {
	if strings.TrimSpace(message.From) == "" {
		return errors.Join(ErrInvalidMessage, errors.New("sender is empty"))
	}
	if len(message.To) == 0 {
		return errors.Join(ErrInvalidMessage, errors.New("no recipients"))
	}
	if message.Text == "" && message.HTML == "" {
		return errors.Join(ErrInvalidMessage, errors.New("both text and html bodies are empty"))
	}
	return nil
}
