// Package email delivers the rendered report through one of the supported providers.
package email

import (
	"errors"
	"fmt"
	"slices"
)

type Provider string

const (
	ProviderSES      Provider = "ses"
	ProviderMailgun  Provider = "mailgun"
	ProviderSendgrid Provider = "sendgrid"
)

var ErrUnknownProvider = errors.New("unknown email provider")

var providerEnvVars = map[Provider][]string{
	ProviderSES:      {"AWS_ACCESS_KEY_ID", "AWS_SECRET_ACCESS_KEY", "AWS_REGION"},
	ProviderMailgun:  {"MAILGUN_DOMAIN", "MAILGUN_API_KEY"},
	ProviderSendgrid: {"SENDGRID_API_KEY"},
}

func Providers() []Provider {
	return []Provider{ProviderSES, ProviderMailgun, ProviderSendgrid}
}

func (provider Provider) Validate() error {
	if slices.Contains(Providers(), provider) {
		return nil
	}
	return fmt.Errorf("%w: '%s', expected one of %v", ErrUnknownProvider, provider, Providers())
}

// RequiredEnvVars lists the credentials a provider reads from the environment.
func (provider Provider) RequiredEnvVars() []string {
	return slices.Clone(providerEnvVars[provider])
}
