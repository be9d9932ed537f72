package geocodio

import (
	"strings"

	"github.com/rotisserie/eris"
)

// ErrNoCredentials is returned once every configured API key has been
// rejected by the provider. It is fatal: no further network calls are made.
var ErrNoCredentials = eris.New("geocodio: no usable api keys remain")

// ProviderError is an application-level error reported by the geocod.io API
// (bad query, unsupported parameters, etc.). It is not retried.
type ProviderError struct {
	Message string
}

func (e *ProviderError) Error() string {
	return "geocodio: provider error: " + e.Message
}

// credentialRejectedError marks a key-level rejection. By the time it is
// returned the key cursor has already advanced past the rejected key.
type credentialRejectedError struct {
	message string
}

func (e *credentialRejectedError) Error() string {
	return "geocodio: api key rejected: " + e.message
}

// credentialErrorPrefixes are the provider error messages that indicate the
// current API key is unusable rather than the request being bad.
var credentialErrorPrefixes = []string{
	"Please add a payment method.",
	"Invalid API key",
	"This is just a demo account",
}

func isCredentialError(msg string) bool {
	for _, prefix := range credentialErrorPrefixes {
		if strings.HasPrefix(msg, prefix) {
			return true
		}
	}
	return false
}
