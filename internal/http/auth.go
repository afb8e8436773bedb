package http

import (
	"crypto/subtle"

	"event-analytics/internal/shared/svcerrors"
)

// Auth error codes
const (
	codeAPIKeyRequired      = "AUTH_1000"
	codeAPIKeyInvalid       = "AUTH_1001"
	codeBearerTokenRequired = "AUTH_1002"
	codeBearerTokenInvalid  = "AUTH_1003"
)

// CredentialVerifier is the identity-provider collaborator: the router only
// asks yes/no questions about presented credentials. The static
// implementation below verifies against configured values; a real deployment
// would swap in a provider-backed one.
type CredentialVerifier interface {
	VerifyAPIKey(key string) bool
	VerifyBearerToken(token string) bool
}

type staticCredentialVerifier struct {
	apiKey      string
	bearerToken string
}

func NewStaticCredentialVerifier(apiKey, bearerToken string) CredentialVerifier {
	return &staticCredentialVerifier{
		apiKey:      apiKey,
		bearerToken: bearerToken,
	}
}

func (v *staticCredentialVerifier) VerifyAPIKey(key string) bool {
	return subtle.ConstantTimeCompare([]byte(key), []byte(v.apiKey)) == 1
}

func (v *staticCredentialVerifier) VerifyBearerToken(token string) bool {
	return subtle.ConstantTimeCompare([]byte(token), []byte(v.bearerToken)) == 1
}

func errAPIKeyRequired() *svcerrors.ServiceError {
	return svcerrors.NewUnauthorizedError(codeAPIKeyRequired, "API key required", nil)
}

func errAPIKeyInvalid() *svcerrors.ServiceError {
	return svcerrors.NewUnauthorizedError(codeAPIKeyInvalid, "invalid API key", nil)
}

func errBearerTokenRequired() *svcerrors.ServiceError {
	return svcerrors.NewUnauthorizedError(codeBearerTokenRequired, "access token required", nil)
}

func errBearerTokenInvalid() *svcerrors.ServiceError {
	return svcerrors.NewForbiddenError(codeBearerTokenInvalid, "invalid access token", nil)
}
