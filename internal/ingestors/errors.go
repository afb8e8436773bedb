package ingestors

import (
	"fmt"

	"event-analytics/internal/shared/svcerrors"
)

// IngestionService errors
const (
	codeValidationFailed = "ING_1000"

	codeInternalEventStoreFailed = "ING_9000"
)

// errValidationFailed returns an error for webhook payload validation failures.
func errValidationFailed(msg string, cause error) *svcerrors.ServiceError {
	return svcerrors.NewInvalidArgumentError(codeValidationFailed, msg, cause)
}

// errInternalEventStoreFailed returns an error when persisting an event fails.
func errInternalEventStoreFailed(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInternalError(codeInternalEventStoreFailed, fmt.Errorf("eventStoreFailed: %w", cause))
}
