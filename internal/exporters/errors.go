package exporters

import (
	"fmt"

	"event-analytics/internal/shared/svcerrors"
)

// ExportService errors
const (
	codeInternalEventStoreFailed = "EXP_9000"
)

// errInternalEventStoreFailed returns an error when reading events for an export fails.
func errInternalEventStoreFailed(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInternalError(codeInternalEventStoreFailed, fmt.Errorf("eventStoreFailed: %w", cause))
}
